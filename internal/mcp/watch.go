package mcp

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// DefaultWatchInterval is how often WatchParent polls the parent pid.
var DefaultWatchInterval = 2 * time.Second

// WatchParent calls cancel when the parent process goes away (the MCP client
// exited without closing stdin), so the server does not linger as an orphan.
//
// It must not read stdin: the stdio transport owns it.
//
// The goroutine exits when ctx is done or after calling cancel.
func WatchParent(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger) {
	ppid := os.Getppid()
	ticker := time.NewTicker(DefaultWatchInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if os.Getppid() != ppid {
					logger.Warn("parent process exited, shutting down", slog.Int("ppid", ppid))
					cancel()
					return
				}
			}
		}
	}()
}
