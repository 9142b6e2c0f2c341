package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"profiledash/internal/auth"
	"profiledash/internal/config"
	"profiledash/internal/logging"
	"profiledash/internal/page"
)

var serveFlags struct {
	addr   string
	policy string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard page over HTTP",
	Long: `Serve the dashboard at / and reload the profile on every page view.

When the token is stored in the token file, /login signs in through the
platform and /logout ends the session. With $PROFILEDASH_TOKEN set the
login surface is disabled.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.addr, "addr", "", "Listen address (default serve.addr, "+config.DefaultAddr+")")
	f.StringVar(&serveFlags.policy, "policy", "", "Fetch policy: fail-fast or best-effort (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	a, err := newApp(cfg, serveFlags.policy, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	opts := []page.Option{page.WithLogger(logging.New("serve"))}
	if a.files != nil {
		timeout, err := cfg.TimeoutDuration()
		if err != nil {
			return err
		}
		client := &http.Client{Timeout: timeout}
		signin := func(ctx context.Context, login, password string) (string, error) {
			return auth.Signin(ctx, client, cfg.SigninEndpoint, login, password)
		}
		opts = append(opts, page.WithSignin(signin, a.files))
	}
	srv := page.NewServer(a.load, opts...)

	addr := cfg.Serve.Addr
	if serveFlags.addr != "" {
		addr = serveFlags.addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return page.ListenAndServe(ctx, addr, srv.Handler(), logging.New("serve"))
}
