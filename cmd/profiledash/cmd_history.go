package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"profiledash/internal/format"
)

var historyFlags struct {
	login  string
	limit  int
	format string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded dashboard snapshots",
	Long: `List the snapshots recorded by successful dashboard loads, newest first,
with XP, audit totals and the XP change since the previous snapshot.

Without --login the only recorded login is used.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVarP(&historyFlags.login, "login", "l", "", "Login to show (default: the only recorded login)")
	f.IntVarP(&historyFlags.limit, "limit", "n", 10, "Maximum number of snapshots (0 = all)")
	f.StringVarP(&historyFlags.format, "format", "f", "table", "Output format: table, markdown or json")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyFlags.limit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", historyFlags.limit)
	}
	st, err := openHistory(appConfig)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	login := historyFlags.login
	if login == "" {
		logins, err := st.Logins(ctx)
		if err != nil {
			return err
		}
		switch len(logins) {
		case 0:
			fmt.Fprintln(cmd.OutOrStdout(), "No snapshots recorded yet. Run: profiledash dashboard")
			return nil
		case 1:
			login = logins[0]
		default:
			return fmt.Errorf("several logins recorded (%s): pass --login", strings.Join(logins, ", "))
		}
	}

	snaps, err := st.List(ctx, login, historyFlags.limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if strings.EqualFold(historyFlags.format, "json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snaps)
	}
	mode, err := format.ParseMode(historyFlags.format)
	if err != nil {
		return fmt.Errorf("unknown format %q (want table, markdown or json)", historyFlags.format)
	}
	_, err = io.WriteString(out, format.History(snaps, mode))
	return err
}
