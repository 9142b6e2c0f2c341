package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"profiledash/internal/auth"
)

var loginFlags struct {
	user          string
	passwordStdin bool
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Long: `Exchange your login (username or email) and password for a JWT and
store it in the token file with owner-only permissions.

The password is prompted for on a terminal. In scripts pipe it in:
  printf '%s' "$PASSWORD" | profiledash login --user jdoe --password-stdin`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	f := loginCmd.Flags()
	f.StringVarP(&loginFlags.user, "user", "u", "", "Username or email (required)")
	f.BoolVar(&loginFlags.passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = loginCmd.MarkFlagRequired("user")
}

func runLogin(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	login := strings.TrimSpace(loginFlags.user)
	if login == "" {
		return errors.New("--user must not be empty")
	}
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: timeout}
	token, err := auth.Signin(cmd.Context(), client, cfg.SigninEndpoint, login, password)
	if err != nil {
		return err
	}

	path, err := cfg.TokenPath()
	if err != nil {
		return err
	}
	if err := auth.NewFileStore(path).Save(token); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\nToken saved to %s\n", login, path)
	if exp, ok := auth.Expiry(token); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Expires %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func readPassword(cmd *cobra.Command) (string, error) {
	if loginFlags.passwordStdin {
		return firstLine(cmd.InOrStdin())
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal: use --password-stdin")
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(b) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(b), nil
}

func firstLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password must not be empty")
	}
	return line, nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	path, err := appConfig.TokenPath()
	if err != nil {
		return err
	}
	if err := auth.NewFileStore(path).Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}
