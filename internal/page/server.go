package page

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"profiledash/internal/auth"
	"profiledash/internal/dashboard"
	"profiledash/internal/logging"
)

// LoadFunc loads the dashboard regions for one page view.
type LoadFunc func(ctx context.Context) (map[dashboard.Region]dashboard.Content, error)

// SigninFunc exchanges credentials for a token.
type SigninFunc func(ctx context.Context, login, password string) (string, error)

// Session stores the token obtained at sign-in and ends the session.
type Session interface {
	Save(token string) error
	auth.Terminator
}

// Server serves the dashboard page and, when configured, the login surface.
type Server struct {
	load    LoadFunc
	signin  SigninFunc
	session Session
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithSignin enables the /login and /logout routes.
func WithSignin(fn SigninFunc, s Session) Option {
	return func(srv *Server) {
		srv.signin = fn
		srv.session = s
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) { srv.logger = l }
}

// NewServer returns a Server rendering what load returns.
func NewServer(load LoadFunc, opts ...Option) *Server {
	s := &Server{load: load, logger: logging.New("serve"), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if s.signin != nil && s.session != nil {
		mux.HandleFunc("GET /login", s.handleLoginForm)
		mux.HandleFunc("POST /login", s.handleLogin)
		mux.HandleFunc("POST /logout", s.handleLogout)
	}
	return mux
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	regions, err := s.load(r.Context())
	if errors.Is(err, dashboard.ErrUnauthenticated) {
		if s.signin != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		http.Error(w, "not authenticated: run `profiledash login`", http.StatusUnauthorized)
		return
	}
	if err != nil {
		// Failed regions already carry the message; render what we have.
		s.logger.WarnContext(r.Context(), "dashboard incomplete", slog.Any("error", err))
	}

	d := NewData(regions, s.now())
	if s.signin != nil {
		d.LogoutPath = "/logout"
	}
	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		s.logger.ErrorContext(r.Context(), "render failed", slog.Any("error", err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.renderLogin(w, r, http.StatusOK, "")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	login := strings.TrimSpace(r.PostFormValue("login"))
	password := r.PostFormValue("password")
	if login == "" || password == "" {
		s.renderLogin(w, r, http.StatusBadRequest, "Username and password are required.")
		return
	}
	token, err := s.signin(r.Context(), login, password)
	if err != nil {
		s.logger.WarnContext(r.Context(), "sign-in failed", slog.String("login", login), slog.Any("error", err))
		s.renderLogin(w, r, http.StatusUnauthorized, "Invalid credentials.")
		return
	}
	if err := s.session.Save(token); err != nil {
		s.logger.ErrorContext(r.Context(), "save token failed", slog.Any("error", err))
		s.renderLogin(w, r, http.StatusInternalServerError, "Could not store the session.")
		return
	}
	s.logger.InfoContext(r.Context(), "signed in", slog.String("login", login))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Logout(); err != nil {
		s.logger.ErrorContext(r.Context(), "logout failed", slog.Any("error", err))
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, msg string) {
	var buf bytes.Buffer
	if err := writeLogin(&buf, msg); err != nil {
		s.logger.ErrorContext(r.Context(), "render failed", slog.Any("error", err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
