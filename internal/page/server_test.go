package page

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"profiledash/internal/dashboard"
	"profiledash/internal/logging"
)

type memSession struct {
	token     string
	loggedOut bool
}

func (m *memSession) Save(token string) error {
	m.token = token
	return nil
}

func (m *memSession) Logout() error {
	m.token, m.loggedOut = "", true
	return nil
}

func loadOK(context.Context) (map[dashboard.Region]dashboard.Content, error) {
	return sampleRegions(), nil
}

func loadUnauth(context.Context) (map[dashboard.Region]dashboard.Content, error) {
	return nil, dashboard.ErrUnauthenticated
}

func signin(_ context.Context, login, password string) (string, error) {
	if login == "jdoe" && password == "secret" {
		return "jwt-token", nil
	}
	return "", errors.New("signin: HTTP 401: invalid credentials")
}

func noRedirect(srv *httptest.Server) *http.Client {
	c := srv.Client()
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return c
}

func TestServer_Dashboard(t *testing.T) {
	s := NewServer(loadOK, WithLogger(logging.Discard()))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `id="projects-list"`) {
		t.Errorf("missing projects region:\n%s", rec.Body.String())
	}
}

func TestServer_PartialFailureStillRenders(t *testing.T) {
	load := func(context.Context) (map[dashboard.Region]dashboard.Content, error) {
		return sampleRegions(), errors.New("dashboard: xp: boom")
	}
	s := NewServer(load, WithLogger(logging.Discard()))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Error loading data: boom") {
		t.Errorf("status = %d body:\n%s", rec.Code, rec.Body.String())
	}
}

func TestServer_UnauthenticatedWithoutSignin(t *testing.T) {
	s := NewServer(loadUnauth, WithLogger(logging.Discard()))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestServer_LoginFlow(t *testing.T) {
	sess := &memSession{}
	s := NewServer(loadUnauth, WithSignin(signin, sess), WithLogger(logging.Discard()))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	client := noRedirect(srv)

	resp, err := client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Errorf("expected redirect to /login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, err = client.PostForm(srv.URL+"/login", url.Values{"login": {"jdoe"}, "password": {"wrong"}})
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized || sess.token != "" {
		t.Errorf("bad credentials: status %d token %q", resp.StatusCode, sess.token)
	}

	resp, err = client.PostForm(srv.URL+"/login", url.Values{"login": {"jdoe"}, "password": {"secret"}})
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || sess.token != "jwt-token" {
		t.Errorf("good credentials: status %d token %q", resp.StatusCode, sess.token)
	}

	resp, err = client.PostForm(srv.URL+"/logout", nil)
	if err != nil {
		t.Fatalf("POST /logout: %v", err)
	}
	resp.Body.Close()
	if !sess.loggedOut || sess.token != "" {
		t.Error("logout did not clear the session")
	}
}

func TestServer_LoginRequiresFields(t *testing.T) {
	s := NewServer(loadOK, WithSignin(signin, &memSession{}), WithLogger(logging.Discard()))
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("login=jdoe"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServer_Healthz(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(loadOK).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}
