package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Signin exchanges login and password for a JWT using HTTP basic auth
// against endpoint. The server answers with the token as a JSON string.
func Signin(ctx context.Context, client *http.Client, endpoint, login, password string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("signin: create request: %w", err)
	}
	req.SetBasicAuth(login, password)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("signin: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("signin: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("signin: HTTP %d: %s", resp.StatusCode, msg)
	}

	var token string
	if err := json.Unmarshal(body, &token); err != nil {
		token = strings.Trim(strings.TrimSpace(string(body)), `"`)
	}
	if token == "" {
		return "", fmt.Errorf("signin: %w in response", ErrNoToken)
	}
	return token, nil
}
