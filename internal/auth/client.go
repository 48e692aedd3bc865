// Package auth signs users in against the hosted identity service
// (Google Identity Toolkit REST API) using the same API key as the
// document store. The resulting user id scopes every per-user
// collection; the id token authorizes remote reads and writes.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSignInURL = "https://identitytoolkit.googleapis.com/v1"
	defaultTokenURL  = "https://securetoken.googleapis.com/v1"
)

// ErrInvalidCredentials is returned when the identity service rejects
// the email/password pair.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Session is the signed-in state: the user id used for collection
// namespaces plus the tokens needed to keep talking to the backend.
type Session struct {
	UserID       string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the id token needs refreshing, with a minute
// of slack so requests in flight don't race the expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt.Add(-time.Minute))
}

// Client is a thin HTTP client for the identity endpoints.
type Client struct {
	apiKey     string
	signInURL  string
	tokenURL   string
	httpClient *http.Client
}

// NewClient creates an identity client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		signInURL:  defaultSignInURL,
		tokenURL:   defaultTokenURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithURLs creates a client against custom endpoints; tests
// point both at a local server.
func NewClientWithURLs(apiKey, signInURL, tokenURL string) *Client {
	c := NewClient(apiKey)
	c.signInURL = strings.TrimRight(signInURL, "/")
	c.tokenURL = strings.TrimRight(tokenURL, "/")
	return c
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// SignInWithPassword exchanges an email/password pair for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var resp signInResponse
	err := c.post(ctx, c.signInURL+"/accounts:signInWithPassword", body, &resp)
	if err != nil {
		return nil, fmt.Errorf("signing in %s: %w", email, err)
	}

	return sessionFromSignIn(resp), nil
}

// SignInAnonymously creates a throwaway account. The returned user id
// is stable for as long as the refresh token is kept.
func (c *Client) SignInAnonymously(ctx context.Context) (*Session, error) {
	body := map[string]any{"returnSecureToken": true}

	var resp signInResponse
	err := c.post(ctx, c.signInURL+"/accounts:signUp", body, &resp)
	if err != nil {
		return nil, fmt.Errorf("anonymous sign-in: %w", err)
	}

	return sessionFromSignIn(resp), nil
}

// Refresh exchanges a refresh token for a fresh session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.tokenURL+"/token?key="+url.QueryEscape(c.apiKey),
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp struct {
		UserID       string `json:"user_id"`
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
	}
	if err := c.doJSON(req, &resp); err != nil {
		return nil, fmt.Errorf("refreshing session: %w", err)
	}

	return &Session{
		UserID:       resp.UserID,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiryFrom(resp.ExpiresIn),
	}, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		endpoint+"?key="+url.QueryEscape(c.apiKey), strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doJSON(req, result)
}

func (c *Client) doJSON(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			switch apiErr.Error.Message {
			case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
				return ErrInvalidCredentials
			}
			if apiErr.Error.Message != "" {
				return fmt.Errorf("identity service: %s", apiErr.Error.Message)
			}
		}
		return fmt.Errorf("identity service: unexpected status %d", resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response: %w", err)
	}
	return nil
}

func sessionFromSignIn(resp signInResponse) *Session {
	return &Session{
		UserID:       resp.LocalID,
		Email:        resp.Email,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiryFrom(resp.ExpiresIn),
	}
}

func expiryFrom(expiresIn string) time.Time {
	seconds, err := strconv.Atoi(expiresIn)
	if err != nil {
		seconds = 3600
	}
	return time.Now().Add(time.Duration(seconds) * time.Second)
}
