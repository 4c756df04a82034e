// Package auth signs users in against the hosted auth service and caches the
// session locally so the CLI stays signed in across runs.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/snakada/flipcard/internal/localstore"
)

// StorageKey is the local record holding the cached session.
const StorageKey = "flip-card-session"

var ErrNoSession = errors.New("not signed in")

// Session is the authenticated identity the rest of the app keys its data on.
type Session struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired reports whether the access token is past its lifetime.
func (s Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type errorResponse struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorDescription
}

type Client struct {
	httpClient *resty.Client
	local      *localstore.Store
}

func NewClient(baseURL, apiKey string, local *localstore.Store) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("apikey", apiKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(10 * time.Second)

	return &Client{
		httpClient: client,
		local:      local,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account. The service signs the account in as part of
// registration, so the returned session is usable immediately.
func (c *Client) SignUp(ctx context.Context, email, password string) (Session, error) {
	return c.token(ctx, "/auth/v1/signup", credentials{Email: email, Password: password})
}

// SignIn exchanges the credentials for a session and caches it locally.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	return c.token(ctx, "/auth/v1/token?grant_type=password", credentials{Email: email, Password: password})
}

func (c *Client) token(ctx context.Context, path string, body credentials) (Session, error) {
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&tokenResponse{}).
		SetError(&errorResponse{}).
		Post(path)
	if err != nil {
		return Session{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		if failure, ok := response.Error().(*errorResponse); ok && failure.text() != "" {
			return Session{}, fmt.Errorf("response error %d: %s", response.StatusCode(), failure.text())
		}
		return Session{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	token := response.Result().(*tokenResponse)
	if token.AccessToken == "" || token.User.ID == "" {
		return Session{}, fmt.Errorf("unexpected token response: %s", response.String())
	}

	session := Session{
		UserID:       token.User.ID,
		Email:        token.User.Email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}
	if err := c.saveSession(session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// SignOut revokes the session remotely on a best-effort basis and always
// removes the cached copy. A revocation failure does not keep the user
// signed in locally.
func (c *Client) SignOut(ctx context.Context) error {
	session, err := c.CurrentSession()
	if err == nil {
		response, postErr := c.httpClient.R().
			SetContext(ctx).
			SetHeader("Authorization", "Bearer "+session.AccessToken).
			Post("/auth/v1/logout")
		if postErr == nil && response.IsError() {
			postErr = fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
		}
		if postErr != nil {
			if removeErr := c.local.Delete(StorageKey); removeErr != nil {
				return fmt.Errorf("local.Delete(%s) > %w", StorageKey, removeErr)
			}
			return fmt.Errorf("revoke session > %w", postErr)
		}
	}
	if err := c.local.Delete(StorageKey); err != nil {
		return fmt.Errorf("local.Delete(%s) > %w", StorageKey, err)
	}
	return nil
}

// CurrentSession returns the cached session, or ErrNoSession when there is
// none or the cached record is unreadable or expired.
func (c *Client) CurrentSession() (Session, error) {
	data, ok := c.local.Read(StorageKey)
	if !ok {
		return Session{}, ErrNoSession
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, ErrNoSession
	}
	if session.UserID == "" || session.Expired() {
		return Session{}, ErrNoSession
	}
	return session, nil
}

func (c *Client) saveSession(session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := c.local.Write(StorageKey, data); err != nil {
		return fmt.Errorf("local.Write(%s) > %w", StorageKey, err)
	}
	return nil
}
