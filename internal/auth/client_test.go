package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snakada/flipcard/internal/localstore"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *localstore.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	local, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	return NewClient(server.URL, "anon-key", local), local
}

func TestClient_SignIn(t *testing.T) {
	tests := []struct {
		name              string
		mockServerHandler func(t *testing.T, w http.ResponseWriter, r *http.Request)

		wantUserID      string
		wantError       bool
		wantErrorString string
	}{
		{
			name: "Success caches the session",
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/auth/v1/token", r.URL.Path)
				assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
				assert.Equal(t, "anon-key", r.Header.Get("apikey"))

				var body credentials
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "alice@example.com", body.Email)

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"access_token":  "token-abc",
					"refresh_token": "refresh-abc",
					"expires_in":    3600,
					"user": map[string]string{
						"id":    "user-1",
						"email": "alice@example.com",
					},
				})
			},
			wantUserID: "user-1",
		},
		{
			name: "Invalid credentials surface the service message",
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{
					"error_description": "Invalid login credentials",
				})
			},
			wantError:       true,
			wantErrorString: "response error 400: Invalid login credentials",
		},
		{
			name: "Malformed success payload is rejected",
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]string{})
			},
			wantError:       true,
			wantErrorString: "unexpected token response",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				tc.mockServerHandler(t, w, r)
			})

			session, err := client.SignIn(context.Background(), "alice@example.com", "secret")
			if tc.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErrorString)

				_, err := client.CurrentSession()
				assert.ErrorIs(t, err, ErrNoSession)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantUserID, session.UserID)
			assert.False(t, session.Expired())

			cached, err := client.CurrentSession()
			require.NoError(t, err)
			assert.Equal(t, session.UserID, cached.UserID)
			assert.Equal(t, session.AccessToken, cached.AccessToken)
		})
	}
}

func TestClient_SignUp(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-new",
			"expires_in":   3600,
			"user":         map[string]string{"id": "user-new", "email": "bob@example.com"},
		})
	})

	session, err := client.SignUp(context.Background(), "bob@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-new", session.UserID)
}

func TestClient_SignOut(t *testing.T) {
	revoked := false
	client, local := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "token-abc",
				"expires_in":   3600,
				"user":         map[string]string{"id": "user-1"},
			})
		case "/auth/v1/logout":
			revoked = true
			assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	})

	_, err := client.SignIn(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, client.SignOut(context.Background()))
	assert.True(t, revoked)
	_, ok := local.Read(StorageKey)
	assert.False(t, ok, "cached session must be removed")
}

func TestClient_SignOut_RevocationFailureStillClearsCache(t *testing.T) {
	client, local := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "token-abc",
				"expires_in":   3600,
				"user":         map[string]string{"id": "user-1"},
			})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	_, err := client.SignIn(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	err = client.SignOut(context.Background())
	require.Error(t, err)
	_, ok := local.Read(StorageKey)
	assert.False(t, ok)
}

func TestClient_CurrentSession(t *testing.T) {
	local, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	client := NewClient("http://localhost", "anon-key", local)

	t.Run("no cached session", func(t *testing.T) {
		_, err := client.CurrentSession()
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("corrupt cached record", func(t *testing.T) {
		require.NoError(t, local.Write(StorageKey, []byte("{not json")))
		_, err := client.CurrentSession()
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("expired session", func(t *testing.T) {
		data, err := json.Marshal(Session{
			UserID:      "user-1",
			AccessToken: "token-abc",
			ExpiresAt:   time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		require.NoError(t, local.Write(StorageKey, data))

		_, err = client.CurrentSession()
		assert.ErrorIs(t, err, ErrNoSession)
	})
}
