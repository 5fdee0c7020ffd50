package backend_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"portfoliotracker/internal/backend"
	"portfoliotracker/internal/httpx"
)

func newTestClient(t *testing.T, handler http.Handler) (*backend.Client, *backend.TokenStore) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := backend.NewTokenStore(filepath.Join(t.TempDir(), "token"))
	return backend.NewClient(srv.URL+"/", httpx.New(5*time.Second), tokens), tokens
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	// Arrange
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var req backend.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "alice", req.Username)
		require.Equal(t, "secret", req.Password)

		json.NewEncoder(w).Encode(backend.AuthResponse{AccessToken: "tok-123", TokenType: "bearer"})
	}))

	// Act
	auth, err := client.Login(t.Context(), "alice", "secret")

	// Assert: the token is stored for subsequent requests.
	require.NoError(t, err)
	require.Equal(t, "tok-123", auth.AccessToken)
	require.Equal(t, "tok-123", tokens.Token())
}

func TestClient_BearerTokenAttached(t *testing.T) {
	t.Parallel()

	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(backend.User{ID: 1, Username: "alice"})
	}))
	require.NoError(t, tokens.Save("tok-123"))

	user, err := client.CurrentUser(t.Context())
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
}

func TestClient_UnauthorizedClearsToken(t *testing.T) {
	t.Parallel()

	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	require.NoError(t, tokens.Save("stale"))

	_, err := client.CurrentUser(t.Context())
	require.ErrorIs(t, err, backend.ErrUnauthorized)
	require.Empty(t, tokens.Token())
}

func TestClient_Transactions_Pagination(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transactions/", r.URL.Path)
		require.Equal(t, "10", r.URL.Query().Get("skip"))
		require.Equal(t, "25", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode([]backend.Transaction{{ID: 11, InvestmentSymbol: "AAPL"}})
	}))

	txs, err := client.Transactions(t.Context(), 10, 25)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, "AAPL", txs[0].InvestmentSymbol)
}

func TestClient_ErrorIncludesBody(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"quantity must be positive"}`))
	}))

	_, err := client.CreateInvestment(t.Context(), backend.InvestmentCreate{Symbol: "AAPL"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "quantity must be positive")
}
