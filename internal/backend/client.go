package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"portfoliotracker/internal/httpx"
)

// ErrUnauthorized is returned when the backend rejects the bearer token.
// The stored token is cleared before it is returned; the caller is
// expected to send the user back through login.
var ErrUnauthorized = errors.New("unauthorized")

// Client talks to the portfolio backend REST API. It attaches the stored
// bearer token to every request and clears it on any 401.
type Client struct {
	baseURL string
	client  *httpx.Client
	tokens  *TokenStore
}

func NewClient(baseURL string, hc *httpx.Client, tokens *TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  hc,
		tokens:  tokens,
	}
}

// Login exchanges credentials for a bearer token and stores it.
func (c *Client) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	var auth AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{Username: username, Password: password}, &auth)
	if err != nil {
		return AuthResponse{}, err
	}
	if err := c.tokens.Save(auth.AccessToken); err != nil {
		return AuthResponse{}, err
	}
	return auth, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (User, error) {
	var u User
	err := c.do(ctx, http.MethodPost, "/auth/register", req, &u)
	return u, err
}

func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/users/me", nil, &u)
	return u, err
}

func (c *Client) Investments(ctx context.Context) ([]Investment, error) {
	var out []Investment
	err := c.do(ctx, http.MethodGet, "/investments/", nil, &out)
	return out, err
}

func (c *Client) CreateInvestment(ctx context.Context, req InvestmentCreate) (Investment, error) {
	var inv Investment
	err := c.do(ctx, http.MethodPost, "/investments/", req, &inv)
	return inv, err
}

func (c *Client) UpdateInvestment(ctx context.Context, id int64, req InvestmentUpdate) (Investment, error) {
	var inv Investment
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/investments/%d", id), req, &inv)
	return inv, err
}

func (c *Client) DeleteInvestment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/investments/%d", id), nil, nil)
}

func (c *Client) Transactions(ctx context.Context, skip, limit int) ([]Transaction, error) {
	q := url.Values{}
	q.Set("skip", fmt.Sprint(skip))
	q.Set("limit", fmt.Sprint(limit))
	var out []Transaction
	err := c.do(ctx, http.MethodGet, "/transactions/?"+q.Encode(), nil, &out)
	return out, err
}

func (c *Client) CreateTransaction(ctx context.Context, req TransactionCreate) (Transaction, error) {
	var tx Transaction
	err := c.do(ctx, http.MethodPost, "/transactions/", req, &tx)
	return tx, err
}

func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil, nil)
}

func (c *Client) PortfolioSummary(ctx context.Context) (PortfolioSummary, error) {
	var s PortfolioSummary
	err := c.do(ctx, http.MethodGet, "/portfolio/summary", nil, &s)
	return s, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		_ = c.tokens.Clear()
		return ErrUnauthorized
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return fmt.Errorf("%s %s -> %d: %s", method, path, res.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
