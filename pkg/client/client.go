package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tellerbank/teller/pkg/domain"
)

// CredentialStore is the slice of the credential store the adapter needs:
// reading the current token before a request and clearing it when the
// backend rejects it.
type CredentialStore interface {
	Token() (string, error)
	Clear() error
}

// Client is the Teller API client. It is the single outbound gateway: every
// request passes through a decorator stage (JSON body, request ID, bearer
// header) and every response through a classifier stage (see APIError).
type Client struct {
	baseURL        string
	creds          CredentialStore
	httpClient     *http.Client
	logger         *slog.Logger
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger enables request logging at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUnauthorizedHook registers fn to run whenever the backend rejects the
// credential. It fires after the store is cleared and before the error is
// returned to the caller.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a new API client.
func New(baseURL string, creds CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginRequest is the payload for the credential exchange endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and profile returned on login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login exchanges email and password for a bearer token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.post(ctx, "/api/auth/login", LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &out, nil
}

// RegisterRequest is the payload for the account creation endpoint.
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Register creates a new account. The backend acknowledges without issuing
// a credential; the caller signs in separately.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := c.post(ctx, "/api/auth/register", req, nil); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	return nil
}

// Me returns the profile the backend associates with the current credential.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/api/users/me", &u); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &u, nil
}

// CreatePin registers a transaction PIN for the authenticated user.
func (c *Client) CreatePin(ctx context.Context, pin string) error {
	if err := c.post(ctx, "/api/users/create-pin", map[string]string{"pin": pin}, nil); err != nil {
		return fmt.Errorf("client.CreatePin: %w", err)
	}
	return nil
}

// ProfileRequest is the payload for the profile update endpoint.
type ProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
}

// UpdateProfile updates the authenticated user's profile fields and returns
// the refreshed profile.
func (c *Client) UpdateProfile(ctx context.Context, req ProfileRequest) (*domain.User, error) {
	var u domain.User
	if err := c.put(ctx, "/api/users/profile", req, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return &u, nil
}

// UpdatePassword changes the authenticated user's password.
func (c *Client) UpdatePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	if err := c.put(ctx, "/api/users/password", body, nil); err != nil {
		return fmt.Errorf("client.UpdatePassword: %w", err)
	}
	return nil
}

// Balance returns the current account balance.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	var out struct {
		Balance float64 `json:"balance"`
	}
	if err := c.get(ctx, "/api/accounts/balance", &out); err != nil {
		return 0, fmt.Errorf("client.Balance: %w", err)
	}
	return out.Balance, nil
}

// Transactions returns the account's transaction history, newest first.
func (c *Client) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	if err := c.get(ctx, "/api/transactions", &txs); err != nil {
		return nil, fmt.Errorf("client.Transactions: %w", err)
	}
	return txs, nil
}

// TransferRequest is the payload for the transfer endpoint.
type TransferRequest struct {
	RecipientAccount string  `json:"recipientAccount"`
	Amount           float64 `json:"amount"`
	Pin              string  `json:"pin"`
	Description      string  `json:"description,omitempty"`
}

// Transfer moves funds to another account. Each call carries a fresh
// idempotency key so a retried submission cannot settle twice.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (*domain.Transaction, error) {
	var tx domain.Transaction
	hdr := map[string]string{"Idempotency-Key": uuid.NewString()}
	if err := c.do(ctx, http.MethodPost, "/api/transactions/transfer", req, &tx, hdr); err != nil {
		return nil, fmt.Errorf("client.Transfer: %w", err)
	}
	return &tx, nil
}

// AdminUsers returns all registered users. Requires the admin role.
func (c *Client) AdminUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "/api/admin/users", &users); err != nil {
		return nil, fmt.Errorf("client.AdminUsers: %w", err)
	}
	return users, nil
}

// AdminAddBalance credits an account. Requires the admin role.
func (c *Client) AdminAddBalance(ctx context.Context, accountNumber string, amount float64) error {
	body := map[string]any{"accountNumber": accountNumber, "amount": amount}
	if err := c.post(ctx, "/api/admin/add-balance", body, nil); err != nil {
		return fmt.Errorf("client.AdminAddBalance: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, nil)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, extra map[string]string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	// Decorator stage: content type, request ID, bearer credential.
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if tok, tokErr := c.creds.Token(); tokErr == nil && tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "err", err)
		return &APIError{
			Kind:    KindUnreachable,
			Message: "could not reach the bank, check your connection and try again",
			err:     err,
		}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.logger.Debug("request", "method", method, "path", path,
		"status", resp.StatusCode, "dur", time.Since(start))

	// Classifier stage: 401 invalidates the stored credential before the
	// failure is surfaced; every other non-2xx passes through unchanged.
	if resp.StatusCode == http.StatusUnauthorized {
		if clearErr := c.creds.Clear(); clearErr != nil {
			c.logger.Debug("credential clear failed", "err", clearErr)
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &APIError{
			Kind:       KindUnauthorized,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.Body, "your session has expired, please sign in again"),
		}
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			Kind:       KindRejected,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.Body, resp.Status),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// serverMessage pulls the backend's message field out of an error body,
// falling back to the raw body and finally to fallback.
func serverMessage(r io.Reader, fallback string) string {
	data, err := io.ReadAll(io.LimitReader(r, 1<<20)) // 1 MB max error body
	if err != nil || len(data) == 0 {
		return fallback
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return string(data)
}
