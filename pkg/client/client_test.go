package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tellerbank/teller/pkg/domain"
)

// memStore is an in-memory credential slot for tests.
type memStore struct {
	tok     string
	cleared int
}

func (s *memStore) Token() (string, error) { return s.tok, nil }
func (s *memStore) Clear() error           { s.cleared++; s.tok = ""; return nil }

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Email != "ann@example.com" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(LoginResponse{ //nolint:errcheck
			Token: "tok-1",
			User:  domain.User{ID: 1, FirstName: "Ann", Email: "ann@example.com"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &memStore{})
	resp, err := c.Login(context.Background(), "ann@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if resp.Token != "tok-1" {
		t.Errorf("Token = %q, want %q", resp.Token, "tok-1")
	}
	if resp.User.FirstName != "Ann" {
		t.Errorf("User.FirstName = %q, want %q", resp.User.FirstName, "Ann")
	}
}

func TestMe_AttachesBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "missing token"}) //nolint:errcheck
			return
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header on every request")
		}
		json.NewEncoder(w).Encode(domain.User{ID: 1, Email: "ann@example.com"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, &memStore{tok: "test-token"})
	me, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me() error: %v", err)
	}
	if me.Email != "ann@example.com" {
		t.Errorf("Email = %q, want %q", me.Email, "ann@example.com")
	}
}

func TestMe_UnauthorizedClearsStoreAndFiresHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "token expired"}) //nolint:errcheck
	}))
	defer srv.Close()

	store := &memStore{tok: "stale-token"}
	hookFired := 0
	c := New(srv.URL, store, WithUnauthorizedHook(func() { hookFired++ }))

	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(err) = false, want true; err = %v", err)
	}
	if store.cleared != 1 {
		t.Errorf("store cleared %d times, want 1", store.cleared)
	}
	if store.tok != "" {
		t.Errorf("token still present after 401: %q", store.tok)
	}
	if hookFired != 1 {
		t.Errorf("hook fired %d times, want 1", hookFired)
	}
	if got := Message(err); got != "token expired" {
		t.Errorf("Message(err) = %q, want server text %q", got, "token expired")
	}
}

func TestRejected_SurfacesServerMessageVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "insufficient funds"}) //nolint:errcheck
	}))
	defer srv.Close()

	store := &memStore{tok: "tok"}
	c := New(srv.URL, store)
	_, err := c.Transfer(context.Background(), TransferRequest{RecipientAccount: "123", Amount: 50, Pin: "1234"})
	if err == nil {
		t.Fatal("expected error for rejected transfer")
	}
	if IsUnauthorized(err) {
		t.Error("400 must not classify as unauthorized")
	}
	if store.cleared != 0 {
		t.Error("non-401 must not clear the credential store")
	}
	if got := Message(err); got != "insufficient funds" {
		t.Errorf("Message(err) = %q, want %q", got, "insufficient funds")
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, &memStore{})
	_, err := c.Balance(context.Background())
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
	if !IsUnreachable(err) {
		t.Errorf("IsUnreachable(err) = false, want true; err = %v", err)
	}
	if got := Message(err); !strings.Contains(got, "connection") {
		t.Errorf("Message(err) = %q, want a connectivity hint", got)
	}
}

func TestTransfer_SendsIdempotencyKey(t *testing.T) {
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		json.NewEncoder(w).Encode(domain.Transaction{ID: "tx-1", Status: domain.TxCompleted}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, &memStore{tok: "tok"})
	for i := 0; i < 2; i++ {
		if _, err := c.Transfer(context.Background(), TransferRequest{RecipientAccount: "123", Amount: 5, Pin: "1234"}); err != nil {
			t.Fatalf("Transfer() error: %v", err)
		}
	}
	if len(keys) != 2 || keys[0] == "" || keys[1] == "" {
		t.Fatalf("expected an Idempotency-Key on each transfer, got %v", keys)
	}
	if keys[0] == keys[1] {
		t.Error("each transfer submission must carry a fresh idempotency key")
	}
}

func TestBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/accounts/balance" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"balance": 1234.56}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, &memStore{tok: "tok"})
	bal, err := c.Balance(context.Background())
	if err != nil {
		t.Fatalf("Balance() error: %v", err)
	}
	if bal != 1234.56 {
		t.Errorf("Balance = %v, want 1234.56", bal)
	}
}

func TestServerMessage_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		fallback string
		want     string
	}{
		{"message field", `{"message":"nope"}`, "fb", "nope"},
		{"error field", `{"error":"denied"}`, "fb", "denied"},
		{"raw body", "plain text", "fb", "plain text"},
		{"empty body", "", "fb", "fb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := serverMessage(strings.NewReader(tc.body), tc.fallback)
			if got != tc.want {
				t.Errorf("serverMessage(%q) = %q, want %q", tc.body, got, tc.want)
			}
		})
	}
}
