package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mylibrary/mylibrary-api/internal/auth"
	"github.com/mylibrary/mylibrary-api/internal/book"
	"github.com/mylibrary/mylibrary-api/internal/config"
	"github.com/mylibrary/mylibrary-api/internal/logging"
	"github.com/mylibrary/mylibrary-api/internal/user"
)

// In-memory stores so the whole request path runs without Postgres.

type memUserStore struct {
	nextID int64
	users  map[int64]*user.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{nextID: 1, users: make(map[int64]*user.User)}
}

func (m *memUserStore) Create(_ context.Context, u *user.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}
	u.ID = m.nextID
	m.nextID++
	clone := *u
	m.users[clone.ID] = &clone
	return nil
}

func (m *memUserStore) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *memUserStore) List(_ context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUserStore) Update(_ context.Context, u *user.User) error {
	existing, ok := m.users[u.ID]
	if !ok {
		return user.ErrNotFound
	}
	*existing = *u
	return nil
}

func (m *memUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type memBookStore struct {
	nextID int64
	books  map[int64]*book.Book
}

func newMemBookStore() *memBookStore {
	return &memBookStore{nextID: 1, books: make(map[int64]*book.Book)}
}

func (m *memBookStore) Create(_ context.Context, b *book.Book) error {
	b.ID = m.nextID
	m.nextID++
	clone := *b
	m.books[clone.ID] = &clone
	return nil
}

func (m *memBookStore) GetByID(_ context.Context, id int64) (*book.Book, error) {
	b, ok := m.books[id]
	if !ok {
		return nil, book.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (m *memBookStore) ListByUser(_ context.Context, userID int64) ([]book.Book, error) {
	out := []book.Book{}
	for _, b := range m.books {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBookStore) Update(_ context.Context, b *book.Book) error {
	existing, ok := m.books[b.ID]
	if !ok || existing.UserID != b.UserID {
		return book.ErrNotFound
	}
	*existing = *b
	return nil
}

func (m *memBookStore) Delete(_ context.Context, id, userID int64) error {
	existing, ok := m.books[id]
	if !ok || existing.UserID != userID {
		return book.ErrNotFound
	}
	delete(m.books, id)
	return nil
}

// newTestServer wires the real router, services and token backend over
// in-memory stores.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Env = "prod" // no swagger route in tests
	cfg.Server.TrustedOrigins = []string{"http://localhost:3000"}

	logger := logging.NewLogger(true)

	tokens, err := auth.NewJWTService([]byte("router-test-secret"), time.Hour)
	require.NoError(t, err)

	userStore := newMemUserStore()
	bookStore := newMemBookStore()

	userService := user.NewService(userStore, logger)
	bookService := book.NewService(bookStore, logger)
	authService := auth.NewService(user.NewAccountStore(userStore), tokens, logger)

	router := NewRouter(
		cfg,
		auth.NewHandler(authService),
		auth.NewMiddleware(tokens),
		user.NewHandler(userService),
		book.NewHandler(bookService),
		logger,
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func registerAndLogin(t *testing.T, srv *httptest.Server, name, email, password string) (int64, string) {
	t.Helper()

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/users", "", map[string]any{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	userID := int64(created["id"].(float64))

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth", "", map[string]any{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, ok := body["access_token"].(string)
	require.True(t, ok, "login response must carry access_token")
	require.NotEmpty(t, token)

	return userID, token
}

func TestRegistration(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/users", "", map[string]any{
		"name": "Ana", "email": "ana@x.com", "password": "secret1x",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Ana", body["name"])
	assert.Equal(t, "ana@x.com", body["email"])

	// The hash must not appear in the echoed representation under any name
	_, hasPassword := body["password"]
	_, hasHash := body["password_hash"]
	assert.False(t, hasPassword, "response must not echo a password field")
	assert.False(t, hasHash, "response must not echo the password hash")

	// Same email again conflicts
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/users", "", map[string]any{
		"name": "Impostor", "email": "ana@x.com", "password": "other-pass",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", body["code"])
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	userID, _ := registerAndLogin(t, srv, "Ana", "ana@x.com", "secret1x")

	// Wrong password fails the same way as an unknown email
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth", "", map[string]any{
		"email": "ana@x.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])

	resp, body2 := doJSON(t, http.MethodPost, srv.URL+"/auth", "", map[string]any{
		"email": "ghost@x.com", "password": "secret1x",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, body["code"], body2["code"], "unknown email and wrong password must be indistinguishable")

	// A fresh login token creates a book owned by the logged-in user
	token := loginExisting(t, srv, "ana@x.com", "secret1x")
	resp, created := doJSON(t, http.MethodPost, srv.URL+"/books", token, map[string]any{"name": "Dune"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(userID), created["user_id"])
}

func loginExisting(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth", "", map[string]any{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return body["access_token"].(string)
}

func TestBookCreation_IgnoresClientOwnerField(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	userID, token := registerAndLogin(t, srv, "Ana", "ana@x.com", "secret1x")

	// Payload claims a different owner; the stamp must win
	resp, created := doJSON(t, http.MethodPost, srv.URL+"/books", token, map[string]any{
		"name": "Dune", "user_id": 999,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(userID), created["user_id"])
}

func TestBooks_RequireToken(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/books", "", map[string]any{"name": "Dune"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_AUTH", body["code"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/books/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestOwnership_EndToEnd(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	_, tokenA := registerAndLogin(t, srv, "Ana", "ana@x.com", "secret1x")
	_, tokenB := registerAndLogin(t, srv, "Bob", "bob@x.com", "secret2x")

	// Ana creates a book
	resp, created := doJSON(t, http.MethodPost, srv.URL+"/books", tokenA, map[string]any{"name": "Dune"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	bookID := int64(created["id"].(float64))

	bookURL := srv.URL + "/books/" + strconv.FormatInt(bookID, 10)

	// Bob cannot delete or update it
	resp, body := doJSON(t, http.MethodDelete, bookURL, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body["code"])

	resp, body = doJSON(t, http.MethodPatch, bookURL, tokenB, map[string]any{"name": "Stolen"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body["code"])

	// Ana still sees it, unchanged
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/books/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tokenA)
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var mine []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Dune", mine[0]["name"])

	// Bob's list does not leak Ana's book
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/books/me", tokenB, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Ana can delete her own book
	resp, _ = doJSON(t, http.MethodDelete, bookURL, tokenA, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = doJSON(t, http.MethodDelete, bookURL, tokenA, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "api is running", body["status"])
}
