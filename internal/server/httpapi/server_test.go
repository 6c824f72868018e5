package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jhontaff/JWT-Authentication/internal/common"
	"github.com/jhontaff/JWT-Authentication/internal/logging"
	"github.com/jhontaff/JWT-Authentication/internal/server/auth"
	"github.com/jhontaff/JWT-Authentication/internal/server/config"
	"github.com/jhontaff/JWT-Authentication/internal/server/models"
	"github.com/jhontaff/JWT-Authentication/internal/server/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- in-memory stores ---

type memAccountsRepo struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
}

func newMemAccountsRepo() *memAccountsRepo {
	return &memAccountsRepo{accounts: map[string]*models.Account{}}
}

func (m *memAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[a.Email]; ok {
		return nil, common.ErrDuplicateEmail
	}
	a.CreatedAt = time.Now()
	m.accounts[a.Email] = a
	return a, nil
}

func (m *memAccountsRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return a, nil
}

func (m *memAccountsRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.accounts[email]
	return ok, nil
}

type memRolesRepo struct{}

func (memRolesRepo) GetByName(ctx context.Context, name string) (*models.Role, error) {
	switch name {
	case models.RoleUser:
		return &models.Role{ID: 1, Name: models.RoleUser}, nil
	case models.RoleAdmin:
		return &models.Role{ID: 2, Name: models.RoleAdmin}, nil
	default:
		return nil, common.ErrNotFound
	}
}

// --- helpers ---

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

func newTestServer(t *testing.T, ttl time.Duration) (*Server, *gin.Engine) {
	t.Helper()

	repo := newMemAccountsRepo()
	codec := auth.NewCodec(testSigningKey, ttl)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	cfg := &config.Config{BcryptCost: 4}

	us := users.NewService(repo, memRolesRepo{}, codec, cfg, logger)
	srv := NewServer(":0", us, codec, repo, []string{"http://localhost:3000"}, logger)
	return srv, srv.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerBody(email string) map[string]any {
	return map[string]any{
		"email":           email,
		"username":        "alice",
		"lastname":        "Smith",
		"address":         "1 Main St",
		"password":        "Secret123",
		"confirmPassword": "Secret123",
	}
}

func bearer(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

// --- tests ---

func TestRegisterThenLogin(t *testing.T) {
	_, router := newTestServer(t, time.Hour)

	// Register returns a token whose subject is the new email.
	w := doJSON(t, router, http.MethodPost, "/api/user/register", registerBody("alice@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)

	subject, err := auth.NewCodec(testSigningKey, time.Hour).Subject(token)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", subject)

	// Login with the right password issues a fresh valid token.
	w = doJSON(t, router, http.MethodPost, "/api/user/login",
		map[string]any{"email": "alice@example.com", "password": "Secret123"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotEmpty(t, decodeBody(t, w)["token"])

	// Wrong password is a uniform credential failure.
	w = doJSON(t, router, http.MethodPost, "/api/user/login",
		map[string]any{"email": "alice@example.com", "password": "wrong"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "INVALID_CREDENTIALS", decodeBody(t, w)["code"])
}

func TestRegister_ValidationFailures(t *testing.T) {
	_, router := newTestServer(t, time.Hour)

	body := registerBody("alice@example.com")
	body["confirmPassword"] = "different"
	w := doJSON(t, router, http.MethodPost, "/api/user/register", body, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "PASSWORD_MISMATCH", decodeBody(t, w)["code"])

	w = doJSON(t, router, http.MethodPost, "/api/user/register", registerBody("alice@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Same email, all other fields different: still a duplicate.
	dup := registerBody("alice@example.com")
	dup["username"] = "someone-else"
	w = doJSON(t, router, http.MethodPost, "/api/user/register", dup, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "DUPLICATE_EMAIL", decodeBody(t, w)["code"])
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	_, router := newTestServer(t, time.Hour)

	// No Authorization header: rejected before any handler runs.
	w := doJSON(t, router, http.MethodGet, "/api/user/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "MISSING_TOKEN", decodeBody(t, w)["code"])

	// The same headerless request to an allow-listed route reaches the
	// handler (binding failure, not an authentication rejection).
	w = doJSON(t, router, http.MethodPost, "/api/user/login", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_INPUT", decodeBody(t, w)["code"])
}

func TestProtectedRoute_AttachesIdentity(t *testing.T) {
	_, router := newTestServer(t, time.Hour)

	w := doJSON(t, router, http.MethodPost, "/api/user/register", registerBody("alice@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decodeBody(t, w)["token"].(string)

	w = doJSON(t, router, http.MethodGet, "/api/user/me", nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	profile := decodeBody(t, w)
	require.Equal(t, "alice@example.com", profile["email"])
	require.Equal(t, []any{"USER"}, profile["roles"])
}

func TestProtectedRoute_RejectionKinds(t *testing.T) {
	srv, router := newTestServer(t, time.Hour)

	expiredCodec := auth.NewCodec(testSigningKey, -1*time.Second)
	expired, err := expiredCodec.Issue("alice@example.com", nil)
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "alice@example.com"})
	noneAlg, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	valid, err := srv.codec.Issue("ghost@example.com", nil)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header http.Header
		code   string
	}{
		{"expired", bearer(expired), "TOKEN_EXPIRED"},
		{"garbage", bearer("not.a.jwt"), "MALFORMED_TOKEN"},
		{"unsupported alg", bearer(noneAlg), "TOKEN_UNSUPPORTED"},
		{"wrong scheme", http.Header{"Authorization": []string{"Basic abc"}}, "INVALID_AUTH_HEADER"},
		{"unknown subject", bearer(valid), "UNKNOWN_SUBJECT"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, "/api/user/me", nil, tc.header)
			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.Equal(t, tc.code, decodeBody(t, w)["code"])
		})
	}
}

func TestHealth_Public(t *testing.T) {
	_, router := newTestServer(t, time.Hour)

	w := doJSON(t, router, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
