package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/dmitrijs2005/dropvault/internal/dbx"
	"github.com/dmitrijs2005/dropvault/internal/logging"
	"github.com/dmitrijs2005/dropvault/internal/server/auth"
	"github.com/dmitrijs2005/dropvault/internal/server/config"
	"github.com/dmitrijs2005/dropvault/internal/server/models"
	"github.com/dmitrijs2005/dropvault/internal/server/repositories/users"
	"github.com/dmitrijs2005/dropvault/internal/server/services"
	"github.com/dmitrijs2005/dropvault/internal/server/storage"
	"github.com/google/uuid"
)

// memUsers is an in-memory users.Repository for full-stack tests.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*models.User)}
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	saved := &models.User{
		ID:           uuid.NewString(),
		UserName:     u.UserName,
		PasswordHash: u.PasswordHash,
		CreatedAt:    time.Now(),
	}
	m.users[u.UserName] = saved
	return saved, nil
}

func (m *memUsers) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type memManager struct {
	repo *memUsers
}

func (m *memManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *memManager) Users(db dbx.DBTX) users.Repository                  { return m.repo }

func newFullStack(t *testing.T) *HTTPServer {
	t.Helper()

	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: 30 * time.Minute,
		UploadDir:                   t.TempDir(),
		Overwrite:                   config.OverwriteReject,
	}

	us := services.NewUserService(db, &memManager{repo: newMemUsers()}, cfg)
	fs := services.NewFileService(storage.NewDiskStore(cfg.UploadDir), cfg)

	s, err := NewHTTPServer("127.0.0.1:0", logging.Nop{}, us, fs, "")
	if err != nil {
		t.Fatalf("NewHTTPServer: %v", err)
	}
	return s
}

func register(t *testing.T, s *HTTPServer, username, password string) {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	rec := doRequest(t, s, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", username, rec.Code, rec.Body)
	}
}

func obtainToken(t *testing.T, s *HTTPServer, username, password string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := doRequest(t, s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("token %s: status %d, body %s", username, rec.Code, rec.Body)
	}
	var resp tokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	return resp.AccessToken
}

func upload(t *testing.T, s *HTTPServer, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	buf, contentType := multipartBody(t, common.UploadFieldName, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	return doRequest(t, s, req)
}

func listFiles(t *testing.T, s *HTTPServer, token string) []fileEntry {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := doRequest(t, s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("files: status %d, body %s", rec.Code, rec.Body)
	}
	var body map[string][]fileEntry
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode files response: %v", err)
	}
	return body["files"]
}

func TestFullFlow_TwoUsers(t *testing.T) {
	s := newFullStack(t)

	register(t, s, "alice", "wonder")
	register(t, s, "bob", "builder")

	aliceTok := obtainToken(t, s, "alice", "wonder")
	bobTok := obtainToken(t, s, "bob", "builder")

	if rec := upload(t, s, aliceTok, "notes.txt", []byte("0123456789")); rec.Code != http.StatusOK {
		t.Fatalf("upload: status %d, body %s", rec.Code, rec.Body)
	}

	aliceFiles := listFiles(t, s, aliceTok)
	if len(aliceFiles) != 1 || aliceFiles[0].Name != "notes.txt" || aliceFiles[0].Size != 10 {
		t.Fatalf("alice files: %+v", aliceFiles)
	}

	// bob must not see alice's upload
	if bobFiles := listFiles(t, s, bobTok); len(bobFiles) != 0 {
		t.Fatalf("bob files should be empty, got %+v", bobFiles)
	}
}

func TestFullFlow_SameNameDifferentOwners(t *testing.T) {
	s := newFullStack(t)

	register(t, s, "alice", "wonder")
	register(t, s, "bob", "builder")
	aliceTok := obtainToken(t, s, "alice", "wonder")
	bobTok := obtainToken(t, s, "bob", "builder")

	if rec := upload(t, s, aliceTok, "report.txt", []byte("alice data")); rec.Code != http.StatusOK {
		t.Fatalf("alice upload: status %d", rec.Code)
	}
	// the reject policy is per owner, bob's upload of the same name succeeds
	if rec := upload(t, s, bobTok, "report.txt", []byte("bob")); rec.Code != http.StatusOK {
		t.Fatalf("bob upload: status %d, body %s", rec.Code, rec.Body)
	}
	// alice re-uploading hits the conflict
	if rec := upload(t, s, aliceTok, "report.txt", []byte("again")); rec.Code != http.StatusConflict {
		t.Fatalf("alice re-upload: status %d, body %s", rec.Code, rec.Body)
	}

	bobFiles := listFiles(t, s, bobTok)
	if len(bobFiles) != 1 || bobFiles[0].Size != 3 {
		t.Fatalf("bob files: %+v", bobFiles)
	}
}

func TestFullFlow_BadCredentialsIndistinguishable(t *testing.T) {
	s := newFullStack(t)
	register(t, s, "alice", "wonder")

	statusAndBody := func(username, password string) (int, string) {
		form := url.Values{"username": {username}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := doRequest(t, s, req)
		return rec.Code, rec.Body.String()
	}

	c1, b1 := statusAndBody("alice", "wrong")
	c2, b2 := statusAndBody("nobody", "wonder")
	if c1 != http.StatusUnauthorized || c2 != http.StatusUnauthorized {
		t.Fatalf("unexpected statuses: %d %d", c1, c2)
	}
	if b1 != b2 {
		t.Fatalf("responses must match: %q vs %q", b1, b2)
	}
}

func TestFullFlow_WrongSecretToken(t *testing.T) {
	s := newFullStack(t)
	register(t, s, "alice", "wonder")

	forged, err := auth.GenerateToken("alice", []byte("other-secret"), time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := doRequest(t, s, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token: status %d", rec.Code)
	}
}

func TestFullFlow_ExpiredToken(t *testing.T) {
	s := newFullStack(t)
	register(t, s, "alice", "wonder")

	expired, err := auth.GenerateToken("alice", []byte("test-secret"), -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := doRequest(t, s, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: status %d", rec.Code)
	}
}

func TestFullFlow_UsernameWithSeparatorRejected(t *testing.T) {
	s := newFullStack(t)

	body := `{"username":"evil_user","password":"pw"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	rec := doRequest(t, s, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("separator username: status %d, body %s", rec.Code, rec.Body)
	}
}
