package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ezwallet-service/internal/domain/user"
	"ezwallet-service/internal/middleware"
	xerrors "ezwallet-service/internal/pkg/errors"
	"ezwallet-service/internal/pkg/token"
	authService "ezwallet-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	users map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*user.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeUserRepo) FindByRefreshToken(_ context.Context, refreshToken string) (*user.User, error) {
	for _, u := range r.users {
		if u.RefreshToken.Valid && u.RefreshToken.String == refreshToken {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeUserRepo) UpdateRefreshToken(_ context.Context, userID, refreshToken string) error {
	u, ok := r.users[userID]
	if !ok {
		return xerrors.ErrNotFound
	}
	u.RefreshToken = sql.NullString{String: refreshToken, Valid: true}
	return nil
}

func (r *fakeUserRepo) ClearRefreshToken(_ context.Context, userID string) error {
	u, ok := r.users[userID]
	if !ok {
		return xerrors.ErrNotFound
	}
	u.RefreshToken = sql.NullString{}
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := token.NewCodec(token.Config{Secret: "handler-test-secret"})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	repo := newFakeUserRepo()
	svc := authService.NewService(repo, codec, nil, zap.NewNop())
	auth := middleware.NewAuthMiddleware(codec, zap.NewNop())
	h := NewAuthHandler(svc, auth, "localhost", zap.NewNop())

	router := gin.New()
	router.POST("/api/register", h.Register)
	router.POST("/api/admin", h.RegisterAdmin)
	router.POST("/api/login", h.Login)
	router.GET("/api/logout", h.Logout)
	return router, repo
}

func doJSON(router *gin.Engine, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/register", `{"username":"mario","email":"m@x.com","password":"secret"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "User added successfully") {
		t.Fatalf("body = %s", w.Body.String())
	}

	// Duplicate username with a different email.
	w = doJSON(router, http.MethodPost, "/api/register", `{"username":"mario","email":"other@x.com","password":"secret"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "you are already registered") {
		t.Fatalf("body = %s", w.Body.String())
	}

	// Invalid payload.
	w = doJSON(router, http.MethodPost, "/api/register", `{"username":"luigi"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation error") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestLoginEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)
	doJSON(router, http.MethodPost, "/api/register", `{"username":"mario","email":"m@x.com","password":"secret"}`, nil)

	w := doJSON(router, http.MethodPost, "/api/login", `{"email":"m@x.com","password":"secret"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Data user.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Data.AccessToken == "" || body.Data.RefreshToken == "" {
		t.Fatalf("tokens missing: %+v", body.Data)
	}

	// Both cookies installed with their lifetimes.
	cookies := w.Header().Values("Set-Cookie")
	var sawAccess, sawRefresh bool
	for _, ck := range cookies {
		if strings.HasPrefix(ck, middleware.AccessCookieName+"=") {
			sawAccess = true
			if !strings.Contains(ck, "Max-Age=3600") || !strings.Contains(ck, "Path=/api") {
				t.Fatalf("access cookie = %q", ck)
			}
		}
		if strings.HasPrefix(ck, middleware.RefreshCookieName+"=") {
			sawRefresh = true
			if !strings.Contains(ck, "Max-Age=604800") {
				t.Fatalf("refresh cookie = %q", ck)
			}
		}
	}
	if !sawAccess || !sawRefresh {
		t.Fatalf("cookies = %v", cookies)
	}

	// The stored session slot matches the issued refresh token.
	u, err := repo.FindByEmail(context.Background(), "m@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if !u.RefreshToken.Valid || u.RefreshToken.String != body.Data.RefreshToken {
		t.Fatal("stored refresh token does not match the issued one")
	}
}

func TestLoginEndpointFailures(t *testing.T) {
	router, _ := newTestRouter(t)
	doJSON(router, http.MethodPost, "/api/register", `{"username":"mario","email":"m@x.com","password":"secret"}`, nil)

	w := doJSON(router, http.MethodPost, "/api/login", `{"email":"m@x.com","password":"nope"}`, nil)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "wrong credentials") {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(router, http.MethodPost, "/api/login", `{"email":"ghost@x.com","password":"nope"}`, nil)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "please you need to register") {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestLogoutEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)
	doJSON(router, http.MethodPost, "/api/register", `{"username":"mario","email":"m@x.com","password":"secret"}`, nil)

	w := doJSON(router, http.MethodPost, "/api/login", `{"email":"m@x.com","password":"secret"}`, nil)
	var body struct {
		Data user.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	cookies := []*http.Cookie{
		{Name: middleware.AccessCookieName, Value: body.Data.AccessToken},
		{Name: middleware.RefreshCookieName, Value: body.Data.RefreshToken},
	}

	// Missing refresh cookie.
	w = doJSON(router, http.MethodGet, "/api/logout", "", nil)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "refresh token not found") {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	// Proper logout clears the stored slot.
	w = doJSON(router, http.MethodGet, "/api/logout", "", cookies)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Logged out") {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	u, _ := repo.FindByEmail(context.Background(), "m@x.com")
	if u.RefreshToken.Valid {
		t.Fatal("session slot not cleared")
	}

	// Replaying the orphaned refresh token no longer matches an account.
	w = doJSON(router, http.MethodGet, "/api/logout", "", cookies)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "User not found") {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}
