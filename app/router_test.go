package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bitwise74/socials-api/app/cookies"
	"bitwise74/socials-api/internal"
	"bitwise74/socials-api/internal/service"
	"bitwise74/socials-api/internal/store/storetest"
	"bitwise74/socials-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(service.Email) {}

type nopMedia struct{}

func (nopMedia) Upload(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
	return "https://media.test/" + key, nil
}

func (nopMedia) Delete(context.Context, string) error { return nil }

func (nopMedia) Owns(string) bool { return false }

type testServer struct {
	router *gin.Engine
	deps   *internal.Deps
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	argon := &security.ArgonHash{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}

	st := storetest.New(t)
	notifier := service.NewNotifier(nopDispatcher{}, "Socials", "https://client.test")

	d := internal.NewDeps(st, nopMedia{}, argon, security.NewSessionIssuer("test-secret"), notifier)
	d.MaxImageSize = 1 << 20

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := gin.New()
	Routes(ctx, router, d, Options{CORSOrigins: []string{"http://localhost:5173"}})

	return &testServer{router: router, deps: d}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}

	return w, out
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == cookies.Session {
			return c
		}
	}
	return nil
}

func TestHeartbeat(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodHead, "/api/heartbeat", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSignUpAndVerify(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/api/auth/sign-up", gin.H{
		"firstName": "A",
		"lastName":  "B",
		"email":     "a@b.com",
		"password":  "Str0ng!Pass",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	user := body["user"].(map[string]any)
	assert.Equal(t, false, user["isVerified"])

	w, body = s.do(t, http.MethodPost, "/api/auth/verify-email", gin.H{"code": "000000x"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid Verification Code", body["error"])
	assert.NotEmpty(t, body["requestID"])

	stored, err := s.deps.Store.Users.ByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)

	w, body = s.do(t, http.MethodPost, "/api/auth/verify-email", gin.H{"code": stored.VerificationCode}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user = body["user"].(map[string]any)
	assert.Equal(t, true, user["isVerified"])

	w, body = s.do(t, http.MethodGet, "/api/auth/check-auth", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@b.com", body["user"].(map[string]any)["email"])
}

func TestSessionGate(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodGet, "/api/home/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, body["error"])

	w, _ = s.do(t, http.MethodGet, "/api/socials/post/get-posts", nil, &http.Cookie{Name: cookies.Session, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFollowOverHTTP(t *testing.T) {
	s := newTestServer(t)

	signUp := func(first, email string) (*http.Cookie, string) {
		w, body := s.do(t, http.MethodPost, "/api/auth/sign-up", gin.H{
			"firstName": first,
			"lastName":  "Test",
			"email":     email,
			"password":  "Str0ng!Pass",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return sessionCookie(w), body["user"].(map[string]any)["id"].(string)
	}

	annCookie, annID := signUp("Ann", "ann@example.com")
	_, bobID := signUp("Bob", "bob@example.com")

	w, _ := s.do(t, http.MethodPost, "/api/socials/follow/follow-user", gin.H{"followingId": bobID}, annCookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, body := s.do(t, http.MethodPost, "/api/socials/follow/follow-user", gin.H{"followingId": bobID}, annCookie)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Already following this user", body["error"])

	w, body = s.do(t, http.MethodGet, "/api/socials/follow/get-followers?page=1&limit=20&userId="+bobID, nil, annCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["total"])
	assert.Equal(t, false, body["hasMore"])

	users := body["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, annID, users[0].(map[string]any)["id"])

	w, body = s.do(t, http.MethodPost, "/api/socials/follow/get-following-status", gin.H{"userIds": []string{bobID}}, annCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{bobID: true}, body["followingStatus"])
}
