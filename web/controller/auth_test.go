package controller

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/hanlovechurch/church-ui/database"
	"github.com/hanlovechurch/church-ui/logger"
	"github.com/hanlovechurch/church-ui/util/common"
	"github.com/hanlovechurch/church-ui/web/entity"
	"github.com/hanlovechurch/church-ui/web/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger(logging.ERROR)
	if err := database.InitTestDB(); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type capturingSender struct {
	fail bool
	html string
}

func (s *capturingSender) Send(to, subject, html string) error {
	if s.fail {
		return common.NewError("mail rejected")
	}
	s.html = html
	return nil
}

var codePattern = regexp.MustCompile(`[0-9]{6}`)

func (s *capturingSender) lastCode() string {
	return codePattern.FindString(s.html)
}

// client drives the auth endpoints while carrying the session cookie across
// requests, like a browser would.
type client struct {
	t       *testing.T
	engine  *gin.Engine
	auth    *AuthController
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, mail service.Sender) *client {
	engine := gin.New()
	engine.Use(sessions.Sessions("session", cookie.NewStore([]byte("test-secret"))))
	auth := NewAuthController(engine.Group("/"), service.NewVerificationService(mail))
	return &client{t: t, engine: engine, auth: auth, cookies: map[string]*http.Cookie{}}
}

func (cl *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	cl.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	cl.engine.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		cl.cookies[c.Name] = c
	}
	return w
}

// respMsg decodes the response envelope and returns its message. The test
// router runs without the localizer, so messages come back as catalog keys.
func respMsg(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var msg entity.Msg
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	return msg.Msg
}

func TestRegisterFlow(t *testing.T) {
	mail := &capturingSender{}
	cl := newClient(t, mail)

	w := cl.post("/api/auth/send-code", url.Values{"email": {"flow@example.com"}})
	require.Equal(t, http.StatusOK, w.Code)
	code := mail.lastCode()
	require.Len(t, code, 6)

	// a wrong code leaves the challenge usable
	w = cl.post("/api/auth/verify-code", url.Values{
		"email": {"flow@example.com"}, "code": {"000000"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = cl.post("/api/auth/verify-code", url.Values{
		"email": {"flow@example.com"}, "code": {code},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = cl.post("/register", url.Values{
		"name":     {"플로우"},
		"username": {"flowuser"},
		"password": {"flow-pw"},
		"email":    {"flow@example.com"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = cl.post("/login", url.Values{"username": {"flowuser"}, "password": {"flow-pw"}})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterWithoutVerification(t *testing.T) {
	cl := newClient(t, &capturingSender{})
	w := cl.post("/register", url.Values{
		"name":     {"무단"},
		"username": {"unverified"},
		"password": {"pw"},
		"email":    {"unverified@example.com"},
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestVerifiedMarkerIsSingleUse(t *testing.T) {
	mail := &capturingSender{}
	cl := newClient(t, mail)

	cl.post("/api/auth/send-code", url.Values{"email": {"once@example.com"}})
	w := cl.post("/api/auth/verify-code", url.Values{
		"email": {"once@example.com"}, "code": {mail.lastCode()},
	})
	require.Equal(t, http.StatusOK, w.Code)

	// submitting a different email consumes the marker anyway
	w = cl.post("/register", url.Values{
		"name":     {"한번"},
		"username": {"onceuser"},
		"password": {"pw"},
		"email":    {"someone-else@example.com"},
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = cl.post("/register", url.Values{
		"name":     {"한번"},
		"username": {"onceuser"},
		"password": {"pw"},
		"email":    {"once@example.com"},
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestExpiredRegisterCodeIsDeleted(t *testing.T) {
	mail := &capturingSender{}
	cl := newClient(t, mail)

	w := cl.post("/api/auth/send-code", url.Values{"email": {"late@example.com"}})
	require.Equal(t, http.StatusOK, w.Code)
	code := mail.lastCode()

	cl.auth.now = func() time.Time { return time.Now().Add(5*time.Minute + time.Millisecond) }

	// past expiry even the correct code fails, and the failed check deletes
	// the challenge
	form := url.Values{"email": {"late@example.com"}, "code": {code}}
	w = cl.post("/api/auth/verify-code", form)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "auth.codeExpired", respMsg(t, w))

	w = cl.post("/api/auth/verify-code", form)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "auth.noPendingCode", respMsg(t, w))
}

func TestExpiredResetCodeIsDeleted(t *testing.T) {
	var users service.UserService
	_, err := users.Register("지각생", "latecomer", "pw", "latecomer@example.com")
	require.NoError(t, err)

	mail := &capturingSender{}
	cl := newClient(t, mail)

	w := cl.post("/api/auth/find-password/send-code", url.Values{"username_email": {"latecomer"}})
	require.Equal(t, http.StatusOK, w.Code)
	code := mail.lastCode()

	cl.auth.now = func() time.Time { return time.Now().Add(5*time.Minute + time.Millisecond) }

	form := url.Values{"username_email": {"latecomer"}, "code": {code}}
	w = cl.post("/api/auth/find-password/verify-code", form)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "auth.codeExpired", respMsg(t, w))

	w = cl.post("/api/auth/find-password/verify-code", form)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "auth.noPendingCode", respMsg(t, w))

	// the stale challenge never turned into a grant
	w = cl.post("/api/auth/reset-password", url.Values{"new_password": {"pw2"}})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestVerifyWithoutPendingCode(t *testing.T) {
	cl := newClient(t, &capturingSender{})
	w := cl.post("/api/auth/verify-code", url.Values{
		"email": {"nobody@example.com"}, "code": {"123456"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendCodeForTakenEmail(t *testing.T) {
	var users service.UserService
	_, err := users.Register("기존", "taken1", "pw", "taken1@example.com")
	require.NoError(t, err)

	mail := &capturingSender{}
	cl := newClient(t, mail)
	w := cl.post("/api/auth/send-code", url.Values{"email": {"taken1@example.com"}})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Empty(t, mail.html)
}

func TestSendCodeMailFailureLeavesNoChallenge(t *testing.T) {
	mail := &capturingSender{fail: true}
	cl := newClient(t, mail)

	w := cl.post("/api/auth/send-code", url.Values{"email": {"downmail@example.com"}})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// no pending challenge was stored, so any verify attempt is rejected
	w = cl.post("/api/auth/verify-code", url.Values{
		"email": {"downmail@example.com"}, "code": {"123456"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	var users service.UserService
	_, err := users.Register("찾기", "finder", "old-pw", "finder@example.com")
	require.NoError(t, err)

	mail := &capturingSender{}
	cl := newClient(t, mail)

	w := cl.post("/api/auth/find-password/send-code", url.Values{"username_email": {"finder"}})
	require.Equal(t, http.StatusOK, w.Code)
	code := mail.lastCode()

	// either the username or the registered email addresses the challenge
	w = cl.post("/api/auth/find-password/verify-code", url.Values{
		"username_email": {"finder@example.com"}, "code": {code},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = cl.post("/api/auth/reset-password", url.Values{"new_password": {"fresh-pw"}})
	require.Equal(t, http.StatusOK, w.Code)

	// the grant was consumed by that attempt
	w = cl.post("/api/auth/reset-password", url.Values{"new_password": {"again-pw"}})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = cl.post("/login", url.Values{"username": {"finder"}, "password": {"old-pw"}})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w = cl.post("/login", url.Values{"username": {"finder"}, "password": {"fresh-pw"}})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestResetSendCodeUnknownIdentity(t *testing.T) {
	cl := newClient(t, &capturingSender{})
	w := cl.post("/api/auth/find-password/send-code", url.Values{"username_email": {"ghost"}})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestResetPasswordWithoutGrant(t *testing.T) {
	cl := newClient(t, &capturingSender{})
	w := cl.post("/api/auth/reset-password", url.Values{"new_password": {"pw"}})
	require.Equal(t, http.StatusForbidden, w.Code)
}
