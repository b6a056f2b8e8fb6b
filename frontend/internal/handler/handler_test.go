package handler

import (
	"context"
	"encoding/base64"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink-dev/bloodlink/frontend/internal/markdown"
	"github.com/bloodlink-dev/bloodlink/frontend/internal/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/session"
)

const testToken = "tok"

var testPages = map[string]string{
	"home.html":             `home`,
	"signin.html":           `signin`,
	"signup.html":           `signup`,
	"thank_you.html":        `thanks`,
	"pending_approval.html": `pending`,
	"unauthorized.html":     `unauthorized`,
	"not_found.html":        `not found`,
	"session_error.html":    `{{.Data.Message}} attempts:{{.Data.Attempts}}`,
	"profile.html":          `profile:{{with .Data.Profile}}{{.Name}}{{end}} status:{{.Data.Status}} admin:{{.Common.IsAdmin}}`,
	"search.html": `donors:{{range .Data.Donors}}{{.Name}},{{end}} total:{{.Data.Total}} failed:{{.Data.LoadFailed}} ` +
		`requests:{{range .Data.Requests}}{{.Title}}={{.DescriptionHTML}},{{end}} notes:{{range .Common.Notifications}}{{.}};{{end}}`,
	"admin.html": `verified:{{.Data.Stats.Verified}} users:{{range .Data.Users}}{{.Profile.Name}},{{end}} ` +
		`filter:{{.Data.StatusFilter}} requests:{{len .Data.Requests}} notes:{{range .Common.Notifications}}{{.}};{{end}}`,
}

func testTemplates(t *testing.T) map[string]*template.Template {
	t.Helper()
	templates := make(map[string]*template.Template, len(testPages))
	for name, text := range testPages {
		templates[name] = template.Must(template.New(name).Parse(text))
	}
	return templates
}

func testPublic() config.Public {
	return config.Public{
		JwtTTL:         time.Hour,
		PasswordMinLen: 8,
	}
}

// countingFetcher serves a copy of profile, or err, and counts the calls.
type countingFetcher struct {
	profile *domain.Profile
	err     error
	calls   atomic.Int32
}

func (f *countingFetcher) Profile(ctx context.Context, token string, id domain.UserId) (*domain.Profile, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	p := *f.profile
	p.Id = id
	return &p, nil
}

type testEnv struct {
	h       *Handler
	api     *MockBackend
	reg     *session.Registry
	fetcher *countingFetcher
	user    *domain.User
}

func newTestEnv(t *testing.T, profile *domain.Profile) *testEnv {
	t.Helper()
	fetcher := &countingFetcher{profile: profile}
	reg := session.NewRegistry(fetcher, session.Options{MaxAttempts: 3, RetryDelay: time.Millisecond}, time.Hour)
	t.Cleanup(reg.Stop)

	backend := &MockBackend{}
	h := New(testTemplates(t), testPublic(), markdown.New(), backend, reg, nil)
	return &testEnv{
		h:       h,
		api:     backend,
		reg:     reg,
		fetcher: fetcher,
		user:    &domain.User{Id: uuid.New(), Email: "amir@example.com"},
	}
}

// withUser stands in for the auth middleware.
func (e *testEnv) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), mw.UserClaimsKey, e.user)))
	})
}

// guarded mounts handler behind the real guard at pattern.
func (e *testEnv) guarded(method, pattern string, route middleware.Route, handler http.HandlerFunc) http.Handler {
	guard := middleware.NewGuard(e.reg, time.Second, e.h.SessionErrorHandler)
	r := chi.NewRouter()
	r.With(e.withUser, guard.Require(route)).Method(method, pattern, handler)
	return r
}

func (e *testEnv) signedIn(handler http.HandlerFunc) http.Handler {
	return e.withUser(handler)
}

func newRequest(method, target string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(&http.Cookie{Name: mw.AccessTokenCookie, Value: testToken})
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// flash decodes the flash cookie set by the response.
func flash(t *testing.T, rr *httptest.ResponseRecorder, name string) string {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == name && c.MaxAge > 0 {
			decoded, err := base64.StdEncoding.DecodeString(c.Value)
			require.NoError(t, err)
			return string(decoded)
		}
	}
	return ""
}

func cookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func verifiedProfile() *domain.Profile {
	return &domain.Profile{Name: "Amir", BloodType: domain.APos, IsAvailable: true, IsVerified: domain.Bool(true)}
}

func adminProfile() *domain.Profile {
	p := verifiedProfile()
	p.IsAdmin = domain.Bool(true)
	return p
}
