package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"medassist/config"
	"medassist/diagnosis"
	"medassist/handlers"
	"medassist/models"
	"medassist/store"
	"medassist/utils"
)

const pdfBytes = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

type fakeDiagnoser struct {
	mu       sync.Mutex
	calls    int
	requests []diagnosis.Request
	outcome  *diagnosis.Outcome
	err      error
	// sawFile records whether the document existed while Diagnose ran.
	sawFile bool
}

func (f *fakeDiagnoser) Diagnose(_ context.Context, req diagnosis.Request) (*diagnosis.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.requests = append(f.requests, req)
	_, statErr := os.Stat(req.DocumentPath)
	f.sawFile = statErr == nil
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

type sentMail struct {
	to, subject string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject})
	return nil
}

type testEnv struct {
	t         *testing.T
	app       *handlers.App
	store     *store.SQLite
	handler   http.Handler
	diagnoser *fakeDiagnoser
	mailer    *recordingMailer
	cookies   map[string]*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := store.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(db.Close)

	mr := miniredis.RunT(t)
	redisClient, err := utils.OpenRedisPool(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("OpenRedisPool() error = %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	templates, err := handlers.LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}

	diag := &fakeDiagnoser{outcome: &diagnosis.Outcome{
		Result: models.DiagnosisResult{Disease: "Flu", Medicine: "Tamiflu", Directions: "take twice daily"},
	}}
	mailer := &recordingMailer{}

	app := &handlers.App{
		Config: &config.Config{
			SessionTTL:     time.Hour,
			UploadDir:      t.TempDir(),
			MaxUploadBytes: 1 << 20,
			FeedbackInbox:  "inbox@example.com",
		},
		Store:     db,
		Redis:     redisClient,
		Diagnoser: diag,
		Mailer:    mailer,
		Templates: templates,
		Log:       zerolog.Nop(),
	}

	return &testEnv{
		t:         t,
		app:       app,
		store:     db,
		handler:   handlers.Routes(app),
		diagnoser: diag,
		mailer:    mailer,
		cookies:   map[string]*http.Cookie{},
	}
}

// do sends req with the cookies collected so far and keeps any the server
// sets or clears.
func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	e.t.Helper()
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(e.cookies, c.Name)
			continue
		}
		e.cookies[c.Name] = c
	}
	return rec
}

func (e *testEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) csrf() string {
	if c, ok := e.cookies[utils.CSRFCookie]; ok {
		return c.Value
	}
	return ""
}

func (e *testEnv) register(username, password string) *httptest.ResponseRecorder {
	return e.postForm("/register", url.Values{
		"username":         {username},
		"email":            {username + "@example.com"},
		"password":         {password},
		"confirm-password": {password},
	})
}

func (e *testEnv) login(username, password string) *httptest.ResponseRecorder {
	return e.postForm("/login", url.Values{"username": {username}, "password": {password}})
}

// signIn registers and logs in a fresh user.
func (e *testEnv) signIn(username string) {
	e.t.Helper()
	if rec := e.register(username, "password123"); rec.Code != http.StatusSeeOther {
		e.t.Fatalf("register status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if rec := e.login(username, "password123"); rec.Code != http.StatusSeeOther {
		e.t.Fatalf("login status = %d, want %d: %s", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
}

func uploadRequest(t *testing.T, path string, fields map[string]string, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("past_medical_records", filename)
		if err != nil {
			t.Fatal(err)
		}
		io.WriteString(fw, content)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRegisterThenLogin(t *testing.T) {
	e := newTestEnv(t)

	rec := e.register("alice", "password123")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("register = %d %q, want 303 /login", rec.Code, rec.Header().Get("Location"))
	}
	if len(e.mailer.sent) != 1 || e.mailer.sent[0].to != "alice@example.com" {
		t.Errorf("welcome mail = %+v", e.mailer.sent)
	}

	page := e.get("/login")
	if !strings.Contains(page.Body.String(), "Registration successful!") {
		t.Error("login page does not show the registration flash")
	}

	rec = e.login("alice", "password123")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("login = %d %q, want 303 /", rec.Code, rec.Header().Get("Location"))
	}
	if _, ok := e.cookies[utils.SessionCookie]; !ok {
		t.Fatal("login did not set the session cookie")
	}

	home := e.get("/")
	if home.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", home.Code)
	}
	body := home.Body.String()
	for _, want := range []string{"Login successful!", "alice", e.csrf()} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}

	// logged-in users skip the login form
	if rec := e.get("/login"); rec.Code != http.StatusSeeOther {
		t.Errorf("GET /login while logged in = %d, want 303", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		wantCode int
		wantText string
	}{
		{
			name:     "missing fields",
			form:     url.Values{},
			wantCode: http.StatusUnprocessableEntity,
			wantText: "email is required",
		},
		{
			name:     "bad email",
			form:     url.Values{"username": {"bob"}, "email": {"not-an-email"}, "password": {"password123"}, "confirm-password": {"password123"}},
			wantCode: http.StatusUnprocessableEntity,
			wantText: "email is not valid",
		},
		{
			name:     "short password",
			form:     url.Values{"username": {"bob"}, "email": {"bob@example.com"}, "password": {"short"}, "confirm-password": {"short"}},
			wantCode: http.StatusUnprocessableEntity,
			wantText: "at least 8 characters",
		},
		{
			name:     "mismatch",
			form:     url.Values{"username": {"bob"}, "email": {"bob@example.com"}, "password": {"password123"}, "confirm-password": {"password124"}},
			wantCode: http.StatusUnprocessableEntity,
			wantText: "passwords must match",
		},
		{
			name:     "duplicate username",
			form:     url.Values{"username": {"alice"}, "email": {"other@example.com"}, "password": {"password123"}, "confirm-password": {"password123"}},
			wantCode: http.StatusConflict,
			wantText: "Username or email is already registered",
		},
		{
			name:     "duplicate email",
			form:     url.Values{"username": {"carol"}, "email": {"alice@example.com"}, "password": {"password123"}, "confirm-password": {"password123"}},
			wantCode: http.StatusConflict,
			wantText: "Username or email is already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			if rec := e.register("alice", "password123"); rec.Code != http.StatusSeeOther {
				t.Fatalf("seed register = %d", rec.Code)
			}

			rec := e.postForm("/register", tt.form)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantText) {
				t.Errorf("body does not contain %q", tt.wantText)
			}
		})
	}
}

func TestLoginFailuresLookAlike(t *testing.T) {
	e := newTestEnv(t)
	e.register("alice", "password123")
	e.get("/login") // consume the registration flash

	wrong := e.login("alice", "wrong-password")
	unknown := e.login("zorro", "wrong-password")

	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d / %d, want 401 / 401", wrong.Code, unknown.Code)
	}
	if !strings.Contains(wrong.Body.String(), "Invalid username or password") {
		t.Error("wrong-password page missing the generic message")
	}
	// the only difference allowed is the echoed username
	if got, want := strings.ReplaceAll(unknown.Body.String(), "zorro", "alice"), wrong.Body.String(); got != want {
		t.Error("unknown-user and wrong-password responses differ")
	}
	if _, ok := e.cookies[utils.SessionCookie]; ok {
		t.Error("failed login set a session cookie")
	}
}

func TestLoginRedirectsToNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"/dashboard", "/dashboard"},
		{"https://evil.example.com", "/"},
		{"//evil.example.com", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			e := newTestEnv(t)
			e.register("alice", "password123")
			rec := e.postForm("/login", url.Values{"username": {"alice"}, "password": {"password123"}, "next": {tt.next}})
			if loc := rec.Header().Get("Location"); loc != tt.want {
				t.Errorf("Location = %q, want %q", loc, tt.want)
			}
		})
	}
}

func TestRequireLogin(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		path string
		want string
	}{
		{"/", "/login"},
		{"/dashboard", "/login?next=%2Fdashboard"},
		{"/feedback", "/login?next=%2Ffeedback"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := e.get(tt.path)
			if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != tt.want {
				t.Errorf("GET %s = %d %q, want 303 %q", tt.path, rec.Code, rec.Header().Get("Location"), tt.want)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	e := newTestEnv(t)
	e.signIn("alice")
	token := e.cookies[utils.SessionCookie].Value

	rec := e.get("/logout")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("logout = %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if _, err := utils.GetSession(context.Background(), e.app.Redis, token); !errors.Is(err, utils.ErrSessionNotFound) {
		t.Errorf("session still present after logout: %v", err)
	}

	// replaying the old cookie no longer works
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: token})
	if rec := e.do(req); rec.Code != http.StatusSeeOther {
		t.Errorf("GET / with stale cookie = %d, want 303", rec.Code)
	}
}

func TestDiagnosisSuccess(t *testing.T) {
	e := newTestEnv(t)
	e.signIn("alice")

	req := uploadRequest(t, "/", map[string]string{
		"csrf_token":       e.csrf(),
		"current_symptoms": "fever, cough",
	}, "records.pdf", pdfBytes)
	rec := e.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"Flu", "Tamiflu", "take twice daily", "Analysis complete!"} {
		if !strings.Contains(body, want) {
			t.Errorf("result page missing %q", want)
		}
	}
	if strings.Contains(body, "could not be interpreted") {
		t.Error("result page shows the fallback notice for a parsed answer")
	}

	if e.diagnoser.calls != 1 || e.diagnoser.requests[0].Symptoms != "fever, cough" {
		t.Errorf("diagnoser requests = %+v", e.diagnoser.requests)
	}
	if !e.diagnoser.sawFile {
		t.Error("document did not exist while the diagnosis ran")
	}
	if _, err := os.Stat(e.diagnoser.requests[0].DocumentPath); !os.IsNotExist(err) {
		t.Errorf("transient upload not removed: %v", err)
	}

	user, _ := e.store.UserByUsername(context.Background(), "alice")
	records, err := e.store.MedicalRecordsByUser(context.Background(), user.ID, 10)
	if err != nil || len(records) != 1 {
		t.Fatalf("records = %d, %v, want 1", len(records), err)
	}
	if records[0].Filename != "records.pdf" || records[0].Retained() {
		t.Errorf("record = %+v", records[0])
	}
}

func TestDiagnosisFallbackNotice(t *testing.T) {
	e := newTestEnv(t)
	e.diagnoser.outcome = &diagnosis.Outcome{Result: diagnosis.Fallback, Fallback: true}
	e.signIn("alice")

	rec := e.do(uploadRequest(t, "/", map[string]string{
		"csrf_token":       e.csrf(),
		"current_symptoms": "tired",
	}, "records.pdf", pdfBytes))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "could not be interpreted") || !strings.Contains(body, "Unable to determine") {
		t.Error("fallback result page missing the notice or the fallback text")
	}
}

func TestDiagnosisRejectsBadUploads(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		symptoms string
		wantText string
	}{
		{"wrong extension", "notes.txt", pdfBytes, "fever", "only .pdf files are accepted"},
		{"not really a pdf", "records.pdf", "Disease: Flu", "fever", "not a valid PDF"},
		{"no file", "", "", "fever", "please choose a PDF file"},
		{"no symptoms", "records.pdf", pdfBytes, "  ", "please describe your current symptoms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.signIn("alice")

			rec := e.do(uploadRequest(t, "/", map[string]string{
				"csrf_token":       e.csrf(),
				"current_symptoms": tt.symptoms,
			}, tt.filename, tt.content))

			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantText) {
				t.Errorf("body does not contain %q", tt.wantText)
			}
			if e.diagnoser.calls != 0 {
				t.Errorf("diagnoser called %d times, want 0", e.diagnoser.calls)
			}
		})
	}
}

func TestDiagnosisTooLarge(t *testing.T) {
	e := newTestEnv(t)
	e.app.Config.MaxUploadBytes = 512
	e.signIn("alice")

	big := pdfBytes + strings.Repeat("x", 4096)
	rec := e.do(uploadRequest(t, "/", map[string]string{
		"csrf_token":       e.csrf(),
		"current_symptoms": "fever",
	}, "records.pdf", big))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if e.diagnoser.calls != 0 {
		t.Error("diagnoser called for an oversized upload")
	}
}

func TestDiagnosisErrorPages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantText string
	}{
		{
			name:     "extraction",
			err:      &diagnosis.Error{Kind: diagnosis.KindExtraction, Op: "test", Err: errors.New("bad xref")},
			wantCode: http.StatusUnprocessableEntity,
			wantText: "We could not read text from that PDF.",
		},
		{
			name:     "inference",
			err:      &diagnosis.Error{Kind: diagnosis.KindInference, Op: "test", Err: errors.New("timeout")},
			wantCode: http.StatusServiceUnavailable,
			wantText: "The diagnosis model is unavailable right now. Please try again later.",
		},
		{
			name:     "unexpected",
			err:      errors.New("disk on fire"),
			wantCode: http.StatusInternalServerError,
			wantText: "Something went wrong on our side.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.diagnoser.err = tt.err
			e.signIn("alice")

			rec := e.do(uploadRequest(t, "/", map[string]string{
				"csrf_token":       e.csrf(),
				"current_symptoms": "fever",
			}, "records.pdf", pdfBytes))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantText) {
				t.Errorf("body does not contain %q", tt.wantText)
			}
			if strings.Contains(rec.Body.String(), "bad xref") || strings.Contains(rec.Body.String(), "disk on fire") {
				t.Error("internal error detail leaked into the page")
			}
		})
	}
}

func TestDiagnosisRequiresCSRF(t *testing.T) {
	e := newTestEnv(t)
	e.signIn("alice")

	rec := e.do(uploadRequest(t, "/", map[string]string{
		"csrf_token":       "forged",
		"current_symptoms": "fever",
	}, "records.pdf", pdfBytes))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if e.diagnoser.calls != 0 {
		t.Error("diagnoser called without a valid CSRF token")
	}
}

func TestDashboardUpload(t *testing.T) {
	e := newTestEnv(t)
	e.signIn("alice")

	rec := e.do(uploadRequest(t, "/dashboard", map[string]string{
		"csrf_token":       e.csrf(),
		"current_symptoms": "annual checkup",
	}, "checkup.pdf", pdfBytes))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("upload = %d %q, want 303 /dashboard", rec.Code, rec.Header().Get("Location"))
	}
	if e.diagnoser.calls != 0 {
		t.Error("dashboard upload ran the model")
	}

	user, _ := e.store.UserByUsername(context.Background(), "alice")
	records, err := e.store.MedicalRecordsByUser(context.Background(), user.ID, 10)
	if err != nil || len(records) != 1 {
		t.Fatalf("records = %d, %v, want 1", len(records), err)
	}
	rec0 := records[0]
	if !rec0.Retained() || filepath.Dir(rec0.StoredPath) != filepath.Join(e.app.Config.UploadDir, user.ID.String()) {
		t.Errorf("StoredPath = %q", rec0.StoredPath)
	}
	if got, err := os.ReadFile(rec0.StoredPath); err != nil || string(got) != pdfBytes {
		t.Errorf("retained file = %q, %v", got, err)
	}

	page := e.get("/dashboard")
	body := page.Body.String()
	for _, want := range []string{"File uploaded successfully!", "checkup.pdf", "annual checkup"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestDashboardRejectsNonPDF(t *testing.T) {
	e := newTestEnv(t)
	e.signIn("alice")

	rec := e.do(uploadRequest(t, "/dashboard", map[string]string{"csrf_token": e.csrf()}, "photo.png", "\x89PNG\r\n\x1a\n"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	entries, _ := os.ReadDir(e.app.Config.UploadDir)
	if len(entries) != 0 {
		t.Errorf("upload dir has %d entries, want 0", len(entries))
	}
}

func TestFeedback(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"with text", "Very helpful, thanks"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.signIn("alice")
			before := len(e.mailer.sent)

			rec := e.postForm("/feedback", url.Values{"feedback": {tt.content}, "csrf_token": {e.csrf()}})
			if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
				t.Fatalf("feedback = %d %q, want 303 /", rec.Code, rec.Header().Get("Location"))
			}

			n, err := e.store.FeedbackCount(context.Background())
			if err != nil || n != 1 {
				t.Errorf("FeedbackCount() = %d, %v, want 1", n, err)
			}
			if len(e.mailer.sent) != before+1 || e.mailer.sent[before].to != "inbox@example.com" {
				t.Errorf("feedback forward = %+v", e.mailer.sent[before:])
			}
		})
	}
}

func TestFeedbackRequiresCSRF(t *testing.T) {
	e := newTestEnv(t)
	e.signIn("alice")

	rec := e.postForm("/feedback", url.Values{"feedback": {"hi"}})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if n, _ := e.store.FeedbackCount(context.Background()); n != 0 {
		t.Errorf("FeedbackCount() = %d, want 0", n)
	}
}

func TestHealthEndpoints(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		path string
		want string
	}{
		{"/healthz", "ok"},
		{"/readyz", "ready"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := e.get(tt.path)
			if rec.Code != http.StatusOK || rec.Body.String() != tt.want {
				t.Errorf("GET %s = %d %q, want 200 %q", tt.path, rec.Code, rec.Body.String(), tt.want)
			}
		})
	}
}

func TestStaticAssets(t *testing.T) {
	e := newTestEnv(t)
	rec := e.get("/static/main.css")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "font-family") {
		t.Errorf("GET /static/main.css = %d", rec.Code)
	}
}

func TestRequireLoginDropsSessionOfMissingUser(t *testing.T) {
	e := newTestEnv(t)
	e.signIn("alice")
	token := e.cookies[utils.SessionCookie].Value

	// same Redis, but a database that has never seen alice
	empty, err := store.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(empty.Close)
	e.app.Store = empty

	rec := e.get("/dashboard")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("GET /dashboard = %d %q, want 303 /login", rec.Code, rec.Header().Get("Location"))
	}
	if _, err := utils.GetSession(context.Background(), e.app.Redis, token); !errors.Is(err, utils.ErrSessionNotFound) {
		t.Errorf("session still present: %v", err)
	}
	if _, ok := e.cookies[utils.SessionCookie]; ok {
		t.Error("session cookie was not cleared")
	}
}
