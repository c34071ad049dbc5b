package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"medicare/internal/clinic"
	"medicare/internal/handler"
	"medicare/internal/middleware"
	"medicare/internal/model"
	"medicare/internal/store"
)

const testSecret = "test-secret"

func newEngine(svc *clinic.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.LoadHTMLGlob("../../web/templates/*.html")
	r.Use(middleware.Session(svc, testSecret))

	h := handler.New(svc, testSecret)
	rl := middleware.NewRateLimiter(5, 10)

	r.GET("/", h.Index)
	r.POST("/login", middleware.RateLimit(rl), h.Login)
	r.POST("/signup", middleware.RateLimit(rl), h.Signup)
	r.GET("/logout", h.Logout)
	r.GET("/debug-db", h.DebugDB)

	authed := r.Group("/", h.RequireLogin())
	{
		authed.POST("/book_appointment", h.BookAppointment)
		authed.POST("/cancel_appointment/:id", h.CancelAppointment)
		authed.POST("/complete_appointment/:id", h.CompleteAppointment)
	}

	r.NoRoute(h.Fallback)
	return r
}

// dryEngine serves only paths that never reach the database.
func dryEngine() *gin.Engine {
	return newEngine(clinic.New(store.New(nil)))
}

func postForm(r *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cookieValue(w *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			v, err := url.QueryUnescape(c.Value)
			if err != nil {
				return c.Value, true
			}
			return v, true
		}
	}
	return "", false
}

func TestIndexAnonymous(t *testing.T) {
	w := get(dryEngine(), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Log in") || !strings.Contains(body, "Sign up") {
		t.Error("landing page missing auth forms")
	}
}

func TestFallbackRendersLanding(t *testing.T) {
	w := get(dryEngine(), "/no-such-page")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "MediCare") {
		t.Error("fallback did not render the landing page")
	}
}

func TestGatedRouteRedirectsAnonymous(t *testing.T) {
	w := postForm(dryEngine(), "/book_appointment", url.Values{})
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
	flash, ok := cookieValue(w, "flash")
	if !ok {
		t.Fatal("no flash cookie set")
	}
	if !strings.Contains(flash, "Please log in") {
		t.Errorf("flash = %q", flash)
	}
}

func TestFlashShownOnceThenCleared(t *testing.T) {
	r := dryEngine()
	w := get(r, "/", &http.Cookie{Name: "flash", Value: url.QueryEscape("error|Invalid email or password.")})
	if !strings.Contains(w.Body.String(), "Invalid email or password.") {
		t.Error("flash message not rendered")
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "flash" && c.MaxAge >= 0 {
			t.Error("flash cookie not cleared")
		}
	}
}

func TestLoginMissingFields(t *testing.T) {
	w := postForm(dryEngine(), "/login", url.Values{"email": {"a@b.com"}})
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	flash, _ := cookieValue(w, "flash")
	if !strings.Contains(flash, "both email and password") {
		t.Errorf("flash = %q", flash)
	}
}

func TestBadSessionCookieIgnored(t *testing.T) {
	w := get(dryEngine(), "/", &http.Cookie{Name: middleware.SessionCookie, Value: "garbage"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Log in") {
		t.Error("bad session should render the anonymous page")
	}
}

func TestRateLimitOnLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.New(clinic.New(store.New(nil)), testSecret)
	rl := middleware.NewRateLimiter(1, 1)
	r.POST("/login", middleware.RateLimit(rl), h.Login)

	first := postForm(r, "/login", url.Values{})
	if first.Code != http.StatusFound {
		t.Fatalf("first status = %d", first.Code)
	}
	second := postForm(r, "/login", url.Values{})
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", second.Code)
	}
}

// ----- database-backed flow -----

func setupDB(t *testing.T) *clinic.Service {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)
	return clinic.New(store.New(pool))
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.Value != "" {
			return c
		}
	}
	return nil
}

func TestSignupBookFlow(t *testing.T) {
	svc := setupDB(t)
	r := newEngine(svc)

	// doctor signs up
	docEmail := fmt.Sprintf("doc-%s@test.com", uuid.New().String()[:8])
	w := postForm(r, "/signup", url.Values{
		"name":             {"Dr. A"},
		"email":            {docEmail},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
		"signupUserType":   {"doctor"},
		"specialization":   {"Cardiology"},
		"licenseNumber":    {"L1"},
	})
	if w.Code != http.StatusFound {
		t.Fatalf("doctor signup status = %d", w.Code)
	}
	docSession := sessionCookie(w)
	if docSession == nil {
		t.Fatal("no session cookie after signup")
	}

	// find the doctor's id for the booking form
	doc, err := svc.Authenticate(context.Background(), docEmail, "secret1", model.RoleDoctor)
	if err != nil {
		t.Fatalf("doctor lookup: %v", err)
	}

	// patient signs up
	w = postForm(r, "/signup", url.Values{
		"name":             {"P1"},
		"email":            {fmt.Sprintf("p1-%s@test.com", uuid.New().String()[:8])},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
		"signupUserType":   {"patient"},
	})
	patientSession := sessionCookie(w)
	if patientSession == nil {
		t.Fatal("no session cookie after patient signup")
	}

	// patient books tomorrow 09:00
	tomorrow := time.Now().AddDate(0, 0, 1).Format(model.DateFormat)
	w = postForm(r, "/book_appointment", url.Values{
		"doctor_id":        {doc.ID},
		"appointment_date": {tomorrow},
		"appointment_time": {"09:00"},
		"reason":           {"checkup"},
	}, patientSession)
	if w.Code != http.StatusFound {
		t.Fatalf("book status = %d", w.Code)
	}
	flash, _ := cookieValue(w, "flash")
	if !strings.Contains(flash, "booked successfully") {
		t.Fatalf("flash = %q", flash)
	}

	// same slot again fails with the conflict message
	w = postForm(r, "/book_appointment", url.Values{
		"doctor_id":        {doc.ID},
		"appointment_date": {tomorrow},
		"appointment_time": {"09:00"},
	}, patientSession)
	flash, _ = cookieValue(w, "flash")
	if !strings.Contains(flash, "already booked") {
		t.Fatalf("conflict flash = %q", flash)
	}

	// patient dashboard shows the appointment
	w = get(r, "/", patientSession)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "scheduled") {
		t.Error("dashboard missing scheduled appointment")
	}

	// a doctor cannot book
	w = postForm(r, "/book_appointment", url.Values{
		"doctor_id":        {doc.ID},
		"appointment_date": {tomorrow},
		"appointment_time": {"10:00"},
	}, docSession)
	flash, _ = cookieValue(w, "flash")
	if !strings.Contains(flash, "Only patients can book") {
		t.Fatalf("doctor book flash = %q", flash)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	w := get(dryEngine(), "/logout")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.MaxAge >= 0 {
			t.Error("session cookie not cleared")
		}
	}
	flash, _ := cookieValue(w, "flash")
	if !strings.Contains(flash, "logged out") {
		t.Errorf("flash = %q", flash)
	}
}
