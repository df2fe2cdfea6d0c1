package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"golang.org/x/crypto/bcrypt"

	"kurtikart/internal/http/handlers"
	"kurtikart/internal/repos"
	"kurtikart/internal/services"
)

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func jsonReq(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ensure seeded passwords are hashed (not plaintext)
func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "kurti123") {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("kurti123")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New()
	app.Post("/api/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), authH.Login)

	// bad password -> 401 with the uniform message
	respBad, err := app.Test(jsonReq("POST", "/api/login",
		`{"phoneNumber":"+919876543210","password":"wrongpass"}`), -1)
	if err != nil {
		t.Fatal(err)
	}
	if respBad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", respBad.StatusCode)
	}

	// good password -> 200 + sid cookie
	respGood, err := app.Test(jsonReq("POST", "/api/login",
		`{"phoneNumber":"+919876543210","password":"kurti123"}`), -1)
	if err != nil {
		t.Fatal(err)
	}
	if respGood.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on success, got %d", respGood.StatusCode)
	}
	if extractCookie(respGood, "sid") == "" {
		t.Fatal("sid cookie missing after login")
	}

	// throttle after 2 attempts (we already did 2; a third should 429)
	respThird, err := app.Test(jsonReq("POST", "/api/login",
		`{"phoneNumber":"+919876543210","password":"wrongpass"}`), -1)
	if err != nil {
		t.Fatal(err)
	}
	if respThird.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", respThird.StatusCode)
	}
}

func TestRegisterAndMe(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New()
	app.Use(handlers.AttachUser(authSvc))
	app.Post("/api/register", authH.Register)
	app.Get("/api/me", authH.Me)

	// anonymous /me
	respAnon, _ := app.Test(httptest.NewRequest("GET", "/api/me", nil), -1)
	if respAnon.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous /me, got %d", respAnon.StatusCode)
	}

	resp, err := app.Test(jsonReq("POST", "/api/register",
		`{"phoneNumber":"98765 11111","password":"secret7","name":"Riya"}`), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on register, got %d", resp.StatusCode)
	}
	sid := extractCookie(resp, "sid")
	if sid == "" {
		t.Fatal("sid cookie missing after register")
	}

	// the session is live immediately
	reqMe := httptest.NewRequest("GET", "/api/me", nil)
	reqMe.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	respMe, err := app.Test(reqMe, -1)
	if err != nil {
		t.Fatal(err)
	}
	if respMe.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for /me with session, got %d", respMe.StatusCode)
	}
	var me struct {
		Phone string `json:"phoneNumber"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(respMe.Body).Decode(&me); err != nil {
		t.Fatal(err)
	}
	if me.Name != "Riya" {
		t.Fatalf("unexpected /me payload: %+v", me)
	}

	// duplicate phone -> 409
	respDup, _ := app.Test(jsonReq("POST", "/api/register",
		`{"phoneNumber":"9876511111","password":"secret7","name":"Riya"}`), -1)
	if respDup.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate phone, got %d", respDup.StatusCode)
	}

	// weak password -> 400
	respWeak, _ := app.Test(jsonReq("POST", "/api/register",
		`{"phoneNumber":"9876522222","password":"abc","name":"X"}`), -1)
	if respWeak.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", respWeak.StatusCode)
	}
}
