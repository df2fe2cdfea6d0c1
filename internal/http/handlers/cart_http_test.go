package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"kurtikart/internal/cache"
	"kurtikart/internal/http/handlers"
	"kurtikart/internal/repos"
	"kurtikart/internal/services"
)

func newStoreApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	deps := handlers.NewDeps(db, authSvc, cache.New(0))

	app := fiber.New()
	app.Use(handlers.AttachUser(authSvc))
	app.Get("/api/products/:id", deps.CatalogHandler.OtherProductDetail)
	app.Get("/api/offers", deps.CatalogHandler.Offers)
	app.Get("/api/offers/:id", deps.CatalogHandler.OfferDetail)
	app.Post("/api/login", deps.AuthHandler.Login)
	app.Get("/api/cart", deps.CartHandler.View)
	app.Get("/api/cart/count", deps.CartHandler.Count)
	app.Post("/api/cart", deps.CartHandler.Add)
	app.Put("/api/cart/items/:id", deps.CartHandler.Update)
	app.Delete("/api/cart/items/:id", deps.CartHandler.Remove)
	return app
}

func loginDemo(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/api/login",
		`{"phoneNumber":"+919876543210","password":"kurti123"}`), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}
	sid := extractCookie(resp, "sid")
	if sid == "" {
		t.Fatal("no sid cookie from login")
	}
	return sid
}

func withSID(req *http.Request, sid string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	return req
}

func TestCartCountAnonymous(t *testing.T) {
	app := newStoreApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/cart/count", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("badge must never error: got %d", resp.StatusCode)
	}
	var body struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 0 {
		t.Fatalf("anonymous count = %d, want 0", body.Count)
	}
}

func TestCartAddAnonymousRedirect(t *testing.T) {
	app := newStoreApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/cart",
		`{"kurtiId":"krt-ank-101","size":"M","quantity":1}`), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous add, got %d", resp.StatusCode)
	}
	var body struct {
		Success  bool   `json:"success"`
		Redirect string `json:"redirect"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Success {
		t.Fatal("success must be false")
	}
	// the login bounce carries the product page so the visitor comes back
	if body.Redirect != "/login?redirect=%2Fkurtis%2Fkrt-ank-101" {
		t.Fatalf("redirect = %q", body.Redirect)
	}
}

func TestCartAddRejectsBadInput(t *testing.T) {
	app := newStoreApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/cart",
		`{"kurtiId":"../../etc/passwd","size":"M","quantity":1}`), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for hostile id, got %d", resp.StatusCode)
	}
}

func TestCartViewAnonymousRedirect(t *testing.T) {
	app := newStoreApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/cart", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous cart view, got %d", resp.StatusCode)
	}
}

func TestCartFlow(t *testing.T) {
	app := newStoreApp(t)
	sid := loginDemo(t, app)

	// add two M
	resp, err := app.Test(withSID(jsonReq("POST", "/api/cart",
		`{"kurtiId":"krt-ank-101","size":"M","quantity":2}`), sid), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add failed: %d", resp.StatusCode)
	}

	// badge reflects it
	respCount, _ := app.Test(withSID(httptest.NewRequest("GET", "/api/cart/count", nil), sid), -1)
	var count struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(respCount.Body).Decode(&count); err != nil {
		t.Fatal(err)
	}
	if count.Count != 2 {
		t.Fatalf("count = %d, want 2", count.Count)
	}

	// view carries the totals
	respView, _ := app.Test(withSID(httptest.NewRequest("GET", "/api/cart", nil), sid), -1)
	if respView.StatusCode != http.StatusOK {
		t.Fatalf("view failed: %d", respView.StatusCode)
	}
	var cv struct {
		Items []struct {
			ID    string `json:"id"`
			Sizes []struct {
				Size     string `json:"size"`
				Quantity int    `json:"quantity"`
			} `json:"sizes"`
		} `json:"items"`
		TotalItems  int     `json:"totalItems"`
		TotalAmount float64 `json:"totalAmount"`
	}
	if err := json.NewDecoder(respView.Body).Decode(&cv); err != nil {
		t.Fatal(err)
	}
	if cv.TotalItems != 2 || cv.TotalAmount != 2*549 {
		t.Fatalf("totals: %d items / %v", cv.TotalItems, cv.TotalAmount)
	}
	if len(cv.Items) != 1 {
		t.Fatalf("want one line, got %d", len(cv.Items))
	}
	lineID := cv.Items[0].ID

	// adding past stock is a conflict with an actionable message
	respOver, _ := app.Test(withSID(jsonReq("POST", "/api/cart",
		`{"kurtiId":"krt-ank-101","size":"M","quantity":3}`), sid), -1)
	if respOver.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 past stock, got %d", respOver.StatusCode)
	}
	var over struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(respOver.Body).Decode(&over); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(over.Message, "2 pieces available") {
		t.Fatalf("message should name the headroom: %q", over.Message)
	}

	// update to the full stock
	respUpd, _ := app.Test(withSID(jsonReq("PUT", "/api/cart/items/"+lineID,
		`{"size":"M","quantity":4}`), sid), -1)
	if respUpd.StatusCode != http.StatusOK {
		t.Fatalf("update failed: %d", respUpd.StatusCode)
	}

	// remove the line
	respDel, _ := app.Test(withSID(httptest.NewRequest("DELETE", "/api/cart/items/"+lineID, nil), sid), -1)
	if respDel.StatusCode != http.StatusOK {
		t.Fatalf("remove failed: %d", respDel.StatusCode)
	}
	respCount2, _ := app.Test(withSID(httptest.NewRequest("GET", "/api/cart/count", nil), sid), -1)
	if err := json.NewDecoder(respCount2.Body).Decode(&count); err != nil {
		t.Fatal(err)
	}
	if count.Count != 0 {
		t.Fatalf("count after remove = %d, want 0", count.Count)
	}

	// removing again is a 404
	respDel2, _ := app.Test(withSID(httptest.NewRequest("DELETE", "/api/cart/items/"+lineID, nil), sid), -1)
	if respDel2.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 on double remove, got %d", respDel2.StatusCode)
	}
}
