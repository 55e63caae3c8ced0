package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	adapthttp "contactbook/internal/adapter/http"
	"contactbook/internal/adapter/memory"
	"contactbook/internal/app"
	"contactbook/internal/domain"
)

func contactInput(firstName, email string) domain.ContactInput {
	return domain.ContactInput{FirstName: firstName, LastName: "Tester", Email: email, Phone: "+1"}
}

// ---------------------------------------------------------------------------
// Test-server helpers
// ---------------------------------------------------------------------------

// newTestServer builds a server on the in-memory adapter with auth disabled;
// every request runs as user 1.
func newTestServer(t *testing.T) (*httptest.Server, *memory.DB) {
	t.Helper()

	db := memory.New()
	contactSvc := app.NewContactService(db)
	authSvc := app.NewAuthService(db, memory.NewSessionRepo(db))

	srv := adapthttp.New(contactSvc, authSvc, adapthttp.OIDCConfig{}).WithoutAuth()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, db
}

// newAuthedTestServer keeps the auth middleware on, for session tests.
func newAuthedTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db := memory.New()
	contactSvc := app.NewContactService(db)
	authSvc := app.NewAuthService(db, memory.NewSessionRepo(db))

	srv := adapthttp.New(contactSvc, authSvc, adapthttp.OIDCConfig{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func createContact(t *testing.T, ts *httptest.Server, firstName, email string) map[string]any {
	t.Helper()

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/contacts", map[string]any{
		"firstName": firstName,
		"lastName":  "Tester",
		"email":     email,
		"phone":     "+1-555-0100",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create contact: expected 201, got %d", resp.StatusCode)
	}
	var body map[string]any
	decode(t, resp, &body)
	return body
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]any
	decode(t, resp, &body)
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
}

func TestContactCreateAndGet(t *testing.T) {
	ts, _ := newTestServer(t)

	created := createContact(t, ts, "Ada", "ada@example.com")
	id := int64(created["id"].(float64))
	if id == 0 {
		t.Fatal("expected an assigned id")
	}

	resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/contacts/%d", ts.URL, id), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got map[string]any
	decode(t, resp, &got)
	if got["firstName"] != "Ada" || got["email"] != "ada@example.com" {
		t.Errorf("unexpected contact: %v", got)
	}
}

func TestContactGetMissingIs404(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/contacts/9999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestContactForeignOwnerIs404(t *testing.T) {
	ts, db := newTestServer(t)

	// Insert directly as another user; requests run as user 1.
	other, err := db.CreateContact(context.Background(), 2, contactInput("Eve", "eve@example.com"))
	if err != nil {
		t.Fatal(err)
	}

	resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/contacts/%d", ts.URL, other.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign contact, got %d", resp.StatusCode)
	}
}

func TestContactDuplicateEmailIs409(t *testing.T) {
	ts, _ := newTestServer(t)
	createContact(t, ts, "Ada", "dup@example.com")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/contacts", map[string]any{
		"firstName": "Clone",
		"lastName":  "Tester",
		"email":     "dup@example.com",
		"phone":     "+1",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestContactInvalidInputIs400(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/contacts", map[string]any{
		"firstName": "",
		"lastName":  "Tester",
		"email":     "x@example.com",
		"phone":     "+1",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestContactPatch(t *testing.T) {
	ts, _ := newTestServer(t)
	created := createContact(t, ts, "Ada", "ada@example.com")
	id := int64(created["id"].(float64))

	resp := doJSON(t, http.MethodPatch, fmt.Sprintf("%s/api/contacts/%d", ts.URL, id), map[string]any{
		"phone": "+44-20-9999",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got map[string]any
	decode(t, resp, &got)
	if got["phone"] != "+44-20-9999" {
		t.Errorf("patched field not applied: %v", got["phone"])
	}
	if got["firstName"] != "Ada" {
		t.Errorf("omitted field changed: %v", got["firstName"])
	}
}

func TestContactDelete(t *testing.T) {
	ts, _ := newTestServer(t)
	created := createContact(t, ts, "Ada", "ada@example.com")
	id := int64(created["id"].(float64))

	url := fmt.Sprintf("%s/api/contacts/%d", ts.URL, id)
	resp := doJSON(t, http.MethodDelete, url, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, url, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestContactList(t *testing.T) {
	ts, _ := newTestServer(t)
	createContact(t, ts, "Ada", "ada@example.com")
	createContact(t, ts, "Alan", "alan@example.com")

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/contacts?limit=1&offset=1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Items []map[string]any `json:"items"`
	}
	decode(t, resp, &body)
	if len(body.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(body.Items))
	}
	if body.Items[0]["firstName"] != "Alan" {
		t.Errorf("expected second contact on page, got %v", body.Items[0])
	}
}

func TestContactSearch(t *testing.T) {
	ts, _ := newTestServer(t)
	createContact(t, ts, "Grace", "grace@navy.mil")
	createContact(t, ts, "Alan", "alan@bletchley.uk")

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/contacts/search?q=GRACE", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Items []map[string]any `json:"items"`
	}
	decode(t, resp, &body)
	if len(body.Items) != 1 || body.Items[0]["firstName"] != "Grace" {
		t.Fatalf("unexpected search result: %v", body.Items)
	}
}

func TestContactBirthdays(t *testing.T) {
	ts, db := newTestServer(t)

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	birthday := time.Date(1990, tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.UTC)
	input := contactInput("Soon", "soon@example.com")
	input.Birthday = &birthday
	if _, err := db.CreateContact(context.Background(), 1, input); err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateContact(context.Background(), 1, contactInput("Never", "never@example.com")); err != nil {
		t.Fatal(err)
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/contacts/birthdays", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Items []map[string]any `json:"items"`
	}
	decode(t, resp, &body)
	if len(body.Items) != 1 || body.Items[0]["firstName"] != "Soon" {
		t.Fatalf("unexpected birthday result: %v", body.Items)
	}
}

func TestUsersMe(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/users/me", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]any
	decode(t, resp, &body)
	if body["username"] != "test" || int64(body["id"].(float64)) != 1 {
		t.Errorf("unexpected profile: %v", body)
	}
	if _, leaked := body["PasswordHash"]; leaked {
		t.Error("profile response must not carry the password hash")
	}
}

func TestUsersMeRequiresAuth(t *testing.T) {
	ts := newAuthedTestServer(t)

	resp, err := http.Get(ts.URL + "/api/users/me")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", resp.StatusCode)
	}
}

func TestContactsRequireAuth(t *testing.T) {
	ts := newAuthedTestServer(t)

	resp, err := http.Get(ts.URL + "/api/contacts")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", resp.StatusCode)
	}
}

func TestSignupLoginAndAccess(t *testing.T) {
	ts := newAuthedTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/auth/signup", map[string]any{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", map[string]any{
		"username": "ada",
		"password": "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			session = c
		}
	}
	if session == nil {
		t.Fatal("login did not set a session cookie")
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/contacts", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.AddCookie(session)
	authed, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer authed.Body.Close() //nolint:errcheck
	if authed.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d", authed.StatusCode)
	}
}

func TestSSOEndpointsDisabledWithoutConfig(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/auth/sso/login")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 with SSO disabled, got %d", resp.StatusCode)
	}
}
