package visitor_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	visitorController "visitor-pass/controllers/visitor"
	visitorModel "visitor-pass/models/visitor"
	"visitor-pass/routes"
	"visitor-pass/services/pass"
	"visitor-pass/services/passpdf"
	"visitor-pass/services/visitorstore"

	"github.com/gofiber/fiber/v2"
)

type fakeMailer struct {
	mu               sync.Mutex
	approvalRequests int
	issued           int
	rejections       int
}

func (m *fakeMailer) SendApprovalRequest(v *visitorModel.Visitor, approveURL, rejectURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approvalRequests++
	return nil
}

func (m *fakeMailer) SendPassIssued(v *visitorModel.Visitor, pdf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued++
	return nil
}

func (m *fakeMailer) SendRejection(v *visitorModel.Visitor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections++
	return nil
}

func newTestApp() (*fiber.App, *visitorstore.MemoryStore, *fakeMailer) {
	store := visitorstore.NewMemoryStore()
	mailer := &fakeMailer{}
	renderer := passpdf.New(passpdf.Config{OrgName: "TRF Ltd"})
	svc := pass.New(store, mailer, renderer, pass.Config{BaseURL: "http://localhost:3000"})

	app := fiber.New()
	routes.RegisterAPI(app, visitorController.NewVisitorController(svc))
	return app, store, mailer
}

func requestBody() string {
	return `{
		"name": "Meena Kumari",
		"email": "meena@example.com",
		"phone": "0123456789",
		"visit_date": "2026-09-01",
		"host": "Arjun Rao",
		"host_email": "arjun.rao@example.com",
		"purpose": "Vendor meeting"
	}`
}

func submitVisitor(t *testing.T, app *fiber.App, store *visitorstore.MemoryStore) visitorModel.Visitor {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/request-pass", strings.NewReader(requestBody()))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request-pass: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("request-pass: expected 200, got %d", resp.StatusCode)
	}

	all, err := store.ListAll(context.Background())
	if err != nil || len(all) == 0 {
		t.Fatalf("expected a stored record, got %v (%v)", all, err)
	}
	return all[0]
}

func TestRequestPass_SubmitsPendingRecord(t *testing.T) {
	app, store, mailer := newTestApp()

	v := submitVisitor(t, app, store)
	if v.Status != visitorModel.StatusPending {
		t.Errorf("expected pending, got %q", v.Status)
	}
	if mailer.approvalRequests != 1 {
		t.Errorf("expected 1 approval request mail, got %d", mailer.approvalRequests)
	}
}

func TestRequestPass_MissingFields(t *testing.T) {
	app, _, _ := newTestApp()

	req := httptest.NewRequest("POST", "/api/request-pass", strings.NewReader(`{"name":"Meena"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request-pass: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestApprove_Endpoint(t *testing.T) {
	app, store, mailer := newTestApp()
	v := submitVisitor(t, app, store)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/approve/"+v.UID, nil))
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(string(body), "Approved and emailed") {
		t.Fatalf("expected approval confirmation, got %d %q", resp.StatusCode, body)
	}
	if mailer.issued != 1 {
		t.Errorf("expected 1 issued mail, got %d", mailer.issued)
	}

	// Second click on the same link is a benign no-op.
	resp, err = app.Test(httptest.NewRequest("GET", "/api/approve/"+v.UID, nil))
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || string(body) != "Already approved" {
		t.Fatalf("expected already-approved message, got %d %q", resp.StatusCode, body)
	}
	if mailer.issued != 1 {
		t.Errorf("expected no double-send, got %d issued mails", mailer.issued)
	}
}

func TestApprove_UnknownID(t *testing.T) {
	app, _, _ := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/approve/no-such-uid", nil))
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestReject_BlockedAfterApproval(t *testing.T) {
	app, store, mailer := newTestApp()
	v := submitVisitor(t, app, store)

	if _, err := app.Test(httptest.NewRequest("GET", "/api/approve/"+v.UID, nil)); err != nil {
		t.Fatalf("approve: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/reject/"+v.UID, nil))
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || string(body) != "Already approved" {
		t.Fatalf("expected already-approved message, got %d %q", resp.StatusCode, body)
	}
	if mailer.rejections != 0 {
		t.Errorf("expected no rejection mail, got %d", mailer.rejections)
	}
}

func TestDownloadPass_Endpoint(t *testing.T) {
	app, store, _ := newTestApp()
	v := submitVisitor(t, app, store)

	// Pending records are indistinguishable from missing ones.
	resp, err := app.Test(httptest.NewRequest("GET", "/api/download-pass/"+v.UID, nil))
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for pending record, got %d", resp.StatusCode)
	}

	if _, err := app.Test(httptest.NewRequest("GET", "/api/approve/"+v.UID, nil)); err != nil {
		t.Fatalf("approve: %v", err)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/download-pass/"+v.UID, nil))
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/pdf") {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, v.PassNumber) {
		t.Errorf("expected inline disposition naming the pass, got %q", cd)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Error("expected PDF content")
	}
}

func TestListVisitors_Endpoint(t *testing.T) {
	app, store, _ := newTestApp()
	v := submitVisitor(t, app, store)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/visitors", nil))
	if err != nil {
		t.Fatalf("visitors: %v", err)
	}
	var all []visitorModel.Visitor
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		t.Fatalf("decode visitors: %v", err)
	}
	if len(all) != 1 || all[0].UID != v.UID {
		t.Fatalf("expected the submitted record, got %v", all)
	}

	// The guard view only wants approved records.
	resp, err = app.Test(httptest.NewRequest("GET", "/api/visitors?status=approved", nil))
	if err != nil {
		t.Fatalf("approved visitors: %v", err)
	}
	var approved []visitorModel.Visitor
	if err := json.NewDecoder(resp.Body).Decode(&approved); err != nil {
		t.Fatalf("decode approved visitors: %v", err)
	}
	if len(approved) != 0 {
		t.Fatalf("expected no approved records yet, got %d", len(approved))
	}
}

func TestCleanupOldVisitors_Endpoint(t *testing.T) {
	app, _, _ := newTestApp()

	req := httptest.NewRequest("DELETE", "/api/cleanup-old-visitors", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(string(body), "Deleted 0") {
		t.Fatalf("expected empty cleanup confirmation, got %d %q", resp.StatusCode, body)
	}
}
