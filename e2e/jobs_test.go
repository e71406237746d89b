package e2e

import (
	"net/http"
	"testing"
)

func TestSubmitRequiresAuth(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, "POST", "/api/jobs/", `{}`, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusUnauthorized)
}

func TestSubmitCreatesJob(t *testing.T) {
	ta := setupApp(t)

	job := submitJob(t, ta.app, submitterToken(t), "")

	if job["status"] != "waiting" {
		t.Errorf("status = %v, want waiting", job["status"])
	}
	if job["assignedResource"] != "resourceA" {
		t.Errorf("assignedResource = %v, want resourceA", job["assignedResource"])
	}
	code, _ := job["code"].(string)
	if len(code) != 4 {
		t.Errorf("code = %q, want 4 digits", code)
	}
	if job["isPaid"] != false {
		t.Errorf("isPaid = %v, want false", job["isPaid"])
	}
	if job["queuePosition"] != float64(1) {
		t.Errorf("queuePosition = %v, want 1", job["queuePosition"])
	}
}

func TestSubmitValidation(t *testing.T) {
	ta := setupApp(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing document name", `{"documentSizeBytes": 1000, "copies": 1, "colorMode": "monochrome", "urgency": "normal", "pickupSlot": "1"}`},
		{"bad color mode", `{"documentName": "a.pdf", "documentSizeBytes": 1000, "copies": 1, "colorMode": "sepia", "urgency": "normal", "pickupSlot": "1"}`},
		{"zero copies", `{"documentName": "a.pdf", "documentSizeBytes": 1000, "copies": 0, "colorMode": "monochrome", "urgency": "normal", "pickupSlot": "1"}`},
		{"unknown slot", `{"documentName": "a.pdf", "documentSizeBytes": 1000, "copies": 1, "colorMode": "monochrome", "urgency": "normal", "pickupSlot": "99"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := doAuthRequest(t, ta.app, submitterToken(t), "POST", "/api/jobs/", tc.body)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			assertStatus(t, resp, http.StatusBadRequest)
		})
	}
}

func TestSubmitEstimatesPageCountWhenOmitted(t *testing.T) {
	ta := setupApp(t)

	job := submitJob(t, ta.app, submitterToken(t), `{
		"documentName": "slides.pdf",
		"documentSizeBytes": 400000,
		"copies": 1,
		"colorMode": "monochrome",
		"urgency": "normal",
		"pickupSlot": "1"
	}`)

	if job["pageCount"] != float64(5) {
		t.Errorf("pageCount = %v, want 5", job["pageCount"])
	}
}

func TestMineListsOnlyOwnJobs(t *testing.T) {
	ta := setupApp(t)

	submitJob(t, ta.app, submitterToken(t), "")
	otherToken := generateToken(t, "student-2", "Bilal", "submitter")
	submitJob(t, ta.app, otherToken, "")

	resp, err := doAuthRequest(t, ta.app, submitterToken(t), "GET", "/api/jobs/mine", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	parsed := parseJSON(t, resp)
	if parsed["count"] != float64(1) {
		t.Errorf("count = %v, want 1", parsed["count"])
	}
}

func TestGetForeignJobForbidden(t *testing.T) {
	ta := setupApp(t)

	job := submitJob(t, ta.app, submitterToken(t), "")
	jobID, _ := job["id"].(string)

	otherToken := generateToken(t, "student-2", "Bilal", "submitter")
	resp, err := doAuthRequest(t, ta.app, otherToken, "GET", "/api/jobs/"+jobID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusForbidden)

	// Operators can read anything.
	resp, err = doAuthRequest(t, ta.app, operatorToken(t), "GET", "/api/jobs/"+jobID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
}

func TestQuoteAndPay(t *testing.T) {
	ta := setupApp(t)

	job := submitJob(t, ta.app, submitterToken(t), `{
		"documentName": "report.pdf",
		"documentSizeBytes": 120000,
		"pageCount": 4,
		"copies": 2,
		"colorMode": "monochrome",
		"urgency": "normal",
		"pickupSlot": "1"
	}`)
	jobID, _ := job["id"].(string)

	resp, err := doAuthRequest(t, ta.app, submitterToken(t), "GET", "/api/jobs/"+jobID+"/quote", "")
	if err != nil {
		t.Fatalf("quote request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	quote := parseJSON(t, resp)
	if quote["totalAmount"] != float64(16) {
		t.Fatalf("totalAmount = %v, want 16", quote["totalAmount"])
	}

	// Wrong amount is rejected.
	resp, err = doAuthRequest(t, ta.app, submitterToken(t), "POST", "/api/jobs/"+jobID+"/pay", `{"amount": 10}`)
	if err != nil {
		t.Fatalf("pay request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusBadRequest)

	resp, err = doAuthRequest(t, ta.app, submitterToken(t), "POST", "/api/jobs/"+jobID+"/pay", `{"amount": 16}`)
	if err != nil {
		t.Fatalf("pay request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	paid := parseJSON(t, resp)
	if paid["isPaid"] != true {
		t.Errorf("isPaid = %v, want true", paid["isPaid"])
	}

	// Paying twice conflicts.
	resp, err = doAuthRequest(t, ta.app, submitterToken(t), "POST", "/api/jobs/"+jobID+"/pay", `{"amount": 16}`)
	if err != nil {
		t.Fatalf("pay request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusConflict)
	if code := errorCode(t, resp); code != "ALREADY_PAID" {
		t.Errorf("error code = %q, want ALREADY_PAID", code)
	}
}

func TestCommentAndAcknowledgeFlow(t *testing.T) {
	ta := setupApp(t)

	job := submitJob(t, ta.app, submitterToken(t), "")
	jobID, _ := job["id"].(string)

	// Submitters cannot comment.
	resp, err := doAuthRequest(t, ta.app, submitterToken(t), "POST", "/api/jobs/"+jobID+"/comments", `{"message": "hi"}`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusForbidden)

	resp, err = doAuthRequest(t, ta.app, operatorToken(t), "POST", "/api/jobs/"+jobID+"/comments",
		`{"message": "file is password protected", "requiresAction": true}`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	flagged := parseJSON(t, resp)
	if flagged["needsSubmitterAttention"] != true {
		t.Error("attention flag not set after comment")
	}

	resp, err = doAuthRequest(t, ta.app, submitterToken(t), "POST", "/api/jobs/"+jobID+"/acknowledge", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	acked := parseJSON(t, resp)
	if acked["needsSubmitterAttention"] != false {
		t.Error("attention flag still set after acknowledge")
	}
}
