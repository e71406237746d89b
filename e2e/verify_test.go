package e2e

import (
	"net/http"
	"testing"

	"github.com/xeroq/api/internal/model"
)

func TestVerifyRequiresOperator(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, submitterToken(t), "GET", "/api/verify/1234", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusForbidden)
}

func TestVerifyMalformedCode(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, operatorToken(t), "GET", "/api/verify/12", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusBadRequest)
	if code := errorCode(t, resp); code != "MALFORMED_CODE" {
		t.Errorf("error code = %q, want MALFORMED_CODE", code)
	}
}

func TestVerifyUnknownCode(t *testing.T) {
	ta := setupApp(t)

	// Submit one job so the queue is non-empty, then probe a code that
	// cannot belong to it.
	job := submitJob(t, ta.app, submitterToken(t), "")
	code, _ := job["code"].(string)
	probe := "0000"
	if code == probe {
		probe = "0001"
	}

	resp, err := doAuthRequest(t, ta.app, operatorToken(t), "GET", "/api/verify/"+probe, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusNotFound)
}

func TestVerifyNotReadyUntilPrinted(t *testing.T) {
	ta := setupApp(t)

	job := submitJob(t, ta.app, submitterToken(t), "")
	jobID, _ := job["id"].(string)
	code, _ := job["code"].(string)

	resp, err := doAuthRequest(t, ta.app, operatorToken(t), "GET", "/api/verify/"+code, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusConflict)
	if ec := errorCode(t, resp); ec != "NOT_READY" {
		t.Errorf("error code = %q, want NOT_READY", ec)
	}

	advance(t, ta.app, jobID, model.StatusPrinting)
	advance(t, ta.app, jobID, model.StatusPrinted)

	resp, err = doAuthRequest(t, ta.app, operatorToken(t), "GET", "/api/verify/"+code, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	parsed := parseJSON(t, resp)
	verified, ok := parsed["job"].(map[string]interface{})
	if !ok {
		t.Fatalf("no job in verify response: %v", parsed)
	}
	if verified["id"] != jobID {
		t.Errorf("verified job %v, want %s", verified["id"], jobID)
	}

	// Verification is read-only: the job is still printed, not collected.
	resp, err = doAuthRequest(t, ta.app, operatorToken(t), "GET", "/api/jobs/"+jobID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	current := parseJSON(t, resp)
	if current["status"] != "printed" {
		t.Errorf("status after verify = %v, want printed", current["status"])
	}
}

func TestVerifyAfterCollection(t *testing.T) {
	ta := setupApp(t)

	job := submitJob(t, ta.app, submitterToken(t), "")
	jobID, _ := job["id"].(string)
	code, _ := job["code"].(string)

	advance(t, ta.app, jobID, model.StatusPrinting)
	advance(t, ta.app, jobID, model.StatusPrinted)
	if resp, err := doAuthRequest(t, ta.app, operatorToken(t), "POST", "/api/jobs/"+jobID+"/collect", ""); err != nil {
		t.Fatalf("collect request failed: %v", err)
	} else {
		assertStatus(t, resp, http.StatusOK)
	}

	resp, err := doAuthRequest(t, ta.app, operatorToken(t), "GET", "/api/verify/"+code, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusConflict)
	if ec := errorCode(t, resp); ec != "ALREADY_COLLECTED" {
		t.Errorf("error code = %q, want ALREADY_COLLECTED", ec)
	}
}
