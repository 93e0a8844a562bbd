package shared

import (
	"net/http/httptest"
	"testing"
)

func TestValidatorRequired(t *testing.T) {
	v := NewValidator()
	v.Required("firstName", "", "first name is required")
	v.Required("lastName", "Smith", "last name is required")

	issues := v.Issues()
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if issues[0].Field != "firstName" {
		t.Fatalf("field = %s, want firstName", issues[0].Field)
	}
}

func TestValidatorEnumNormalizesCase(t *testing.T) {
	v := NewValidator()
	v.Enum("status", "active", []string{"ACTIVE", "INACTIVE"}, "status must be ACTIVE or INACTIVE")
	if v.HasIssues() {
		t.Fatal("lowercase value of an allowed enum member should pass")
	}

	v.Enum("status", "RETIRED", []string{"ACTIVE", "INACTIVE"}, "status must be ACTIVE or INACTIVE")
	if !v.HasIssues() {
		t.Fatal("RETIRED is not an allowed value")
	}
}

func TestValidatorEnumSkipsEmpty(t *testing.T) {
	v := NewValidator()
	v.Enum("status", "", []string{"ACTIVE"}, "bad status")
	if v.HasIssues() {
		t.Fatal("empty value is Required's job, not Enum's")
	}
}

func TestValidatorDateAndOrder(t *testing.T) {
	v := NewValidator()
	start, ok := v.Date("startDate", "2026-03-02")
	if !ok {
		t.Fatal("valid date rejected")
	}
	end, ok := v.Date("endDate", "2026-03-01")
	if !ok {
		t.Fatal("valid date rejected")
	}
	v.DateOrder("startDate", start, "endDate", end)
	if len(v.Issues()) != 2 {
		t.Fatalf("issues = %d, want 2 (both fields flagged)", len(v.Issues()))
	}
}

func TestValidatorDateRejectsGarbage(t *testing.T) {
	v := NewValidator()
	if _, ok := v.Date("startDate", "03/02/2026"); ok {
		t.Fatal("slash format must be rejected")
	}
	if !v.HasIssues() {
		t.Fatal("expected an issue for the bad date")
	}
}

func TestValidatorIssuesSorted(t *testing.T) {
	v := NewValidator()
	v.Add("zeta", "bad")
	v.Add("alpha", "bad")
	issues := v.Issues()
	if issues[0].Field != "alpha" || issues[1].Field != "zeta" {
		t.Fatalf("issues not sorted by field: %+v", issues)
	}
}

func TestRejectWritesNothingWhenClean(t *testing.T) {
	v := NewValidator()
	rec := httptest.NewRecorder()
	if v.Reject(rec, "req-1") {
		t.Fatal("clean validator must not reject")
	}
}

func TestRejectWrites400(t *testing.T) {
	v := NewValidator()
	v.Add("amount", "must be positive")
	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("validator with issues must reject")
	}
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestParsePaginationDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/items", nil)
	page := ParsePagination(r, 50, 200)
	if page.Limit != 50 || page.Offset != 0 {
		t.Fatalf("page = %+v, want limit 50 offset 0", page)
	}
}

func TestParsePaginationClampsToMax(t *testing.T) {
	r := httptest.NewRequest("GET", "/items?limit=9999&offset=40", nil)
	page := ParsePagination(r, 50, 200)
	if page.Limit != 200 {
		t.Fatalf("limit = %d, want clamp to 200", page.Limit)
	}
	if page.Offset != 40 {
		t.Fatalf("offset = %d, want 40", page.Offset)
	}
}

func TestParsePaginationIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest("GET", "/items?limit=abc&offset=-5", nil)
	page := ParsePagination(r, 50, 200)
	if page.Limit != 50 || page.Offset != 0 {
		t.Fatalf("page = %+v, want defaults", page)
	}
}
