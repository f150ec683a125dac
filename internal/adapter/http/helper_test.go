package http

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"lendcore/internal/domain/fault"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fault.Validation(fault.CodeInvalidAmount, "bad amount"), http.StatusBadRequest},
		{"authorization", fault.Authorization(fault.CodeNotOwner, "not yours"), http.StatusForbidden},
		{"not found", fault.NotFound(fault.CodeLoanNotFound, "gone"), http.StatusNotFound},
		{"conflict", fault.Conflict(fault.CodeAlreadyResolved, "done"), http.StatusConflict},
		{"dependency", fault.Dependency("query", errors.New("timeout")), http.StatusServiceUnavailable},
		{"foreign", errors.New("surprise"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusFor(tc.err); got != tc.want {
				t.Errorf("statusFor = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestWriteErr_HidesInternals(t *testing.T) {
	e := newEcho()

	c, rec := jsonCtx(e, http.MethodGet, "/", "", nil)
	if err := writeErr(c, errors.New("pq: column users.ssn does not exist")); err != nil {
		t.Fatalf("writeErr: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "ssn") {
		t.Errorf("internal detail leaked: %s", rec.Body.String())
	}

	c, rec = jsonCtx(e, http.MethodGet, "/", "", nil)
	if err := writeErr(c, fault.Dependency("load loan", errors.New("dial tcp: refused"))); err != nil {
		t.Fatalf("writeErr: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "dial tcp") {
		t.Errorf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestWriteErr_DomainMessagePassesThrough(t *testing.T) {
	e := newEcho()
	c, rec := jsonCtx(e, http.MethodGet, "/", "", nil)

	err := fault.Conflict(fault.CodeOverAllocation, "requested invitations exceed loan amount by $500.00")
	if werr := writeErr(c, err); werr != nil {
		t.Fatalf("writeErr: %v", werr)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "OVER_ALLOCATION") || !strings.Contains(body, "$500.00") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestHealth(t *testing.T) {
	e := newEcho()
	c, rec := jsonCtx(e, http.MethodGet, "/health", "", nil)

	if err := NewHandler().Health(c); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
