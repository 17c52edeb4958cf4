package runner

import (
	"fmt"
	"time"
)

// Status represents the outcome of a check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Result is the outcome of a single check invocation.
type Result struct {
	Check  string `json:"check"`
	Status Status `json:"status"`
	// Diagnostics holds one line per violation.
	Diagnostics []string      `json:"diagnostics,omitempty"`
	Note        string        `json:"note,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
}

// Failed reports whether the result counts against the overall status.
func (r Result) Failed() bool { return r.Status == StatusFail }

// Pass builds a passing result with an optional note.
func Pass(check, note string) Result {
	return Result{Check: check, Status: StatusPass, Note: note}
}

// Skip builds a skipped result; note says why.
func Skip(check, note string) Result {
	return Result{Check: check, Status: StatusSkip, Note: note}
}

// Fail builds a failing result listing violations.
func Fail(check, note string, diagnostics []string) Result {
	return Result{Check: check, Status: StatusFail, Note: note, Diagnostics: diagnostics}
}

// Errorf builds a failing result for a check that could not complete.
func Errorf(check, format string, args ...any) Result {
	return Result{Check: check, Status: StatusFail, Note: fmt.Sprintf(format, args...)}
}

// FromViolations passes when diagnostics is empty and fails otherwise.
func FromViolations(check, failNote string, diagnostics []string) Result {
	if len(diagnostics) == 0 {
		return Pass(check, "")
	}
	return Fail(check, failNote, diagnostics)
}

// Report aggregates the results of one run in execution order.
type Report struct {
	Status  string   `json:"status"` // "pass" or "fail"
	Results []Result `json:"results"`
	Failed  []string `json:"failed"`
}

// Add appends a result and updates the overall status.
func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)
	if res.Failed() {
		r.Failed = append(r.Failed, res.Check)
	}
	r.Status = "pass"
	if len(r.Failed) > 0 {
		r.Status = "fail"
	}
}

// HasFailures reports whether any check failed.
func (r *Report) HasFailures() bool { return len(r.Failed) > 0 }
