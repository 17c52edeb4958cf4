package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCheck implements Checker for testing.
type MockCheck struct {
	name   string
	result Result
	panics bool
	called bool
}

func (m *MockCheck) Name() string {
	return m.name
}

func (m *MockCheck) Run(ctx context.Context, deps *Deps) Result {
	m.called = true
	if m.panics {
		panic("kaboom")
	}
	return m.result
}

// recordingPrinter keeps the order of printer callbacks.
type recordingPrinter struct {
	events []string
}

func (p *recordingPrinter) Start(name string) { p.events = append(p.events, "start:"+name) }
func (p *recordingPrinter) Finish(res Result) {
	p.events = append(p.events, "finish:"+res.Check+":"+string(res.Status))
}

func TestRunner_RunAll(t *testing.T) {
	c1 := &MockCheck{name: "c1", result: Pass("c1", "")}
	c2 := &MockCheck{name: "c2", result: Skip("c2", "astyle not installed")}

	r := NewRunner([]Checker{c1, c2}, &Deps{}, nil)

	report, err := r.RunAll(context.Background())
	require.NoError(t, err)

	assert.True(t, c1.called)
	assert.True(t, c2.called)
	assert.Equal(t, "pass", report.Status)
	assert.Empty(t, report.Failed)
	require.Len(t, report.Results, 2)
	assert.Equal(t, StatusSkip, report.Results[1].Status)
}

func TestRunner_RunAll_FailureDoesNotShortCircuit(t *testing.T) {
	c1 := &MockCheck{name: "c1", result: Fail("c1", "", []string{"a.c:1: bad"})}
	c2 := &MockCheck{name: "c2", result: Pass("c2", "")}

	r := NewRunner([]Checker{c1, c2}, &Deps{}, nil)

	report, err := r.RunAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChecksFailed)
	assert.Contains(t, err.Error(), "c1")

	assert.True(t, c1.called)
	assert.True(t, c2.called)
	assert.Equal(t, "fail", report.Status)
	assert.Equal(t, []string{"c1"}, report.Failed)
}

func TestRunner_PanicOnlyFailsThatCheck(t *testing.T) {
	c1 := &MockCheck{name: "c1", panics: true}
	c2 := &MockCheck{name: "c2", result: Pass("c2", "")}

	report, err := NewRunner([]Checker{c1, c2}, &Deps{}, nil).RunAll(context.Background())
	require.Error(t, err)

	assert.True(t, c2.called)
	require.Len(t, report.Results, 2)
	assert.Equal(t, StatusFail, report.Results[0].Status)
	assert.Contains(t, report.Results[0].Note, "kaboom")
	assert.Equal(t, StatusPass, report.Results[1].Status)
}

func TestRunner_ResultNameComesFromChecker(t *testing.T) {
	c := &MockCheck{name: "eof-newline", result: Result{Status: StatusPass}}

	report, err := NewRunner([]Checker{c}, &Deps{}, nil).RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "eof-newline", report.Results[0].Check)
}

func TestRunner_RunList(t *testing.T) {
	c1 := &MockCheck{name: "c1", result: Pass("c1", "")}
	c2 := &MockCheck{name: "c2", result: Pass("c2", "")}
	printer := &recordingPrinter{}

	r := NewRunner([]Checker{c1, c2}, &Deps{}, printer)

	report, err := r.RunList(context.Background(), []string{"c2"})
	require.NoError(t, err)
	assert.False(t, c1.called)
	assert.True(t, c2.called)
	require.Len(t, report.Results, 1)
	assert.Equal(t, []string{"start:c2", "finish:c2:pass"}, printer.events)

	_, err = r.RunList(context.Background(), []string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check not found: nope")
}

func TestFromViolations(t *testing.T) {
	assert.Equal(t, StatusPass, FromViolations("x", "bad", nil).Status)

	res := FromViolations("x", "bad", []string{"a:1: y"})
	assert.Equal(t, StatusFail, res.Status)
	assert.Equal(t, "bad", res.Note)
	assert.True(t, res.Failed())
}
