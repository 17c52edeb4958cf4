// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report renders check results for humans (terminal sections) and
// machines (JSON).
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/bartekus/checkformat/internal/runner"
)

var (
	danger  = lipgloss.Color("#EF4444")
	success = lipgloss.Color("#22C55E")
	dim     = lipgloss.Color("#6B7280")
	accent  = lipgloss.Color("#D97706")
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

type styles struct {
	rule  lipgloss.Style
	title lipgloss.Style
	pass  lipgloss.Style
	fail  lipgloss.Style
	skip  lipgloss.Style
	note  lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{rule: plain, title: plain, pass: plain, fail: plain, skip: plain, note: plain}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		rule:  r.NewStyle().Foreground(dim),
		title: r.NewStyle().Bold(true).Foreground(accent),
		pass:  r.NewStyle().Bold(true).Foreground(success),
		fail:  r.NewStyle().Bold(true).Foreground(danger),
		skip:  r.NewStyle().Foreground(dim),
		note:  r.NewStyle().Foreground(dim).Italic(true),
	}
}

// ColorEnabled reports whether w is a terminal.
func ColorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TextPrinter writes one labelled section per check.
type TextPrinter struct {
	w     io.Writer
	style styles
}

// NewTextPrinter creates a printer; color is usually ColorEnabled(w).
func NewTextPrinter(w io.Writer, color bool) *TextPrinter {
	return &TextPrinter{w: w, style: newStyles(w, color)}
}

// Start prints the section header.
func (p *TextPrinter) Start(name string) {
	r := p.style.rule.Render(rule)
	_, _ = fmt.Fprintf(p.w, "\n%s\n%s\n%s\n", r, p.style.title.Render("CHECK: "+name), r)
}

// Finish prints the section body, ending in OK, SKIP or the violation list.
func (p *TextPrinter) Finish(res runner.Result) {
	var b strings.Builder

	switch res.Status {
	case runner.StatusPass:
		if res.Note != "" {
			b.WriteString(p.style.note.Render(res.Note) + "\n")
		}
		b.WriteString(p.style.pass.Render("OK") + "\n")
	case runner.StatusSkip:
		b.WriteString(p.style.skip.Render("SKIP") + ": " + res.Note + "\n")
	default:
		label := "FAIL"
		if n := len(res.Diagnostics); n > 0 {
			label = fmt.Sprintf("FAIL (%d %s)", n, plural(n, "violation", "violations"))
		}
		b.WriteString(p.style.fail.Render(label) + "\n")
		if res.Note != "" {
			b.WriteString(res.Note + "\n")
		}
		for _, d := range res.Diagnostics {
			b.WriteString(d + "\n")
		}
	}

	_, _ = io.WriteString(p.w, b.String())
}

// Summary prints the overall tally after all sections.
func (p *TextPrinter) Summary(rep *runner.Report) {
	var passed, failed, skipped int
	for _, res := range rep.Results {
		switch res.Status {
		case runner.StatusPass:
			passed++
		case runner.StatusSkip:
			skipped++
		default:
			failed++
		}
	}

	line := fmt.Sprintf("%d passed, %d failed, %d skipped", passed, failed, skipped)
	_, _ = fmt.Fprintf(p.w, "\n%s\n", p.style.rule.Render(rule))
	if failed == 0 {
		_, _ = fmt.Fprintf(p.w, "%s  %s\n", p.style.pass.Render("PASS"), line)
		return
	}
	_, _ = fmt.Fprintf(p.w, "%s  %s\n", p.style.fail.Render("FAIL"), line)
	_, _ = fmt.Fprintf(p.w, "Failed checks: %s\n", strings.Join(rep.Failed, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
