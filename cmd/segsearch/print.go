package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/kailas-cloud/segscope/internal/usecase/presenter"
)

type printer struct {
	w       io.Writer
	caption *color.Color
	score   *color.Color
	meta    *color.Color
	answer  *color.Color
	red     *color.Color
	yellow  *color.Color
}

func newPrinter(w io.Writer, noColor bool) *printer {
	p := &printer{
		w:       w,
		caption: color.New(color.Bold),
		score:   color.New(color.FgGreen),
		meta:    color.New(color.FgHiBlack),
		answer:  color.New(color.FgCyan),
		red:     color.New(color.FgRed),
		yellow:  color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{p.caption, p.score, p.meta, p.answer, p.red, p.yellow} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) plain(format string, a ...any) { fmt.Fprintf(p.w, format, a...) }
func (p *printer) fail(format string, a ...any)  { p.red.Fprintf(p.w, format, a...) }
func (p *printer) warn(format string, a ...any)  { p.yellow.Fprintf(p.w, format, a...) }

func (p *printer) view(v presenter.View) {
	if v.Empty {
		p.meta.Fprintln(p.w, "No results.")
		return
	}

	if v.HasMetrics {
		if v.CompletedRelative != "" {
			p.meta.Fprintf(p.w, "%s (%s)\n", v.CompletedRelative, v.CompletedTitle)
		}
		p.meta.Fprintln(p.w, v.Metrics.Summary())
	}

	if v.RAGQuery != "" {
		p.plain("Query: %s\n", v.RAGQuery)
	}
	if v.Answer != "" {
		p.answer.Fprintln(p.w, "Answer:")
		p.plain("%s\n", v.Answer)
	}

	for _, e := range v.Entries {
		p.plain("\n%2d. ", e.Index+1)
		p.caption.Fprint(p.w, e.Caption)
		p.plain("  ")
		p.score.Fprintln(p.w, e.Similarity)

		text := e.Preview
		if e.Expanded {
			text = e.Text
		}
		for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
			p.plain("    %s\n", line)
		}
	}
}
