package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"combohunt/internal/classify"
	"combohunt/internal/config"
	"combohunt/internal/godaddy"
)

// ANSI dots, matching what operators expect from a terminal run: green for
// available, yellow for too expensive, red for taken.
const (
	dotGreen  = "\033[92m●\033[0m"
	dotYellow = "\033[93m●\033[0m"
	dotRed    = "\033[91m●\033[0m"
)

type printer struct {
	w             io.Writer
	color         bool
	verbose       bool
	onlyAvailable bool
}

func newPrinter(stdout *os.File, verbose, onlyAvailable bool) *printer {
	return &printer{
		w:             stdout,
		color:         term.IsTerminal(int(stdout.Fd())),
		verbose:       verbose,
		onlyAvailable: onlyAvailable,
	}
}

func (p *printer) Banner(cfg config.Config, total int) {
	parts := []string{
		fmt.Sprintf("%d-letter combos", cfg.Letters),
		"TLDs: " + strings.Join(cfg.TLDs, ", "),
	}
	suffixes := make([]string, len(cfg.Suffixes))
	for i, s := range cfg.Suffixes {
		if s == "" {
			s = "(none)"
		}
		suffixes[i] = s
	}
	parts = append(parts, "Suffixes: "+strings.Join(suffixes, ", "))
	if cfg.MaxPrice != nil {
		parts = append(parts, fmt.Sprintf("Max price: $%g", *cfg.MaxPrice))
	}
	fmt.Fprintf(p.w, "Config: %s\n", strings.Join(parts, " | "))
	fmt.Fprintf(p.w, "%d candidates to check (batches of up to %d, every %gs)\n",
		total, cfg.BatchSize, cfg.Delay.Seconds())
}

func (p *printer) Result(r godaddy.Result, d classify.Disposition) {
	switch d {
	case classify.Available, classify.AvailableTentative:
		detail := formatPrice(r.Price)
		if p.verbose {
			detail += " (" + d.String() + ")"
		}
		p.line(dotGreen, "+", r.Domain+detail)
	case classify.AvailableTooExpensive:
		if p.onlyAvailable {
			return
		}
		p.line(dotYellow, "~", fmt.Sprintf("%s%s (too expensive)", r.Domain, formatPrice(r.Price)))
	case classify.Taken:
		if p.onlyAvailable {
			return
		}
		if p.verbose {
			p.line(dotRed, "-", r.Domain+" ("+d.String()+")")
		} else {
			p.line(dotRed, "-", r.Domain)
		}
	}
}

func (p *printer) BatchAbandoned(first, last string, size int, err error) {
	fmt.Fprintf(p.w, "!! batch abandoned (%s .. %s, %d domains): %v\n", first, last, size, err)
	fmt.Fprintf(p.w, "   re-run with the same arguments to retry this range\n")
}

func (p *printer) Progress(processed, total int) {
	fmt.Fprintf(p.w, ".. processed %d/%d\n", processed, total)
}

func (p *printer) Done(path string, count int, interrupted bool) {
	if interrupted {
		fmt.Fprintf(p.w, "\nInterrupted. %d domains saved to %s\n", count, path)
		return
	}
	fmt.Fprintf(p.w, "\nDone. %d domains saved to %s\n", count, path)
}

func (p *printer) line(dot, plain, rest string) {
	if p.color {
		fmt.Fprintf(p.w, "%s %s\n", dot, rest)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", plain, rest)
}

func formatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf(" $%.2f", *v)
}
