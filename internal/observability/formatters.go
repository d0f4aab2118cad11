// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/price-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMergeStats outputs per-winning-supplier item counts after
// reconciliation, with unmatched items counted separately.
func (p *Printer) PrintMergeStats(items []types.MergedItem) {
	if len(items) == 0 {
		return
	}

	counts := make(map[string]int)
	unmatched := 0
	for _, item := range items {
		name := item.BestSupplierName()
		if name == "" {
			unmatched++
			continue
		}
		counts[name]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total items: %d\n", len(items)))
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("%s : %d\n", name, counts[name]))
	}
	sb.WriteString(fmt.Sprintf("unmatched : %d", unmatched))

	p.printBox("MERGED CATALOG STATS", sb.String())
}

// PrintResolvedSummary outputs counts of priced and probed items plus a few
// sample resolutions.
func (p *Printer) PrintResolvedSummary(items []types.ResolvedItem) {
	if len(items) == 0 {
		return
	}

	priced := 0
	observed := 0
	for _, item := range items {
		if item.FinalPrice != nil {
			priced++
		}
		if item.Competitor.Price != nil {
			observed++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Resolved: %d/%d priced, %d with competitor data\n\n", priced, len(items), observed))

	shown := 0
	for _, item := range items {
		if item.FinalPrice == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s (%s)\n", item.Title, item.PartNumber))
		sb.WriteString(fmt.Sprintf("    final: %.2f  supplier: %s\n", *item.FinalPrice, item.BestSupplierName()))
		shown++
		if shown == maxItemsToShow {
			break
		}
	}
	if priced > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", priced-maxItemsToShow))
	}

	p.printBox("RESOLVED PRICES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBulkJob outputs the terminal state of the bulk sync job.
func (p *Printer) PrintBulkJob(job types.BulkJob) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:    %s\n", job.ID))
	sb.WriteString(fmt.Sprintf("Status: %s\n", job.Status))
	if job.ErrorCode != "" {
		sb.WriteString(fmt.Sprintf("Error:  %s\n", job.ErrorCode))
	}
	if job.ObjectCount != "" {
		sb.WriteString(fmt.Sprintf("Objects: %s, %s bytes\n", job.ObjectCount, job.FileSize))
	}
	if job.ResultURL != "" {
		sb.WriteString(fmt.Sprintf("Result: %s\n", job.ResultURL))
	}

	p.printBox("BULK SYNC", strings.TrimSuffix(sb.String(), "\n"))
}
