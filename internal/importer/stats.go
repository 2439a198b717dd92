package importer

import (
	"fmt"
	"io"
)

// Status is the final state of one product record
type Status int

const (
	StatusFailed Status = iota
	StatusUpdated
	StatusNotFound
	StatusAmbiguous
)

// Issue is a problem recorded against a SKU
type Issue struct {
	SKU    string
	Reason string
}

// Outcome is the result of processing one product record. Issues holds
// every problem met along the way, including skipped images of a product
// that was still updated.
type Outcome struct {
	SKU    string
	Status Status
	Issues []Issue
}

func (o *Outcome) addIssue(reason string) {
	o.Issues = append(o.Issues, Issue{SKU: o.SKU, Reason: reason})
}

// Stats aggregates the outcomes of a run.
type Stats struct {
	Total     int
	Updated   []string
	NotFound  []string
	Ambiguous []string
	Other     []Issue
}

// Record merges o into the stats. Not found and ambiguous products are
// kept apart from the other issues.
func (s *Stats) Record(o Outcome) {
	switch o.Status {
	case StatusUpdated:
		s.Updated = append(s.Updated, o.SKU)
	case StatusNotFound:
		s.NotFound = append(s.NotFound, o.SKU)
	case StatusAmbiguous:
		s.Ambiguous = append(s.Ambiguous, o.SKU)
	}
	s.Other = append(s.Other, o.Issues...)
}

// WriteSummary prints the one line summary followed by the itemized not
// found, ambiguous and other issue lists.
func (s *Stats) WriteSummary(w io.Writer) {
	fmt.Fprintf(w,
		"total products processed: %d; Successfully added assets to %d products; Products Not found: %d; Other Issues: %d\n",
		s.Total, len(s.Updated), len(s.NotFound)+len(s.Ambiguous), len(s.Other),
	)

	if len(s.NotFound) > 0 {
		fmt.Fprintln(w, "Not found SKUs:")
		for _, sku := range s.NotFound {
			fmt.Fprintf(w, " - %s\n", sku)
		}
	}

	if len(s.Ambiguous) > 0 {
		fmt.Fprintln(w, "Ambiguous SKUs:")
		for _, sku := range s.Ambiguous {
			fmt.Fprintf(w, " - %s\n", sku)
		}
	}

	if len(s.Other) > 0 {
		fmt.Fprintln(w, "Other issues:")
		for _, issue := range s.Other {
			sku := issue.SKU
			if sku == "" {
				sku = "(no sku)"
			}
			fmt.Fprintf(w, " - %s: %s\n", sku, issue.Reason)
		}
	}
}
