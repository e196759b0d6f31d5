package main

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numbers formats counts with thousands separators.
var numbers = message.NewPrinter(language.English)

// printReport writes the comparison table for the two passes.
func printReport(w io.Writer, exact, approx result) error {
	rows := []struct {
		label         string
		exact, approx string
	}{
		{"Unique items", numbers.Sprintf("%.1f", exact.count), numbers.Sprintf("%.1f", approx.count)},
		{"Elapsed (s)", fmt.Sprintf("%.3f", exact.elapsed.Seconds()), fmt.Sprintf("%.3f", approx.elapsed.Seconds())},
	}

	if _, err := fmt.Fprintf(w, "\nComparison results:\n%-30s%20s%20s\n", "", "Exact count", "HyperLogLog"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-30s%20s%20s\n", row.label, row.exact, row.approx); err != nil {
			return err
		}
	}
	return nil
}
