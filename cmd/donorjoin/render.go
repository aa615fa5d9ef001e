package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"pkg.jsn.cam/donorjoin/pkg/donorjoin"
)

const tableRule = "─────────────────────────────────────────────────────────"

type renderer func(w io.Writer, totals donorjoin.Aggregate) error

func rendererFor(format string) (renderer, error) {
	switch format {
	case "table":
		return renderTable, nil
	case "json":
		return renderJSON, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want table or json)", format)
	}
}

func renderTable(w io.Writer, totals donorjoin.Aggregate) error {
	if len(totals) == 0 {
		_, err := fmt.Fprintln(w, "No matching donations")
		return err
	}

	fmt.Fprintf(w, "%-30s %s\n", "STATE", "AMOUNT")
	fmt.Fprintln(w, tableRule)
	for _, state := range totals.States() {
		fmt.Fprintf(w, "%-30s %s\n", strconv.Quote(state), totals[state].String())
	}
	fmt.Fprintln(w, tableRule)

	_, err := fmt.Fprintf(w, "%-30s %s\n", "TOTAL", totals.Total().String())

	return err
}

// renderJSON writes amounts as strings to keep them exact.
func renderJSON(w io.Writer, totals donorjoin.Aggregate) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(totals)
}
