// Package output provides utilities for formatting and displaying calculation
// results and histories on the command line.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/history"
	"github.com/iwvelando/finance-calculators/pkg/datetime"
	"github.com/iwvelando/finance-calculators/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyResult outputs a human-readable rendering of one calculation.
func PrettyResult(w io.Writer, result calculator.Result) {
	_, _ = fmt.Fprintf(w, "--- %s ---\n", result.Kind)
	if result.Failed() {
		_, _ = fmt.Fprintf(w, "Error (%s): %v\n", result.Stage(), result.Err)
		return
	}

	_, _ = fmt.Fprintf(w, "Result: %s\n", format.Grouped(result.Value, result.Precision))
	_, _ = fmt.Fprintf(w, "Formula: %s\n", result.Formula)
	_, _ = fmt.Fprintf(w, "%s\n", result.Explanation)
	for _, d := range result.Details {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", d.Label, d.Value)
	}
	if result.Degenerate() {
		_, _ = fmt.Fprintf(w, "Note: %v\n", result.Err)
	}
	if result.HistoryErr != nil {
		_, _ = fmt.Fprintf(w, "Warning: history not saved: %v\n", result.HistoryErr)
	}
}

// CsvResults outputs calculations in comma-separated value format.
func CsvResults(w io.Writer, results []calculator.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"kind", "result", "formula", "error", "errorStage"}); err != nil {
		return err
	}
	for _, result := range results {
		record := []string{result.Kind.String(), result.Display, result.Formula, "", ""}
		if result.Failed() {
			record[3] = result.Err.Error()
			record[4] = result.Stage().String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PrettyHistory outputs a human-readable table of history entries.
func PrettyHistory(w io.Writer, family string, capacity int, entries []history.Entry) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "--- History for %s (%d of %d) ---\n", family, len(entries), capacity)
	if len(entries) == 0 {
		_, _ = fmt.Fprintf(w, "No calculations yet.\n")
		return
	}
	_, _ = fmt.Fprintf(w, "Time                 | Kind | Operands | Result | Favorite\n")
	_, _ = fmt.Fprintf(w, "____                 | ____ | ________ | ______ | ________\n")
	for _, e := range entries {
		favorite := ""
		if e.Favorite {
			favorite = "★"
		}
		_, _ = fmt.Fprintf(w, "%s | %s | %s | %s | %s\n",
			datetime.FormatMillis(e.Timestamp), e.Kind, strings.Join(e.Operands(), "; "), e.ResultDisplay, favorite)
	}
	_, _ = fmt.Fprintf(w, "Timestamps: %s\n", timestampList(entries))
}

func timestampList(entries []history.Entry) string {
	ts := make([]string, len(entries))
	for i, e := range entries {
		ts[i] = strconv.FormatInt(e.Timestamp, 10)
	}
	return strings.Join(ts, ", ")
}

// CsvHistory outputs history entries in comma-separated value format.
func CsvHistory(w io.Writer, entries []history.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "timestamp", "kind", "operands", "result", "favorite"}); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			datetime.FormatMillis(e.Timestamp),
			strconv.FormatInt(e.Timestamp, 10),
			e.Kind,
			strings.Join(e.Operands(), "; "),
			e.ResultDisplay,
			strconv.FormatBool(e.Favorite),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
