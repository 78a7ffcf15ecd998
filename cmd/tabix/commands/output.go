package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/teranos/tabix/errors"
	"github.com/teranos/tabix/rate"
	"github.com/teranos/tabix/table"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return errors.WithHint(
		errors.NewInvalidRequestError("unsupported format: %s", format),
		"supported formats: table, json, yaml")
}

// writeResult renders a rating result in the requested format
func writeResult(w io.Writer, format string, t table.Table, res *rate.Result) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal result to JSON")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case formatYAML:
		data, err := yaml.Marshal(res)
		if err != nil {
			return errors.Wrap(err, "failed to marshal result to YAML")
		}
		_, err = w.Write(data)
		return err

	case formatTable:
		return writeResultTable(w, t, res)
	}
	return checkFormat(format)
}

func writeResultTable(w io.Writer, t table.Table, res *rate.Result) error {
	data := pterm.TableData{
		{"#", "column", "uniqueness", "leftness", "relational", "total", ""},
	}
	for i, total := range res.Composite {
		name := table.HeaderOf(t, i)
		marker := ""
		if i == res.Subject {
			marker = pterm.LightGreen("◀ subject")
			name = pterm.Bold.Sprint(name)
		}
		data = append(data, []string{
			strconv.Itoa(i),
			name,
			scoreAt(res.Signals[rate.SignalUniqueness], i),
			scoreAt(res.Signals[rate.SignalLeftness], i),
			scoreAt(res.Signals[rate.SignalRelational], i),
			strconv.Itoa(total),
			marker,
		})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	fmt.Fprintln(w, rendered)

	subject := table.HeaderOf(t, res.Subject)
	if subject == "" {
		subject = "column " + strconv.Itoa(res.Subject)
	}
	fmt.Fprintf(w, "%s %s (%d rows, %s)\n",
		pterm.LightGreen("Subject column:"), subject, t.RowCount(), res.Duration.Round(time.Microsecond))

	for _, d := range res.Diagnostics {
		fmt.Fprintf(w, "%s %s\n", pterm.Yellow("⚠"), d.String())
	}
	return nil
}

func scoreAt(s rate.Scores, i int) string {
	if i >= len(s) {
		return "-"
	}
	return strconv.Itoa(s[i])
}
