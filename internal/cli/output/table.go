package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// TableRenderer is implemented by types that can render themselves as a
// table.
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
}

// PrintTable writes data as a formatted table to the writer.
func PrintTable(w io.Writer, data TableRenderer) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(data.Headers())

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, row := range data.Rows() {
		table.Append(row)
	}

	table.Render()
	return nil
}

// CheckRow adapts one result document check into a table row set so the
// CLI doesn't need to import internal/cspx/result to implement
// TableRenderer itself (that would be an import from result back toward
// cli, which the dependency direction in this repo never takes).
type CheckRow struct {
	Name   string
	Model  string
	Target string
	Status string
	States int
	Trans  int
	Reason string
}

// CheckTable renders a slice of CheckRow as a TableRenderer.
type CheckTable []CheckRow

func (t CheckTable) Headers() []string {
	return []string{"NAME", "MODEL", "TARGET", "STATUS", "STATES", "TRANSITIONS", "REASON"}
}

func (t CheckTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.Name,
			defaultDash(r.Model),
			r.Target,
			strings.ToUpper(r.Status),
			fmt.Sprintf("%d", r.States),
			fmt.Sprintf("%d", r.Trans),
			defaultDash(r.Reason),
		})
	}
	return rows
}

func defaultDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
