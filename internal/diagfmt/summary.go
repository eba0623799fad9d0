package diagfmt

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"unsound/internal/diag"
)

// Summary renders a per-rule count table for the bag, most frequent rules
// first, ties broken by name.
func Summary(w io.Writer, bag *diag.Bag) {
	counts := bag.CountByRule()
	if len(counts) == 0 {
		fmt.Fprintln(w, "no diagnostics")
		return
	}

	type ruleCount struct {
		rule  string
		count int
	}
	rows := make([]ruleCount, 0, len(counts))
	for rule, count := range counts {
		rows = append(rows, ruleCount{rule, count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].rule < rows[j].rule
	})

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"rule", "count"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.rule, r.count})
	}
	t.AppendFooter(table.Row{"total", bag.Len()})
	t.Render()
}
