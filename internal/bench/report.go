// internal/bench/report.go
// Column-aligned rendering of an Aggregate

package bench

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// namePadding is added to the longest name to get the name column width.
const namePadding = 2

type Row struct {
	Name    string
	Seconds float64
	Percent float64
}

// Report is the rendered view of an Aggregate. When HasTotal is false the
// reference total was zero or absent and every Percent is 0.
type Report struct {
	Rows     []Row
	Width    int
	Total    float64
	HasTotal bool
}

func NewReport(a *Aggregate) *Report {
	rep := &Report{Total: a.Total()}
	rep.HasTotal = rep.Total != 0

	longest := 0
	for _, name := range a.order {
		if n := utf8.RuneCountInString(name); n > longest {
			longest = n
		}
	}
	rep.Width = longest + namePadding

	rep.Rows = make([]Row, 0, len(a.order))
	for _, name := range a.order {
		secs := a.sums[name]
		row := Row{Name: name, Seconds: secs}
		if rep.HasTotal {
			row.Percent = secs / rep.Total * 100
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep
}

// WriteTo writes one line per row. An empty report writes nothing.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, row := range r.Rows {
		c, err := fmt.Fprintf(bw, "%-*s%10.4fs%10.3f%%\n", r.Width, row.Name, row.Seconds, row.Percent)
		n += int64(c)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// String renders the report as WriteTo would.
func (r *Report) String() string {
	var sb strings.Builder
	_, _ = r.WriteTo(&sb)
	return sb.String()
}
