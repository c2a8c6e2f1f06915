package glm

import (
	"bytes"
	"fmt"
	"strings"
)

// String renders the report as a fixed-width summary table, with model
// information above the coefficient rows.
func (rep *Report) String() string {

	r := rep.result

	top := []string{
		fmt.Sprintf("Family:   %s", r.fam.Name),
		fmt.Sprintf("Link:     %s", r.link.Name),
		fmt.Sprintf("Num obs:  %d", r.design.NObs),
		fmt.Sprintf("Dropped:  %d", r.design.NDropped),
		fmt.Sprintf("Deviance: %.4f", r.deviance),
		fmt.Sprintf("Cov type: %s", rep.cov.Kind),
	}

	statName := "Z"
	if r.fam.TypeCode == GaussianFamily {
		statName = "t"
	}

	colNames := []string{"Variable", "Estimate", "SE", statName, "P-value", "LCB", "UCB"}
	if rep.Exponentiated {
		colNames = append(colNames, "Exp(Est)", "Exp(LCB)", "Exp(UCB)")
	}

	fnum := func(x float64) string {
		return fmt.Sprintf("%.4f", x)
	}

	var cells [][]string
	for _, c := range rep.Rows {
		row := []string{c.Name, fnum(c.Estimate), fnum(c.SE), fnum(c.Statistic),
			fnum(c.PValue), fnum(c.Lower), fnum(c.Upper)}
		if rep.Exponentiated {
			row = append(row, fnum(c.ExpEstimate), fnum(c.ExpLower), fnum(c.ExpUpper))
		}
		cells = append(cells, row)
	}

	// Column widths with a two-space gutter.
	wx := make([]int, len(colNames))
	for j, h := range colNames {
		wx[j] = len(h)
		for _, row := range cells {
			if len(row[j]) > wx[j] {
				wx[j] = len(row[j])
			}
		}
		wx[j] += 2
	}

	var tw int
	for _, w := range wx {
		tw += w
	}

	title := "Generalized linear model analysis"
	if tw < len(title) {
		tw = len(title)
	}

	line := func(c string) string {
		return strings.Repeat(c, tw) + "\n"
	}

	var buf bytes.Buffer

	k := (tw - len(title)) / 2
	if k > 0 {
		buf.WriteString(strings.Repeat(" ", k))
	}
	buf.WriteString(title + "\n")
	buf.WriteString(line("="))

	// Model information, two fields per line.
	var fw int
	for _, s := range top {
		if len(s) > fw {
			fw = len(s)
		}
	}
	for j, s := range top {
		buf.WriteString(fmt.Sprintf("%-*s", fw, s))
		if j%2 == 1 || j == len(top)-1 {
			buf.WriteString("\n")
		} else {
			buf.WriteString(strings.Repeat(" ", 4))
		}
	}
	buf.WriteString(line("-"))

	for j, h := range colNames {
		buf.WriteString(fmt.Sprintf("%*s", wx[j], h))
	}
	buf.WriteString("\n")
	buf.WriteString(line("-"))

	for _, row := range cells {
		for j, v := range row {
			buf.WriteString(fmt.Sprintf("%*s", wx[j], v))
		}
		buf.WriteString("\n")
	}
	buf.WriteString(line("-"))

	return buf.String()
}
