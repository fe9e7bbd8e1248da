package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/speakeasy-api/animmod"
)

const (
	colorReset  = "\x1b[0m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
	colorDim    = "\x1b[2m"
)

var stateColors = map[string]string{
	animmod.Always.String():    colorGreen,
	animmod.Partially.String(): colorYellow,
	animmod.Never.String():     colorDim,
}

var headers = [...]string{"PROPERTY", "STATE", "VALUE", "BEHAVIORS"}

func writeText(w io.Writer, r *Report, opts Options) error {
	rows := make([][len(headers)]string, 0, len(r.Properties))
	for _, p := range r.Properties {
		value := p.Value.Summary
		if opts.MaxValueWidth > 0 {
			value = runewidth.Truncate(value, opts.MaxValueWidth, "…")
		}
		rows = append(rows, [len(headers)]string{
			p.Target + ":" + p.Property,
			p.ApplyState,
			value,
			strings.Join(p.Behaviors, ","),
		})
	}

	var widths [len(headers)]int
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	if r.Source != "" {
		fmt.Fprintf(&b, "# %s\n", r.Source)
	}
	writeRow(&b, headers, widths, "")
	for _, row := range rows {
		color := ""
		if opts.Color {
			color = stateColors[row[1]]
		}
		writeRow(&b, row, widths, color)
	}
	if len(r.Diagnostics) > 0 {
		b.WriteString("\ndiagnostics:\n")
		for _, d := range r.Diagnostics {
			line := fmt.Sprintf("  %s: behavior %s", d.Class, d.Behavior)
			if d.Asset != "" {
				line += ": " + d.Asset
			}
			line += ": " + d.Message
			if opts.Color {
				line = colorRed + line + colorReset
			}
			b.WriteString(line + "\n")
		}
	}
	fmt.Fprintf(&b, "\n%d properties, %d behaviors analyzed, %d skipped, %d objects visited (%d inactive subtrees)\n",
		len(r.Properties), r.Stats.Behaviors, r.Stats.Skipped, r.Stats.Objects, r.Stats.SkippedObjects)

	_, err := io.WriteString(w, b.String())
	return err
}

// writeRow pads every cell but the last to its column width. Padding is
// applied before coloring so escape codes do not count towards widths.
func writeRow(b *strings.Builder, row [len(headers)]string, widths [len(headers)]int, color string) {
	var line strings.Builder
	for i, cell := range row {
		if i > 0 {
			line.WriteString("  ")
		}
		if i < len(row)-1 {
			cell = runewidth.FillRight(cell, widths[i])
		}
		line.WriteString(cell)
	}
	s := strings.TrimRight(line.String(), " ")
	if color != "" {
		s = color + s + colorReset
	}
	b.WriteString(s)
	b.WriteByte('\n')
}
