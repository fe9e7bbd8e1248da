// Package report renders analysis results as an aligned text table, YAML
// or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/speakeasy-api/animmod"
	"github.com/speakeasy-api/animmod/propmod"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var formats = []Format{FormatText, FormatYAML, FormatJSON}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("invalid format %q; valid formats: %s", s, strings.Join(names, ", "))
}

type Options struct {
	Format Format
	// Color enables ANSI colors in text output.
	Color bool
	// MaxValueWidth truncates the value column of text output; 0 keeps
	// values whole.
	MaxValueWidth int
}

// DefaultOptions returns text output with color when f is a terminal.
func DefaultOptions(f *os.File) Options {
	return Options{Format: FormatText, Color: ColorEnabled(f), MaxValueWidth: 48}
}

// ColorEnabled reports whether f is a terminal and NO_COLOR is unset.
func ColorEnabled(f *os.File) bool {
	if f == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Report is the serialized form of one result.
type Report struct {
	Source      string       `yaml:"source,omitempty" json:"source,omitempty"`
	Session     string       `yaml:"session" json:"session"`
	Fingerprint string       `yaml:"fingerprint" json:"fingerprint"`
	Stats       Stats        `yaml:"stats" json:"stats"`
	Properties  []Property   `yaml:"properties" json:"properties"`
	Diagnostics []Diagnostic `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

type Stats struct {
	Objects        int     `yaml:"objects" json:"objects"`
	SkippedObjects int     `yaml:"skippedObjects" json:"skippedObjects"`
	Behaviors      int     `yaml:"behaviors" json:"behaviors"`
	Skipped        int     `yaml:"skippedBehaviors" json:"skippedBehaviors"`
	Seconds        float64 `yaml:"seconds" json:"seconds"`
}

type Property struct {
	Target     string   `yaml:"target" json:"target"`
	Property   string   `yaml:"property" json:"property"`
	ApplyState string   `yaml:"applyState" json:"applyState"`
	Value      Value    `yaml:"value" json:"value"`
	Behaviors  []string `yaml:"behaviors,omitempty" json:"behaviors,omitempty"`
}

// Value is a ValueInfo. Floats and Objects are empty when Variable is set.
type Value struct {
	// Summary is the value as the analysis logs it.
	Summary  string    `yaml:"summary" json:"summary"`
	Kind     string    `yaml:"kind" json:"kind"`
	Variable bool      `yaml:"variable,omitempty" json:"variable,omitempty"`
	Floats   []float32 `yaml:"floats,omitempty,flow" json:"floats,omitempty"`
	Objects  []string  `yaml:"objects,omitempty,flow" json:"objects,omitempty"`
	Partial  bool      `yaml:"partial,omitempty" json:"partial,omitempty"`
}

type Diagnostic struct {
	Class    string `yaml:"class" json:"class"`
	Behavior string `yaml:"behavior" json:"behavior"`
	Asset    string `yaml:"asset,omitempty" json:"asset,omitempty"`
	Message  string `yaml:"message" json:"message"`
}

// New builds the serialized form of res in key order.
func New(source string, res *propmod.Result) *Report {
	r := &Report{
		Source:      source,
		Session:     res.SessionID,
		Fingerprint: propmod.Fingerprint(res.Table),
		Stats: Stats{
			Objects:        res.Stats.Objects,
			SkippedObjects: res.Stats.SkippedObjects,
			Behaviors:      res.Stats.Behaviors,
			Skipped:        res.Stats.Skipped,
			Seconds:        res.Stats.Duration.Seconds(),
		},
		Properties: []Property{},
	}
	for _, key := range res.Table.SortedKeys() {
		root, _ := res.Table.Root(key)
		p := Property{
			Target:     string(key.Target),
			Property:   key.Property,
			ApplyState: root.ApplyState().String(),
			Value:      valueOf(root.Value()),
		}
		for _, b := range root.Behaviors() {
			p.Behaviors = append(p.Behaviors, string(b))
		}
		r.Properties = append(r.Properties, p)
	}
	for _, d := range res.Diagnostics {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{
			Class:    d.Class.String(),
			Behavior: string(d.Behavior),
			Asset:    d.Asset,
			Message:  d.Message,
		})
	}
	return r
}

func valueOf(v animmod.ValueInfo) Value {
	out := Value{Summary: v.String(), Kind: v.Kind().String(), Variable: v.IsVariable(), Partial: v.PartialApplication()}
	if floats, ok := v.Floats(); ok {
		out.Floats = floats
	}
	for _, id := range v.Objects() {
		out.Objects = append(out.Objects, string(id))
	}
	return out
}

// Write renders reports in the configured format. YAML output separates
// reports with document markers; JSON output is an array when there is
// more than one report.
func Write(w io.Writer, opts Options, reports ...*Report) error {
	switch opts.Format {
	case FormatText, "":
		for i, r := range reports {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if err := writeText(w, r, opts); err != nil {
				return err
			}
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("failed to encode yaml report: %w", err)
			}
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		var v any = reports
		if len(reports) == 1 {
			v = reports[0]
		}
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", opts.Format)
	}
}
