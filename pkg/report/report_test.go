package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mattn/go-runewidth"
	"github.com/speakeasy-api/animmod/pkg/scenefile"
	"github.com/speakeasy-api/animmod/propmod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const scene = `
root:
  name: root
  behaviors:
    - id: anim
      type: Animator
      graph: {kind: animator, controller: main}
clips:
  - name: idle
    curves:
      - {type: Transform, property: z, keys: [{time: 0, value: 1}]}
      - {type: Transform, property: x, keys: [{time: 0, value: 5}]}
controllers:
  - name: main
    layers:
      - name: base
        stateMachine:
          states:
            - {name: idle, motion: idle}
`

func analyze(t *testing.T) *propmod.Result {
	t.Helper()
	s, err := scenefile.Parse([]byte(scene))
	require.NoError(t, err)
	opts := propmod.DefaultOptions()
	opts.Logger = propmod.NopLogger()
	res, err := propmod.Analyze(context.Background(), s.Sources(), opts)
	require.NoError(t, err)
	return res
}

func sample() *Report {
	return &Report{
		Session:     "s1",
		Fingerprint: "abc",
		Stats:       Stats{Objects: 2, Behaviors: 1},
		Properties: []Property{
			{Target: "root#Transform", Property: "x", ApplyState: "always", Value: Value{Summary: "{5}", Kind: "float", Floats: []float32{5}}, Behaviors: []string{"anim"}},
			{Target: "根/腕#Transform", Property: "y", ApplyState: "partially", Value: Value{Summary: "variable?", Kind: "float", Variable: true, Partial: true}, Behaviors: []string{"anim", "gesture"}},
		},
	}
}

func TestNew(t *testing.T) {
	r := New("scene.yaml", analyze(t))

	require.Len(t, r.Properties, 2)
	assert.Equal(t, "x", r.Properties[0].Property)
	assert.Equal(t, "z", r.Properties[1].Property)
	assert.Equal(t, Value{Summary: "{5}", Kind: "float", Floats: []float32{5}}, r.Properties[0].Value)
	assert.Equal(t, []string{"anim"}, r.Properties[0].Behaviors)
	assert.Len(t, r.Fingerprint, 64)
	assert.Equal(t, 1, r.Stats.Behaviors)
}

func TestWrite_TextAlignsByDisplayWidth(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Options{Format: FormatText}, sample()))

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	col := func(line, cell string) int {
		i := strings.Index(line, cell)
		require.NotEqual(t, -1, i, "%q not in %q", cell, line)
		return runewidth.StringWidth(line[:i])
	}
	assert.Equal(t, col(lines[0], "STATE"), col(lines[1], "always"))
	assert.Equal(t, col(lines[0], "STATE"), col(lines[2], "partially"))
	assert.Equal(t, col(lines[0], "VALUE"), col(lines[2], "variable?"))
	assert.Equal(t, col(lines[0], "BEHAVIORS"), col(lines[1], "anim"))
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "2 properties, 1 behaviors analyzed")
}

func TestWrite_TextColorAndDiagnostics(t *testing.T) {
	r := sample()
	r.Diagnostics = []Diagnostic{{Class: "structural", Behavior: "anim", Asset: "walk", Message: "unknown motion type"}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Options{Format: FormatText, Color: true}, r))
	out := buf.String()
	assert.Contains(t, out, colorGreen+"root#Transform:x")
	assert.Contains(t, out, colorYellow)
	assert.Contains(t, out, "diagnostics:\n")
	assert.Contains(t, out, "structural: behavior anim: walk: unknown motion type")
}

func TestWrite_TextTruncatesValues(t *testing.T) {
	r := sample()
	r.Properties[0].Value.Summary = "{1, 2, 3, 4, 5, 6, 7, 8}"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Options{Format: FormatText, MaxValueWidth: 8}, r))
	assert.Contains(t, buf.String(), "{1, 2, …")
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Options{Format: FormatYAML}, sample()))
	assert.Contains(t, buf.String(), "floats: [5]")

	var got Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(*sample(), got); diff != "" {
		t.Errorf("yaml report mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_JSONArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Options{Format: FormatJSON}, sample(), sample()))

	var got []Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got, 2)

	buf.Reset()
	require.NoError(t, Write(&buf, Options{Format: FormatJSON}, sample()))
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.EqualError(t, err, `invalid format "xml"; valid formats: text, yaml, json`)

	assert.Error(t, Write(&bytes.Buffer{}, Options{Format: "xml"}, sample()))
}

func TestDefaultOptions(t *testing.T) {
	assert.Equal(t, Options{Format: FormatText, MaxValueWidth: 48}, DefaultOptions(nil))

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, DefaultOptions(f).Color, "regular files are not terminals")
}
