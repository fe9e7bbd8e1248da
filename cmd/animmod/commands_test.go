package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/speakeasy-api/animmod/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sceneDoc = `
root:
  name: root
  behaviors:
    - id: anim
      type: Animator
      graph: {kind: animator, controller: main}
clips:
  - name: idle
    curves:
      - {type: Transform, property: x, keys: [{time: 0, value: %s}]}
controllers:
  - name: main
    layers:
      - name: base
        stateMachine:
          states:
            - {name: idle, motion: idle}
`

func writeScene(t *testing.T, dir, name, x string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.ReplaceAll(sceneDoc, "%s", x)), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAnalyze_Text(t *testing.T) {
	path := writeScene(t, t.TempDir(), "scene.yaml", "5")

	out, _, err := execute(t, "analyze", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, "root#Transform:x")
	assert.Contains(t, out, "{5}")
	assert.NotContains(t, out, "\x1b[")
}

func TestAnalyze_YAMLKeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeScene(t, dir, "a.yaml", "1")
	b := writeScene(t, dir, "b.yaml", "2")

	out, _, err := execute(t, "analyze", "--format", "yaml", b, a)
	require.NoError(t, err)

	dec := yaml.NewDecoder(strings.NewReader(out))
	var got []report.Report
	for {
		var r report.Report
		if err := dec.Decode(&r); err != nil {
			break
		}
		got = append(got, r)
	}
	require.Len(t, got, 2)
	assert.Equal(t, b, got[0].Source)
	assert.Equal(t, "{2}", got[0].Properties[0].Value.Summary)
	assert.Equal(t, a, got[1].Source)
	assert.Equal(t, "{1}", got[1].Properties[0].Value.Summary)
}

func TestAnalyze_Without(t *testing.T) {
	path := writeScene(t, t.TempDir(), "scene.yaml", "5")

	out, _, err := execute(t, "analyze", "-f", "json", "--without", "anim", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"applyState": "never"`)

	_, _, err = execute(t, "analyze", "--without", "ghost", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown behavior "ghost"`)
}

func TestAnalyze_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("root: {name: root}\nclips: [{name: ''}]\n"), 0o600))

	_, _, err := execute(t, "analyze", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match the schema")
	assert.Contains(t, err.Error(), "clips.0.name")

	_, _, err = execute(t, "analyze", "--format", "xml", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")

	_, _, err = execute(t, "analyze")
	require.Error(t, err)
}

func TestAnalyze_Metrics(t *testing.T) {
	path := writeScene(t, t.TempDir(), "scene.yaml", "5")

	_, errOut, err := execute(t, "analyze", "--metrics", path)
	require.NoError(t, err)
	assert.Contains(t, errOut, `animmod_behaviors_analyzed_total{graph="animator"}`)
	assert.Contains(t, errOut, "animmod_walk_duration_seconds count=")
}

// syncBuffer is written by the watcher goroutine and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch_ReportsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeScene(t, dir, "scene.yaml", "5")

	var out, errOut syncBuffer
	cfg := &config{format: "text", logLevel: "error", maxValues: 64}
	ropts, err := cfg.reportOptions(&out)
	require.NoError(t, err)
	w := &watcher{
		path:     path,
		opts:     cfg.options(&errOut),
		debounce: 20 * time.Millisecond,
		out:      &out,
		errOut:   &errOut,
		ropts:    ropts,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx) }()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "{5}") }, 5*time.Second, 10*time.Millisecond)

	writeScene(t, dir, "scene.yaml", "7")
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "{7}") }, 5*time.Second, 10*time.Millisecond)

	// a broken save is reported and the previous report stays current
	require.NoError(t, os.WriteFile(path, []byte("root: ["), 0o600))
	require.Eventually(t, func() bool { return strings.Contains(errOut.String(), "could not be loaded") }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.Equal(t, 2, strings.Count(out.String(), "root#Transform:x"))
}

func TestReportOptions(t *testing.T) {
	cfg := &config{format: "JSON", noColor: true}
	ropts, err := cfg.reportOptions(os.Stdout)
	require.NoError(t, err)
	assert.Equal(t, report.Options{Format: report.FormatJSON, MaxValueWidth: 48}, ropts)
}
