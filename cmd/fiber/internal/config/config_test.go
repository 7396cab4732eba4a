package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestResolve_Defaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "myapp")
	require.NoError(t, os.Mkdir(dir, 0o755))

	r, err := Resolve(dir, "v0.1.0")
	require.NoError(t, err)
	require.Equal(t, "myapp", r.AppName)
	require.Empty(t, r.ModulePath)
	require.Equal(t, DefaultSliceBudget, r.SliceBudget)
	require.Equal(t, DefaultTick, r.Tick)
	require.Equal(t, DefaultLogLevel, r.LogLevel)
	require.Zero(t, r.DebugPort)
}

func TestResolve_ModulePathNamesApp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/acme/widgets/v2\n\ngo 1.24\n")

	r, err := Resolve(dir, "dev")
	require.NoError(t, err)
	require.Equal(t, "example.com/acme/widgets/v2", r.ModulePath)
	require.Equal(t, "widgets", r.AppName)
}

func TestResolve_File(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
version: 0.1.0
app:
  name: board
  todos: [one, two]
engine:
  yield_threshold: 2ms
  trace_capacity: 10
  slice_budget: 4ms
  tick: 33ms
log:
  level: debug
  file: logs/fiber.log
debug:
  port: 9090
`)

	r, err := Resolve(dir, "v0.2.0")
	require.NoError(t, err)
	require.Equal(t, "board", r.AppName)
	require.Equal(t, []string{"one", "two"}, r.Todos)
	require.Equal(t, 2*time.Millisecond, r.YieldThreshold)
	require.Equal(t, 10, r.TraceCapacity)
	require.Equal(t, 4*time.Millisecond, r.SliceBudget)
	require.Equal(t, 33*time.Millisecond, r.Tick)
	require.Equal(t, "debug", r.LogLevel)
	require.Equal(t, filepath.Join(dir, "logs", "fiber.log"), r.LogFile)
	require.Equal(t, 9090, r.DebugPort)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		cli     string
	}{
		{"bad yaml", "app: [", "v0.1.0"},
		{"bad version", "version: banana", "v0.1.0"},
		{"newer version", "version: v1.2.0", "v1.1.9"},
		{"bad port", "debug:\n  port: 70000", "v0.1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.content)
			_, err := Resolve(dir, tt.cli)
			require.Error(t, err)
		})
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		want, have string
		ok         bool
	}{
		{"", "v0.1.0", true},
		{"0.1.0", "v0.1.0", true},
		{"v0.1.0", "0.2.0", true},
		{"v0.3.0", "v0.2.0", false},
		{"v9.0.0", "dev", true},
		{"v9.0.0", "v0.1.0-dev", true},
	}
	for _, tt := range tests {
		err := checkVersion(tt.want, tt.have)
		if tt.ok {
			require.NoError(t, err, "%s vs %s", tt.want, tt.have)
		} else {
			require.Error(t, err, "%s vs %s", tt.want, tt.have)
		}
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	got, err := FindProjectRoot()
	require.NoError(t, err)
	want, _ := filepath.EvalSymlinks(root)
	gotReal, _ := filepath.EvalSymlinks(got)
	require.Equal(t, want, gotReal)
}
