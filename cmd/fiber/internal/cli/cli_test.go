package cli

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-drift/fiber/pkg/host/memhost"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fiber.yaml"), []byte(`
app:
  name: probe
  todos: [alpha]
log:
  level: error
`), 0o644))

	cmd := NewRootCmd("v0.1.0", "abc", "today")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Equal(t, "fiber v0.1.0 (commit abc, built today)\n", out)
}

func TestSnapshot_JSON(t *testing.T) {
	out, err := run(t, "snapshot", "--clicks", "2")
	require.NoError(t, err)

	var snap memhost.NodeSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	require.Equal(t, "root", snap.Tag)
	main := snap.Children[0]
	require.Equal(t, "main", main.Tag)
	require.Equal(t, "probe", *main.Children[0].Children[0].Text)
}

func TestSnapshot_TextAndPNG(t *testing.T) {
	pngPath := filepath.Join(t.TempDir(), "page.png")
	out, err := run(t, "snapshot", "-f", "text", "--clicks", "1", "--png", pngPath)
	require.NoError(t, err)
	require.Contains(t, out, "Clicks: 1")
	require.Contains(t, out, "- [ ] alpha")

	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Positive(t, img.Bounds().Dx())
}

func TestSnapshot_BadFormat(t *testing.T) {
	_, err := run(t, "snapshot", "-f", "yaml")
	require.ErrorContains(t, err, "unknown format")
}

func TestTrace(t *testing.T) {
	out, err := run(t, "trace", "--clicks", "2", "--add", "beta", "--ops")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.True(t, strings.HasPrefix(lines[0], "mount"))
	require.Contains(t, out, "click 2")
	require.Contains(t, out, "add beta")
	require.Contains(t, out, `text #`)
	require.Contains(t, out, `"beta"`)
}

func TestTrace_JSON(t *testing.T) {
	out, err := run(t, "trace", "--clicks", "1", "--add", "", "--json")
	require.NoError(t, err)

	start := strings.Index(out, "{")
	require.GreaterOrEqual(t, start, 0)
	var timeline struct {
		Cycles       []json.RawMessage `json:"cycles"`
		TotalCommits uint64            `json:"totalCommits"`
	}
	require.NoError(t, json.Unmarshal([]byte(out[start:]), &timeline))
	require.Len(t, timeline.Cycles, 2)
}

func TestDemo_RequiresTTY(t *testing.T) {
	_, err := run(t, "demo")
	require.ErrorContains(t, err, "interactive terminal")
}
