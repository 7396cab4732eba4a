package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-drift/fiber/pkg/apps"
	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/engine"
	"github.com/go-drift/fiber/pkg/host"
	"github.com/go-drift/fiber/pkg/host/memhost"
	"github.com/go-drift/fiber/pkg/host/raster"
	"github.com/go-drift/fiber/pkg/host/termview"
)

const maxSnapshotSlices = 10_000

func newSnapshotCmd(a *app) *cobra.Command {
	var (
		format string
		png    string
		clicks int
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the page headless and print its committed output tree",
		Long: `snapshot renders the demo page to completion and prints the output tree
as JSON (default), an indented node dump, or plain text. With --png the node
dump is also drawn into a PNG file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.renderPage(clicks)
			if err != nil {
				return err
			}
			if png != "" {
				if err := writePNG(png, h.Dump()); err != nil {
					return err
				}
			}
			return writeSnapshot(cmd.OutOrStdout(), h, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, dump or text")
	cmd.Flags().StringVar(&png, "png", "", "also write the node dump as a PNG image to this path")
	cmd.Flags().IntVar(&clicks, "clicks", 0, "click the increment button this many times first")
	return cmd
}

// renderPage mounts the page, applies clicks and drains all work.
func (a *app) renderPage(clicks int) (*memhost.Host, error) {
	h := memhost.New()
	e := core.NewEngine(h, a.engineConfig())
	defer e.Teardown()

	unlimited := func() host.Deadline { return host.Unlimited }
	if err := e.Render(core.C(apps.Page, a.pageProps()), h.Container()); err != nil {
		return nil, err
	}
	if _, err := engine.Drain(e, unlimited, maxSnapshotSlices); err != nil {
		return nil, err
	}
	for range clicks {
		clickByID(h, apps.IncrementID, "click", nil)
		if _, err := engine.Drain(e, unlimited, maxSnapshotSlices); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func writeSnapshot(out io.Writer, h *memhost.Host, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(h.Container().Snapshot())
	case "dump":
		_, err := io.WriteString(out, h.Dump())
		return err
	case "text":
		_, err := fmt.Fprintln(out, termview.New(termview.PlainStyles()).Render(h.Container()))
		return err
	default:
		return fmt.Errorf("unknown format %q (want json, dump or text)", format)
	}
}

func writePNG(path, text string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return raster.WritePNG(f, text, raster.Options{})
}
