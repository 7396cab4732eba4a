package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/go-drift/fiber/cmd/fiber/internal/demo"
	"github.com/go-drift/fiber/pkg/host/termview"
)

func newDemoCmd(a *app) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the counter and todo page interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTTY() {
				return fmt.Errorf("demo needs an interactive terminal; try 'fiber trace' instead")
			}
			if noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}

			m, err := demo.New(demo.Options{
				Title:       a.cfg.AppName,
				Todos:       a.cfg.Todos,
				Engine:      a.engineConfig(),
				Tick:        a.cfg.Tick,
				SliceBudget: a.cfg.SliceBudget,
				Styles:      termview.DefaultStyles(),
			})
			if err != nil {
				return err
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("demo: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors")
	return cmd
}

func isTTY() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}
