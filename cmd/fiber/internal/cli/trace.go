package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/apps"
	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/engine"
	"github.com/go-drift/fiber/pkg/host/memhost"
)

type traceOptions struct {
	clicks    int
	todos     []string
	showOps   bool
	asJSON    bool
	serve     bool
	debugPort int
	timeout   time.Duration
}

type committed struct {
	stats core.CycleStats
	ops   []string
}

func newTraceCmd(a *app) *cobra.Command {
	opts := traceOptions{}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Run the page headless through a scripted session and print each cycle",
		Long: `trace mounts the demo page on a background render loop, clicks the
increment button and adds todos, and prints one line per committed cycle.
With --ops the host mutations of each cycle are printed as well.

With --serve the loop keeps running afterwards and the debug server exposes
/tree, /cycles, /runtime and /health on localhost until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("debug-port") {
				opts.debugPort = a.cfg.DebugPort
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.runTrace(ctx, cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.clicks, "clicks", 3, "number of increment clicks")
	flags.StringSliceVar(&opts.todos, "add", []string{"trace the engine"}, "todos to add, in order")
	flags.BoolVar(&opts.showOps, "ops", false, "print host mutations of each cycle")
	flags.BoolVar(&opts.asJSON, "json", false, "print the cycle timeline as JSON at the end")
	flags.BoolVar(&opts.serve, "serve", false, "keep running with the debug server")
	flags.IntVar(&opts.debugPort, "debug-port", 0, "debug server port for --serve (0 picks a free port)")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "give up when a step does not commit in time")
	return cmd
}

func (a *app) runTrace(ctx context.Context, out io.Writer, opts traceOptions) error {
	h := memhost.New()
	commits := make(chan committed, 16)
	r := engine.NewRunner(core.NewEngine(h, a.engineConfig()), engine.RunnerOptions{
		Interval: a.cfg.Tick,
		Budget:   a.cfg.SliceBudget,
		Logger:   a.log.Named("runner"),
		OnCommit: func(s core.CycleStats) {
			c := committed{stats: s}
			if opts.showOps {
				c.ops = h.OpStrings()
				h.ResetOps()
			}
			commits <- c
		},
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		<-r.Done()
	}()
	go func() {
		if err := r.Run(runCtx); err != nil {
			a.log.Error("runner exited", zap.Error(err))
		}
	}()

	step := func(name string, fn func()) error {
		r.Dispatch(fn)
		select {
		case c := <-commits:
			fmt.Fprintf(out, "%-18s %s\n", name, formatStats(c.stats))
			for _, op := range c.ops {
				fmt.Fprintf(out, "    %s\n", op)
			}
			return nil
		case <-time.After(opts.timeout):
			return fmt.Errorf("%s: no commit within %s", name, opts.timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := step("mount", func() {
		if err := r.Engine().Render(core.C(apps.Page, a.pageProps()), h.Container()); err != nil {
			a.log.Error("render failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	for i := range opts.clicks {
		if err := step(fmt.Sprintf("click %d", i+1), func() { clickByID(h, apps.IncrementID, "click", nil) }); err != nil {
			return err
		}
	}
	for _, todo := range opts.todos {
		if err := step("add "+todo, func() { clickByID(h, apps.NewTodoID, "submit", todo) }); err != nil {
			return err
		}
	}

	var timeline core.CycleTimeline
	var dump string
	if err := r.Query(ctx, func(e *core.Engine) {
		timeline = e.Trace().Snapshot()
		dump = h.Dump()
	}); err != nil {
		return err
	}
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(timeline); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "\n%s", dump)
	}

	if !opts.serve {
		return nil
	}
	srv := engine.NewDebugServer(r, func() any { return h.Container().Snapshot() })
	port, err := srv.Start(opts.debugPort)
	if err != nil {
		return err
	}
	defer srv.Stop()
	fmt.Fprintf(out, "\ndebug server on http://127.0.0.1:%d (ctrl-c to stop)\n", port)
	<-ctx.Done()
	return nil
}

func clickByID(h *memhost.Host, id, event string, data any) {
	found := h.Find(func(n *memhost.Node) bool {
		v, _ := n.Attr("id")
		return v == id
	})
	if len(found) > 0 {
		h.Dispatch(found[0], event, data)
	}
}

func formatStats(s core.CycleStats) string {
	return fmt.Sprintf("cycle %-3d units %-4d slices %-3d restarts %-2d creates %-3d updates %-3d deletes %-3d mutations %-4d",
		s.Seq, s.Units, s.Slices, s.Restarts, s.Creates, s.Updates, s.Deletes, s.Mutations)
}
