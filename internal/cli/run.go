package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"dao_factory/internal/scenario"
	"dao_factory/internal/store"
	"dao_factory/sdk"
)

const (
	storeBadger = "badger"
	storeMemory = "memory"
)

type runFlags struct {
	dataDir string
	store   string
	metrics bool
}

func (a *app) runCommand() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Execute scenario files and report balances",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dataDir == "" {
				flags.dataDir = a.cfg.DataDir
			}
			seen := make(map[string]bool, len(args))
			for _, path := range args {
				if seen[path] {
					return fmt.Errorf("scenario %s given twice", path)
				}
				seen[path] = true
			}
			reg := prometheus.NewRegistry()
			for _, path := range args {
				if err := a.runScenario(cmd, path, flags, reg); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			if flags.metrics {
				return writeMetrics(a.out, reg)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.dataDir, "data-dir", "", "persist ledger state under this directory (default in memory)")
	cmd.Flags().StringVar(&flags.store, "store", storeBadger, "state backend: badger or memory")
	cmd.Flags().BoolVar(&flags.metrics, "metrics", false, "print transaction counters after the run")
	return cmd
}

func (a *app) openStore(flags runFlags, reg prometheus.Registerer) (sdk.Store, error) {
	switch flags.store {
	case storeMemory:
		if flags.dataDir != "" {
			return nil, fmt.Errorf("--data-dir needs the %s store", storeBadger)
		}
		return sdk.NewMemStore(), nil
	case storeBadger:
		return store.New(
			store.WithDataDir(flags.dataDir),
			store.WithLogger(a.logger),
			store.WithRegisterer(reg),
		)
	}
	return nil, fmt.Errorf("unknown store %q", flags.store)
}

func (a *app) runScenario(cmd *cobra.Command, path string, flags runFlags, reg *prometheus.Registry) error {
	sc, err := scenario.LoadFile(path)
	if err != nil {
		return err
	}
	scoped := prometheus.WrapRegistererWith(prometheus.Labels{"scenario": path}, reg)
	st, err := a.openStore(flags, scoped)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			a.logger.Error().Err(err).Msg("failed to close state store")
		}
	}()

	runner := scenario.NewRunner(st, a.logger, scoped)
	report, runErr := runner.Run(cmd.Context(), sc)
	if report != nil {
		writeReport(a.out, report)
	}
	return runErr
}

func writeReport(out io.Writer, report *scenario.Report) {
	fmt.Fprintf(out, "scenario: %s\n", report.Name)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tCALL\tAS\tRESULT\tEVENTS")
	for _, s := range report.Steps {
		result := "ok"
		if s.Reverted {
			result = "revert: " + s.Reason
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", s.Index, s.Call, s.As, result, s.Events)
	}
	w.Flush()

	if len(report.Checks) == 0 {
		return
	}
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tWANT\tGOT\t")
	for _, c := range report.Checks {
		mark := "PASS"
		if !c.OK {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Desc, c.Want, c.Got, mark)
	}
	w.Flush()
}

// writeMetrics prints every counter sample as name{labels} value, sorted.
func writeMetrics(out io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			lines = append(lines, fmt.Sprintf("%s%s %g", mf.GetName(), formatLabels(m.GetLabel()), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	return nil
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, lp := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
