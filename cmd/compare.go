package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/mckp/app"
	coremetrics "github.com/kilianp07/mckp/core/metrics"
	"github.com/kilianp07/mckp/infra/instance"
)

var (
	compareJSON  bool
	compareServe bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <instance>...",
	Short: "Run every configured algorithm on each instance and compare them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  compare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "print comparisons as JSON")
	compareCmd.Flags().BoolVar(&compareServe, "serve", false, "keep serving metrics after the comparisons until interrupted")
	rootCmd.AddCommand(compareCmd)
}

func compare(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()
	svc.ServeMetrics(ctx)

	var disagreements int
	for _, path := range args {
		inst, err := instance.Load(path)
		if err != nil {
			return err
		}
		cmp, err := svc.Runner.Compare(ctx, instance.Name(path), inst)
		if err != nil {
			return err
		}
		if !cmp.Agreed {
			disagreements++
		}
		if compareJSON {
			err = json.NewEncoder(cmd.OutOrStdout()).Encode(cmp)
		} else {
			err = printComparison(cmd.OutOrStdout(), cmp)
		}
		if err != nil {
			return err
		}
	}
	if compareServe && cfg.Metrics.PrometheusAddr != "" {
		<-ctx.Done()
	}
	if disagreements > 0 {
		return fmt.Errorf("%d of %d instances have disagreeing algorithms", disagreements, len(args))
	}
	return nil
}

func printComparison(w io.Writer, cmp coremetrics.Comparison) error {
	p := cmp.Preprocess
	fmt.Fprintf(w, "%s: %d channels, budget %d, terms %d -> %d -> %d (hull)\n",
		cmp.Instance, p.Channels, p.Budget, p.TermsInput, p.TermsFiltered, p.TermsHull)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "algorithm\trate\ttime\tnodes\tpruned\terror")
	for _, run := range cmp.Runs {
		fmt.Fprintf(tw, "%s\t%g\t%s\t%d\t%d\t%s\n",
			run.Algorithm, run.Rate, run.Duration, run.Expanded, run.Pruned, run.Error)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !cmp.Agreed {
		fmt.Fprintln(w, "WARNING: exact algorithms disagree")
	}
	return nil
}
