package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/mckp/app"
	"github.com/kilianp07/mckp/infra/instance"
)

var (
	solveAlgo    string
	solveLPCheck bool
)

var solveCmd = &cobra.Command{
	Use:   "solve <instance>",
	Short: "Solve an instance with a single algorithm",
	Args:  cobra.ExactArgs(1),
	RunE:  solve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveAlgo, "algorithm", "a", "dfs", "greedy, dfs, bfs, dp_power or dp_rate")
	solveCmd.Flags().BoolVar(&solveLPCheck, "lp-check", false, "cross-check the LP relaxation with the simplex solver")
	rootCmd.AddCommand(solveCmd)
}

func solve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Solver.Strategies = []string{solveAlgo}
	cfg.Solver.LPCheck = cfg.Solver.LPCheck || solveLPCheck
	if err := cfg.Solver.Validate(); err != nil {
		return err
	}

	inst, err := instance.Load(args[0])
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	cmp, err := svc.Runner.Compare(ctx, instance.Name(args[0]), inst)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, run := range cmp.Runs {
		if run.Error != "" {
			fmt.Fprintf(out, "%s: error: %s\n", run.Algorithm, run.Error)
			continue
		}
		fmt.Fprintf(out, "%s: rate %g (%s)\n", run.Algorithm, run.Rate, run.Duration)
	}
	return nil
}
