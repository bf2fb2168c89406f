package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/mckp/core/solver"
	"github.com/kilianp07/mckp/infra/instance"
	"github.com/kilianp07/mckp/pkg/export"
)

var (
	exportChannel int
	exportLP      bool
	exportFormat  string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export <instance>",
	Short: "Export the scatter data of a channel for plotting",
	Args:  cobra.ExactArgs(1),
	RunE:  exportScatter,
}

func init() {
	exportCmd.Flags().IntVar(&exportChannel, "channel", export.AllChannels, "channel index, -1 for all channels")
	exportCmd.Flags().BoolVar(&exportLP, "lp", false, "only export the LP-filtered terms")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file, stdout when empty")
	rootCmd.AddCommand(exportCmd)
}

func exportScatter(cmd *cobra.Command, args []string) error {
	inst, err := instance.Load(args[0])
	if err != nil {
		return err
	}
	if err := solver.Preprocess(inst); err != nil {
		return err
	}
	pts, err := export.Scatter(inst, exportChannel, exportLP)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	switch exportFormat {
	case "csv":
		return export.WriteCSV(w, pts)
	case "json":
		return export.WriteJSON(w, pts)
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}
}
