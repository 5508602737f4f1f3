package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/cheggaaa/pb.v1"

	"energyplan/server/internal/loader"
	"energyplan/server/internal/metrics"
	"energyplan/server/internal/processor"
	"energyplan/server/internal/queue"
)

func (a *app) importCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import simulation output into the database",
		Long: `import reads every scenario in the output folder (<scenario>_..._unfiltered.csv
and <scenario>_timedata.csv) and the outdoor temperature workbook, and writes
them to the database. Scenarios already stored are replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loader.Load(a.cfg.Data.Dir, a.cfg.Data.TemperatureFile)
			if err != nil {
				return err
			}

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			bar := pb.New(processor.CountRows(data))
			bar.Output = cmd.ErrOrStderr()
			bar.NotPrint = quiet
			bar.ShowSpeed = true
			bar.Start()

			q := queue.NewBatchQueue(a.cfg.BatchProcessing.QueueSize, a.logger)
			p := processor.NewBatchProcessor(db.Gorm(), q, a.cfg, a.logger, metrics.NewMetrics())
			p.Start()
			q.Start()
			defer q.Close()
			defer p.Stop()

			importer := processor.NewImporter(q, a.cfg.BatchProcessing.MaxBatchSize, a.logger).WithProgress(bar)
			err = importer.Import(context.Background(), data)
			bar.Finish()
			if err != nil {
				return err
			}

			stats := p.Stats()
			if stats.Failed > 0 {
				return fmt.Errorf("%d of %d batches failed: %w", stats.Failed, stats.Failed+stats.Processed, p.Err())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d scenarios (%d rows, %d batches)\n", len(data.Scenarios), stats.Rows, stats.Processed)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not show a progress bar")
	return cmd
}
