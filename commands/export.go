package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dairy-dashboard/export"
	"dairy-dashboard/models"
)

func exportCmd() *cobra.Command {
	var (
		cluster int
		product string
		out     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a cluster's map subset and product series to an xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSelection(cluster, product); err != nil {
				return err
			}
			ds, err := loadDataset()
			if err != nil {
				return err
			}

			wb, err := export.Build(ds, cluster, product)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()

			if err := export.Write(f, wb); err != nil {
				return err
			}
			logger.Info("Workbook written", zap.String("path", out))
			return f.Close()
		},
	}

	cmd.Flags().IntVar(&cluster, "cluster", 0, "cluster id (0, 1 or 2)")
	cmd.Flags().StringVar(&product, "product", models.ProductRawMilk, "product for the country series")
	cmd.Flags().StringVarP(&out, "out", "o", "dairy_export.xlsx", "output file")
	return cmd
}

func validateSelection(cluster int, product string) error {
	if !models.IsCluster(cluster) {
		return fmt.Errorf("cluster must be one of 0, 1, 2, got %d", cluster)
	}
	if !models.IsProduct(product) {
		return fmt.Errorf("unknown product %q", product)
	}
	return nil
}
