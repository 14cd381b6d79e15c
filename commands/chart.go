package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dairy-dashboard/charts"
	"dairy-dashboard/figures"
	"dairy-dashboard/models"
)

func chartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a dashboard panel to a PNG file",
	}

	var (
		cluster int
		out     string
	)
	mapCmd := &cobra.Command{
		Use:   "map",
		Short: "Bar chart of 2018 raw milk prices for one cluster",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.IsCluster(cluster) {
				return fmt.Errorf("cluster must be one of 0, 1, 2, got %d", cluster)
			}
			ds, err := loadDataset()
			if err != nil {
				return err
			}
			records, err := ds.MapRecords(cluster)
			if err != nil {
				return err
			}
			return writePNG(out, func(w io.Writer) error {
				return charts.RenderCluster(w, cluster, records)
			})
		},
	}
	mapCmd.Flags().IntVar(&cluster, "cluster", 0, "cluster id (0, 1 or 2)")
	mapCmd.Flags().StringVarP(&out, "out", "o", "cluster.png", "output file")

	var (
		country   string
		product   string
		seriesOut string
	)
	seriesCmd := &cobra.Command{
		Use:   "series",
		Short: "Line chart of one product's price in one country",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.IsProduct(product) {
				return fmt.Errorf("unknown product %q", product)
			}
			ds, err := loadDataset()
			if err != nil {
				return err
			}
			records, err := ds.SeriesRecords(country, product)
			if err != nil {
				return err
			}
			return writePNG(seriesOut, func(w io.Writer) error {
				return charts.RenderSeries(w, country, records)
			})
		},
	}
	seriesCmd.Flags().StringVar(&country, "country", figures.DefaultHoverCountry, "country code (country_3)")
	seriesCmd.Flags().StringVar(&product, "product", models.ProductRawMilk, "product")
	seriesCmd.Flags().StringVarP(&seriesOut, "out", "o", "series.png", "output file")

	cmd.AddCommand(mapCmd, seriesCmd)
	return cmd
}

func writePNG(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := render(f); err != nil {
		return err
	}
	logger.Info("Chart written", zap.String("path", path))
	return f.Close()
}
