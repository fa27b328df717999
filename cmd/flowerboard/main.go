package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"flowerboard/internal"
	"flowerboard/internal/api"
	"flowerboard/internal/catalog"
	"flowerboard/internal/pipeline"
	"flowerboard/internal/storage"
)

func main() {
	root := &cobra.Command{
		Use:          "flowerboard",
		Short:        "Sunflower Land market efficiency and coin trade boards",
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newEfficiencyCmd(),
		newTradesCmd(),
		newExportCmd(),
		newCatalogCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON read endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			server := api.New(a.logger, a.svc, a.cache)
			httpServer := &http.Server{
				Addr:              a.cfg.HTTPAddr,
				Handler:           server.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx := cmd.Context()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
			}()

			a.logger.Info("flowerboard listening", "addr", a.cfg.HTTPAddr, "cache_ttl", a.cache.TTL())
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

type viewFlags struct {
	kind   string
	search string
	sort   string
	strict bool
	json   bool
}

func (f *viewFlags) bind(cmd *cobra.Command, defaultSort string) {
	cmd.Flags().StringVar(&f.kind, "kind", "all", "all|crop|animal|mining|fruit|greenhouse")
	cmd.Flags().StringVar(&f.search, "q", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&f.sort, "sort", defaultSort, "row order")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "list dropped entries and why")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the JSON report")
}

func (f *viewFlags) options() pipeline.Options {
	return pipeline.Options{
		Query:  pipeline.Query{Kind: f.kind, Search: f.search, Sort: f.sort},
		Strict: f.strict,
	}
}

func newEfficiencyCmd() *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "efficiency",
		Short: "Print items ranked by value per hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			report, err := a.svc.Efficiency(cmd.Context(), flags.options())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.json {
				return printJSON(out, report)
			}
			return printEfficiency(out, report)
		},
	}
	flags.bind(cmd, pipeline.SortValueDesc)
	return cmd
}

func newTradesCmd() *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "trades",
		Short: "Print coins received per unit of market currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			report, err := a.svc.Trades(cmd.Context(), flags.options())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.json {
				return printJSON(out, report)
			}
			return printTrades(out, report)
		},
	}
	flags.bind(cmd, pipeline.SortRatioDesc)
	return cmd
}

func newExportCmd() *cobra.Command {
	var out string
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write both boards to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if strings.TrimSpace(out) == "" {
				out = filepath.Join(a.cfg.OutputDir, "flowerboard.xlsx")
			}
			efficiency, trades, err := a.svc.Evaluate(cmd.Context(), flags.options())
			if err != nil {
				return err
			}
			if err := pipeline.ExportRowsToXLSX(efficiency.Rows, trades.Rows, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported efficiency=%d trades=%d to %s\n", efficiency.Count, trades.Count, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output xlsx path (default $OUTPUT_DIR/flowerboard.xlsx)")
	cmd.Flags().StringVar(&flags.kind, "kind", "all", "all|crop|animal|mining|fruit|greenhouse")
	cmd.Flags().StringVar(&flags.search, "q", "", "case-insensitive name filter")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the item and coin price catalogs",
	}
	cmd.AddCommand(newCatalogImportCmd(), newCatalogShowCmd())
	return cmd
}

func newCatalogImportCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the catalog files into the catalog database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.CatalogDBPath
			}
			if dbPath == "" {
				return errors.New("--db or CATALOG_DB_PATH is required")
			}

			items, secondary, err := loadCatalogFiles(cfg)
			if err != nil {
				return err
			}
			db, err := storage.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := catalog.NewImporter(db, logger).Import(items, secondary)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog import complete: items=%d secondary=%d db=%s\n", res.Items, res.Secondary, dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite path (default $CATALOG_DB_PATH)")
	return cmd
}

func newCatalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the catalogs the other commands would use",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			items, secondary, err := loadCatalogs(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tDURATION_SEC")
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\n", item.Name, item.Kind, formatFloat(item.DurationSeconds))
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "NAME\tCOIN_PRICE")
			for _, entry := range secondary {
				fmt.Fprintf(w, "%s\t%s\n", entry.Name, formatFloat(entry.SecondaryPrice))
			}
			return w.Flush()
		},
	}
}

func printJSON(out io.Writer, payload any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func printEfficiency(out io.Writer, report pipeline.EfficiencyReport) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tPRICE\tHOURS\tVALUE/H")
	for _, row := range report.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			row.Name, row.Kind, formatFloat(row.LastSalePrice), formatFloat(row.DurationSeconds/3600), formatFloat(row.ValuePerHour))
	}
	printOmitted(w, report.Omitted)
	fmt.Fprintf(w, "\n%d rows, source=%s snapshot=%s\n", report.Count, report.Snapshot.Source, report.Snapshot.ID)
	return w.Flush()
}

func printTrades(out io.Writer, report pipeline.TradeReport) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tPRICE\tCOINS\tCOINS/UNIT")
	for _, row := range report.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			row.Name, row.Kind, formatFloat(row.LastSalePrice), formatFloat(row.SecondaryPrice), formatFloat(row.Ratio))
	}
	printOmitted(w, report.Omitted)
	fmt.Fprintf(w, "\n%d rows, source=%s snapshot=%s\n", report.Count, report.Snapshot.Source, report.Snapshot.ID)
	return w.Flush()
}

func printOmitted(w io.Writer, omitted []internal.Omission) {
	if len(omitted) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OMITTED\tREASON")
	for _, o := range omitted {
		fmt.Fprintf(w, "%s\t%s\n", o.Name, o.Reason)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
