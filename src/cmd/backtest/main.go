package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quantfold/backtester/src/backtester"
	"github.com/quantfold/backtester/src/datafeed"
	"github.com/quantfold/backtester/src/models"
	"github.com/quantfold/backtester/src/report"
	"github.com/quantfold/backtester/src/utils"
)

type RunArgs struct {
	Symbols    []string
	From       string
	To         string
	CsvDir     string
	ConfigFile string
	OutDir     string
}

var runCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a rule-based backtest over daily candles",
	Long:  `Simulates a single-position long-only strategy per symbol and prints the trade ledger and performance statistics.`,
	Run: func(cmd *cobra.Command, args []string) {
		symbols, err := cmd.Flags().GetStringSlice("symbols")
		if err != nil {
			log.Fatalf("error getting symbols: %v", err)
		}

		from, err := cmd.Flags().GetString("from")
		if err != nil {
			log.Fatalf("error getting from: %v", err)
		}

		to, err := cmd.Flags().GetString("to")
		if err != nil {
			log.Fatalf("error getting to: %v", err)
		}

		csvDir, err := cmd.Flags().GetString("csv-dir")
		if err != nil {
			log.Fatalf("error getting csv-dir: %v", err)
		}

		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		outDir, err := cmd.Flags().GetString("out-dir")
		if err != nil {
			log.Fatalf("error getting out-dir: %v", err)
		}

		if err := Run(RunArgs{
			Symbols:    symbols,
			From:       from,
			To:         to,
			CsvDir:     csvDir,
			ConfigFile: configFile,
			OutDir:     outDir,
		}); err != nil {
			log.Fatalf("Error: %v", err)
		}

		log.Info("Done")
	},
}

func Run(args RunArgs) error {
	ctx := context.Background()

	if err := utils.InitEnvironmentVariables(); err != nil {
		return fmt.Errorf("failed to init environment variables: %w", err)
	}

	cfg := models.NewBacktestConfig()
	if args.ConfigFile != "" {
		data, err := os.ReadFile(args.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		cfg, err = models.NewBacktestConfigFromYAML(data)
		if err != nil {
			return err
		}
	}

	engine, err := backtester.NewEngine(cfg)
	if err != nil {
		return err
	}

	var feed datafeed.DataFeed
	if args.CsvDir != "" {
		feed = datafeed.NewCsvFeed(args.CsvDir)
	} else {
		apiKey := os.Getenv("POLYGON_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("POLYGON_API_KEY must be set when no --csv-dir is given")
		}

		feed = datafeed.NewPolygonFeed(apiKey)
	}

	var from, to time.Time
	if args.From != "" {
		if from, err = time.Parse("2006-01-02", args.From); err != nil {
			return fmt.Errorf("failed to parse from date: %w", err)
		}
	}
	if args.To != "" {
		if to, err = time.Parse("2006-01-02", args.To); err != nil {
			return fmt.Errorf("failed to parse to date: %w", err)
		}
	}

	stockSymbols := make([]models.StockSymbol, 0, len(args.Symbols))
	for _, s := range args.Symbols {
		stockSymbols = append(stockSymbols, models.NewStockSymbol(s))
	}

	runner := backtester.NewRunner(engine, feed, EventBus.New())
	batch := runner.RunBatch(ctx, stockSymbols, from, to)

	report.PrintBatch(os.Stdout, batch)

	if args.OutDir != "" {
		if err := report.SaveBatch(batch, args.OutDir); err != nil {
			return err
		}

		log.Infof("Results saved to %s", args.OutDir)
	}

	return nil
}

func main() {
	runCmd.PersistentFlags().StringSlice("symbols", []string{}, "Comma-separated symbols to backtest, e.g. AAPL,MSFT. This flag is required.")
	runCmd.PersistentFlags().StringP("from", "s", "", "Start date for the price series, format 2006-01-02.")
	runCmd.PersistentFlags().StringP("to", "e", "", "End date for the price series, format 2006-01-02.")
	runCmd.PersistentFlags().String("csv-dir", "", "Directory of <SYMBOL>.csv daily candle files. When omitted, candles are fetched from Polygon using POLYGON_API_KEY.")
	runCmd.PersistentFlags().String("config", "", "Path to a yaml file overriding the default rule set.")
	runCmd.PersistentFlags().String("out-dir", "", "Directory to write per-symbol JSON results to.")

	runCmd.MarkPersistentFlagRequired("symbols")

	cobra.CheckErr(runCmd.Execute())
}
