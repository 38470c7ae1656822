package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/asaskevich/EventBus"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quantfold/backtester/src/datafeed"
	"github.com/quantfold/backtester/src/router"
	"github.com/quantfold/backtester/src/utils"
)

var serveCmd = &cobra.Command{
	Use:   "backtest_server",
	Short: "Serve the backtest engine over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		port, err := cmd.Flags().GetInt("port")
		if err != nil {
			log.Fatalf("error getting port: %v", err)
		}

		csvDir, err := cmd.Flags().GetString("csv-dir")
		if err != nil {
			log.Fatalf("error getting csv-dir: %v", err)
		}

		if err := serve(port, csvDir); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func serve(port int, csvDir string) error {
	if err := utils.InitEnvironmentVariables(); err != nil {
		return fmt.Errorf("failed to init environment variables: %w", err)
	}

	var feed datafeed.DataFeed
	if csvDir != "" {
		feed = datafeed.NewCsvFeed(csvDir)
	} else {
		apiKey := os.Getenv("POLYGON_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("POLYGON_API_KEY must be set when no --csv-dir is given")
		}

		feed = datafeed.NewPolygonFeed(apiKey)
	}

	r := mux.NewRouter()
	router.NewHandler(feed, EventBus.New()).SetupRoutes(r)

	addr := fmt.Sprintf(":%d", port)
	log.Infof("listening on %s", addr)

	return http.ListenAndServe(addr, r)
}

func main() {
	serveCmd.PersistentFlags().IntP("port", "p", 8080, "Port to listen on.")
	serveCmd.PersistentFlags().String("csv-dir", "", "Directory of <SYMBOL>.csv daily candle files. When omitted, candles are fetched from Polygon using POLYGON_API_KEY.")

	cobra.CheckErr(serveCmd.Execute())
}
