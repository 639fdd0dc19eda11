package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"preciazo-backend/lib/precio"
	"preciazo-backend/lib/restyutil"
	"preciazo-backend/lib/scrapers"
	"preciazo-backend/lib/sqliteutil"
	"preciazo-backend/lib/timezone"
	"preciazo-backend/lib/util/serviceutil"
	"preciazo-backend/services/observations"
	"preciazo-backend/services/observations/db"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("cmd/scraper")
var scrapedCounter, _ = meter.Int64Counter("pages_scraped")
var failedCounter, _ = meter.Int64Counter("pages_failed")

var fetchListDb *string
var fetchListWorkers *int

func init() {
	fetchListDb = fetchListCmd.Flags().String("db", "precios.db", "The database to append observations to.")
	fetchListWorkers = fetchListCmd.Flags().Int("workers", 128, "Concurrent page fetches.")
	rootCmd.AddCommand(fetchListCmd)
}

type appendRequest struct {
	point     precio.Point
	fetchedAt time.Time
}

var fetchListCmd = &cobra.Command{
	Use:   "fetch-list <links-file> [--db <path>] [--workers <n>]",
	Short: "Fetches every product page in a links file and appends the observations.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		content, err := os.ReadFile(args[0])
		if err != nil {
			serviceutil.Fatal("failed to read links file", err)
		}
		var links []string
		for _, line := range strings.Split(string(content), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				links = append(links, line)
			}
		}

		database, err := sqliteutil.OpenDB(db.Schema, *fetchListDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()
		service := observations.NewService(database)

		client := resty.New()
		restyutil.InstrumentClient(client, otel.Tracer("cmd/scraper"), nil)
		debugOutput := restyutil.NewFilesystemOutput("debug")

		urls := make(chan string)
		results := make(chan appendRequest)

		var workers sync.WaitGroup
		for i := 0; i < *fetchListWorkers; i++ {
			workers.Add(1)
			go func() {
				defer workers.Done()
				worker(ctx, client, debugOutput, urls, results)
			}()
		}

		// one writer serializes appends, extraction stays parallel
		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			for req := range results {
				err := service.Append(ctx, req.point, req.fetchedAt)
				if err != nil {
					slog.ErrorContext(ctx, "failed to append observation", "ean", req.point.EAN, "err", err)
				}
			}
		}()

		t1 := time.Now()
		for _, link := range links {
			urls <- link
		}
		close(urls)
		workers.Wait()
		close(results)
		<-writerDone

		slog.Info("scraping finished", "links", len(links), "seconds", time.Since(t1).Seconds())
	},
}

func worker(
	ctx context.Context,
	client *resty.Client,
	debugOutput restyutil.FilesystemOutput,
	urls <-chan string,
	results chan<- appendRequest,
) {
	for url := range urls {
		res, err := client.R().SetContext(ctx).Get(url)
		if err != nil {
			failedCounter.Add(ctx, 1)
			slog.ErrorContext(ctx, "failed to fetch", "url", url, "err", err)
			continue
		}
		if !res.IsSuccess() {
			failedCounter.Add(ctx, 1)
			slog.ErrorContext(ctx, "bad response status", "url", url, "status", res.StatusCode())
			continue
		}

		fetchedAt := timezone.Now()
		point, err := scrapers.ParsePage(ctx, url, res.Body())
		if err != nil {
			failedCounter.Add(ctx, 1)
			id := fmt.Sprintf("%d.html", time.Now().UnixNano())
			debugOutput.Write(id, string(res.Body()))
			slog.ErrorContext(ctx, "failed to parse, saved body", "url", url, "err", err, "debug_file", id)
			continue
		}

		scrapedCounter.Add(ctx, 1)
		results <- appendRequest{point: point, fetchedAt: fetchedAt}
	}
}
