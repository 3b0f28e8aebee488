// Command bulk scrapes a list of URLs through Scrape.do with a caller-side
// concurrency limit and prints a per-URL summary.
//
//	SCRAPEDO_API_KEY=... go run ./scripts/bulk -concurrency 3 https://example.com https://httpbin.org/html
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/use-agent/scrapedo-mcp/config"
	"github.com/use-agent/scrapedo-mcp/logging"
	"github.com/use-agent/scrapedo-mcp/models"
	"github.com/use-agent/scrapedo-mcp/scrapedo"
)

// CLI flags
var (
	urlsFile    = flag.String("file", "", "file with one URL per line (in addition to positional URLs)")
	concurrency = flag.Int("concurrency", 3, "maximum in-flight scrapes")
	render      = flag.Bool("render", false, "render pages in a headless browser")
	timeoutMs   = flag.Int("timeout", 0, "per-request upstream timeout in ms (0 = service default)")
	retries     = flag.Int("retries", 0, "extra attempts for retryable failures")
	useProxy    = flag.Bool("proxy", false, "route through the forward-proxy tunnel")
	output      = flag.String("output", "", "write the JSON report to this file")
)

// defaultRetryDelay applies when a rate-limit response carries no Retry-After.
const defaultRetryDelay = 2 * time.Second

type urlResult struct {
	URL             string `json:"url"`
	Success         bool   `json:"success"`
	StatusCode      int    `json:"status_code"`
	Attempts        int    `json:"attempts"`
	ElapsedMs       int64  `json:"elapsed_ms"`
	Credits         int    `json:"estimated_credits"`
	ContentLength   int    `json:"content_length"`
	ErrorType       string `json:"error_type,omitempty"`
	ConsumedCredits bool   `json:"consumed_credits,omitempty"`
	Error           string `json:"error,omitempty"`
}

type report struct {
	Timestamp   string      `json:"timestamp"`
	Concurrency int         `json:"concurrency"`
	Results     []urlResult `json:"results"`
}

func main() {
	flag.Parse()
	if err := checkFlags(*concurrency, *retries); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err == nil {
		err = cfg.RequireAPIKey()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	log := logging.NewOrNop(cfg.Log)
	defer func() { _ = log.Sync() }()

	urls, err := collectURLs(*urlsFile, flag.Args())
	if err != nil || len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no URLs given", err)
		os.Exit(2)
	}

	client, err := scrapedo.NewClient(cfg.Scrapedo, scrapedo.WithLogger(log))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Scraping %d URLs with concurrency %d ...\n\n", len(urls), *concurrency)

	rep := report{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Concurrency: *concurrency,
		Results:     make([]urlResult, len(urls)),
	}

	// Failures are recorded per URL; only cancellation stops the group.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)
	var mu sync.Mutex
	for i, target := range urls {
		g.Go(func() error {
			res := scrapeOne(gctx, client, target)
			mu.Lock()
			rep.Results[i] = res
			mu.Unlock()
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("bulk run interrupted", zap.Error(err))
	}

	printSummary(rep.Results)

	if *output != "" {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err == nil {
			err = os.WriteFile(*output, data, 0o644)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error writing report:", err)
			os.Exit(1)
		}
		fmt.Printf("\nReport written to %s\n", *output)
	}
}

func collectURLs(file string, args []string) ([]string, error) {
	urls := append([]string(nil), args...)
	if file == "" {
		return urls, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			urls = append(urls, line)
		}
	}
	return urls, sc.Err()
}

// scrapeOne scrapes target, retrying retryable failures after the delay
// the service asked for.
func scrapeOne(ctx context.Context, client *scrapedo.Client, target string) urlResult {
	req := &models.ScrapeRequest{URL: target}
	if *render {
		req.Render = models.Bool(true)
	}
	if *timeoutMs > 0 {
		req.Timeout = models.Int(*timeoutMs)
	}

	res := urlResult{URL: target, Credits: client.EstimateCredits(req)}
	start := time.Now()

	for attempt := 0; attempt <= *retries; attempt++ {
		res.Attempts = attempt + 1
		result, err := client.Scrape(ctx, req, *useProxy)
		if err == nil {
			res.Success = true
			res.StatusCode = result.StatusCode
			res.ContentLength = len(result.HTML) + len(result.Markdown)
			res.Error, res.ErrorType = "", ""
			res.ElapsedMs = time.Since(start).Milliseconds()
			return res
		}

		res.Error = err.Error()
		var se *models.ScrapedoError
		if !errors.As(err, &se) {
			break
		}
		res.StatusCode = se.StatusCode
		res.ErrorType = string(se.Type)
		res.ConsumedCredits = res.ConsumedCredits || se.ConsumedCredits
		if !se.Retryable || attempt == *retries {
			break
		}

		select {
		case <-ctx.Done():
			res.ElapsedMs = time.Since(start).Milliseconds()
			return res
		case <-time.After(retryDelay(se)):
		}
	}
	res.ElapsedMs = time.Since(start).Milliseconds()
	return res
}

func retryDelay(se *models.ScrapedoError) time.Duration {
	if v, ok := se.Details["retryAfter"].(string); ok {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultRetryDelay
}

func printSummary(results []urlResult) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"URL", "Status", "Attempts", "Time (ms)", "Credits", "Result"})

	var ok, billed int
	for _, r := range results {
		outcome := "ok"
		if !r.Success {
			outcome = r.ErrorType
			if outcome == "" {
				outcome = r.Error
			}
		}
		if r.Success {
			ok++
			billed += r.Credits
		} else if r.ConsumedCredits {
			billed += r.Credits
		}
		t.AppendRow(table.Row{r.URL, r.StatusCode, r.Attempts, r.ElapsedMs, r.Credits, outcome})
	}
	t.AppendFooter(table.Row{"", "", "", "", billed, fmt.Sprintf("%d/%d ok", ok, len(results))})
	t.Render()
}

// checkFlags rejects limits that would stall or misconfigure the run.
// errgroup with a zero limit never starts a goroutine.
func checkFlags(concurrency, retries int) error {
	if concurrency < 1 {
		return fmt.Errorf("-concurrency must be at least 1, got %d", concurrency)
	}
	if retries < 0 {
		return fmt.Errorf("-retries must not be negative, got %d", retries)
	}
	return nil
}
