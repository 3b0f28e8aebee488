package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/use-agent/scrapedo-mcp/models"
	"github.com/use-agent/scrapedo-mcp/scrapedo"
)

var estimateFlags struct {
	render bool
	super  bool
}

func init() {
	estimateCmd.Flags().BoolVar(&estimateFlags.render, "render", false, "JavaScript rendering")
	estimateCmd.Flags().BoolVar(&estimateFlags.super, "super", false, "residential/mobile proxies")
	rootCmd.AddCommand(usageCmd, estimateCmd)
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show account credits and concurrency.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer rt.close()
		stats, err := rt.client.UsageStats(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"Remaining credits", "Used credits", "Concurrency limit", "Requests today"})
		t.AppendRow(table.Row{stats.RemainingCredits, stats.UsedCredits, stats.ConcurrencyLimit, stats.RequestsToday})
		t.Render()
		return nil
	},
}

var estimateCmd = &cobra.Command{
	Use:   "estimate <url>...",
	Short: "Estimate the credit cost of scraping each URL. Makes no network call.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := newTable(cmd)
		t.AppendHeader(table.Row{"URL", "Render", "Super", "Credits"})
		for _, target := range args {
			req := &models.ScrapeRequest{URL: target}
			if estimateFlags.render {
				req.Render = models.Bool(true)
			}
			if estimateFlags.super {
				req.Super = models.Bool(true)
			}
			if err := req.Validate(); err != nil {
				return err
			}
			t.AppendRow(table.Row{target, estimateFlags.render, estimateFlags.super, scrapedo.EstimateCredits(req)})
		}
		t.Render()
		return nil
	},
}
