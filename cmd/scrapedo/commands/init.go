package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/use-agent/scrapedo-mcp/desktop"
)

var initFlags struct {
	force bool
	path  string
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "overwrite an existing scrapedo entry")
	initCmd.Flags().StringVar(&initFlags.path, "path", "", "config file (default: the Claude Desktop location for this OS)")
	configCmd.Flags().StringVar(&initFlags.path, "path", "", "config file (default: the Claude Desktop location for this OS)")
	rootCmd.AddCommand(initCmd, configCmd)
}

func desktopConfigPath() (string, error) {
	if initFlags.path != "" {
		return initFlags.path, nil
	}
	return desktop.DefaultConfigPath()
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Add the scrapedo server to the Claude Desktop configuration.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := desktopConfigPath()
		if err != nil {
			return err
		}
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate executable: %w", err)
		}

		entry := desktop.NewEntry(exe, os.Getenv("SCRAPEDO_API_KEY"), os.Getenv("LOG_LEVEL"))
		existing, err := desktop.Install(path, entry, initFlags.force)
		out := cmd.OutOrStdout()
		if errors.Is(err, desktop.ErrAlreadyConfigured) {
			fmt.Fprintln(out, "scrapedo is already configured:")
			printEntry(cmd, existing)
			fmt.Fprintln(out, "\nRe-run with --force to replace it.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Claude Desktop configuration updated: %s\n", path)
		if entry.HasPlaceholderKey() {
			fmt.Fprintln(out, "Set SCRAPEDO_API_KEY in the entry; get a token at https://scrape.do")
		}
		fmt.Fprintln(out, "Restart Claude Desktop for the change to take effect.")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the scrapedo entry of the Claude Desktop configuration.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := desktopConfigPath()
		if err != nil {
			return err
		}
		entry, err := desktop.Entry(path)
		if err != nil {
			return err
		}
		if entry == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "scrapedo is not configured in %s; run \"scrapedo init\"\n", path)
			return nil
		}
		printEntry(cmd, entry)
		fmt.Fprintf(cmd.OutOrStdout(), "\nConfig location: %s\n", path)
		return nil
	},
}

func printEntry(cmd *cobra.Command, e *desktop.ServerEntry) {
	out, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
}
