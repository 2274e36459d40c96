package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/liftwatch/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analysis as MCP tools over stdio",
	Long: `Start a Model Context Protocol stdio server so an assistant can query
your training data. The server exposes four tools:

  get_category_metrics   Per-muscle-group metrics
  get_muscle_balance     Balance, priority, stage and advice per group
  get_strength_progress  Whole-history strength progress (optionally one exercise)
  get_suggestions        Ranked recommendations and warnings

Every tool reads the database fresh, so records logged while the server runs
are visible on the next call. Example client configuration:
  {"mcpServers":{"liftwatch":{"command":"liftwatch","args":["mcp"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	opts, err := reportOptions()
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := mcp.Serve(mcp.New(db, opts, appVersion)); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
