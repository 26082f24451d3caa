// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/pdiddy/sqlmind/internal/core"
	"github.com/pdiddy/sqlmind/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question by generating and running SQL",
	Long: `Ask generates a SQL query for the question using indexed schema,
documentation, and example pairs, executes it against the configured
database, and summarizes the result.

Name tables with --tables to pull their definitions straight from the
database instead of the store. Use --visualize for a terminal bar chart.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	tables, _ := cmd.Flags().GetStringSlice("tables")
	visualize, _ := cmd.Flags().GetBool("visualize")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	c, cleanup, err := newCore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	result, askErr := c.Ask(ctx, core.AskRequest{
		Question:  question,
		Tables:    tables,
		Visualize: visualize,
	})

	// Show whatever stages completed before reporting a failure.
	if err := formatAskOutput(result, jsonOutput); err != nil {
		return err
	}
	return askErr
}

func formatAskOutput(result *types.AskResult, jsonOutput bool) error {
	if result == nil {
		return nil
	}
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.SQL != "" {
		pterm.DefaultSection.Println("SQL")
		fmt.Println(strings.TrimSpace(result.SQL))
	}

	if result.Result != nil {
		pterm.DefaultSection.Println("Result")
		if result.Result.Empty() {
			if result.Result.RowsAffected > 0 {
				fmt.Printf("%d row(s) affected\n", result.Result.RowsAffected)
			} else {
				fmt.Println("No rows returned.")
			}
		} else if err := renderResultTable(result.Result); err != nil {
			return err
		}
	}

	if result.Response != "" {
		pterm.DefaultSection.Println("Answer")
		fmt.Println(result.Response)
	}

	if result.Chart != "" {
		pterm.DefaultSection.Println("Chart")
		fmt.Println(result.Chart)
	}
	return nil
}

func renderResultTable(rs *types.ResultSet) error {
	data := pterm.TableData{rs.Columns}
	for _, row := range rs.Rows {
		cells := make([]string, len(rs.Columns))
		for i := range rs.Columns {
			if i < len(row) && row[i] != nil {
				cells[i] = fmt.Sprintf("%v", row[i])
			} else {
				cells[i] = "NULL"
			}
		}
		data = append(data, cells)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func init() {
	askCmd.Flags().StringSlice("tables", nil, "tables whose definitions to include (default: retrieve from store)")
	askCmd.Flags().Bool("visualize", false, "render a terminal bar chart of the result")
	askCmd.Flags().Bool("json", false, "output the full result as JSON")
	askCmd.Flags().Duration("timeout", 0, "overall timeout for the pipeline (0 = none)")

	rootCmd.AddCommand(askCmd)
}
