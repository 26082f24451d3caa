// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Inspect and prune the retrieval store",
}

var dataListCmd = &cobra.Command{
	Use:   "list",
	Short: "List everything in the retrieval store",
	RunE:  runDataList,
}

func runDataList(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	c, cleanup, err := newCore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	items, err := c.TrainingData(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		fmt.Println("The store is empty.")
		return nil
	}

	data := pterm.TableData{{"ID", "Kind", "Question", "Content"}}
	for _, it := range items {
		data = append(data, []string{it.ID, string(it.Kind), truncate(it.Question, 40), truncate(it.Content, 60)})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	fmt.Printf("\n%d item(s)\n", len(items))
	return nil
}

var dataExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export the retrieval store to a YAML or JSON file",
	Long: `Export writes every stored item to the given file. The format is
inferred from the file extension (.yaml, .yml, or .json).`,
	Args: cobra.ExactArgs(1),
	RunE: runDataExport,
}

func runDataExport(cmd *cobra.Command, args []string) error {
	path := args[0]

	c, cleanup, err := newCore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	items, err := c.TrainingData(cmd.Context())
	if err != nil {
		return err
	}

	var data []byte
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(items)
	case ".json":
		data, err = json.MarshalIndent(items, "", "  ")
	default:
		return fmt.Errorf("unsupported export extension %q: use .yaml, .yml, or .json", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	fmt.Printf("Exported %d item(s) to %s\n", len(items), path)
	return nil
}

var dataDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove one item from the retrieval store by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataDelete,
}

func runDataDelete(cmd *cobra.Command, args []string) error {
	c, cleanup, err := newCore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	removed, err := c.RemoveTrainingData(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("No item with ID %s.\n", args[0])
		return nil
	}
	fmt.Printf("Deleted %s.\n", args[0])
	return nil
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	dataListCmd.Flags().Bool("json", false, "output items as JSON")

	dataCmd.AddCommand(dataListCmd)
	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataDeleteCmd)
	rootCmd.AddCommand(dataCmd)
}
