// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sqlmind/internal/core"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Add schema, documentation, or question/SQL pairs to the store",
	Long: `Index adds grounding material to the retrieval store. Provide a
question together with its SQL, a DDL statement, free-form documentation,
or a JSON file of {"Question", "SQLQuery"} pairs via --bulk.

Multiple kinds can be indexed in one call.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	question, _ := cmd.Flags().GetString("question")
	sqlText, _ := cmd.Flags().GetString("sql")
	ddl, _ := cmd.Flags().GetString("ddl")
	doc, _ := cmd.Flags().GetString("doc")
	bulkPath, _ := cmd.Flags().GetString("bulk")

	c, cleanup, err := newCore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	ids, err := c.Index(ctx, core.IndexRequest{
		Question:      question,
		SQL:           sqlText,
		DDL:           ddl,
		Documentation: doc,
		BulkPath:      bulkPath,
	})
	if err != nil {
		return err
	}

	for _, id := range ids {
		fmt.Println(id)
	}
	fmt.Printf("Indexed %d item(s).\n", len(ids))
	return nil
}

var indexDDLsCmd = &cobra.Command{
	Use:   "index-ddls",
	Short: "Index every table definition from the connected database",
	Long: `Index-ddls introspects the configured database and adds the schema
definition of every user table to the retrieval store.`,
	RunE: runIndexDDLs,
}

func runIndexDDLs(cmd *cobra.Command, args []string) error {
	c, cleanup, err := newCore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	count, err := c.IndexAllDDLs(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %d table definition(s).\n", count)
	return nil
}

func init() {
	indexCmd.Flags().String("question", "", "question text (requires --sql)")
	indexCmd.Flags().String("sql", "", "SQL query answering --question")
	indexCmd.Flags().String("ddl", "", "schema definition statement to index")
	indexCmd.Flags().String("doc", "", "documentation text to index")
	indexCmd.Flags().String("bulk", "", "path to a JSON array of question/SQL pairs")
	indexCmd.Flags().Duration("timeout", 0, "overall timeout (0 = none)")

	indexDDLsCmd.Flags().Duration("timeout", 0, "overall timeout (0 = none)")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(indexDDLsCmd)
}
