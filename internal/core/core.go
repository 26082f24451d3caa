// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package core wires retrieval, prompt construction, SQL generation, and
// execution into the question-answering pipeline.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/sqlmind/internal/chart"
	"github.com/pdiddy/sqlmind/internal/db"
	"github.com/pdiddy/sqlmind/internal/llm"
	"github.com/pdiddy/sqlmind/internal/observability"
	"github.com/pdiddy/sqlmind/internal/vectorstore"
	"github.com/pdiddy/sqlmind/pkg/types"
)

// Core runs the question-to-answer pipeline against one database, one
// store, and one model provider.
type Core struct {
	db      db.Database
	store   vectorstore.Store
	llm     llm.Provider
	log     *slog.Logger
	metrics *observability.Metrics
}

// Option configures a Core.
type Option func(*Core)

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Core) { c.log = logger }
}

// WithMetrics attaches pipeline metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Core) { c.metrics = m }
}

// New assembles a Core from its three collaborators.
func New(database db.Database, store vectorstore.Store, provider llm.Provider, opts ...Option) *Core {
	c := &Core{
		db:    database,
		store: store,
		llm:   provider,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// generate calls the model and records the request.
func (c *Core) generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	response, err := c.llm.Generate(ctx, prompt)
	c.metrics.ObserveLLMRequest(c.llm.Name(), time.Since(start), err)
	return response, err
}

// GenerateSQL builds the retrieval-augmented prompt for question and
// extracts the SQL from the model's response. When tables are named their
// schema definitions come from the live database; otherwise relevant
// statements are retrieved from the store.
func (c *Core) GenerateSQL(ctx context.Context, question string, tables []string) (string, error) {
	pairs, err := c.store.RelevantQuestionSQL(ctx, question, 0)
	if err != nil {
		return "", fmt.Errorf("retrieving question/SQL pairs: %w", err)
	}
	c.metrics.ObserveRetrieval(string(types.KindSQL))

	ddls, err := c.ddlStatements(ctx, question, tables)
	if err != nil {
		return "", err
	}

	docs, err := c.store.RelevantDocumentation(ctx, question, 0)
	if err != nil {
		return "", fmt.Errorf("retrieving documentation: %w", err)
	}
	c.metrics.ObserveRetrieval(string(types.KindDocumentation))

	prompt, err := buildSQLPrompt(sqlPromptData{
		Dialect:       c.db.Dialect(),
		Question:      question,
		Examples:      pairs,
		DDLs:          ddls,
		Documentation: docs,
	})
	if err != nil {
		return "", err
	}
	c.log.Debug("built query prompt", "length", len(prompt), "examples", len(pairs), "ddls", len(ddls))

	response, err := c.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating SQL: %w", err)
	}
	return ExtractSQL(response), nil
}

func (c *Core) ddlStatements(ctx context.Context, question string, tables []string) ([]string, error) {
	if len(tables) > 0 {
		ddls := make([]string, 0, len(tables))
		for _, table := range tables {
			ddl, err := c.db.DDL(ctx, table)
			if err != nil {
				return nil, fmt.Errorf("fetching DDL for %s: %w", table, err)
			}
			ddls = append(ddls, ddl)
		}
		return ddls, nil
	}

	ddls, err := c.store.RelevantDDL(ctx, question, 0)
	if err != nil {
		return nil, fmt.Errorf("retrieving DDL statements: %w", err)
	}
	c.metrics.ObserveRetrieval(string(types.KindDDL))
	return ddls, nil
}

// AskRequest carries one question through the pipeline.
type AskRequest struct {
	Question  string
	Tables    []string
	Visualize bool
}

// Ask answers a question end to end: generate SQL, execute it, summarize
// the result, optionally chart it. The returned AskResult is never nil and
// holds whatever stages completed; on failure its Err field carries the
// same error that is returned, so callers keep the partial result.
func (c *Core) Ask(ctx context.Context, req AskRequest) (*types.AskResult, error) {
	result := &types.AskResult{}
	fail := func(err error) (*types.AskResult, error) {
		result.Err = err
		c.log.Warn("ask pipeline failed", "question", req.Question, "error", err)
		return result, err
	}

	sql, err := c.GenerateSQL(ctx, req.Question, req.Tables)
	if err != nil {
		return fail(err)
	}
	result.SQL = sql

	if !ValidSQL(sql) {
		return fail(fmt.Errorf("generated query failed validation: %q", sql))
	}

	rs, err := c.db.ExecuteSQL(ctx, sql)
	c.metrics.ObserveSQLExecution(err)
	if err != nil {
		return fail(fmt.Errorf("executing query: %w", err))
	}
	result.Result = rs

	prompt, err := buildResponsePrompt(rs.Render(), req.Question)
	if err != nil {
		return fail(err)
	}
	response, err := c.generate(ctx, prompt)
	if err != nil {
		return fail(fmt.Errorf("summarizing result: %w", err))
	}
	result.Response = response

	if req.Visualize {
		rendered, err := chart.RenderBar(rs)
		if err != nil {
			// Charting is best-effort; the answer stands without it.
			c.log.Warn("chart rendering skipped", "error", err)
		} else {
			result.Chart = rendered
		}
	}

	c.log.Info("answered question", "question", req.Question, "rows", len(rs.Rows))
	return result, nil
}

// IndexRequest names what to add to the store. Exactly the populated
// fields are indexed; BulkPath points at a JSON array of question/SQL
// pairs.
type IndexRequest struct {
	Question      string
	SQL           string
	DDL           string
	Documentation string
	BulkPath      string
}

// Index adds items to the store and returns the IDs of everything
// indexed. A path without bulk intent is rejected the same way a question
// without its SQL is.
func (c *Core) Index(ctx context.Context, req IndexRequest) ([]string, error) {
	if req.Question != "" && req.SQL == "" {
		return nil, fmt.Errorf("a question requires its SQL query")
	}

	var ids []string

	if req.BulkPath != "" {
		pairs, err := LoadQuestionSQLFile(req.BulkPath)
		if err != nil {
			return nil, err
		}
		for _, p := range pairs {
			id, err := c.store.IndexQuestionSQL(ctx, p.Question, p.SQLQuery)
			if err != nil {
				return ids, fmt.Errorf("indexing pair %q: %w", p.Question, err)
			}
			c.metrics.ObserveIndexed(string(types.KindSQL))
			ids = append(ids, id)
		}
		c.log.Info("indexed bulk pairs", "path", req.BulkPath, "count", len(pairs))
	}

	if req.Question != "" && req.SQL != "" {
		id, err := c.store.IndexQuestionSQL(ctx, req.Question, req.SQL)
		if err != nil {
			return ids, fmt.Errorf("indexing question/SQL pair: %w", err)
		}
		c.metrics.ObserveIndexed(string(types.KindSQL))
		ids = append(ids, id)
	}

	if req.Documentation != "" {
		id, err := c.store.IndexDocumentation(ctx, req.Documentation)
		if err != nil {
			return ids, fmt.Errorf("indexing documentation: %w", err)
		}
		c.metrics.ObserveIndexed(string(types.KindDocumentation))
		ids = append(ids, id)
	}

	if req.DDL != "" {
		id, err := c.store.IndexDDL(ctx, req.DDL)
		if err != nil {
			return ids, fmt.Errorf("indexing DDL: %w", err)
		}
		c.metrics.ObserveIndexed(string(types.KindDDL))
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("nothing to index")
	}
	return ids, nil
}

// IndexAllDDLs pulls every table definition from the connected database
// into the store and returns how many were indexed.
func (c *Core) IndexAllDDLs(ctx context.Context) (int, error) {
	ddls, err := c.db.AllDDLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("collecting schema definitions: %w", err)
	}
	for _, td := range ddls {
		if _, err := c.store.IndexDDL(ctx, td.DDL); err != nil {
			return 0, fmt.Errorf("indexing DDL for %s: %w", td.Table, err)
		}
		c.metrics.ObserveIndexed(string(types.KindDDL))
	}
	c.log.Info("indexed database schema", "tables", len(ddls))
	return len(ddls), nil
}

// TrainingData lists everything in the store.
func (c *Core) TrainingData(ctx context.Context) ([]types.TrainingItem, error) {
	return c.store.All(ctx)
}

// RemoveTrainingData deletes one item by ID. It returns false when the ID
// is unknown or carries no recognized kind suffix.
func (c *Core) RemoveTrainingData(ctx context.Context, id string) (bool, error) {
	return c.store.Delete(ctx, id)
}
