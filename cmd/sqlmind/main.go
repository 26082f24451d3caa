// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sqlmind CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sqlmind/internal/core"
	"github.com/pdiddy/sqlmind/internal/db"
	"github.com/pdiddy/sqlmind/internal/llm"
	"github.com/pdiddy/sqlmind/internal/observability"
	"github.com/pdiddy/sqlmind/internal/secrets"
	"github.com/pdiddy/sqlmind/internal/vectorstore"
	"github.com/pdiddy/sqlmind/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, else the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the sqlmind CLI.
var rootCmd = &cobra.Command{
	Use:   "sqlmind",
	Short: "Ask questions of your database in plain language",
	Long: `sqlmind turns natural-language questions into SQL, runs the query, and
summarizes the answer. A local store of schema definitions, documentation,
and prior question/SQL pairs grounds the generated queries.

Index schema and examples with the index commands, then ask away.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sqlmind.yaml or ~/.config/sqlmind/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")
	rootCmd.PersistentFlags().String("metrics-addr", "", "address to serve Prometheus metrics on (e.g. :9090; empty = disabled)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sqlmind")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sqlmind"))
		}
	}

	viper.SetEnvPrefix("SQLMIND")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the runtime configuration from the config file,
// environment, and loaded secrets.
func loadConfig() types.Config {
	cfg := types.Config{
		Database: types.DatabaseConfig{
			Engine: types.DatabaseEngine(viper.GetString("database.engine")),
			DSN:    viper.GetString("database.dsn"),
		},
		LLM: types.LLMConfig{
			Provider:    types.LLMProvider(viper.GetString("llm.provider")),
			Model:       viper.GetString("llm.model"),
			BaseURL:     viper.GetString("llm.base_url"),
			APIKey:      viper.GetString("llm.api_key"),
			Temperature: viper.GetFloat64("llm.temperature"),
			MaxTokens:   viper.GetInt("llm.max_tokens"),
			MaxRetries:  viper.GetInt("llm.max_retries"),
			Timeout:     viper.GetDuration("llm.timeout"),
		},
		Embedding: types.EmbeddingConfig{
			Model: viper.GetString("embedding.model"),
		},
		Store: types.StoreConfig{
			Dir:         viper.GetString("store.dir"),
			MaxResults:  viper.GetInt("store.max_results"),
			HybridAlpha: viper.GetFloat64("store.hybrid_alpha"),
		},
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = types.ProviderOpenAI
	}
	switch cfg.LLM.Provider {
	case types.ProviderOpenAI:
		cfg.LLM.APIKey = secretDefault("openai-api-key", cfg.LLM.APIKey)
	case types.ProviderAnthropic:
		cfg.LLM.APIKey = secretDefault("anthropic-api-key", cfg.LLM.APIKey)
	case types.ProviderOllama:
		cfg.LLM.BaseURL = secretDefault("ollama-host", cfg.LLM.BaseURL)
	}
	return cfg
}

func newLogger() *slog.Logger {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonFormat, _ := rootCmd.PersistentFlags().GetBool("log-json")
	return observability.NewLogger(level, jsonFormat)
}

// newCore builds the full pipeline from configuration. The returned
// cleanup closes the database and store.
func newCore(ctx context.Context) (*core.Core, func(), error) {
	cfg := loadConfig()
	logger := newLogger()

	database, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	provider, err := llm.New(cfg.LLM)
	if err != nil {
		database.Close()
		return nil, nil, err
	}

	// Semantic retrieval needs an embedder; only the OpenAI-compatible
	// backend provides one, and only when an embedding model is set.
	var embedder llm.Embedder
	if cfg.Embedding.Model != "" {
		if openai, ok := provider.(*llm.OpenAI); ok {
			embedder = openai.WithEmbeddingModel(cfg.Embedding.Model)
		} else {
			logger.Warn("embedding model configured but provider has no embeddings endpoint",
				"provider", provider.Name())
		}
	}

	store, err := vectorstore.NewSQLiteStore(cfg.Store, embedder)
	if err != nil {
		database.Close()
		return nil, nil, err
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	if addr, _ := rootCmd.PersistentFlags().GetString("metrics-addr"); addr != "" {
		go func() {
			if err := observability.ServeMetrics(addr, registry); err != nil {
				logger.Warn("metrics server stopped", "addr", addr, "error", err)
			}
		}()
	}

	cleanup := func() {
		store.Close()
		database.Close()
		logPipelineMetrics(logger, registry)
	}
	c := core.New(database, store, provider,
		core.WithLogger(logger),
		core.WithMetrics(metrics),
	)
	return c, cleanup, nil
}

// logPipelineMetrics gathers the command's counters and logs them at
// debug level, so short-lived invocations still surface their metrics.
func logPipelineMetrics(logger *slog.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		logger.Debug("gathering metrics failed", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			if value == 0 {
				continue
			}
			attrs := []any{"value", value}
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			logger.Debug(mf.GetName(), attrs...)
		}
	}
}

// commandContext returns a context bounded by the optional --timeout flag.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.Background(), func() {}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
