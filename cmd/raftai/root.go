package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/raftai/engine/infrastructure/llm"
	"github.com/raftai/engine/infrastructure/middleware"
	"github.com/raftai/engine/internal/application"
	"github.com/raftai/engine/internal/ports"
	"golang.org/x/time/rate"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "raftai",
		Short: "AI analysis engine for KYC, KYB, pitch, chat, and financial reviews",
		Long: `raftai analyzes platform submissions with an LLM-backed primary path
and a deterministic rule-based fallback. Without provider credentials it
runs entirely on the fallback path and still produces complete verdicts.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Missing .env is fine; the environment may be set directly.
			_ = godotenv.Load()
		},
	}

	root.PersistentFlags().String("provider", "", "LLM provider: openai, anthropic, or google")
	root.PersistentFlags().String("model", "", "model override for the selected provider")
	root.PersistentFlags().String("rubric", "", "path to a YAML pitch rubric override")
	root.PersistentFlags().Duration("timeout", application.DefaultRequestTimeout, "per-request LLM timeout")
	root.PersistentFlags().Float64("rps", application.DefaultRequestsPerSecond, "client-side LLM rate limit")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	v := viper.New()
	v.SetEnvPrefix("RAFTAI")
	v.AutomaticEnv()
	for _, flag := range []string{"provider", "model", "rubric", "timeout", "rps", "log-level"} {
		_ = v.BindPFlag(flag, root.PersistentFlags().Lookup(flag))
	}
	_ = v.BindEnv("api_key")

	root.AddCommand(newServeCmd(v), newAnalyzeCmd(v))
	return root
}

// loadConfig materializes engine configuration from flags and RAFTAI_*
// environment variables.
func loadConfig(v *viper.Viper) (application.Config, error) {
	config := application.Config{
		Provider:          v.GetString("provider"),
		APIKey:            v.GetString("api_key"),
		Model:             v.GetString("model"),
		RubricPath:        v.GetString("rubric"),
		RequestTimeout:    v.GetDuration("timeout"),
		RequestsPerSecond: v.GetFloat64("rps"),
	}
	if err := config.Validate(); err != nil {
		return application.Config{}, err
	}
	return config, nil
}

func newLogger(v *viper.Viper) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildService assembles the full engine: provider client (when
// configured), middleware chain, rubric, and evaluators.
func buildService(config application.Config, logger *slog.Logger, metrics ports.MetricsCollector) (*application.Service, error) {
	rubric, err := config.LoadRubric()
	if err != nil {
		return nil, err
	}

	var client ports.LLMClient
	if config.FallbackOnly() {
		logger.Warn("no provider credentials configured, running fallback-only")
	} else {
		c, err := llm.NewClient(config.Provider, llm.ClientConfig{
			APIKey:  config.APIKey,
			Model:   config.Model,
			BaseURL: config.BaseURL,
			Timeout: config.RequestTimeout,
			Middleware: []llm.Middleware{
				llm.TracingMiddleware("raftai"),
				llm.MetricsMiddleware(metrics),
				llm.RateLimitMiddleware(rate.Limit(config.RequestsPerSecond), requestBurst(config.RequestsPerSecond)),
				llm.TimeoutMiddleware(config.RequestTimeout),
			},
		})
		if err != nil {
			return nil, err
		}
		client = c
		logger.Info("llm client ready", "provider", config.Provider, "model", c.GetModel(),
			"timeout", config.RequestTimeout.String())
	}

	return application.NewService(client, rubric, logger, metrics, config.BatchConcurrency), nil
}

func requestBurst(rps float64) int {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return burst
}

func newMetrics() ports.MetricsCollector {
	return middleware.NewPrometheusMetrics(nil)
}
