// ResearchFlow entry point.
//
// Usage:
//
//	researchflow run [-config config.yaml] [-query "..."]   # run the pipeline once
//	researchflow health [-config config.yaml]               # probe the external adapters
//	researchflow version                                    # show version info
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/researchflow/agent"
	"github.com/BaSui01/researchflow/config"
	"github.com/BaSui01/researchflow/internal/metrics"
	"github.com/BaSui01/researchflow/llm/providers/groq"
	"github.com/BaSui01/researchflow/llm/tokenizer"
	"github.com/BaSui01/researchflow/pipeline"
	"github.com/BaSui01/researchflow/search"
)

// Version info, injected at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const defaultQuery = "What are the impacts of AI on the world"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runPipeline(os.Args[2:])
	case "health":
		runHealthCheck(os.Args[2:])
	case "version":
		fmt.Printf("researchflow %s (%s)\n", Version, GitCommit)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runPipeline(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	query := fs.String("query", defaultQuery, "research query")
	_ = fs.Parse(args)

	cfg, logger := mustLoad(*configPath)
	defer logger.Sync() //nolint:errcheck

	collector := metrics.NewCollector("researchflow", prometheus.DefaultRegisterer)

	tavilyOpts := []search.Option{search.WithObserver(collector)}
	if cfg.Cache.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		tavilyOpts = append(tavilyOpts, search.WithCache(
			search.NewResultCache(rdb, cfg.Cache.TTL, logger)))
	}

	searcher := search.NewClient(cfg.Tavily, logger, tavilyOpts...)
	completer := groq.New(cfg.Groq, logger, groq.WithObserver(collector))

	chain, err := agent.NewResearchPipeline(searcher, completer, agent.Options{
		Tokenizer:     tokenizer.ForModel(cfg.Groq.Model),
		ContextBudget: cfg.Pipeline.ContextBudget,
		Logger:        logger,
		Observer:      collector,
	})
	if err != nil {
		logger.Fatal("failed to build pipeline", zap.Error(err))
	}

	final, err := chain.Run(context.Background(), pipeline.State{agent.KeyQuery: *query})
	if err != nil {
		logger.Fatal("pipeline run failed", zap.Error(err))
	}

	// Intermediate failures are data, not run failures; surface the last
	// one as a diagnostic instead of swallowing it.
	if msg := final.String(agent.KeyError); msg != "" {
		logger.Warn("pipeline completed with degraded stages", zap.String("last_error", msg))
	}

	fmt.Println("\n=== Final Answer ===")
	fmt.Println(final.String(agent.KeyFinalAnswer))
}

func runHealthCheck(args []string) {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args)

	cfg, logger := mustLoad(*configPath)
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	healthy := true

	if err := search.NewClient(cfg.Tavily, logger).HealthCheck(ctx); err != nil {
		fmt.Printf("tavily: unhealthy (%v)\n", err)
		healthy = false
	} else {
		fmt.Println("tavily: ok")
	}

	if status, err := groq.New(cfg.Groq, logger).HealthCheck(ctx); err != nil {
		fmt.Printf("groq: unhealthy (%v)\n", err)
		healthy = false
	} else {
		fmt.Printf("groq: ok (latency %s)\n", status.Latency)
	}

	if !healthy {
		os.Exit(1)
	}
}

func mustLoad(configPath string) (*config.Config, *zap.Logger) {
	cfg, err := config.NewLoader().WithConfigPath(configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	return cfg, logger
}

func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// Keep stdout clean for the final answer.
	zapCfg.OutputPaths = []string{"stderr"}
	return zapCfg.Build()
}

func printUsage() {
	fmt.Println(`ResearchFlow - four-stage research answer pipeline

Usage:
  researchflow run [-config config.yaml] [-query "..."]
  researchflow health [-config config.yaml]
  researchflow version
  researchflow help`)
}
