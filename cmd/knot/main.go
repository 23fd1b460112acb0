package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/knot/internal/config"
	"github.com/crimson-sun/knot/internal/grouping"
	"github.com/crimson-sun/knot/internal/logging"
	"github.com/crimson-sun/knot/internal/output"
	"github.com/crimson-sun/knot/internal/output/async"
	fileout "github.com/crimson-sun/knot/internal/output/file"
	"github.com/crimson-sun/knot/internal/output/multi"
	"github.com/crimson-sun/knot/internal/output/sqlite"
	"github.com/crimson-sun/knot/internal/output/stdout"
	"github.com/crimson-sun/knot/internal/output/webhook"
	"github.com/crimson-sun/knot/internal/pipeline"
	"github.com/crimson-sun/knot/internal/source"

	// Register source implementations.
	_ "github.com/crimson-sun/knot/internal/source/file"
	_ "github.com/crimson-sun/knot/internal/source/stdin"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.Output.Format == "stdout", logging.ParseLevel(cfg.LogLevel))

	// Compile rulesets. A parse error names the line and token; nothing runs
	// with a half-loaded ruleset.
	enhText, err := readRuleFile(cfg.Grouping.EnhancementsPath)
	if err != nil {
		log.Fatalf("failed to read enhancements: %v", err)
	}
	fpText, err := readRuleFile(cfg.Grouping.FingerprintingPath)
	if err != nil {
		log.Fatalf("failed to read fingerprinting rules: %v", err)
	}
	pc, err := grouping.CompileConfig(cfg.Grouping.AlgorithmVersion, enhText, fpText)
	if err != nil {
		log.Fatalf("failed to compile rulesets: %v", err)
	}

	eng := grouping.NewEngine(cfg.Grouping.Project, pc.AlgorithmVersion, pc.Enhancements, pc.Fingerprinting)

	// Initialize output.
	out, err := buildOutput(cfg.Output)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}

	// Resolve source.
	ctor, err := source.Get(cfg.Source.Provider)
	if err != nil {
		log.Fatalf("failed to get source: %v", err)
	}
	src := ctor()

	// Build pipeline.
	p := pipeline.New(src, eng, out)
	defer p.Close()

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down...\n", sig)
		cancel()
	}()

	srcCfg := source.Config{
		Provider: cfg.Source.Provider,
		Path:     cfg.Source.Path,
		Project:  cfg.Grouping.Project,
	}

	fmt.Fprintf(os.Stderr, "knot: starting with source=%s output=%s mode=%s\n",
		cfg.Source.Provider, cfg.Output.Format, cfg.Source.Mode)

	run := p.Stream
	if cfg.Source.Mode == "batch" {
		run = p.Batch
	}
	if err := run(ctx, srcCfg); err != nil && err != context.Canceled {
		log.Fatalf("pipeline error: %v", err)
	}
}

// readRuleFile loads rule text; an unset path means an empty ruleset.
func readRuleFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// buildOutput assembles the configured output. When a database path is set
// alongside a non-sqlite format, the issue rollup runs as a second sink.
func buildOutput(cfg config.OutputConfig) (output.Output, error) {
	verbosity := output.ParseVerbosity(cfg.Verbosity)

	var primary output.Output
	switch cfg.Format {
	case "stdout":
		primary = stdout.New(verbosity, cfg.Pretty)
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file output requires KNOT_OUTPUT_PATH")
		}
		f, err := fileout.New(cfg.Path, verbosity)
		if err != nil {
			return nil, err
		}
		primary = f
	case "webhook":
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("webhook output requires KNOT_WEBHOOK_URL")
		}
		primary = async.New(webhook.New(cfg.WebhookURL))
	case "sqlite":
		path := cfg.DBPath
		if path == "" {
			path = "knot.db"
		}
		return sqlite.New(path)
	default:
		return nil, fmt.Errorf("unknown output format: %s", cfg.Format)
	}

	if cfg.DBPath != "" {
		s, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return multi.New(primary, s), nil
	}
	return primary, nil
}
