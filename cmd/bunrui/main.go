// Package main is the Bunrui CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/bunrui/internal/cli"
	"github.com/hyperjump/bunrui/internal/cluster"
	"github.com/hyperjump/bunrui/internal/config"
	"github.com/hyperjump/bunrui/internal/corpus"
	"github.com/hyperjump/bunrui/internal/indexer"
	"github.com/hyperjump/bunrui/internal/models"
	"github.com/hyperjump/bunrui/internal/search"
	"github.com/hyperjump/bunrui/internal/server"
	"github.com/hyperjump/bunrui/internal/storage"
	"github.com/hyperjump/bunrui/internal/vectorizer"
	"github.com/hyperjump/bunrui/internal/watcher"
	"github.com/hyperjump/bunrui/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/bunrui/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "build":
		runBuild()
	case "search":
		runSearch()
	case "server":
		runServer()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("bunrui version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: bunrui <command> [flags]

Commands:
  build     Load the corpus, fit the topic partition, and persist the index
  search    Query the built index from the command line
  server    Serve the search API over HTTP
  status    Show corpus and index statistics
  version   Print the version

Run "bunrui <command> -h" for command flags.`)
}

// newBuilder assembles the offline pipeline from config. The vectorizer is
// passed in so callers can share its fitted vocabulary with the engine.
func newBuilder(vec vectorizer.Vectorizer, cfg *config.Config, store storage.Storage, logger *zap.Logger) *indexer.Builder {
	clusterer := cluster.NewSphericalKMeans(
		cfg.Clustering.K,
		cfg.Clustering.MaxIterations,
		cfg.Clustering.NInit,
		cfg.Clustering.Seed,
		cluster.WithLogger(logger),
	)
	return indexer.NewBuilder(vec, clusterer, store, cfg.Storage.SnapshotPath, indexer.WithLogger(logger))
}

// newEngine turns a build result into a query-ready engine. vec must
// already be fitted on the build's corpus.
func newEngine(vec vectorizer.Vectorizer, result *indexer.BuildResult, logger *zap.Logger) (*search.Engine, error) {
	resolver, err := search.NewResolver(result.Store, result.Centroids, result.Index)
	if err != nil {
		return nil, err
	}
	return search.NewEngine(vec, resolver, result.Documents, search.WithLogger(logger)), nil
}

func runBuild() {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	corpusPath := fs.String("corpus", "", "corpus path override (.jsonl file or directory)")
	k := fs.Int("k", 0, "cluster count override")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *corpusPath != "" {
		cfg.Corpus.Path = *corpusPath
	}
	if *k > 0 {
		cfg.Clustering.K = *k
	}
	if cfg.Corpus.Path == "" {
		fmt.Println("No corpus path configured; set corpus.path or pass -corpus")
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()
	builder := newBuilder(vectorizer.NewTFIDF(), cfg, store, logger)

	loader := corpus.NewLoader(
		corpus.WithExtensions(cfg.Corpus.Extensions),
		corpus.WithLogger(logger),
	)
	inputs, err := loader.Load(cfg.Corpus.Path)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}

	start := time.Now()
	result, err := builder.Build(context.Background(), inputs)
	if err != nil {
		logger.Fatal("Build failed", zap.Error(err))
	}
	fmt.Printf("Built %d documents into %d clusters in %s\n",
		len(result.Documents), result.Index.K(), time.Since(start).Round(time.Millisecond))
}

// buildSearchQuery joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	topN := fs.Int("top", 0, "number of results (default from config)")
	jsonOut := fs.Bool("json", false, "output JSON instead of text")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	query := buildSearchQuery(fs.Args())
	if query == "" {
		fmt.Println("Usage: bunrui search [flags] <query>")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	vec := vectorizer.NewTFIDF()
	builder := newBuilder(vec, cfg, store, logger)
	result, err := builder.Load(context.Background())
	if err != nil {
		logger.Fatal("Failed to load index (run \"bunrui build\" first)", zap.Error(err))
	}
	engine, err := newEngine(vec, result, logger)
	if err != nil {
		logger.Fatal("Failed to create engine", zap.Error(err))
	}

	n := *topN
	if n <= 0 {
		n = cfg.Search.DefaultTopN
	}
	if n > cfg.Search.MaxTopN {
		n = cfg.Search.MaxTopN
	}
	response, err := engine.Search(context.Background(), &models.SearchQuery{Query: query, TopN: n})
	if err != nil {
		logger.Fatal("Search failed", zap.Error(err))
	}

	format := cli.OutputText
	if *jsonOut {
		format = cli.OutputJSON
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		logger.Fatal("Failed to write results", zap.Error(err))
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	vec := vectorizer.NewTFIDF()
	builder := newBuilder(vec, cfg, store, logger)
	result, err := builder.Load(context.Background())
	if err != nil {
		logger.Fatal("Failed to load index (run \"bunrui build\" first)", zap.Error(err))
	}
	engine, err := newEngine(vec, result, logger)
	if err != nil {
		logger.Fatal("Failed to create engine", zap.Error(err))
	}

	srv := server.NewServer(engine, result, store, &cfg.Server, logger)

	var watchSvc *watcher.Watcher
	if cfg.Corpus.Watch && cfg.Corpus.Path != "" {
		loader := corpus.NewLoader(
			corpus.WithExtensions(cfg.Corpus.Extensions),
			corpus.WithLogger(logger),
		)
		rebuild := func() {
			logger.Info("corpus changed, rebuilding index")
			inputs, err := loader.Load(cfg.Corpus.Path)
			if err != nil {
				logger.Error("rebuild: load corpus failed", zap.Error(err))
				return
			}
			freshVec := vectorizer.NewTFIDF()
			freshBuilder := newBuilder(freshVec, cfg, store, logger)
			freshResult, err := freshBuilder.Build(context.Background(), inputs)
			if err != nil {
				logger.Error("rebuild failed", zap.Error(err))
				return
			}
			freshEngine, err := newEngine(freshVec, freshResult, logger)
			if err != nil {
				logger.Error("rebuild: engine creation failed", zap.Error(err))
				return
			}
			srv.Swap(freshEngine, freshResult)
			logger.Info("index rebuilt", zap.Int("documents", len(freshResult.Documents)))
		}
		watchSvc = watcher.NewWatcher(cfg.Corpus.Path, rebuild,
			watcher.WithLogger(logger),
			watcher.WithExtensions(cfg.Corpus.Extensions),
		)
		watchCtx, watchCancel := context.WithCancel(context.Background())
		defer watchCancel()
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Printf("Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	count, err := store.CountDocuments(context.Background())
	if err != nil {
		fmt.Printf("Failed to count documents: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Documents: %d\n", count)

	if snap, err := storage.LoadSnapshot(cfg.Storage.SnapshotPath); err == nil {
		fmt.Printf("Clusters:   %d\n", len(snap.Centroids))
		fmt.Printf("Dimensions: %d\n", snap.Store.Dimensions())
	} else {
		fmt.Println("No index snapshot; run \"bunrui build\"")
	}
}
