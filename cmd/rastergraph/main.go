// Package main implements rastergraph, a CLI that loads a graph document
// and runs it through the engine end to end: read config, decode the
// document, assemble the builtin operator registry, execute the graph, and
// print the resulting execution report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hollowlab/rasterflow/config"
	"github.com/hollowlab/rasterflow/graph"
	"github.com/hollowlab/rasterflow/graphdoc"
	"github.com/hollowlab/rasterflow/observability/slogobs"
	"github.com/hollowlab/rasterflow/operator/builtin"
	"github.com/hollowlab/rasterflow/progress"
	"github.com/hollowlab/rasterflow/tilesource"
)

func main() {
	graphPath := flag.String("graph", "", "path to a JSON graph document (required)")
	envPath := flag.String("env", "", "path to a .env file (default: .env in the working directory)")
	retries := flag.Int("retry", 0, "retry a failed tile fetch this many times (0 disables)")
	timeout := flag.Duration("timeout", 0, "per-tile fetch deadline (0 disables)")
	flag.Parse()

	if *graphPath == "" {
		fmt.Fprintln(os.Stderr, "rastergraph: -graph is required")
		os.Exit(2)
	}

	cfg := config.Load(*envPath)
	observer := slogobs.New(cfg.LogLevelOption(), cfg.LogFormatOption())

	var fetchMWs []tilesource.Middleware
	if *timeout > 0 {
		fetchMWs = append(fetchMWs, tilesource.NewTimeoutMiddleware(*timeout))
	}
	if *retries > 0 {
		fetchMWs = append(fetchMWs, tilesource.NewRetryMiddleware(tilesource.RetryConfig{MaxRetries: *retries}))
	}
	fetchMWs = append(fetchMWs, tilesource.NewLoggingMiddleware(slog.Default()))

	ctx := context.Background()

	f, err := os.Open(*graphPath)
	if err != nil {
		slog.Error("rastergraph: open graph document", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	g, err := graphdoc.Decode(f)
	if err != nil {
		slog.Error("rastergraph: decode graph document", "error", err)
		os.Exit(1)
	}

	rpt, err := graph.ExecuteGraph(ctx, g, graph.ExecuteGraphOptions{
		Registry:   builtin.NewRegistry(fetchMWs...),
		Logger:     observer,
		Observers:  []graph.Observer{graph.NewLoggingObserver(observer)},
		Progress:   progress.New(),
		TileWidth:  cfg.TileWidth,
		TileHeight: cfg.TileHeight,
	})

	out, marshalErr := json.MarshalIndent(rpt, "", "  ")
	if marshalErr == nil {
		fmt.Println(string(out))
	}

	if err != nil {
		slog.Error("rastergraph: graph execution failed", "error", err)
		os.Exit(1)
	}
}
