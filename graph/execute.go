package graph

import (
	"context"

	"github.com/hollowlab/rasterflow/observability"
	"github.com/hollowlab/rasterflow/operator"
	"github.com/hollowlab/rasterflow/param"
	"github.com/hollowlab/rasterflow/progress"
	"github.com/hollowlab/rasterflow/report"
)

// ExecuteGraphOptions configures a call to ExecuteGraph.
type ExecuteGraphOptions struct {
	Registry   *operator.Registry
	Injector   *param.Injector
	Logger     observability.Provider
	Observers  []Observer
	Progress   progress.Sink
	TileWidth  int
	TileHeight int
}

// ExecuteGraph is the single entry point that wires the whole engine
// together: it builds a GraphContext, runs Initialize (10% of the progress
// budget), then Scheduler.Execute (90%), always runs Dispose in a defer
// regardless of outcome, and returns an ExecutionReport describing what
// happened alongside the first fatal error encountered, if any. It is the
// one place all five graph error kinds are visible to a caller.
func ExecuteGraph(ctx context.Context, g *Graph, opts ExecuteGraphOptions) (*report.ExecutionReport, error) {
	if opts.Injector == nil {
		opts.Injector = param.NewInjector()
	}
	if opts.Progress == nil {
		opts.Progress = progress.New()
	}

	rpt := report.New(g.ID)
	rpt.StartExecution()
	ctx = rpt.ToContext(ctx)

	gc := newGraphContext(g, opts.Logger, opts.Observers)

	defer gc.Dispose(ctx)

	initProgress := opts.Progress.Sub(0.1)
	initProgress.BeginTask("graph initialization", len(g.Nodes()))
	if err := gc.Initialize(ctx, opts.Registry, opts.Injector); err != nil {
		initProgress.Done()
		rpt.EndExecution("failed", err)
		return rpt, err
	}
	initProgress.Done()

	for _, nc := range gc.initOrder {
		rpt.SetFinalStatus(nc.Node.ID, "initialized")
	}

	scheduler := NewScheduler(opts.TileWidth, opts.TileHeight)
	execProgress := opts.Progress.Sub(0.9)
	if err := scheduler.Execute(ctx, gc, execProgress); err != nil {
		rpt.EndExecution("failed", err)
		return rpt, err
	}

	rpt.EndExecution("completed", nil)
	return rpt, nil
}
