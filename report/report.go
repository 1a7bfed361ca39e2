// Package report accumulates execution statistics for a single
// graph.ExecuteGraph call: per-node tile counts and init durations.
package report

import (
	"context"
	"time"
)

// contextKey is a private type for the context key, avoiding collisions
// with other packages' context values.
type contextKey string

const reportContextKey contextKey = "report"

// NodeStats records per-node bookkeeping collected during one execution.
type NodeStats struct {
	NodeID        string        `json:"node_id"`
	OperatorName  string        `json:"operator_name"`
	InitDuration  time.Duration `json:"init_duration"`
	TilesRequested int          `json:"tiles_requested"`
	FinalStatus   string        `json:"final_status"`
}

// ExecutionReport is the primary carrier of execution statistics produced by
// graph.ExecuteGraph: per-node tile counts and init durations, total wall
// clock duration, and the final outcome. Use ToContext/FromContext to thread
// one instance through nested collaborator calls that need to contribute to
// it, or just read the value ExecuteGraph returns directly.
type ExecutionReport struct {
	GraphID   string                `json:"graph_id"`
	Nodes     map[string]*NodeStats `json:"nodes"`
	StartTime time.Time             `json:"start_time"`
	EndTime   time.Time             `json:"end_time"`
	Status    string                `json:"status"`
	Error     string                `json:"error,omitempty"`

	TotalTilesStarted int `json:"total_tiles_started"`
	TotalTilesStopped int `json:"total_tiles_stopped"`
}

// New creates an empty ExecutionReport for the given graph id.
func New(graphID string) *ExecutionReport {
	return &ExecutionReport{
		GraphID: graphID,
		Nodes:   make(map[string]*NodeStats),
	}
}

// FromContext retrieves the ExecutionReport from ctx, creating and attaching
// a new one if none is present. The context pointer is updated in place so
// the caller sees the enriched context.
func FromContext(ctx *context.Context) *ExecutionReport {
	if v := (*ctx).Value(reportContextKey); v != nil {
		if r, ok := v.(*ExecutionReport); ok {
			return r
		}
	}
	r := New("")
	*ctx = r.ToContext(*ctx)
	return r
}

// ToContext stores r in ctx under a private key.
func (r *ExecutionReport) ToContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, reportContextKey, r)
}

// StartExecution marks the report's start time.
func (r *ExecutionReport) StartExecution() {
	r.StartTime = time.Now()
}

// EndExecution marks the report's end time and final status.
func (r *ExecutionReport) EndExecution(status string, err error) {
	r.EndTime = time.Now()
	r.Status = status
	if err != nil {
		r.Error = err.Error()
	}
}

// Duration returns the total wall-clock execution time, or zero if the
// report has not been ended yet.
func (r *ExecutionReport) Duration() time.Duration {
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// NodeStat returns the stats record for nodeID, creating one if absent.
func (r *ExecutionReport) NodeStat(nodeID, operatorName string) *NodeStats {
	stat, ok := r.Nodes[nodeID]
	if !ok {
		stat = &NodeStats{NodeID: nodeID, OperatorName: operatorName}
		r.Nodes[nodeID] = stat
	}
	return stat
}

// RecordInit records how long a node's operator took to initialize.
func (r *ExecutionReport) RecordInit(nodeID, operatorName string, d time.Duration) {
	r.NodeStat(nodeID, operatorName).InitDuration = d
}

// RecordTileRequest increments the tile-request counter for nodeID.
func (r *ExecutionReport) RecordTileRequest(nodeID string) {
	if stat, ok := r.Nodes[nodeID]; ok {
		stat.TilesRequested++
	}
	r.TotalTilesStarted++
}

// RecordTileComplete records that a tile finished processing.
func (r *ExecutionReport) RecordTileComplete() {
	r.TotalTilesStopped++
}

// SetFinalStatus records the terminal status of nodeID ("initialized",
// "failed", "skipped").
func (r *ExecutionReport) SetFinalStatus(nodeID, status string) {
	r.NodeStat(nodeID, "").FinalStatus = status
}
