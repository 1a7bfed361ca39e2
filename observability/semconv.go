package observability

// Semantic conventions for attribute names, kept stable so dashboards and log
// queries do not need to change when the backend provider changes.

// --- Common attributes ---

const (
	// AttrStatus is a generic outcome attribute ("completed", "failed", "partial").
	AttrStatus = "status"

	// AttrDuration is a generic wall-clock duration attribute.
	AttrDuration = "duration"

	// AttrStatusDescription is a free-text elaboration on AttrStatus.
	AttrStatusDescription = "status_description"
)

// --- Graph execution attributes ---

const (
	// AttrGraphID identifies the graph document being executed.
	AttrGraphID = "graph.id"

	// AttrGraphNodeID identifies the node within the graph.
	AttrGraphNodeID = "graph.node.id"

	// AttrGraphNodeOperator is the operator name a node instantiates.
	AttrGraphNodeOperator = "graph.node.operator"

	// AttrGraphTotalNodes is the total number of nodes in the graph.
	AttrGraphTotalNodes = "graph.total_nodes"

	// AttrGraphOutputNodes is the number of output (unreferenced) nodes.
	AttrGraphOutputNodes = "graph.output_nodes"

	// AttrTileX / AttrTileY identify a tile's grid coordinates.
	AttrTileX = "graph.tile.x"
	AttrTileY = "graph.tile.y"

	// AttrTileGridWidth / AttrTileGridHeight give the tile grid dimensions.
	AttrTileGridWidth  = "graph.tile.grid_width"
	AttrTileGridHeight = "graph.tile.grid_height"

	// MetricTileDuration is the histogram for per-tile processing duration.
	MetricTileDuration = "rasterflow.graph.tile.duration"

	// MetricTileCount is the counter for tiles processed.
	MetricTileCount = "rasterflow.graph.tile.count"

	// MetricNodeInitDuration is the histogram for per-node initialization duration.
	MetricNodeInitDuration = "rasterflow.graph.node.init_duration"
)
