package plangraph

import (
	"fmt"

	"github.com/flowsql/core/catalog"
	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/pipeline"
)

// NodeIndex addresses a node in a PlanGraph's flat arena.
type NodeIndex int

// EdgeRef is one directed edge, exposed read-only for the optimizer and emission passes.
type EdgeRef struct {
	Src, Dst NodeIndex
	Data     PlanEdge
}

// PlanGraph is the flat arena an SqlOperator tree lowers into (§4.5, §9). Nodes are appended
// only; the optimizer mutates Nodes/edges directly rather than through a graph library, since
// NodeIndex is nothing more than a slice index.
type PlanGraph struct {
	Nodes   []PlanNode
	edges   []EdgeRef
	sources map[string]NodeIndex
	cat     *catalog.Catalog
	preview bool
}

// New returns an empty PlanGraph bound to cat (for function-return-type lookups during
// projection typing) with preview controlling sink synthesis downstream in emission.
func New(cat *catalog.Catalog, preview bool) *PlanGraph {
	return &PlanGraph{sources: make(map[string]NodeIndex), cat: cat, preview: preview}
}

// InsertOperator appends a node and returns its index.
func (g *PlanGraph) InsertOperator(op PlanOperator, typ PlanType) NodeIndex {
	g.Nodes = append(g.Nodes, PlanNode{Operator: op, OutputType: typ})
	return NodeIndex(len(g.Nodes) - 1)
}

// AddEdge appends a directed edge from src to dst.
func (g *PlanGraph) AddEdge(src, dst NodeIndex, data PlanEdge) {
	g.edges = append(g.edges, EdgeRef{Src: src, Dst: dst, Data: data})
}

// Edges returns every edge in insertion order.
func (g *PlanGraph) Edges() []EdgeRef { return g.edges }

// SetEdges replaces the edge list wholesale, used by the optimizer after fusion rewrites node
// connectivity.
func (g *PlanGraph) SetEdges(edges []EdgeRef) { g.edges = edges }

// Node returns a pointer to the node at i so callers (optimizer) can mutate it in place.
func (g *PlanGraph) Node(i NodeIndex) *PlanNode { return &g.Nodes[i] }

// NodeCount returns the number of nodes in the arena.
func (g *PlanGraph) NodeCount() int { return len(g.Nodes) }

// Sources returns the name→watermark-node-index map populated by source deduplication.
func (g *PlanGraph) Sources() map[string]NodeIndex { return g.sources }

// Build lowers a terminal Sink (the root of a pipeline.Build result) into the graph, returning
// the sink's own NodeIndex.
func Build(sink *pipeline.Sink, cat *catalog.Catalog, preview bool) (*PlanGraph, NodeIndex, error) {
	g := New(cat, preview)
	idx, err := g.addSink(sink)
	if err != nil {
		return nil, 0, err
	}
	return g, idx, nil
}

// AddSqlOperator dispatches on op's concrete type and returns the NodeIndex of the node that
// represents its output, lowering any inputs first (bottom-up, §4.5).
func (g *PlanGraph) AddSqlOperator(op pipeline.SqlOperator) (NodeIndex, error) {
	switch t := op.(type) {
	case *pipeline.Source:
		return g.addSource(t), nil
	case *pipeline.Aggregator:
		return g.addAggregator(t)
	case *pipeline.JoinOperator:
		return g.addJoin(t)
	case *pipeline.Window:
		return g.addWindow(t)
	case *pipeline.RecordTransform:
		return g.addRecordTransform(t)
	case *pipeline.Sink:
		return g.addSink(t)
	default:
		return 0, &cerr.InternalError{Message: fmt.Sprintf("plangraph: unsupported SqlOperator %T", op)}
	}
}

func (g *PlanGraph) addSink(s *pipeline.Sink) (NodeIndex, error) {
	inputIdx, err := g.AddSqlOperator(s.Input)
	if err != nil {
		return 0, err
	}
	name := s.Connector.Name
	if g.preview {
		name = "web"
	}
	inputType := g.Nodes[inputIdx].OutputType
	sinkIdx := g.InsertOperator(&StreamOperatorOp{Name: name, Connector: pipeline.ConnectorSpec{Name: name, ConfigBlob: s.Connector.ConfigBlob}}, inputType)
	g.AddEdge(inputIdx, sinkIdx, PlanEdge{DataType: inputType, EdgeType: ForwardEdge()})
	return sinkIdx, nil
}
