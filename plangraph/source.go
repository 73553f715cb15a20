package plangraph

import (
	"github.com/flowsql/core/pipeline"
	"github.com/flowsql/core/window"
)

// addSource inserts a Source node immediately followed by a periodic Watermark node sharing its
// Unkeyed type (§4.5). A table referenced more than once in a query shares the same source+
// watermark pair.
func (g *PlanGraph) addSource(s *pipeline.Source) NodeIndex {
	if idx, ok := g.sources[s.TableName]; ok {
		return idx
	}
	planType := UnkeyedType(s.Schema)
	sourceIdx := g.InsertOperator(&SourceOp{Name: s.TableName, Schema: s.Schema}, planType)

	watermarkIdx := g.InsertOperator(&WatermarkOp{Spec: window.DefaultWatermarkSpec()}, planType)
	g.AddEdge(sourceIdx, watermarkIdx, PlanEdge{DataType: planType, EdgeType: ForwardEdge()})

	g.sources[s.TableName] = watermarkIdx
	return watermarkIdx
}
