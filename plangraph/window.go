package plangraph

import (
	"github.com/flowsql/core/pipeline"
	"github.com/flowsql/core/typedef"
)

// addWindow lowers a row_number()-style Window operator (§4.5): key-projection on the partition
// columns (forward edge), the window function itself over a shuffled edge, then Unkey back to
// an Unkeyed result carrying the new result column.
func (g *PlanGraph) addWindow(t *pipeline.Window) (NodeIndex, error) {
	inputIdx, err := g.AddSqlOperator(t.Input)
	if err != nil {
		return 0, err
	}
	inputType := g.Nodes[inputIdx].OutputType
	if inputType.Kind != Unkeyed {
		return 0, &unkeyedJoinSideRequired{}
	}

	partitionStruct := g.joinKeyStruct(t.Partition, inputType.Value)
	partitionIdx := g.InsertOperator(
		&RecordTransformOp{Kind: pipeline.TransformKeyProjection, Fields: keyProjectedFields(t.Partition)},
		KeyedType(partitionStruct, inputType.Value),
	)
	g.AddEdge(inputIdx, partitionIdx, PlanEdge{DataType: inputType, EdgeType: ForwardEdge()})

	resultStruct := appendField(inputType.Value, t.ResultField)
	windowFuncType := KeyedType(partitionStruct, resultStruct)
	windowFuncIdx := g.InsertOperator(&WindowFunctionOp{
		Func:         t.Func,
		OrderBy:      t.OrderBy,
		FieldName:    t.FieldName,
		ResultStruct: resultStruct,
	}, windowFuncType)
	g.AddEdge(partitionIdx, windowFuncIdx, PlanEdge{
		DataType: KeyedType(partitionStruct, inputType.Value),
		EdgeType: ShuffleEdge(),
	})

	unkeyType := UnkeyedType(resultStruct)
	unkeyIdx := g.InsertOperator(&UnkeyOp{}, unkeyType)
	g.AddEdge(windowFuncIdx, unkeyIdx, PlanEdge{DataType: windowFuncType, EdgeType: ForwardEdge()})

	return unkeyIdx, nil
}

func appendField(base *typedef.StructDef, field typedef.StructField) *typedef.StructDef {
	fields := make([]typedef.StructField, 0, len(base.Fields)+1)
	fields = append(fields, base.Fields...)
	fields = append(fields, field)
	return &typedef.StructDef{Anonymous: true, Fields: fields}
}
