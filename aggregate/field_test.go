package aggregate

import (
	"testing"

	"github.com/flowsql/core/typedef"
	"github.com/stretchr/testify/assert"
)

func TestFieldEligibleDelegatesToAssociativeCommutative(t *testing.T) {
	sumField := Field{Function: Sum, OutputName: "total"}
	assert.True(t, sumField.Eligible())

	avgField := Field{Function: Avg, OutputName: "avg"}
	assert.False(t, avgField.Eligible())

	dedupCollect := Field{Function: ArrayAgg, OutputName: "items", Dedup: true}
	assert.False(t, dedupCollect.Eligible())
}

func TestPartialBinFieldCountAlwaysInt64(t *testing.T) {
	f := Field{Function: Count, OutputName: "n", ResultType: typedef.Leaf(typedef.Float64)}
	bin := f.PartialBinField()
	assert.Equal(t, "n", bin.Name)
	assert.Equal(t, typedef.Int64, bin.Type.Physical)
}

func TestPartialBinFieldNonCountKeepsResultType(t *testing.T) {
	f := Field{Function: Sum, OutputName: "total", ResultType: typedef.Leaf(typedef.Float64)}
	bin := f.PartialBinField()
	assert.Equal(t, "total", bin.Name)
	assert.Equal(t, typedef.Float64, bin.Type.Physical)
}
