package cerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownTableError(t *testing.T) {
	err := &UnknownTable{Name: "events"}
	assert.Equal(t, `unknown table "events"`, err.Error())
}

func TestUnknownColumnErrorWithAndWithoutTable(t *testing.T) {
	assert.Equal(t, `unknown column "id" on table "events"`, (&UnknownColumn{Table: "events", Name: "id"}).Error())
	assert.Equal(t, `unknown column "id"`, (&UnknownColumn{Name: "id"}).Error())
}

func TestTypeMismatchError(t *testing.T) {
	err := &TypeMismatch{Context: "join key", Left: "int64", Right: "utf8"}
	assert.Equal(t, "type mismatch in join key: int64 vs utf8", err.Error())
}

func TestUnsupportedFeatureError(t *testing.T) {
	assert.Equal(t, "unsupported feature: FULL OUTER JOIN", (&UnsupportedFeature{Feature: "FULL OUTER JOIN"}).Error())
}

func TestUdfErrorWithAndWithoutName(t *testing.T) {
	assert.Equal(t, `udf "f": bad args`, (&UdfError{Name: "f", Message: "bad args"}).Error())
	assert.Equal(t, "bad args", (&UdfError{Message: "bad args"}).Error())
}

func TestConfigErrorMessage(t *testing.T) {
	assert.Equal(t, "config error: invalid json", (&ConfigError{Message: "invalid json"}).Error())
}

func TestUnknownOptionError(t *testing.T) {
	assert.Equal(t, `unknown or missing option "bootstrap_servers"`, (&UnknownOption{Key: "bootstrap_servers"}).Error())
}

func TestPlanValidationErrorAggregatesMismatches(t *testing.T) {
	err := &PlanValidationError{Mismatches: []EdgeMismatch{
		{SrcIndex: 0, DstIndex: 1, Reason: "key type mismatch"},
		{SrcIndex: 1, DstIndex: 2, Reason: "value type mismatch"},
	}}
	msg := err.Error()
	assert.Contains(t, msg, "2 mismatch(es)")
	assert.Contains(t, msg, "edge (0 -> 1): key type mismatch")
	assert.Contains(t, msg, "edge (1 -> 2): value type mismatch")
}

func TestInternalErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := &InternalError{Message: "invariant broken", Cause: cause}
	assert.Contains(t, err.Error(), "invariant broken")
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, cause, errors.Unwrap(err))

	bare := &InternalError{Message: "invariant broken"}
	assert.Equal(t, "internal error: invariant broken", bare.Error())
}

func TestExpressionCompileErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("syntax error")
	err := &ExpressionCompileError{OperatorID: "op1", Expression: "a +", Cause: cause}
	msg := err.Error()
	assert.Contains(t, msg, `operator "op1"`)
	assert.Contains(t, msg, `"a +"`)
	assert.Contains(t, msg, "syntax error")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestUnsupportedUdfLanguageError(t *testing.T) {
	assert.Equal(t, `unsupported udf language "python"`, (&UnsupportedUdfLanguage{Language: "python"}).Error())
}

func TestClassOfDistinguishesInternalFromInvalidArgument(t *testing.T) {
	assert.Equal(t, ClassInternal, ClassOf(&InternalError{Message: "x"}))
	assert.Equal(t, ClassInvalidArgument, ClassOf(&UnknownTable{Name: "x"}))
	assert.Equal(t, ClassInvalidArgument, ClassOf(&ConfigError{Message: "x"}))
}

func TestErrorsAsMatchesWrappedTypes(t *testing.T) {
	var err error = &UdfError{Name: "f", Message: "bad"}
	var udfErr *UdfError
	assert.True(t, errors.As(err, &udfErr))
	assert.Equal(t, "f", udfErr.Name)
}
