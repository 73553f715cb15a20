package rsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseErrorMessageIncludesPositionAndToken(t *testing.T) {
	err := CreateSyntaxError("unexpected token", 12, "FORM", []string{"FROM"})
	msg := err.Error()
	assert.Contains(t, msg, "[SYNTAX_ERROR]")
	assert.Contains(t, msg, "unexpected token")
	assert.Contains(t, msg, "at position 12")
	assert.Contains(t, msg, "found 'FORM'")
	assert.Contains(t, msg, "expected: FROM")
}

func TestParseErrorPrefersLineColumnOverPosition(t *testing.T) {
	err := &ParseError{Type: ErrorTypeSemantics, Message: "bad", Line: 2, Column: 5, Position: 99}
	msg := err.Error()
	assert.Contains(t, msg, "at line 2, column 5")
	assert.NotContains(t, msg, "at position 99")
}

func TestParseErrorIncludesContextAndSuggestions(t *testing.T) {
	err := &ParseError{
		Type:        ErrorTypeUnknownFunction,
		Message:     "unknown function 'avgg'",
		Position:    5,
		Context:     "SELECT avgg(x)",
		Suggestions: []string{"avg"},
	}
	msg := err.Error()
	assert.Contains(t, msg, "Context: SELECT avgg(x)")
	assert.Contains(t, msg, "Suggestions: avg")
}

func TestCreateUnknownFunctionError(t *testing.T) {
	err := CreateUnknownFunctionError("avgg", 7)
	assert.Equal(t, ErrorTypeUnknownFunction, err.Type)
	assert.Equal(t, "avgg", err.Token)
	assert.Contains(t, err.Error(), "unknown function 'avgg'")
}

func TestErrorTypeNameCoversAllKinds(t *testing.T) {
	cases := map[ErrorType]string{
		ErrorTypeSyntax:             "SYNTAX_ERROR",
		ErrorTypeLexical:            "LEXICAL_ERROR",
		ErrorTypeSemantics:          "SEMANTIC_ERROR",
		ErrorTypeUnexpectedToken:    "UNEXPECTED_TOKEN",
		ErrorTypeMissingToken:       "MISSING_TOKEN",
		ErrorTypeInvalidExpression:  "INVALID_EXPRESSION",
		ErrorTypeUnknownKeyword:     "UNKNOWN_KEYWORD",
		ErrorTypeInvalidNumber:      "INVALID_NUMBER",
		ErrorTypeUnterminatedString: "UNTERMINATED_STRING",
		ErrorTypeUnknownFunction:    "UNKNOWN_FUNCTION",
	}
	for typ, want := range cases {
		err := &ParseError{Type: typ, Message: "x"}
		assert.Contains(t, err.Error(), "["+want+"]")
	}
}

func TestFormatErrorContextPointsAtPosition(t *testing.T) {
	ctx := FormatErrorContext("SELECT * FROM events", 7, 3)
	assert.Contains(t, ctx, "T * F")
	assert.Contains(t, ctx, "^")
}

func TestFormatErrorContextOutOfRangeReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", FormatErrorContext("short", -1, 3))
	assert.Equal(t, "", FormatErrorContext("short", 100, 3))
}
