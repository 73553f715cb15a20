package typedef

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowValueContainsHalfOpenInterval(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Second)
	w := NewWindowValue(&start, &end)

	assert.True(t, w.Contains(start), "start is inclusive")
	assert.True(t, w.Contains(start.Add(time.Second)))
	assert.False(t, w.Contains(end), "end is exclusive")
}

func TestWindowStructDefShape(t *testing.T) {
	s := WindowStructDef()
	assert.True(t, s.Anonymous)
	fields := s.Fields
	assert.Len(t, fields, 2)
	assert.Equal(t, "window_start", fields[0].Name)
	assert.Equal(t, "window_end", fields[1].Name)
	assert.Equal(t, Timestamp, fields[0].Type.Physical)
	assert.Equal(t, Timestamp, fields[1].Type.Physical)
}
