/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package window

import (
	"fmt"
	"time"

	"github.com/flowsql/core/utils/timex"
)

// Type names the window kinds SqlOperator.Window and SqlOperator.Aggregator can declare, per
// SPEC_FULL.md §4.4.
type Type string

const (
	TypeTumbling Type = "tumbling"
	TypeSliding  Type = "sliding"
	TypeSession  Type = "session"
	// TypeInstant models a row_number()/rank() window with no materialized duration: every
	// row is its own window, used by the plan-lowering rule for Window(row_number).
	TypeInstant Type = "instant"
)

// Spec is the compile-time description of a window clause: enough to drive plan lowering
// (§4.5) and the optimizer's two-phase split (§4.6), with no execution loop behind it.
type Spec struct {
	Type Type
	// Size is the window duration for Tumbling, and the window duration for Sliding.
	Size time.Duration
	// Slide is the advance step for Sliding; zero for every other type.
	Slide time.Duration
	// Gap is the inactivity gap that closes a Session window.
	Gap time.Duration
	// TimestampField names the event-time column the window keys off.
	TimestampField string
}

// NewTumbling builds a tumbling window spec of the given size.
func NewTumbling(size time.Duration, tsField string) (Spec, error) {
	if size <= 0 {
		return Spec{}, fmt.Errorf("tumbling window size must be positive, got %s", size)
	}
	return Spec{Type: TypeTumbling, Size: size, TimestampField: tsField}, nil
}

// NewSliding builds a sliding window spec; slide must evenly divide size is NOT required (the
// original imposes no such constraint either), but slide must be positive and no larger than
// size.
func NewSliding(size, slide time.Duration, tsField string) (Spec, error) {
	if size <= 0 {
		return Spec{}, fmt.Errorf("sliding window size must be positive, got %s", size)
	}
	if slide <= 0 || slide > size {
		return Spec{}, fmt.Errorf("sliding window slide must be in (0, size], got slide=%s size=%s", slide, size)
	}
	return Spec{Type: TypeSliding, Size: size, Slide: slide, TimestampField: tsField}, nil
}

// NewSession builds a session window spec from its inactivity gap.
func NewSession(gap time.Duration, tsField string) (Spec, error) {
	if gap <= 0 {
		return Spec{}, fmt.Errorf("session window gap must be positive, got %s", gap)
	}
	return Spec{Type: TypeSession, Gap: gap, TimestampField: tsField}, nil
}

// NewInstant builds the window spec used for a row_number()-style window, which lowers to
// KeyProjection -> WindowFunction -> Unkey (§4.5) instead of a bucketed aggregate.
func NewInstant(tsField string) Spec {
	return Spec{Type: TypeInstant, TimestampField: tsField}
}

// IsTwoPhaseEligible reports whether the optimizer may split an aggregate over this window
// into a local (forward-edge) partial plus a shuffled combine (§4.6 rule 2): only bucketed,
// fixed-size windows qualify, since a session window's bucket boundaries depend on the data
// itself and cannot be partially pre-aggregated ahead of the shuffle.
func (s Spec) IsTwoPhaseEligible() bool {
	return s.Type == TypeTumbling || s.Type == TypeSliding
}

// alignWindowStart aligns an event timestamp down to its tumbling/sliding window boundary,
// relative to the Unix epoch, so windows emitted from different subtasks agree on boundaries.
func alignWindowStart(timestamp time.Time, windowSize time.Duration) time.Time {
	return timex.AlignTimeToWindow(timestamp, windowSize).UTC()
}

// Bounds returns the [start, end) window containing t, for Tumbling and Sliding specs. Sliding
// windows overlap; Bounds returns the one that starts at the latest slide boundary at or before
// t. Session and Instant specs return an error.
func (s Spec) Bounds(t time.Time) (time.Time, time.Time, error) {
	switch s.Type {
	case TypeTumbling:
		start := alignWindowStart(t, s.Size)
		return start, start.Add(s.Size), nil
	case TypeSliding:
		start := alignWindowStart(t, s.Slide)
		return start, start.Add(s.Size), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("window.Bounds: unsupported for type %s", s.Type)
	}
}
