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

package typedef

import "time"

// WindowValue describes the [Start, End) bounds a windowed operator attaches to its output
// rows. The compiler core never evaluates a window over live data, but window-start/window-end
// fields still need a concrete shape so emission can declare them on a struct def.
type WindowValue struct {
	Start *time.Time
	End   *time.Time
}

// NewWindowValue builds a WindowValue from explicit bounds.
func NewWindowValue(start, end *time.Time) *WindowValue {
	return &WindowValue{Start: start, End: end}
}

// Contains reports whether t falls in [Start, End).
func (w WindowValue) Contains(t time.Time) bool {
	return (t.Equal(*w.Start) || t.After(*w.Start)) && t.Before(*w.End)
}

// WindowStructDef is the window struct shape: two Timestamp fields, window_start and
// window_end. The catalog uses it as the return type of tumble/hop/session, and the WindowMerge
// lowering (§4.5) places its fields in the merged output row.
func WindowStructDef() *StructDef {
	return &StructDef{
		Anonymous: true,
		Fields: []StructField{
			{Name: "window_start", Type: TypeDef{Physical: Timestamp, TimestampUnit: Millisecond}},
			{Name: "window_end", Type: TypeDef{Physical: Timestamp, TimestampUnit: Millisecond}},
		},
	}
}
