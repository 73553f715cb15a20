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

// Package window describes window and watermark clauses at compile time: Spec names a
// Tumbling, Sliding, Session, or Instant (row_number-style) window and its size/slide/gap
// parameters; PeriodicWatermarkSpec names a Source's watermark period and max lateness. Both
// are plain configuration consumed by plan lowering and the optimizer — neither type runs a
// clock or buffers a row. A downstream runtime evaluates these specs against live data; this
// package only decides what a valid spec looks like and whether it is eligible for the
// optimizer's two-phase aggregation split.
package window
