/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import "stageview/internal/vector"

// ClampPan keeps a panned offset from revealing space beyond the content
// edges. Each axis is clamped independently:
//
//   - content larger than the container: offset in [container - content*scale, 0]
//   - content smaller than the container: offset in [0, container - content*scale],
//     so the content stays fully visible without being pinned to the origin
//
// Axes with degenerate extents are returned unchanged.
func ClampPan(pos vector.Pt, scale float64, container, content vector.Size) vector.Pt {
	return vector.Pt{
		X: clampAxis(pos.X, scale, container.W, content.W),
		Y: clampAxis(pos.Y, scale, container.H, content.H),
	}
}

// Endstops returns the permitted offset range of one axis. ok is false when
// the extent is degenerate and no clamp applies.
func Endstops(scale, containerLen, contentLen float64) (lo, hi float64, ok bool) {
	extent := contentLen * scale
	if !(extent > 0) || !isFinite(extent) || !isFinite(containerLen) {
		return 0, 0, false
	}
	end := containerLen - extent
	if end <= 0 {
		return end, 0, true
	}
	return 0, end, true
}

func clampAxis(pos, scale, containerLen, contentLen float64) float64 {
	lo, hi, ok := Endstops(scale, containerLen, contentLen)
	if !ok || !isFinite(pos) {
		return pos
	}
	if pos > hi {
		pos = hi
	}
	if pos < lo {
		pos = lo
	}
	return pos
}
