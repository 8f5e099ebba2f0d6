/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package viewport implements the pan/zoom transform engine of a canvas stage:
// pure zoom, pan clamp and scrollbar math plus a Controller that owns the
// current state and turns input events into committed transforms.
//
// Coordinates: container space is the visible viewport in pixels with the
// origin at its top-left corner; content space is the unscaled scene. A point
// c in content space is drawn at Transform.Offset() + c*Transform.Scale.
package viewport

import (
	"fmt"
	"math"

	"stageview/internal/vector"
)

// DefaultChangeThreshold is the minimum scale change zoom-to-fit will apply.
const DefaultChangeThreshold = 0.3

// DefaultScaleBy is the per-notch wheel zoom factor.
const DefaultScaleBy = 1.1

// Transform is the content layer's pan offset and uniform scale.
// It is a value type; the Controller replaces it as a whole on every commit.
type Transform struct {
	X, Y  float64
	Scale float64
}

// Identity is the unpanned, unscaled transform.
var Identity = Transform{Scale: 1}

// Offset returns the pan offset as a point.
func (t Transform) Offset() vector.Pt { return vector.Pt{X: t.X, Y: t.Y} }

// WithOffset returns a copy of t with the offset replaced.
func (t Transform) WithOffset(p vector.Pt) Transform {
	return Transform{X: p.X, Y: p.Y, Scale: t.Scale}
}

// Finite reports whether all fields are real numbers and the scale is positive.
func (t Transform) Finite() bool {
	return isFinite(t.X) && isFinite(t.Y) && isFinite(t.Scale) && t.Scale > 0
}

// ToContent maps a container point to content coordinates.
func (t Transform) ToContent(p vector.Pt) vector.Pt {
	return vector.Pt{X: (p.X - t.X) / t.Scale, Y: (p.Y - t.Y) / t.Scale}
}

// ToContainer maps a content point to container coordinates.
func (t Transform) ToContainer(p vector.Pt) vector.Pt {
	return vector.Pt{X: p.X*t.Scale + t.X, Y: p.Y*t.Scale + t.Y}
}

// Affine returns the transform as a matrix for renderers that compose transforms.
func (t Transform) Affine() vector.Affine2D {
	return vector.Translate(t.X, t.Y).Mul(vector.Scale(t.Scale, t.Scale))
}

func (t Transform) String() string {
	return fmt.Sprintf("(x=%.3f y=%.3f scale=%.4f)", t.X, t.Y, t.Scale)
}

// Limits bounds the scale of a Transform.
type Limits struct {
	Min, Max float64
}

var (
	// DefaultLimits apply to wheel, focus and step zooms.
	DefaultLimits = Limits{Min: 0.1, Max: 5}
	// DefaultPinchLimits are the pinch gesture bounds before intersection with the global limits.
	DefaultPinchLimits = Limits{Min: 0.5, Max: 10}
)

// Clamp clamps s into the limits.
func (l Limits) Clamp(s float64) float64 { return ClampScale(s, l.Min, l.Max) }

// Contains reports whether s lies within the limits.
func (l Limits) Contains(s float64) bool { return s >= l.Min && s <= l.Max }

// Valid reports whether the limits describe a non-empty positive range.
func (l Limits) Valid() bool { return l.Min > 0 && l.Max >= l.Min && isFinite(l.Max) }

// Intersect returns the overlap of two ranges, or the receiver when they do
// not overlap.
func (l Limits) Intersect(o Limits) Limits {
	out := Limits{Min: math.Max(l.Min, o.Min), Max: math.Min(l.Max, o.Max)}
	if !out.Valid() {
		return l
	}
	return out
}

// ClampScale hard-clamps scale into [min, max]. NaN maps to min.
func ClampScale(scale, min, max float64) float64 {
	if math.IsNaN(scale) || scale < min {
		return min
	}
	if scale > max {
		return max
	}
	return scale
}

// WithinChangeThreshold reports whether a rescale from oldScale to newScale is
// small enough to be ignored.
func WithinChangeThreshold(oldScale, newScale, threshold float64) bool {
	return math.Abs(newScale-oldScale) <= threshold
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
