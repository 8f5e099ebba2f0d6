/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"math"

	"stageview/internal/vector"
)

// Direction is the sense of a discrete zoom step.
type Direction int

const (
	ZoomOut Direction = -1
	NoZoom  Direction = 0
	ZoomIn  Direction = 1
)

// WheelDirection derives the zoom direction from a wheel delta. A held control
// key marks a trackpad pinch, which reports the opposite sign.
func WheelDirection(deltaY float64, ctrlKey bool) Direction {
	var d Direction
	switch {
	case deltaY > 0:
		d = ZoomIn
	case deltaY < 0:
		d = ZoomOut
	default:
		return NoZoom
	}
	if ctrlKey {
		d = -d
	}
	return d
}

// NextScale applies one step of scaleBy in direction dir without clamping.
func NextScale(scale float64, dir Direction, scaleBy float64) float64 {
	switch {
	case dir > 0:
		return scale * scaleBy
	case dir < 0:
		return scale / scaleBy
	default:
		return scale
	}
}

// ZoomAtPointer rescales by one step of scaleBy, keeping the content point
// under pointer fixed. The result is not clamped; callers that need limits
// clamp the scale first and use ZoomToScale.
func ZoomAtPointer(cur Transform, pointer vector.Pt, dir Direction, scaleBy float64) Transform {
	if dir == NoZoom || !(scaleBy > 0) {
		return cur
	}
	return ZoomToScale(cur, pointer, NextScale(cur.Scale, dir, scaleBy))
}

// ZoomToScale sets the scale to newScale, keeping the content point under
// pointer fixed. The content point is resolved in the old scale before the new
// offset is solved for.
func ZoomToScale(cur Transform, pointer vector.Pt, newScale float64) Transform {
	if !(cur.Scale > 0) || !(newScale > 0) || !isFinite(newScale) || !pointer.Finite() {
		return cur
	}
	contentPoint := cur.ToContent(pointer)
	off := pointer.Sub(contentPoint.Mul(newScale))
	next := Transform{X: off.X, Y: off.Y, Scale: newScale}
	if !next.Finite() {
		return cur
	}
	return next
}

// FocusTarget is a region in content coordinates to bring into view.
type FocusTarget struct {
	Left, Top, Right, Bottom float64
}

// TargetFromRect converts a content-space rectangle.
func TargetFromRect(r vector.Rect) FocusTarget {
	return FocusTarget{Left: r.X, Top: r.Y, Right: r.X + r.W, Bottom: r.Y + r.H}
}

// Rect returns the normalized rectangle of the target.
func (f FocusTarget) Rect() vector.Rect { return vector.FromLTRB(f.Left, f.Top, f.Right, f.Bottom) }

// FitOptions tunes ZoomToFit.
type FitOptions struct {
	// Limits bounds the fitted scale; the zero value means DefaultLimits.
	Limits Limits
	// ChangeThreshold suppresses rescales whose magnitude does not exceed it.
	ChangeThreshold float64
	// Inset is the size of the content container the stage scales around.
	// Zero means the content origin is the scaling origin.
	Inset vector.Size
	// RotationDeg rotates the result about the container's visual center.
	RotationDeg float64
}

// DefaultFitOptions returns the stock limits and hysteresis.
func DefaultFitOptions() FitOptions {
	return FitOptions{Limits: DefaultLimits, ChangeThreshold: DefaultChangeThreshold}
}

func (o FitOptions) limits() Limits {
	if o.Limits == (Limits{}) {
		return DefaultLimits
	}
	return o.Limits
}

// FitScale computes the scale zoom-to-fit would use for a target of size
// w×h in container, given the current scale.
func FitScale(cur float64, w, h float64, container vector.Size, opts FitOptions) float64 {
	lim := opts.limits()
	base := math.Min(ratio(container.W, w), ratio(container.H, h))
	if math.IsInf(base, 1) {
		// zero-area target: nothing to fit, only recenter
		return lim.Clamp(cur)
	}
	if base > 1 {
		// sub-linear growth so tiny targets do not overshoot
		base = math.Pow(1.1, base)/10 + 0.9
	}
	s := lim.Clamp(base)
	if WithinChangeThreshold(cur, s, opts.ChangeThreshold) {
		return lim.Clamp(cur)
	}
	return s
}

// ZoomToFit returns a transform that centers target in container, rescaled to
// fit unless the change falls within the hysteresis threshold.
func ZoomToFit(cur Transform, target FocusTarget, container vector.Size, opts FitOptions) Transform {
	if container.Empty() {
		return cur
	}
	r := target.Rect()
	s := FitScale(cur.Scale, r.W, r.H, container, opts)

	centerView := vector.Pt{
		X: container.W/2 - r.W*s/2,
		Y: container.H/2 - r.H*s/2,
	}
	k := (s - 1) / 2
	p := vector.Pt{
		X: centerView.X - r.X*s + opts.Inset.W*k,
		Y: centerView.Y - r.Y*s + opts.Inset.H*k,
	}
	if opts.RotationDeg != 0 {
		c := vector.Pt{X: (container.W - opts.Inset.W) / 2, Y: (container.H - opts.Inset.H) / 2}
		p = vector.RotateAbout(vector.Radians(opts.RotationDeg), c).Apply(p)
	}
	next := Transform{X: p.X, Y: p.Y, Scale: s}
	if !next.Finite() {
		return cur
	}
	return next
}

func ratio(containerLen, targetLen float64) float64 {
	if !(targetLen > 0) {
		return math.Inf(1)
	}
	return containerLen / targetLen
}
