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
	"testing"

	"stageview/internal/vector"
)

func TestWheelDirection(t *testing.T) {
	if WheelDirection(10, false) != ZoomIn || WheelDirection(-10, false) != ZoomOut {
		t.Fatalf("plain wheel direction wrong")
	}
	if WheelDirection(10, true) != ZoomOut || WheelDirection(-10, true) != ZoomIn {
		t.Fatalf("ctrl wheel should invert")
	}
	if WheelDirection(0, false) != NoZoom || WheelDirection(0, true) != NoZoom {
		t.Fatalf("zero delta must not zoom")
	}
}

func TestZoomAtPointerKeepsContentPointFixed(t *testing.T) {
	cur := Transform{X: -12.5, Y: 40, Scale: 1.7}
	pointers := []vector.Pt{{X: 0, Y: 0}, {X: 300, Y: 300}, {X: 812.25, Y: 17}}
	for _, p := range pointers {
		for _, dir := range []Direction{ZoomIn, ZoomOut} {
			before := cur.ToContent(p)
			next := ZoomAtPointer(cur, p, dir, DefaultScaleBy)
			after := next.ToContent(p)
			if !near(before.X, after.X, 1e-6) || !near(before.Y, after.Y, 1e-6) {
				t.Fatalf("pointer %+v dir %d drifted: %+v -> %+v", p, dir, before, after)
			}
		}
	}
}

func TestZoomAtPointerScenario(t *testing.T) {
	next := ZoomAtPointer(Identity, vector.Pt{X: 300, Y: 300}, ZoomIn, 1.1)
	if !near(next.Scale, 1.1, 1e-9) || !near(next.X, -30, 1e-9) || !near(next.Y, -30, 1e-9) {
		t.Fatalf("unexpected transform: %v", next)
	}
}

func TestZoomAtPointerOffCenter(t *testing.T) {
	// content point (300,200) stays under the pointer
	next := ZoomAtPointer(Identity, vector.Pt{X: 300, Y: 200}, WheelDirection(100, false), 1.1)
	if !near(next.X, -30, 1e-9) || !near(next.Y, -20, 1e-9) {
		t.Fatalf("unexpected transform: %v", next)
	}
}

func TestZoomToScaleRejectsDegenerate(t *testing.T) {
	cur := Transform{X: 1, Y: 2, Scale: 1}
	if got := ZoomToScale(cur, vector.Pt{X: 5, Y: 5}, 0); got != cur {
		t.Fatalf("zero scale accepted: %v", got)
	}
	if got := ZoomToScale(cur, vector.Pt{X: math.NaN(), Y: 5}, 2); got != cur {
		t.Fatalf("NaN pointer accepted: %v", got)
	}
	if got := ZoomAtPointer(cur, vector.Pt{}, NoZoom, 1.1); got != cur {
		t.Fatalf("NoZoom changed the transform: %v", got)
	}
}

func TestFitScaleGrowthCurve(t *testing.T) {
	container := vector.Size{W: 1920, H: 1080}
	got := FitScale(0.5, 100, 100, container, DefaultFitOptions())
	want := math.Pow(1.1, 10.8)/10 + 0.9
	if !near(got, want, 1e-9) {
		t.Fatalf("FitScale = %v, want %v", got, want)
	}
	if !near(got, 1.1799, 1e-3) {
		t.Fatalf("FitScale = %v, want about 1.18", got)
	}
}

func TestFitScaleClampsToMax(t *testing.T) {
	got := FitScale(1, 1, 1, vector.Size{W: 1920, H: 1080}, DefaultFitOptions())
	if got != 5 {
		t.Fatalf("tiny target should clamp to max, got %v", got)
	}
}

func TestFitScaleShrinksLargeTarget(t *testing.T) {
	got := FitScale(1, 2000, 500, vector.Size{W: 1000, H: 1000}, DefaultFitOptions())
	if got != 0.5 {
		t.Fatalf("FitScale = %v, want 0.5", got)
	}
}

func TestFitHysteresis(t *testing.T) {
	// base 1.2 maps to about 1.012, within 0.3 of the current scale
	got := FitScale(1, 100, 100, vector.Size{W: 120, H: 120}, DefaultFitOptions())
	if got != 1 {
		t.Fatalf("small rescale should be suppressed, got %v", got)
	}
	opts := DefaultFitOptions()
	opts.ChangeThreshold = 0
	if got := FitScale(1, 100, 100, vector.Size{W: 120, H: 120}, opts); got == 1 {
		t.Fatalf("zero threshold should rescale")
	}
}

func TestFitZeroAreaTarget(t *testing.T) {
	got := FitScale(2, 0, 0, vector.Size{W: 800, H: 600}, DefaultFitOptions())
	if got != 2 {
		t.Fatalf("zero-area target should keep scale, got %v", got)
	}
	cur := Transform{X: 0, Y: 0, Scale: 2}
	next := ZoomToFit(cur, FocusTarget{Left: 100, Top: 50, Right: 100, Bottom: 50}, vector.Size{W: 800, H: 600}, DefaultFitOptions())
	if !next.Finite() || next.Scale != 2 {
		t.Fatalf("unexpected transform: %v", next)
	}
	// the point is centered
	c := next.ToContainer(vector.Pt{X: 100, Y: 50})
	if !near(c.X, 400, 1e-9) || !near(c.Y, 300, 1e-9) {
		t.Fatalf("target not centered: %+v", c)
	}
}

func TestZoomToFitCentersTarget(t *testing.T) {
	container := vector.Size{W: 600, H: 400}
	target := FocusTarget{Left: 190, Top: 130, Right: 210, Bottom: 150}
	next := ZoomToFit(Identity, target, container, DefaultFitOptions())
	want := math.Pow(1.1, 20)/10 + 0.9
	if !near(next.Scale, want, 1e-9) {
		t.Fatalf("scale = %v, want %v", next.Scale, want)
	}
	c := next.ToContainer(vector.Pt{X: 200, Y: 140})
	if !near(c.X, 300, 1e-9) || !near(c.Y, 200, 1e-9) {
		t.Fatalf("target center maps to %+v", c)
	}
}

func TestZoomToFitEmptyContainer(t *testing.T) {
	cur := Transform{X: 3, Y: 4, Scale: 1.5}
	if got := ZoomToFit(cur, FocusTarget{Right: 10, Bottom: 10}, vector.Size{}, DefaultFitOptions()); got != cur {
		t.Fatalf("empty container changed transform: %v", got)
	}
}

func TestZoomToFitRotation(t *testing.T) {
	container := vector.Size{W: 600, H: 400}
	target := FocusTarget{Left: 0, Top: 0, Right: 600, Bottom: 400}
	opts := DefaultFitOptions()
	plain := ZoomToFit(Identity, target, container, opts)
	opts.RotationDeg = 180
	rot := ZoomToFit(Identity, target, container, opts)
	// half a turn about the container center mirrors the offset
	if !near(rot.X, 600-plain.X, 1e-9) || !near(rot.Y, 400-plain.Y, 1e-9) {
		t.Fatalf("rotated %v, plain %v", rot, plain)
	}
}
