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

func TestClampPanLargeContent(t *testing.T) {
	container := vector.Size{W: 600, H: 400}
	content := vector.Size{W: 600, H: 400}
	got := ClampPan(vector.Pt{X: 70, Y: -500}, 1.1, container, content)
	if !near(got.X, 0, 1e-9) || !near(got.Y, -40, 1e-9) {
		t.Fatalf("unexpected clamp: %+v", got)
	}
}

func TestClampPanSmallContent(t *testing.T) {
	container := vector.Size{W: 600, H: 400}
	content := vector.Size{W: 300, H: 200}
	got := ClampPan(vector.Pt{X: -20, Y: 500}, 1, container, content)
	if got.X != 0 || got.Y != 200 {
		t.Fatalf("unexpected clamp: %+v", got)
	}
	inside := vector.Pt{X: 150, Y: 100}
	if got := ClampPan(inside, 1, container, content); got != inside {
		t.Fatalf("in-range position moved: %+v", got)
	}
}

func TestClampPanSoundness(t *testing.T) {
	container := vector.Size{W: 640, H: 480}
	content := vector.Size{W: 900, H: 300}
	for _, s := range []float64{0.1, 0.5, 1, 1.6, 5} {
		for _, x := range []float64{-5000, -321, 0, 12, 5000} {
			p := ClampPan(vector.Pt{X: x, Y: x}, s, container, content)
			for _, axis := range []struct {
				pos, c, e float64
			}{{p.X, container.W, content.W * s}, {p.Y, container.H, content.H * s}} {
				if axis.e >= axis.c {
					if axis.pos > 1e-9 || axis.pos+axis.e < axis.c-1e-9 {
						t.Fatalf("scale %v: content edge visible at %v", s, axis.pos)
					}
				} else if axis.pos < -1e-9 || axis.pos+axis.e > axis.c+1e-9 {
					t.Fatalf("scale %v: small content clipped at %v", s, axis.pos)
				}
			}
		}
	}
}

func TestClampPanDegenerate(t *testing.T) {
	p := vector.Pt{X: 17, Y: -9}
	if got := ClampPan(p, 1, vector.Size{W: 100, H: 100}, vector.Size{}); got != p {
		t.Fatalf("zero content should be left alone: %+v", got)
	}
	if _, _, ok := Endstops(math.NaN(), 100, 100); ok {
		t.Fatalf("NaN scale should have no endstops")
	}
}
