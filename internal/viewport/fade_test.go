/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import "testing"

func runFade(t *testing.T, f *Fade) int {
	t.Helper()
	n := 0
	for f.Tick() {
		n++
		if n > 100 {
			t.Fatalf("fade did not settle")
		}
	}
	return n + 1
}

func TestFadeInOut(t *testing.T) {
	f := NewFade(0.05)
	if f.Visible() || f.Running() {
		t.Fatalf("new fade should be hidden and idle")
	}
	f.Show()
	if f.Direction() != FadeIn {
		t.Fatalf("direction = %v", f.Direction())
	}
	if n := runFade(t, f); n < 20 || n > 21 {
		t.Fatalf("fade in took %d ticks", n)
	}
	if f.Opacity() != 1 {
		t.Fatalf("opacity = %v", f.Opacity())
	}
	f.Hide()
	runFade(t, f)
	if f.Opacity() != 0 || f.Visible() {
		t.Fatalf("opacity after hide = %v", f.Opacity())
	}
}

func TestFadeCancel(t *testing.T) {
	f := NewFade(0.1)
	f.Show()
	for i := 0; i < 5; i++ {
		f.Tick()
	}
	mid := f.Opacity()
	f.Hide()
	if f.Direction() != FadeOut {
		t.Fatalf("hide should reverse a running fade-in")
	}
	f.Tick()
	if f.Opacity() >= mid {
		t.Fatalf("opacity should drop after reversing: %v >= %v", f.Opacity(), mid)
	}
}

func TestFadeIdempotent(t *testing.T) {
	f := NewFade(0)
	f.Hide()
	if f.Running() {
		t.Fatalf("hiding a hidden fade should not run")
	}
	f.Show()
	runFade(t, f)
	f.Show()
	if f.Running() {
		t.Fatalf("showing a visible fade should not run")
	}
}
