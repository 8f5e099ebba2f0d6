/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

// DefaultFadeStep is the opacity change per tick.
const DefaultFadeStep = 0.05

// FadeDirection is the running direction of a Fade.
type FadeDirection int

const (
	FadeNone FadeDirection = iota
	FadeIn
	FadeOut
)

func (d FadeDirection) String() string {
	switch d {
	case FadeIn:
		return "in"
	case FadeOut:
		return "out"
	default:
		return "none"
	}
}

// Fade animates the scrollbar layer's opacity between 0 and 1. It does not
// own a timer: an external tick source calls Tick once per frame.
type Fade struct {
	dir     FadeDirection
	opacity float64
	step    float64
}

// NewFade returns a hidden fade advancing step per tick.
func NewFade(step float64) *Fade {
	if !(step > 0) {
		step = DefaultFadeStep
	}
	return &Fade{step: step}
}

// Show starts fading in, cancelling a running fade-out. No-op at full opacity.
func (f *Fade) Show() {
	if f.opacity >= 1 {
		f.dir = FadeNone
		return
	}
	f.dir = FadeIn
}

// Hide starts fading out, cancelling a running fade-in. No-op when hidden.
func (f *Fade) Hide() {
	if f.opacity <= 0 {
		f.dir = FadeNone
		return
	}
	f.dir = FadeOut
}

// Tick advances one frame and reports whether the fade is still running.
func (f *Fade) Tick() bool {
	switch f.dir {
	case FadeIn:
		f.opacity += f.step
		if f.opacity >= 1 {
			f.opacity = 1
			f.dir = FadeNone
		}
	case FadeOut:
		f.opacity -= f.step
		if f.opacity <= 0 {
			f.opacity = 0
			f.dir = FadeNone
		}
	}
	return f.dir != FadeNone
}

func (f *Fade) Opacity() float64         { return f.opacity }
func (f *Fade) Direction() FadeDirection { return f.dir }
func (f *Fade) Running() bool            { return f.dir != FadeNone }
func (f *Fade) Visible() bool            { return f.opacity > 0 }
