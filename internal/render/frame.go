/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render turns controller state into drawable frames. Backends share
// one Layout so every surface places content and scrollbars identically.
package render

import (
	"fmt"
	"math"

	"stageview/internal/scene"
	"stageview/internal/vector"
	"stageview/internal/viewport"
)

// Frame is a snapshot of everything needed to draw the stage once.
type Frame struct {
	Container      vector.Size
	Content        vector.Size
	Transform      viewport.Transform
	Thumbs         viewport.Thumbs
	Opacity        float64
	ScrollbarWidth float64
	ContentColor   string
	Targets        []scene.Target
}

// FrameOf captures the controller's current state for sc. sc may be nil.
func FrameOf(c *viewport.Controller, sc *scene.Scene) Frame {
	f := Frame{
		Container:      c.Container(),
		Content:        c.Content(),
		Transform:      c.Transform(),
		Thumbs:         c.Thumbs(),
		Opacity:        c.ControlsOpacity(),
		ScrollbarWidth: c.Options().ScrollbarWidth,
	}
	if sc != nil {
		f.ContentColor = sc.Content.Color
		f.Targets = sc.Targets
	}
	return f
}

// Backend draws frames onto a surface.
type Backend interface {
	Draw(Frame) error
}

// Placed is a target mapped into container pixels.
type Placed struct {
	Target scene.Target
	Rect   vector.Rect
}

// Layout is a frame resolved to container-space rectangles.
type Layout struct {
	Content vector.Rect
	Targets []Placed
	// Thumb rects are only meaningful when the matching Show flag is set.
	HThumb, VThumb vector.Rect
	HShow, VShow   bool
	Label          string
}

// Layout resolves f.
func (f Frame) Layout() Layout {
	t := f.Transform
	if !t.Finite() {
		t = viewport.Identity
	}
	origin := t.ToContainer(vector.Pt{})
	l := Layout{
		Content: vector.R(origin.X, origin.Y, f.Content.W*t.Scale, f.Content.H*t.Scale),
		Label:   ZoomLabel(t.Scale),
	}
	for _, tg := range f.Targets {
		p := t.ToContainer(vector.Pt{X: tg.Left, Y: tg.Top})
		l.Targets = append(l.Targets, Placed{Target: tg, Rect: vector.R(p.X, p.Y, tg.Width*t.Scale, tg.Height*t.Scale)})
	}
	if f.Opacity > 0 {
		bw := f.ScrollbarWidth
		if l.HShow = f.Thumbs.Horizontal.Scrollable(); l.HShow {
			l.HThumb = viewport.ScrollSync{Axis: viewport.Horizontal}.ThumbRect(f.Thumbs.Horizontal, f.Container, bw)
		}
		if l.VShow = f.Thumbs.Vertical.Scrollable(); l.VShow {
			l.VThumb = viewport.ScrollSync{Axis: viewport.Vertical}.ThumbRect(f.Thumbs.Vertical, f.Container, bw)
		}
	}
	return l
}

// ZoomLabel formats a scale as a whole percentage.
func ZoomLabel(scale float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(scale*100)))
}
