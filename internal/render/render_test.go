/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"image/color"
	"testing"

	applog "stageview/internal/log"
	"stageview/internal/scene"
	"stageview/internal/vector"
	"stageview/internal/viewport"
)

func demoController(t *testing.T) (*viewport.Controller, *scene.Scene) {
	t.Helper()
	sc := scene.Default()
	o := viewport.DefaultOptions()
	o.Logger = applog.Discard()
	return viewport.NewStage(sc.Size(), vector.Size{W: 600, H: 400}, o), sc
}

func TestLayoutMapsThroughTransform(t *testing.T) {
	c, sc := demoController(t)
	c.Handle(viewport.WheelEvent{DeltaY: 1, Pointer: vector.Pt{X: 300, Y: 300}})
	l := FrameOf(c, sc).Layout()
	if !approx(l.Content.X, -30) || !approx(l.Content.Y, -30) || !approx(l.Content.W, 660) || !approx(l.Content.H, 440) {
		t.Fatalf("content rect = %+v", l.Content)
	}
	if len(l.Targets) != 6 {
		t.Fatalf("targets = %d", len(l.Targets))
	}
	first := l.Targets[0].Rect
	if !approx(first.X, 135) || !approx(first.Y, -63) || !approx(first.W, 110) {
		t.Fatalf("item1 rect = %+v", first)
	}
	if l.Label != "110%" {
		t.Fatalf("label = %q", l.Label)
	}
	if l.HShow || l.VShow {
		t.Fatalf("thumbs shown while controls are faded out")
	}
}

func TestLayoutShowsThumbsWhenVisible(t *testing.T) {
	f := Frame{
		Container:      vector.Size{W: 600, H: 400},
		Content:        vector.Size{W: 600, H: 400},
		Transform:      viewport.Transform{Scale: 2},
		Thumbs:         viewport.Thumbs{Horizontal: viewport.ThumbDescriptor{OffsetFraction: 0, LengthFraction: 0.5}, Vertical: viewport.FullThumb},
		Opacity:        0.5,
		ScrollbarWidth: 10,
	}
	l := f.Layout()
	if !l.HShow || l.VShow {
		t.Fatalf("show flags = %v %v", l.HShow, l.VShow)
	}
	if l.HThumb != vector.R(0, 390, 300, 10) {
		t.Fatalf("horizontal thumb = %+v", l.HThumb)
	}
}

func TestRasterDraw(t *testing.T) {
	c, sc := demoController(t)
	r := NewRaster()
	if err := r.Draw(FrameOf(c, sc)); err != nil {
		t.Fatalf("Draw error: %v", err)
	}
	img := r.Image()
	if img.Bounds().Dx() != 600 || img.Bounds().Dy() != 400 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	// inside item3 (150,90)-(250,190), away from its label and border
	if got := img.RGBAAt(200, 170); got != scene.ParseColor(sc.Targets[2].Color, color.RGBA{}) {
		t.Fatalf("target pixel = %+v", got)
	}
	// plain content
	if got := img.RGBAAt(50, 50); got != scene.ParseColor(sc.Content.Color, color.RGBA{}) {
		t.Fatalf("content pixel = %+v", got)
	}
}

func TestRasterStageVisibleWhenZoomedOut(t *testing.T) {
	c, sc := demoController(t)
	c.Handle(viewport.StepEvent{Direction: viewport.ZoomOut})
	r := NewRaster()
	r.HideLabel = true
	_ = r.Draw(FrameOf(c, sc))
	if got := r.Image().RGBAAt(1, 1); got != stageColor {
		t.Fatalf("corner pixel = %+v, want stage color", got)
	}
}

func TestRasterZeroContainer(t *testing.T) {
	r := NewRaster()
	if err := r.Draw(Frame{Transform: viewport.Identity}); err != nil {
		t.Fatalf("Draw error: %v", err)
	}
	if r.Image().Bounds().Dx() != 1 {
		t.Fatalf("bounds = %v", r.Image().Bounds())
	}
}

func TestScale(t *testing.T) {
	c, sc := demoController(t)
	r := NewRaster()
	_ = r.Draw(FrameOf(c, sc))
	small := Scale(r.Image(), 150, 100)
	if small.Bounds().Dx() != 150 || small.Bounds().Dy() != 100 {
		t.Fatalf("bounds = %v", small.Bounds())
	}
}

func TestZoomLabel(t *testing.T) {
	if ZoomLabel(0.1) != "10%" || ZoomLabel(1.2100000001) != "121%" {
		t.Fatalf("unexpected labels %q %q", ZoomLabel(0.1), ZoomLabel(1.21))
	}
}

func approx(a, b float64) bool { d := a - b; return d < 1e-9 && d > -1e-9 }
