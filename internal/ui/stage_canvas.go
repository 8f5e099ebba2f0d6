//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"stageview/internal/render"
	"stageview/internal/scene"
	"stageview/internal/vector"
	"stageview/internal/viewport"
)

var (
	stageBG      = color.RGBA{R: 0x3a, G: 0x3f, B: 0x44, A: 255}
	contentFill  = color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 255}
	targetFill   = color.RGBA{R: 0x66, G: 0x9b, B: 0xbc, A: 255}
	borderStroke = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 255}
)

// StageCanvas shows a scene through a viewport controller and forwards
// pointer input to it.
type StageCanvas struct {
	widget.BaseWidget

	ctrl  *viewport.Controller
	scene *scene.Scene
	sink  Handler
}

// NewStageCanvas binds ctrl to sc. sink may be nil.
func NewStageCanvas(sc *scene.Scene, ctrl *viewport.Controller, sink Handler) *StageCanvas {
	if sc == nil {
		sc = scene.Default()
	}
	if sink == nil {
		sink = ctrl
	}
	ctrl.SetContent(sc.Size())
	s := &StageCanvas{ctrl: ctrl, scene: sc, sink: sink}
	s.ExtendBaseWidget(s)
	return s
}

func (s *StageCanvas) Controller() *viewport.Controller { return s.ctrl }

// PreferredSize sets a decent default size for the widget.
func (s *StageCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

func pt(p fyne.Position) vector.Pt { return vector.Pt{X: float64(p.X), Y: float64(p.Y)} }

// Scrolled zooms at the pointer. Fyne does not report modifiers on scroll
// events, so the plain wheel convention applies.
func (s *StageCanvas) Scrolled(e *fyne.ScrollEvent) {
	if e.Scrolled.DX != 0 && e.Scrolled.DY == 0 {
		s.sink.Handle(viewport.ScrollEvent{DeltaX: -float64(e.Scrolled.DX)})
	} else {
		s.sink.Handle(viewport.WheelEvent{DeltaY: float64(e.Scrolled.DY), Pointer: pt(e.Position)})
	}
	s.Refresh()
}

func (s *StageCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	s.sink.Handle(viewport.PointerDown{Pointer: pt(e.Position)})
	s.Refresh()
}

func (s *StageCanvas) MouseUp(e *desktop.MouseEvent) {
	s.sink.Handle(viewport.PointerUp{Pointer: pt(e.Position)})
	s.Refresh()
}

func (s *StageCanvas) Dragged(e *fyne.DragEvent) {
	s.sink.Handle(viewport.PointerMove{Pointer: pt(e.Position)})
	s.Refresh()
}

func (s *StageCanvas) DragEnd() {
	s.sink.Handle(viewport.PointerUp{})
	s.Refresh()
}

func (s *StageCanvas) MouseIn(*desktop.MouseEvent) {
	s.sink.Handle(viewport.PointerEnter{})
	s.Refresh()
}

func (s *StageCanvas) MouseMoved(e *desktop.MouseEvent) {
	s.sink.Handle(viewport.PointerMove{Pointer: pt(e.Position)})
}

func (s *StageCanvas) MouseOut() {
	s.sink.Handle(viewport.PointerLeave{})
	s.Refresh()
}

// Cursor maps the controller's cursor hint.
func (s *StageCanvas) Cursor() desktop.Cursor {
	switch s.ctrl.Cursor() {
	case viewport.CursorCrosshair:
		return desktop.CrosshairCursor
	case viewport.CursorMove, viewport.CursorPointer:
		return desktop.PointerCursor
	default:
		return desktop.DefaultCursor
	}
}

// Focus zooms to the target with the given id.
func (s *StageCanvas) Focus(id string) error {
	tg, err := s.scene.Target(id)
	if err != nil {
		return err
	}
	s.sink.Handle(viewport.FocusRequest{Target: tg.Focus()})
	s.Refresh()
	return nil
}

// Send forwards ev and redraws.
func (s *StageCanvas) Send(ev viewport.Event) {
	s.sink.Handle(ev)
	s.Refresh()
}

func (s *StageCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &stageRenderer{sc: s}
	r.bg = canvas.NewRectangle(stageBG)
	r.content = canvas.NewRectangle(scene.ParseColor(s.scene.Content.Color, contentFill))
	r.content.StrokeColor = borderStroke
	r.content.StrokeWidth = 1
	r.objects = []fyne.CanvasObject{r.bg, r.content}
	for _, tg := range s.scene.Targets {
		rc := canvas.NewRectangle(scene.ParseColor(tg.Color, targetFill))
		rc.StrokeColor = borderStroke
		rc.StrokeWidth = 1
		lbl := canvas.NewText(tg.Label, color.White)
		lbl.TextSize = 11
		r.targets = append(r.targets, rc)
		r.labels = append(r.labels, lbl)
		r.objects = append(r.objects, rc, lbl)
	}
	r.hThumb = canvas.NewRectangle(color.Transparent)
	r.vThumb = canvas.NewRectangle(color.Transparent)
	r.hThumb.CornerRadius = 4
	r.vThumb.CornerRadius = 4
	r.zoom = canvas.NewText("", color.White)
	r.zoom.TextStyle = fyne.TextStyle{Monospace: true}
	r.objects = append(r.objects, r.hThumb, r.vThumb, r.zoom)
	return r
}

// stageRenderer lays out the scene objects from the controller's layout.
type stageRenderer struct {
	sc      *StageCanvas
	objects []fyne.CanvasObject

	bg, content    *canvas.Rectangle
	targets        []*canvas.Rectangle
	labels         []*canvas.Text
	hThumb, vThumb *canvas.Rectangle
	zoom           *canvas.Text
	size           fyne.Size
}

func (r *stageRenderer) Destroy()                     {}
func (r *stageRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *stageRenderer) MinSize() fyne.Size           { return fyne.NewSize(100, 100) }
func (r *stageRenderer) Refresh()                     { r.Layout(r.sc.Size()); canvas.Refresh(r.sc) }

func place(o fyne.CanvasObject, rc vector.Rect) {
	o.Move(fyne.NewPos(float32(rc.X), float32(rc.Y)))
	o.Resize(fyne.NewSize(float32(rc.W), float32(rc.H)))
}

func (r *stageRenderer) Layout(size fyne.Size) {
	if size != r.size {
		r.size = size
		r.sc.sink.Handle(viewport.Resize{Container: vector.Size{W: float64(size.Width), H: float64(size.Height)}})
	}
	r.bg.Move(fyne.NewPos(0, 0))
	r.bg.Resize(size)

	l := render.FrameOf(r.sc.ctrl, r.sc.scene).Layout()
	place(r.content, l.Content)
	for i, p := range l.Targets {
		if i >= len(r.targets) {
			break
		}
		place(r.targets[i], p.Rect)
		r.labels[i].Move(fyne.NewPos(float32(p.Rect.X)+4, float32(p.Rect.Y)+2))
	}

	alpha := uint8(r.sc.ctrl.ControlsOpacity() * 180)
	thumb := color.NRGBA{R: 0x90, G: 0x90, B: 0x90, A: alpha}
	r.hThumb.FillColor = thumb
	r.vThumb.FillColor = thumb
	if l.HShow {
		place(r.hThumb, l.HThumb)
		r.hThumb.Show()
	} else {
		r.hThumb.Hide()
	}
	if l.VShow {
		place(r.vThumb, l.VThumb)
		r.vThumb.Show()
	} else {
		r.vThumb.Hide()
	}
	r.hThumb.Refresh()
	r.vThumb.Refresh()

	r.zoom.Text = l.Label
	r.zoom.Move(fyne.NewPos(8, 6))
	r.zoom.Refresh()
}
