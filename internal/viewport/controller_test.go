/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"testing"
	"time"

	"stageview/internal/history"
	applog "stageview/internal/log"
	"stageview/internal/vector"
)

func testOptions() Options {
	o := DefaultOptions()
	o.Logger = applog.Discard()
	return o
}

func newStage(t *testing.T) *Controller {
	t.Helper()
	return NewStage(vector.Size{W: 600, H: 400}, vector.Size{W: 600, H: 400}, testOptions())
}

func assertTransform(t *testing.T, got Transform, x, y, s float64) {
	t.Helper()
	if !near(got.X, x, 1e-6) || !near(got.Y, y, 1e-6) || !near(got.Scale, s, 1e-6) {
		t.Fatalf("transform = %v, want (x=%v y=%v scale=%v)", got, x, y, s)
	}
}

func TestControllerWheelZoom(t *testing.T) {
	c := newStage(t)
	var calls int
	var last Transform
	c.Subscribe(func(tr Transform, _ Thumbs) {
		calls++
		last = tr
	})
	c.Handle(WheelEvent{DeltaY: 100, Pointer: vector.Pt{X: 300, Y: 300}})
	assertTransform(t, c.Transform(), -30, -30, 1.1)
	if calls != 1 || last != c.Transform() {
		t.Fatalf("listener calls = %d, last = %v", calls, last)
	}
	if c.State() != Idle {
		t.Fatalf("state after wheel = %v", c.State())
	}
	th := c.Thumbs()
	if !near(th.Horizontal.LengthFraction, 600.0/660, 1e-9) || !near(th.Vertical.LengthFraction, 400.0/440, 1e-9) {
		t.Fatalf("thumbs = %+v", th)
	}
}

func TestControllerWheelZeroDeltaIgnored(t *testing.T) {
	c := newStage(t)
	calls := 0
	c.Subscribe(func(Transform, Thumbs) { calls++ })
	c.Handle(WheelEvent{DeltaY: 0, Pointer: vector.Pt{X: 10, Y: 10}})
	if calls != 0 || c.Transform() != Identity {
		t.Fatalf("zero delta changed state: %v (%d calls)", c.Transform(), calls)
	}
}

func TestControllerScaleStaysInLimits(t *testing.T) {
	c := newStage(t)
	p := vector.Pt{X: 120, Y: 80}
	for i := 0; i < 100; i++ {
		c.Handle(WheelEvent{DeltaY: 1, Pointer: p})
	}
	if c.Transform().Scale != 5 {
		t.Fatalf("scale after zooming in = %v", c.Transform().Scale)
	}
	for i := 0; i < 200; i++ {
		c.Handle(WheelEvent{DeltaY: -1, Pointer: p})
	}
	if c.Transform().Scale != 0.1 {
		t.Fatalf("scale after zooming out = %v", c.Transform().Scale)
	}
}

func TestControllerPinchLimits(t *testing.T) {
	c := newStage(t)
	c.Handle(PinchEvent{Origin: vector.Pt{X: 300, Y: 200}, OffsetScale: 0.2, Direction: ZoomOut})
	if c.Transform().Scale != 0.5 {
		t.Fatalf("pinch min = %v", c.Transform().Scale)
	}
	c.Handle(PinchEvent{Origin: vector.Pt{X: 300, Y: 200}, OffsetScale: 9, Direction: ZoomIn})
	if c.Transform().Scale != 5 {
		t.Fatalf("pinch max = %v", c.Transform().Scale)
	}
}

func TestControllerPinchCommitsClamped(t *testing.T) {
	c := newStage(t)
	// Unclamped, the anchor at (900, 600) would leave the content at (450, 300).
	c.Handle(PinchEvent{Origin: vector.Pt{X: 900, Y: 600}, OffsetScale: 0.5, Direction: ZoomOut})
	assertTransform(t, c.Transform(), 300, 200, 0.5)
}

func TestControllerPanClamped(t *testing.T) {
	c := newStage(t)
	c.Handle(WheelEvent{DeltaY: 100, Pointer: vector.Pt{X: 300, Y: 300}})
	c.Handle(PointerDown{Pointer: vector.Pt{X: 100, Y: 100}})
	if c.State() != Panning || c.Cursor() != CursorMove {
		t.Fatalf("state = %v cursor = %v", c.State(), c.Cursor())
	}
	c.Handle(PointerMove{Pointer: vector.Pt{X: 200, Y: 200}})
	assertTransform(t, c.Transform(), 0, 0, 1.1)
	c.Handle(PointerMove{Pointer: vector.Pt{X: 150, Y: 190}})
	assertTransform(t, c.Transform(), -50, -10, 1.1)
	c.Handle(PointerUp{Pointer: vector.Pt{X: 150, Y: 190}})
	if c.State() != Idle {
		t.Fatalf("state after release = %v", c.State())
	}
}

func TestControllerScrollClamped(t *testing.T) {
	c := newStage(t)
	c.Handle(WheelEvent{DeltaY: 100, Pointer: vector.Pt{X: 0, Y: 0}})
	c.Handle(ScrollEvent{DeltaY: 50})
	assertTransform(t, c.Transform(), 0, -40, 1.1)
	c.Handle(ScrollEvent{DeltaX: -25, DeltaY: -100})
	assertTransform(t, c.Transform(), 0, 0, 1.1)
}

func TestControllerFocus(t *testing.T) {
	c := newStage(t)
	c.Handle(FocusRequest{Target: FocusTarget{Left: 190, Top: 130, Right: 210, Bottom: 150}})
	tr := c.Transform()
	center := tr.ToContainer(vector.Pt{X: 200, Y: 140})
	if !near(center.X, 300, 1e-6) || !near(center.Y, 200, 1e-6) {
		t.Fatalf("focus target not centered: %+v", center)
	}
	if tr.Scale <= 1 || tr.Scale > 5 {
		t.Fatalf("focus scale = %v", tr.Scale)
	}
}

func TestControllerFocusHysteresis(t *testing.T) {
	c := newStage(t)
	// the whole content already fits at scale 1
	c.Focus(FocusTarget{Left: 0, Top: 0, Right: 600, Bottom: 400})
	assertTransform(t, c.Transform(), 0, 0, 1)
}

func TestControllerZoomStepAndReset(t *testing.T) {
	c := newStage(t)
	c.Handle(StepEvent{Direction: ZoomIn})
	assertTransform(t, c.Transform(), -30, -20, 1.1)
	c.Handle(ResetEvent{})
	assertTransform(t, c.Transform(), 0, 0, 1)
}

func TestControllerDefersUntilGeometry(t *testing.T) {
	c := New(testOptions())
	c.Handle(WheelEvent{DeltaY: 1, Pointer: vector.Pt{X: 0, Y: 0}})
	c.Handle(WheelEvent{DeltaY: 1, Pointer: vector.Pt{X: 300, Y: 300}})
	if c.Transform() != Identity {
		t.Fatalf("event applied before geometry: %v", c.Transform())
	}
	c.SetContent(vector.Size{W: 600, H: 400})
	if c.Ready() {
		t.Fatalf("controller ready without a container")
	}
	c.Handle(Resize{Container: vector.Size{W: 600, H: 400}})
	// only the latest deferred event is replayed
	assertTransform(t, c.Transform(), -30, -30, 1.1)
}

func TestControllerZeroSizeContent(t *testing.T) {
	c := NewStage(vector.Size{}, vector.Size{W: 600, H: 400}, testOptions())
	c.Handle(WheelEvent{DeltaY: 1, Pointer: vector.Pt{X: 300, Y: 300}})
	c.Handle(ScrollEvent{DeltaX: 10, DeltaY: 10})
	c.Handle(DragEvent{Axis: Horizontal, Pointer: vector.Pt{X: 50}})
	c.Handle(DragEnd{Axis: Horizontal})
	if !c.Transform().Finite() {
		t.Fatalf("non-finite transform: %v", c.Transform())
	}
	if th := c.Thumbs(); th.Horizontal != FullThumb || th.Vertical != FullThumb {
		t.Fatalf("thumbs = %+v", th)
	}
}

func TestControllerDragThumbIgnoresWheel(t *testing.T) {
	c := newStage(t)
	c.Handle(WheelEvent{DeltaY: 1, Pointer: vector.Pt{X: 300, Y: 300}})
	c.Handle(DragEvent{Axis: Horizontal, Pointer: vector.Pt{X: 10, Y: 0}})
	if axis, ok := c.DragAxis(); !ok || axis != Horizontal {
		t.Fatalf("drag axis = %v, %v", axis, ok)
	}
	// thumb center at 10/(C-thumbLen) of the track
	want := -(10 / (600 - 600/1.1)) * 60
	assertTransform(t, c.Transform(), want, -30, 1.1)
	if !near(c.Thumbs().Horizontal.OffsetFraction, 10.0/600, 1e-9) {
		t.Fatalf("dragged thumb = %+v", c.Thumbs().Horizontal)
	}
	before := c.Transform()
	c.Handle(WheelEvent{DeltaY: 1, Pointer: vector.Pt{X: 300, Y: 300}})
	c.Handle(PinchEvent{Origin: vector.Pt{X: 300, Y: 300}, OffsetScale: 2})
	c.Handle(StepEvent{Direction: ZoomIn})
	if c.Transform() != before {
		t.Fatalf("zoom applied during thumb drag: %v", c.Transform())
	}
	c.Handle(DragEvent{Axis: Vertical, Pointer: vector.Pt{Y: 30}})
	if c.Transform() != before {
		t.Fatalf("drag on the other axis applied: %v", c.Transform())
	}
	c.Handle(DragEnd{Axis: Horizontal})
	if c.State() != Idle {
		t.Fatalf("state after drag end = %v", c.State())
	}
	c.Handle(WheelEvent{DeltaY: 1, Pointer: vector.Pt{X: 300, Y: 300}})
	if near(c.Transform().Scale, 1.1, 1e-9) {
		t.Fatalf("wheel ignored after drag end")
	}
}

func TestControllerPointerThumbDrag(t *testing.T) {
	c := newStage(t)
	c.Handle(PointerEnter{})
	c.Handle(WheelEvent{DeltaY: 1, Pointer: vector.Pt{X: 300, Y: 300}})
	for c.Tick() {
	}
	if c.ControlsOpacity() != 1 {
		t.Fatalf("controls opacity = %v", c.ControlsOpacity())
	}
	// vertical thumb spans y 27.27..390.9 in the right-hand lane
	c.Handle(PointerMove{Pointer: vector.Pt{X: 595, Y: 100}})
	if c.Cursor() != CursorPointer {
		t.Fatalf("hover cursor = %v", c.Cursor())
	}
	c.Handle(PointerDown{Pointer: vector.Pt{X: 595, Y: 100}})
	if axis, ok := c.DragAxis(); !ok || axis != Vertical {
		t.Fatalf("pointer down should grab the vertical thumb")
	}
	c.Handle(PointerMove{Pointer: vector.Pt{X: 595, Y: 90}})
	assertTransform(t, c.Transform(), -30, -19, 1.1)
	c.Handle(PointerUp{})
	if c.State() != Idle {
		t.Fatalf("state = %v", c.State())
	}
	if !near(c.Thumbs().Vertical.OffsetFraction, 19.0/40*(1-400.0/440), 1e-9) {
		t.Fatalf("thumb not resynced: %+v", c.Thumbs().Vertical)
	}
}

func TestControllerControlsHiddenAtLowScale(t *testing.T) {
	c := newStage(t)
	c.Handle(PointerEnter{})
	if c.Tick() || c.ControlsOpacity() != 0 {
		t.Fatalf("controls should stay hidden at scale 1")
	}
	if c.Cursor() != CursorCrosshair {
		t.Fatalf("hover cursor = %v", c.Cursor())
	}
	c.Handle(StepEvent{Direction: ZoomIn})
	if !c.Tick() {
		t.Fatalf("controls should fade in above scale 1")
	}
	c.Handle(PointerLeave{})
	for c.Tick() {
	}
	if c.ControlsOpacity() != 0 || c.Cursor() != CursorDefault {
		t.Fatalf("opacity = %v cursor = %v", c.ControlsOpacity(), c.Cursor())
	}
}

func TestControllerHistory(t *testing.T) {
	opts := testOptions()
	now := time.Unix(1000, 0)
	opts.Now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	opts.History = history.NewManager[Transform](history.Config{MinInterval: 100 * time.Millisecond})
	c := NewStage(vector.Size{W: 600, H: 400}, vector.Size{W: 600, H: 400}, opts)
	c.ZoomStep(ZoomIn)
	c.ZoomStep(ZoomIn)
	second := c.Transform()
	if !c.Back() {
		t.Fatalf("back failed")
	}
	assertTransform(t, c.Transform(), -30, -20, 1.1)
	if !c.Back() {
		t.Fatalf("second back failed")
	}
	if c.Transform() != Identity {
		t.Fatalf("back to start = %v", c.Transform())
	}
	if c.Back() {
		t.Fatalf("back past the start")
	}
	if !c.Forward() || !c.Forward() || c.Transform() != second {
		t.Fatalf("forward = %v, want %v", c.Transform(), second)
	}
}

func TestControllerUnsubscribe(t *testing.T) {
	c := newStage(t)
	calls := 0
	cancel := c.Subscribe(func(Transform, Thumbs) { calls++ })
	c.ZoomStep(ZoomIn)
	cancel()
	c.ZoomStep(ZoomIn)
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}
