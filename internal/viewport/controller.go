/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"log/slog"
	"time"

	"stageview/internal/history"
	applog "stageview/internal/log"
	"stageview/internal/vector"
)

// State is the interaction the controller is currently in.
// Idle: nothing active; Panning: content drag; Zooming: a zoom is being
// committed (momentary); ThumbDragging: a scrollbar thumb owns its axis.
type State int

const (
	Idle State = iota
	Panning
	Zooming
	ThumbDragging
)

func (s State) String() string {
	switch s {
	case Panning:
		return "panning"
	case Zooming:
		return "zooming"
	case ThumbDragging:
		return "thumb_dragging"
	default:
		return "idle"
	}
}

// Cursor is the pointer shape a backend should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorCrosshair
	CursorMove
	CursorPointer
)

// Listener receives every committed transform with its thumbs.
type Listener func(Transform, Thumbs)

// Options configures a Controller. Use DefaultOptions and override fields.
type Options struct {
	Limits      Limits
	PinchLimits Limits
	// ScaleBy is the wheel and zoom-button step factor.
	ScaleBy float64
	// FitThreshold is the zoom-to-fit hysteresis.
	FitThreshold   float64
	FitInset       vector.Size
	FitRotationDeg float64
	// ScrollbarWidth is the thickness of both scrollbar lanes in pixels.
	ScrollbarWidth float64
	FadeStep       float64
	// ControlsMinScale hides the scrollbars at or below this scale.
	ControlsMinScale float64

	History *history.Manager[Transform]
	Logger  *slog.Logger
	Now     func() time.Time
}

// DefaultOptions returns the stock stage behavior.
func DefaultOptions() Options {
	return Options{
		Limits:           DefaultLimits,
		PinchLimits:      DefaultPinchLimits,
		ScaleBy:          DefaultScaleBy,
		FitThreshold:     DefaultChangeThreshold,
		ScrollbarWidth:   10,
		FadeStep:         DefaultFadeStep,
		ControlsMinScale: 1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if !o.Limits.Valid() {
		o.Limits = d.Limits
	}
	if !o.PinchLimits.Valid() {
		o.PinchLimits = d.PinchLimits
	}
	if !(o.ScaleBy > 0) || o.ScaleBy == 1 {
		o.ScaleBy = d.ScaleBy
	}
	if o.FitThreshold < 0 {
		o.FitThreshold = 0
	}
	if !(o.ScrollbarWidth > 0) {
		o.ScrollbarWidth = d.ScrollbarWidth
	}
	if !(o.FadeStep > 0) {
		o.FadeStep = d.FadeStep
	}
	if !(o.ControlsMinScale > 0) {
		o.ControlsMinScale = d.ControlsMinScale
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = applog.WithComponent("viewport")
	}
	return o
}

type subscription struct {
	id int
	fn Listener
}

// Controller owns the viewport state and turns input events into committed
// transforms. It is driven from a single event loop and is not safe for
// concurrent use.
type Controller struct {
	opts Options
	log  *slog.Logger
	fade *Fade

	container, content       vector.Size
	containerSet, contentSet bool

	t      Transform
	thumbs Thumbs

	state     State
	dragAxis  Orientation
	dragThumb ThumbDescriptor
	grab      float64
	last      vector.Pt

	hover      bool
	hoverThumb bool

	pending Event

	subs   []subscription
	nextID int

	navigating bool
}

// New returns a controller at the identity transform. It processes events
// once both SetContent and SetContainer (or a Resize event) have been seen.
func New(opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		opts:   opts,
		log:    opts.Logger,
		fade:   NewFade(opts.FadeStep),
		t:      Transform{Scale: opts.Limits.Clamp(1)},
		thumbs: Thumbs{Horizontal: FullThumb, Vertical: FullThumb},
	}
	if opts.History != nil {
		opts.History.Push(c.t, time.Time{})
	}
	return c
}

// NewStage is New followed by SetContent and SetContainer.
func NewStage(content, container vector.Size, opts Options) *Controller {
	c := New(opts)
	c.SetContent(content)
	c.SetContainer(container)
	return c
}

func (c *Controller) Transform() Transform     { return c.t }
func (c *Controller) Thumbs() Thumbs           { return c.thumbs }
func (c *Controller) State() State             { return c.state }
func (c *Controller) Container() vector.Size   { return c.container }
func (c *Controller) Content() vector.Size     { return c.content }
func (c *Controller) Options() Options         { return c.opts }
func (c *Controller) ControlsOpacity() float64 { return c.fade.Opacity() }
func (c *Controller) Ready() bool              { return c.containerSet && c.contentSet }

// DragAxis returns the axis owned by the active thumb drag.
func (c *Controller) DragAxis() (Orientation, bool) {
	return c.dragAxis, c.state == ThumbDragging
}

// Subscribe registers fn for every committed change. The returned function
// removes it.
func (c *Controller) Subscribe(fn Listener) (cancel func()) {
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// SetContent sets the unscaled content size.
func (c *Controller) SetContent(sz vector.Size) {
	c.content = sz
	c.contentSet = true
	c.geometryChanged()
}

// SetContainer sets the visible viewport size.
func (c *Controller) SetContainer(sz vector.Size) {
	c.container = sz
	c.containerSet = true
	c.geometryChanged()
}

func (c *Controller) geometryChanged() {
	if !c.Ready() {
		return
	}
	c.commitThumbs()
	if ev := c.pending; ev != nil {
		c.pending = nil
		c.log.Debug("replaying deferred event", slog.String("kind", ev.Kind()))
		c.Handle(ev)
	}
}

// Handle dispatches one input event. Until geometry is known only the latest
// non-resize event is kept and replayed once it is.
func (c *Controller) Handle(ev Event) {
	if r, ok := ev.(Resize); ok {
		c.SetContainer(r.Container)
		return
	}
	if !c.Ready() {
		c.pending = ev
		c.log.Debug("geometry not ready, deferring event", slog.String("kind", ev.Kind()))
		return
	}
	switch e := ev.(type) {
	case WheelEvent:
		c.wheel(e)
	case ScrollEvent:
		c.scroll(e)
	case PinchEvent:
		c.pinch(e)
	case PointerDown:
		c.pointerDown(e.Pointer)
	case PointerMove:
		c.pointerMove(e.Pointer)
	case PointerUp:
		c.pointerUp()
	case PointerEnter:
		c.pointerEnter()
	case PointerLeave:
		c.pointerLeave()
	case DragEvent:
		c.drag(e)
	case DragEnd:
		if c.state == ThumbDragging && c.dragAxis == e.Axis {
			c.endDrag()
		}
	case FocusRequest:
		c.Focus(e.Target)
	case StepEvent:
		c.ZoomStep(e.Direction)
	case ResetEvent:
		c.Reset()
	default:
		c.log.Warn("unknown event", slog.String("kind", ev.Kind()))
	}
}

func (c *Controller) zoomBlocked(kind string) bool {
	if c.state == ThumbDragging {
		c.log.Debug("zoom ignored during thumb drag", slog.String("kind", kind), slog.String("axis", c.dragAxis.String()))
		return true
	}
	return false
}

// zoom commits next as a momentary Zooming interaction and restores the
// resting state afterwards.
func (c *Controller) zoom(next Transform, clamp bool) {
	prev := c.state
	c.state = Zooming
	c.commit(next, clamp)
	c.state = prev
}

func (c *Controller) wheel(e WheelEvent) {
	if c.zoomBlocked(KindWheel) {
		return
	}
	dir := WheelDirection(e.DeltaY, e.CtrlKey)
	if dir == NoZoom {
		return
	}
	s := c.opts.Limits.Clamp(NextScale(c.t.Scale, dir, c.opts.ScaleBy))
	c.zoom(ZoomToScale(c.t, e.Pointer, s), false)
}

// pinch commits pan-clamped, unlike wheel and focus zooms, which may leave
// the content off the container edges.
func (c *Controller) pinch(e PinchEvent) {
	if c.zoomBlocked(KindPinch) {
		return
	}
	lim := c.opts.Limits.Intersect(c.opts.PinchLimits)
	s := lim.Clamp(e.OffsetScale)
	c.log.Debug("pinch", slog.Float64("scale", s), slog.Int("dir", int(e.Direction)))
	c.zoom(ZoomToScale(c.t, e.Origin, s), true)
}

func (c *Controller) scroll(e ScrollEvent) {
	if c.state == ThumbDragging {
		return
	}
	d := vector.Pt{X: e.DeltaX, Y: e.DeltaY}
	if !d.Finite() {
		return
	}
	c.commit(c.t.WithOffset(c.t.Offset().Sub(d)), true)
}

// Focus zooms to fit target and centers it. Positions produced here are not
// pan-clamped.
func (c *Controller) Focus(target FocusTarget) {
	if !c.Ready() {
		c.pending = FocusRequest{Target: target}
		return
	}
	if c.zoomBlocked(KindFocus) {
		return
	}
	opts := FitOptions{
		Limits:          c.opts.Limits,
		ChangeThreshold: c.opts.FitThreshold,
		Inset:           c.opts.FitInset,
		RotationDeg:     c.opts.FitRotationDeg,
	}
	c.zoom(ZoomToFit(c.t, target, c.container, opts), false)
}

// ZoomStep zooms one step around the container center.
func (c *Controller) ZoomStep(dir Direction) {
	if !c.Ready() {
		c.pending = StepEvent{Direction: dir}
		return
	}
	if dir == NoZoom || c.zoomBlocked(KindStep) {
		return
	}
	center := vector.Pt{X: c.container.W / 2, Y: c.container.H / 2}
	s := c.opts.Limits.Clamp(NextScale(c.t.Scale, dir, c.opts.ScaleBy))
	c.zoom(ZoomToScale(c.t, center, s), false)
}

// Reset returns to the unpanned, unscaled view.
func (c *Controller) Reset() {
	if c.zoomBlocked(KindReset) {
		return
	}
	c.zoom(Transform{Scale: c.opts.Limits.Clamp(1)}, false)
}

// Back restores the previous history entry without recording it.
func (c *Controller) Back() bool {
	return c.navigate(func(h *history.Manager[Transform]) (Transform, bool) { return h.Back() })
}

// Forward re-applies an entry undone by Back.
func (c *Controller) Forward() bool {
	return c.navigate(func(h *history.Manager[Transform]) (Transform, bool) { return h.Forward() })
}

func (c *Controller) navigate(step func(*history.Manager[Transform]) (Transform, bool)) bool {
	if c.opts.History == nil || c.state == ThumbDragging {
		return false
	}
	t, ok := step(c.opts.History)
	if !ok {
		return false
	}
	c.navigating = true
	defer func() { c.navigating = false }()
	c.zoom(t, false)
	return true
}

func (c *Controller) pointerDown(p vector.Pt) {
	if axis, ok := c.hitThumb(p); ok {
		c.beginDrag(axis, p.Along(axis.horiz())-c.thumbs.Get(axis).Start(c.container.Along(axis.horiz())))
		return
	}
	c.setState(Panning)
	c.last = p
}

func (c *Controller) pointerMove(p vector.Pt) {
	switch c.state {
	case Panning:
		d := p.Sub(c.last)
		c.last = p
		if d == (vector.Pt{}) || !d.Finite() {
			return
		}
		c.commit(c.t.WithOffset(c.t.Offset().Add(d)), true)
	case ThumbDragging:
		h := c.dragAxis.horiz()
		start := p.Along(h) - c.grab
		var proposed vector.Pt
		if h {
			proposed = vector.Pt{X: start, Y: p.Y}
		} else {
			proposed = vector.Pt{X: p.X, Y: start}
		}
		c.dragThumbTo(proposed)
	default:
		_, c.hoverThumb = c.hitThumb(p)
	}
}

func (c *Controller) pointerUp() {
	if c.state == ThumbDragging {
		c.endDrag()
		return
	}
	c.setState(Idle)
}

func (c *Controller) pointerEnter() {
	c.hover = true
	c.updateControls()
}

func (c *Controller) pointerLeave() {
	c.hover = false
	c.hoverThumb = false
	c.fade.Hide()
}

func (c *Controller) drag(e DragEvent) {
	if c.state == ThumbDragging && c.dragAxis != e.Axis {
		return
	}
	if c.state != ThumbDragging {
		c.beginDrag(e.Axis, 0)
	}
	c.dragThumbTo(e.Pointer)
}

func (c *Controller) beginDrag(axis Orientation, grab float64) {
	c.dragAxis = axis
	c.grab = grab
	c.dragThumb = c.thumbs.Get(axis)
	c.setState(ThumbDragging)
}

func (c *Controller) endDrag() {
	c.setState(Idle)
	// the transform is authoritative again
	c.commitThumbs()
}

// dragThumbTo applies a proposed thumb position on the dragged axis. The
// bounded thumb becomes the axis descriptor and the offset is derived from it.
func (c *Controller) dragThumbTo(pos vector.Pt) {
	ss := ScrollSync{Axis: c.dragAxis}
	h := c.dragAxis.horiz()
	b := ss.DragBound(pos, c.t.Scale, c.container, c.content, c.opts.ScrollbarWidth)
	start := b.Along(h)
	off, ok := ss.FromThumb(start, c.t.Scale, c.container.Along(h), c.content.Along(h))
	if !ok {
		return
	}
	track := c.container.Along(h)
	c.dragThumb = ThumbDescriptor{
		OffsetFraction: start / track,
		LengthFraction: ss.ToThumb(0, c.t.Scale, track, c.content.Along(h)).LengthFraction,
	}
	next := c.t
	if h {
		next.X = off
	} else {
		next.Y = off
	}
	c.commit(next, true)
}

// hitThumb reports the visible, scrollable thumb under p. The vertical bar
// wins in the corner where both lanes overlap.
func (c *Controller) hitThumb(p vector.Pt) (Orientation, bool) {
	if !c.fade.Visible() {
		return 0, false
	}
	for _, axis := range []Orientation{Vertical, Horizontal} {
		d := c.thumbs.Get(axis)
		if !d.Scrollable() {
			continue
		}
		if (ScrollSync{Axis: axis}).ThumbRect(d, c.container, c.opts.ScrollbarWidth).Contains(p) {
			return axis, true
		}
	}
	return 0, false
}

// Cursor returns the pointer shape for the current interaction.
func (c *Controller) Cursor() Cursor {
	switch {
	case c.state == Panning:
		return CursorMove
	case c.state == ThumbDragging || c.hoverThumb:
		return CursorPointer
	case c.hover:
		return CursorCrosshair
	default:
		return CursorDefault
	}
}

// Tick advances the scrollbar fade by one frame and reports whether it is
// still running.
func (c *Controller) Tick() bool { return c.fade.Tick() }

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.log.Debug("state", slog.String("from", c.state.String()), slog.String("to", s.String()))
	c.state = s
}

// commit replaces the transform as a whole, derives the thumbs and notifies
// listeners. Pan-style updates pass clamp to keep the content edges in view.
func (c *Controller) commit(next Transform, clamp bool) {
	if !next.Finite() {
		c.log.Warn("rejected non-finite transform", slog.String("t", next.String()))
		return
	}
	next.Scale = c.opts.Limits.Clamp(next.Scale)
	if clamp {
		next = next.WithOffset(ClampPan(next.Offset(), next.Scale, c.container, c.content))
	}
	if next == c.t {
		return
	}
	c.t = next
	if h := c.opts.History; h != nil && !c.navigating {
		h.Push(next, c.opts.Now())
	}
	c.updateControls()
	c.commitThumbs()
}

// commitThumbs recomputes the thumbs from the transform, except for an axis
// owned by a thumb drag, and notifies listeners.
func (c *Controller) commitThumbs() {
	th := ThumbsFor(c.t, c.container, c.content)
	if c.state == ThumbDragging {
		th.set(c.dragAxis, c.dragThumb)
	}
	c.thumbs = th
	for _, s := range append([]subscription(nil), c.subs...) {
		s.fn(c.t, c.thumbs)
	}
}

func (c *Controller) updateControls() {
	if c.t.Scale <= c.opts.ControlsMinScale {
		c.fade.Hide()
		return
	}
	if c.hover {
		c.fade.Show()
	}
}
