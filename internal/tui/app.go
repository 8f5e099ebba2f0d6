/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	applog "stageview/internal/log"
	"stageview/internal/render"
	"stageview/internal/scene"
	"stageview/internal/vector"
	"stageview/internal/viewport"
)

// FrameInterval is the fade tick period.
const FrameInterval = 16 * time.Millisecond

// Handler receives translated input. Both *viewport.Controller and
// *trace.Recorder satisfy it.
type Handler interface {
	Handle(viewport.Event)
}

// App runs a scene on a terminal screen.
type App struct {
	screen tcell.Screen
	canvas *Canvas
	ctrl   *viewport.Controller
	scene  *scene.Scene
	sink   Handler
	log    *slog.Logger

	buttonDown bool
	inside     bool
	focusIdx   int
}

// New wires ctrl to screen. sink may be nil, in which case events go straight
// to ctrl. The screen must already be initialized.
func New(screen tcell.Screen, sc *scene.Scene, ctrl *viewport.Controller, sink Handler) *App {
	if sc == nil {
		sc = scene.Default()
	}
	if sink == nil {
		sink = ctrl
	}
	a := &App{
		screen:   screen,
		canvas:   NewCanvas(screen),
		ctrl:     ctrl,
		scene:    sc,
		sink:     sink,
		log:      applog.WithComponent("tui"),
		focusIdx: -1,
	}
	ctrl.SetContent(sc.Size())
	a.sink.Handle(viewport.Resize{Container: a.canvas.Container()})
	return a
}

func (a *App) Controller() *viewport.Controller { return a.ctrl }

// Run draws and processes input until ctx is done or the user quits.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse()
	defer a.screen.DisableMouse()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan tcell.Event, 64)
	go a.pollEvents(ctx, events)

	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	if err := a.Draw(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if a.HandleEvent(ev) {
				return nil
			}
			if err := a.Draw(); err != nil {
				return err
			}
		case <-ticker.C:
			before := a.ctrl.ControlsOpacity()
			a.ctrl.Tick()
			if a.ctrl.ControlsOpacity() != before {
				if err := a.Draw(); err != nil {
					return err
				}
			}
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or ctx ends.
func (a *App) pollEvents(ctx context.Context, events chan<- tcell.Event) {
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			// screen finalized
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Draw paints the current frame.
func (a *App) Draw() error {
	a.canvas.Status = a.status()
	return a.canvas.Draw(render.FrameOf(a.ctrl, a.scene))
}

func (a *App) status() string {
	s := a.ctrl.State().String()
	if a.focusIdx >= 0 && a.focusIdx < len(a.scene.Targets) {
		s += " " + a.scene.Targets[a.focusIdx].ID
	}
	return s + "  [1-9] focus  +/- zoom  0 reset  b/f history  q quit"
}

// HandleEvent translates one terminal event and reports whether the app
// should quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.sink.Handle(viewport.Resize{Container: a.canvas.Container()})
	case *tcell.EventMouse:
		a.mouse(e)
	case *tcell.EventKey:
		return a.key(e)
	}
	return false
}

func (a *App) mouse(e *tcell.EventMouse) {
	col, row := e.Position()
	_, rows := a.screen.Size()
	p := a.canvas.CellCenter(col, row)
	onStage := row < rows-1

	if onStage != a.inside && !a.buttonDown {
		a.inside = onStage
		if onStage {
			a.sink.Handle(viewport.PointerEnter{})
		} else {
			a.sink.Handle(viewport.PointerLeave{})
		}
	}

	btn := e.Buttons()
	switch {
	case btn&tcell.WheelUp != 0:
		a.wheel(p, 1, e.Modifiers())
		return
	case btn&tcell.WheelDown != 0:
		a.wheel(p, -1, e.Modifiers())
		return
	case btn&tcell.WheelLeft != 0:
		a.sink.Handle(viewport.ScrollEvent{DeltaX: -CellW * 4})
		return
	case btn&tcell.WheelRight != 0:
		a.sink.Handle(viewport.ScrollEvent{DeltaX: CellW * 4})
		return
	}

	pressed := btn&tcell.Button1 != 0
	switch {
	case pressed && !a.buttonDown:
		a.buttonDown = true
		a.sink.Handle(viewport.PointerDown{Pointer: p})
	case !pressed && a.buttonDown:
		a.buttonDown = false
		a.sink.Handle(viewport.PointerUp{Pointer: p})
	default:
		a.sink.Handle(viewport.PointerMove{Pointer: p})
	}
}

// wheel zooms with a plain wheel. Shift pans vertically instead, and Ctrl is
// passed through as a pinch-style wheel.
func (a *App) wheel(p vector.Pt, sign float64, mod tcell.ModMask) {
	if mod&tcell.ModShift != 0 {
		a.sink.Handle(viewport.ScrollEvent{DeltaY: -sign * CellH * 3})
		return
	}
	ctrl := mod&tcell.ModCtrl != 0
	if ctrl {
		sign = -sign
	}
	a.sink.Handle(viewport.WheelEvent{DeltaY: sign, CtrlKey: ctrl, Pointer: p})
}

func (a *App) key(e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		a.sink.Handle(viewport.ScrollEvent{DeltaY: -CellH * 2})
	case tcell.KeyDown:
		a.sink.Handle(viewport.ScrollEvent{DeltaY: CellH * 2})
	case tcell.KeyLeft:
		a.sink.Handle(viewport.ScrollEvent{DeltaX: -CellW * 4})
	case tcell.KeyRight:
		a.sink.Handle(viewport.ScrollEvent{DeltaX: CellW * 4})
	case tcell.KeyTab:
		if n := len(a.scene.Targets); n > 0 {
			a.focus((a.focusIdx + 1) % n)
		}
	case tcell.KeyRune:
		return a.rune(e.Rune())
	}
	return false
}

func (a *App) rune(r rune) bool {
	switch {
	case r == 'q':
		return true
	case r == '+' || r == '=':
		a.sink.Handle(viewport.StepEvent{Direction: viewport.ZoomIn})
	case r == '-' || r == '_':
		a.sink.Handle(viewport.StepEvent{Direction: viewport.ZoomOut})
	case r == '0':
		a.focusIdx = -1
		a.sink.Handle(viewport.ResetEvent{})
	case r == 'b':
		if !a.ctrl.Back() {
			a.log.Debug("history: nothing behind")
		}
	case r == 'f':
		if !a.ctrl.Forward() {
			a.log.Debug("history: nothing ahead")
		}
	case r >= '1' && r <= '9':
		a.focus(int(r - '1'))
	}
	return false
}

func (a *App) focus(i int) {
	if i < 0 || i >= len(a.scene.Targets) {
		a.log.Debug("no target at index", slog.Int("index", i))
		return
	}
	a.focusIdx = i
	tg := a.scene.Targets[i]
	a.log.Info("focus", slog.String("target", tg.ID), slog.String("label", fmt.Sprintf("%q", tg.Label)))
	a.sink.Handle(viewport.FocusRequest{Target: tg.Focus()})
}
