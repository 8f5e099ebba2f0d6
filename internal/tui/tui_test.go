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
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"stageview/internal/history"
	applog "stageview/internal/log"
	"stageview/internal/scene"
	"stageview/internal/viewport"
)

func newTestApp(t *testing.T) (*App, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(s.Fini)
	// 75x25 stage cells are 600x400 pixels, the size of the demo content.
	s.SetSize(75, 26)
	opts := viewport.DefaultOptions()
	opts.Logger = applog.Discard()
	opts.History = history.NewManager[viewport.Transform](history.Config{})
	return New(s, scene.Default(), viewport.New(opts), nil), s
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}

func TestContainerFromScreenSize(t *testing.T) {
	a, _ := newTestApp(t)
	c := a.Controller().Container()
	if c.W != 600 || c.H != 400 {
		t.Fatalf("container = %+v", c)
	}
	if !a.Controller().Ready() {
		t.Fatal("controller not ready")
	}
}

func TestWheelZoomsAtCell(t *testing.T) {
	a, _ := newTestApp(t)
	// cell (37,12) has its center at (300,200)
	a.HandleEvent(tcell.NewEventMouse(37, 12, tcell.WheelUp, tcell.ModNone))
	tr := a.Controller().Transform()
	if !near(tr.Scale, 1.1) || !near(tr.X, -30) || !near(tr.Y, -20) {
		t.Fatalf("transform = %v", tr)
	}
	a.HandleEvent(tcell.NewEventMouse(37, 12, tcell.WheelDown, tcell.ModNone))
	if got := a.Controller().Transform().Scale; !near(got, 1) {
		t.Fatalf("scale after wheel down = %v", got)
	}
}

func TestKeys(t *testing.T) {
	a, _ := newTestApp(t)
	a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone))
	if got := a.Controller().Transform().Scale; !near(got, 1.1) {
		t.Fatalf("scale after + = %v", got)
	}
	a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '0', tcell.ModNone))
	if got := a.Controller().Transform(); got != viewport.Identity {
		t.Fatalf("after reset = %v", got)
	}
	a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone))
	if got := a.Controller().Transform().Scale; !near(got, 1.1) {
		t.Fatalf("scale after back = %v", got)
	}
	if !a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Fatal("q did not quit")
	}
	if !a.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatal("escape did not quit")
	}
}

func TestDigitFocusesTarget(t *testing.T) {
	a, _ := newTestApp(t)
	a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '3', tcell.ModNone))
	if got := a.Controller().Transform(); got == viewport.Identity {
		t.Fatal("focus did not move the view")
	}
	a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '9', tcell.ModNone))
	if a.focusIdx != 2 {
		t.Fatalf("focus index = %d", a.focusIdx)
	}
}

func TestPointerPanState(t *testing.T) {
	a, _ := newTestApp(t)
	a.HandleEvent(tcell.NewEventMouse(10, 10, tcell.Button1, tcell.ModNone))
	if a.Controller().State() != viewport.Panning {
		t.Fatalf("state after press = %v", a.Controller().State())
	}
	a.HandleEvent(tcell.NewEventMouse(5, 10, tcell.Button1, tcell.ModNone))
	a.HandleEvent(tcell.NewEventMouse(5, 10, tcell.ButtonNone, tcell.ModNone))
	if a.Controller().State() != viewport.Idle {
		t.Fatalf("state after release = %v", a.Controller().State())
	}
}

func TestDrawCells(t *testing.T) {
	a, s := newTestApp(t)
	if err := a.Draw(); err != nil {
		t.Fatal(err)
	}
	// item3 spans (150,90)-(250,190); its first covered cell carries the id
	if r, _, _, _ := s.GetContent(19, 6); r != 'i' {
		t.Fatalf("target label cell = %q", r)
	}
	if r, _, _, _ := s.GetContent(1, 25); r != '1' {
		t.Fatalf("status cell = %q", r)
	}
}

type recordingSink struct {
	ctrl *viewport.Controller
	kind []string
}

func (r *recordingSink) Handle(ev viewport.Event) {
	r.kind = append(r.kind, ev.Kind())
	r.ctrl.Handle(ev)
}

func TestEventsGoThroughSink(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Fini()
	s.SetSize(75, 26)
	opts := viewport.DefaultOptions()
	opts.Logger = applog.Discard()
	ctrl := viewport.New(opts)
	sink := &recordingSink{ctrl: ctrl}
	a := New(s, nil, ctrl, sink)
	a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '-', tcell.ModNone))
	if len(sink.kind) != 2 || sink.kind[0] != viewport.KindResize || sink.kind[1] != viewport.KindStep {
		t.Fatalf("kinds = %v", sink.kind)
	}
}

func TestPollEventsStopsWhenReaderLeaves(t *testing.T) {
	a, s := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tcell.Event)
	done := make(chan struct{})
	go func() {
		a.pollEvents(ctx, events)
		close(done)
	}()
	// Nobody reads events, so the forwarder is parked on its send.
	s.InjectKey(tcell.KeyRune, '+', tcell.ModNone)
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("event forwarder still blocked after cancel")
	}
}

func TestRunReturnsOnCancel(t *testing.T) {
	a, s := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 10; i++ {
		s.InjectKey(tcell.KeyRune, '?', tcell.ModNone)
	}
	cancel()
	errc := make(chan error, 1)
	go func() { errc <- a.Run(ctx) }()
	select {
	case err := <-errc:
		if err != nil && err != context.Canceled {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
}
