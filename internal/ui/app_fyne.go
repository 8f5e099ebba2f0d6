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
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"stageview/internal/crash"
	applog "stageview/internal/log"
	"stageview/internal/render"
	"stageview/internal/scene"
	"stageview/internal/vector"
	"stageview/internal/viewport"
)

// Run starts the Fyne desktop stage and blocks until the window closes.
func Run(opts Options) error {
	l := applog.WithComponent("ui")
	sc := opts.Scene
	if sc == nil {
		sc = scene.Default()
	}
	ctrl := viewport.New(opts.Viewport)
	var sink Handler = ctrl
	if opts.Sink != nil {
		sink = opts.Sink(ctrl)
	}
	defer crash.Recover(&crash.Context{Command: "ui", Scene: sc.Name, State: func() string { return ctrl.Transform().String() }})
	l.Info("starting UI", slog.String("scene", sc.Name), slog.Int("targets", len(sc.Targets)))

	fyneApp := app.NewWithID("stageview")
	w := fyneApp.NewWindow("StageView: " + sc.Name)
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 1000), 400)
	winH := max(prefs.IntWithFallback("window.height", 700), 300)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	stage := NewStageCanvas(sc, ctrl, sink)
	status := widget.NewLabel(render.ZoomLabel(1))
	ctrl.Subscribe(func(t viewport.Transform, _ viewport.Thumbs) {
		status.SetText(fmt.Sprintf("%s  x=%.0f y=%.0f  %s", render.ZoomLabel(t.Scale), t.X, t.Y, ctrl.State()))
	})

	targets := widget.NewSelect(sc.IDs(), func(id string) {
		if err := stage.Focus(id); err != nil {
			l.Warn("focus failed", slog.String("target", id), slog.Any("err", err))
		}
	})
	targets.PlaceHolder = "Focus target"

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { stage.Send(viewport.StepEvent{Direction: viewport.ZoomIn}) }),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { stage.Send(viewport.StepEvent{Direction: viewport.ZoomOut}) }),
		widget.NewToolbarAction(theme.ViewRestoreIcon(), func() { stage.Send(viewport.ResetEvent{}) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.NavigateBackIcon(), func() { ctrl.Back(); stage.Refresh() }),
		widget.NewToolbarAction(theme.NavigateNextIcon(), func() { ctrl.Forward(); stage.Refresh() }),
	)

	bindKeys(w, stage, sc)

	top := container.NewBorder(nil, nil, toolbar, nil, targets)
	w.SetContent(container.NewBorder(top, status, nil, nil, stage))

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(16 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fyne.Do(func() {
					before := ctrl.ControlsOpacity()
					ctrl.Tick()
					if ctrl.ControlsOpacity() != before {
						stage.Refresh()
					}
				})
			}
		}
	}()

	w.SetOnClosed(func() {
		close(stop)
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		l.Info("UI closed")
	})
	w.ShowAndRun()
	return nil
}

func bindKeys(w fyne.Window, stage *StageCanvas, sc *scene.Scene) {
	const step = 40
	w.Canvas().SetOnTypedKey(func(e *fyne.KeyEvent) {
		switch e.Name {
		case fyne.KeyUp:
			stage.Send(viewport.ScrollEvent{DeltaY: -step})
		case fyne.KeyDown:
			stage.Send(viewport.ScrollEvent{DeltaY: step})
		case fyne.KeyLeft:
			stage.Send(viewport.ScrollEvent{DeltaX: -step})
		case fyne.KeyRight:
			stage.Send(viewport.ScrollEvent{DeltaX: step})
		}
	})
	w.Canvas().SetOnTypedRune(func(r rune) {
		switch {
		case r == '+' || r == '=':
			stage.Send(viewport.StepEvent{Direction: viewport.ZoomIn})
		case r == '-':
			stage.Send(viewport.StepEvent{Direction: viewport.ZoomOut})
		case r == '0':
			stage.Send(viewport.ResetEvent{})
		case r >= '1' && r <= '9':
			if i := int(r - '1'); i < len(sc.Targets) {
				_ = stage.Focus(sc.Targets[i].ID)
			}
		}
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyLeft, Modifier: fyne.KeyModifierAlt}, func(fyne.Shortcut) {
		stage.Controller().Back()
		stage.Refresh()
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyRight, Modifier: fyne.KeyModifierAlt}, func(fyne.Shortcut) {
		stage.Controller().Forward()
		stage.Refresh()
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyF, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		// fit the whole content
		sz := stage.Controller().Content()
		stage.Send(viewport.FocusRequest{Target: viewport.TargetFromRect(vector.R(0, 0, sz.W, sz.H))})
	})
}
