/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"

	"stageview/internal/config"
	"stageview/internal/crash"
	"stageview/internal/export"
	applog "stageview/internal/log"
	"stageview/internal/render"
	"stageview/internal/scene"
	"stageview/internal/trace"
	"stageview/internal/tui"
	"stageview/internal/ui"
	"stageview/internal/vector"
	"stageview/internal/version"
	"stageview/internal/viewport"
)

// Headless commands render into a container of this size unless WxH is given.
var defaultContainer = vector.Size{W: 1280, H: 720}

func usage() {
	fmt.Println("StageView: pan and zoom a 2D stage")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  stageview version|-v|--version                 Show version")
	fmt.Println("  stageview config                               Print the effective configuration")
	fmt.Println("  stageview fit <target> [WxH]                   Print the transform that focuses <target>")
	fmt.Println("  stageview render <out.png|out.svg> [target] [WxH]  Render the overview or a focused target")
	fmt.Println("  stageview pdf <out.pdf> [WxH]                  Write a tour (overview plus every target) as PDF")
	fmt.Println("  stageview export <web|print> <dir> [WxH]       Batch export a tour with a preset")
	fmt.Println("  stageview sessions                             List recorded trace sessions")
	fmt.Println("  stageview replay [session]                     Replay a trace (latest by default) and print the result")
	fmt.Println("  stageview tui                                  Run the stage in the terminal")
	fmt.Println("  stageview ui                                   Launch desktop UI (build with -tags fyne for full UI)")
	fmt.Println()
	fmt.Println("The scene file is taken from config key scene or STAGEVIEW_SCENE; empty means the demo scene.")
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	applog.Init(cfg.LogOptions())
	l := applog.WithComponent("cli")

	args := os.Args
	cmd := ""
	if len(args) > 1 {
		cmd = args[1]
	}
	var ctrl *viewport.Controller
	defer crash.Recover(&crash.Context{Command: cmd, Scene: cfg.Scene, State: func() string {
		if ctrl == nil {
			return ""
		}
		return ctrl.Transform().String()
	}})

	l.Debug("start", slog.Int("args", len(args)))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd {
	case "version", "--version", "-v":
		fmt.Println("StageView")
		fmt.Println(version.String())
		return
	case "config":
		out, err := yaml.Marshal(cfg)
		if err != nil {
			fail(l, "config marshal failed", err)
		}
		if p, err := config.ConfigPath(); err == nil {
			fmt.Println("# file:", p)
		}
		for _, key := range []string{"scene", "logging.level", "logging.format", "logging.file", "trace.path"} {
			if name, ok := config.EnvOverrideFor(key); ok {
				fmt.Printf("# %s overridden by %s\n", key, name)
			}
		}
		fmt.Print(string(out))
		return
	case "fit":
		if len(args) < 3 {
			fmt.Println("fit requires <target>")
			usage()
			os.Exit(2)
		}
		sc := loadScene(l, cfg)
		tg, err := sc.Target(args[2])
		if err != nil {
			fail(l, "fit failed", err)
		}
		ctrl = viewport.NewStage(sc.Size(), containerArg(args, 3), cfg.ViewportOptions())
		ctrl.Focus(tg.Focus())
		t := ctrl.Transform()
		fmt.Printf("%s %s\n", tg.ID, t)
		fmt.Printf("zoom %s\n", render.ZoomLabel(t.Scale))
		return
	case "render":
		if len(args) < 3 {
			fmt.Println("render requires <out.png|out.svg>")
			usage()
			os.Exit(2)
		}
		out := args[2]
		sc := loadScene(l, cfg)
		rest := args[3:]
		container := defaultContainer
		if len(rest) > 0 {
			if sz, ok := parseSize(rest[len(rest)-1]); ok {
				container = sz
				rest = rest[:len(rest)-1]
			}
		}
		ctrl = viewport.NewStage(sc.Size(), container, cfg.ViewportOptions())
		if len(rest) > 0 {
			tg, err := sc.Target(rest[0])
			if err != nil {
				fail(l, "render failed", err)
			}
			ctrl.Focus(tg.Focus())
		}
		f := render.FrameOf(ctrl, sc)
		switch strings.ToLower(filepath.Ext(out)) {
		case ".svg":
			err = export.WriteSVG(out, f)
		default:
			err = export.WritePNG(out, f, export.PNGOptions{})
		}
		if err != nil {
			fail(l, "render failed", err)
		}
		fmt.Println("Wrote", out)
		return
	case "pdf":
		if len(args) < 3 {
			fmt.Println("pdf requires <out.pdf>")
			usage()
			os.Exit(2)
		}
		sc := loadScene(l, cfg)
		ctrl = viewport.NewStage(sc.Size(), containerArg(args, 3), cfg.ViewportOptions())
		shots := export.Tour(ctrl, sc)
		if err := export.PDF(args[2], shots, export.PDFOptions{Title: sc.Name, Labels: true}); err != nil {
			fail(l, "pdf export failed", err)
		}
		fmt.Printf("Wrote %d pages to %s\n", len(shots), args[2])
		return
	case "export":
		if len(args) < 4 {
			fmt.Println("export requires <web|print> and <dir>")
			usage()
			os.Exit(2)
		}
		sc := loadScene(l, cfg)
		ctrl = viewport.NewStage(sc.Size(), containerArg(args, 4), cfg.ViewportOptions())
		opt := export.BatchOptions{Preset: export.PresetName(args[2]), OutDir: args[3]}
		if err := export.Batch(export.Tour(ctrl, sc), opt); err != nil {
			fail(l, "export failed", err)
		}
		fmt.Println("Exported to", args[3])
		return
	case "sessions":
		st := openTrace(l, cfg)
		defer st.Close()
		list, err := st.Sessions(ctx)
		if err != nil {
			fail(l, "list sessions failed", err)
		}
		for _, s := range list {
			fmt.Printf("%s  %s  %s  %.0fx%.0f\n", s.ID, s.Created.Local().Format("2006-01-02 15:04:05"), s.Scene, s.Container.W, s.Container.H)
		}
		return
	case "replay":
		st := openTrace(l, cfg)
		defer st.Close()
		var sess trace.Session
		if len(args) >= 3 {
			sess, err = st.Session(ctx, args[2])
		} else {
			sess, err = st.Latest(ctx)
		}
		if err != nil {
			fail(l, "replay failed", err)
		}
		ctrl, err = st.Replay(ctx, sess.ID, cfg.ViewportOptions())
		if err != nil {
			fail(l, "replay failed", err)
		}
		t := ctrl.Transform()
		fmt.Printf("session %s\n%s\nzoom %s\n", sess.ID, t, render.ZoomLabel(t.Scale))
		return
	case "tui":
		// console lines would land on the terminal screen; the file sink stays
		lo := cfg.LogOptions()
		lo.Console = io.Discard
		applog.Init(lo)
		l = applog.WithComponent("cli")
		if err := runTUI(ctx, l, cfg, &ctrl); err != nil && !errors.Is(err, context.Canceled) {
			fail(l, "tui failed", err)
		}
		return
	case "ui":
		sc := loadScene(l, cfg)
		opts := ui.Options{Scene: sc, Viewport: cfg.ViewportOptions()}
		if cfg.Trace.Path != "" {
			st := openTrace(l, cfg)
			defer st.Close()
			opts.Sink = func(c *viewport.Controller) ui.Handler {
				ctrl = c
				return &lazyRecorder{ctx: ctx, l: l, st: st, sc: sc, ctrl: c}
			}
		}
		if err := ui.Run(opts); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		return
	}

	usage()
}

func loadScene(l *slog.Logger, cfg config.AppConfig) *scene.Scene {
	sc, err := scene.Load(cfg.Scene)
	if err != nil {
		fail(l, "scene load failed", err)
	}
	l.Debug("scene loaded", slog.String("scene", sc.Name), slog.Int("targets", len(sc.Targets)))
	return sc
}

func openTrace(l *slog.Logger, cfg config.AppConfig) *trace.Store {
	if cfg.Trace.Path == "" {
		fail(l, "trace disabled", fmt.Errorf("no trace store configured; set trace.path or %s_TRACE_PATH", config.EnvPrefix))
	}
	st, err := trace.Open(cfg.Trace.Path)
	if err != nil {
		fail(l, "trace open failed", err)
	}
	return st
}

// recorder starts a session, falling back to the bare controller when the
// store cannot take it.
func recorder(ctx context.Context, l *slog.Logger, st *trace.Store, sc *scene.Scene, container vector.Size, c *viewport.Controller) interface {
	Handle(viewport.Event)
} {
	sess, err := st.NewSession(ctx, sc.Name, sc.Size(), container)
	if err != nil {
		l.Warn("trace session not started", slog.Any("err", err))
		return c
	}
	l.Info("recording", slog.String("session", sess.ID), slog.String("store", st.Path()))
	return trace.NewRecorder(ctx, st, sess.ID, c)
}

// lazyRecorder starts its trace session on the first Resize, so the stored
// container is the stage's laid-out size rather than a guess.
type lazyRecorder struct {
	ctx  context.Context
	l    *slog.Logger
	st   *trace.Store
	sc   *scene.Scene
	ctrl *viewport.Controller
	h    interface{ Handle(viewport.Event) }
}

func (r *lazyRecorder) Handle(ev viewport.Event) {
	if r.h == nil {
		rs, ok := ev.(viewport.Resize)
		if !ok {
			r.ctrl.Handle(ev)
			return
		}
		r.h = recorder(r.ctx, r.l, r.st, r.sc, rs.Container, r.ctrl)
	}
	r.h.Handle(ev)
}

func runTUI(ctx context.Context, l *slog.Logger, cfg config.AppConfig, out **viewport.Controller) error {
	sc := loadScene(l, cfg)
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctrl := viewport.New(cfg.ViewportOptions())
	*out = ctrl
	var sink tui.Handler = ctrl
	if cfg.Trace.Path != "" {
		st, err := trace.Open(cfg.Trace.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		sink = recorder(ctx, l, st, sc, tui.NewCanvas(screen).Container(), ctrl)
	}
	return tui.New(screen, sc, ctrl, sink).Run(ctx)
}

func containerArg(args []string, i int) vector.Size {
	if len(args) > i {
		if sz, ok := parseSize(args[i]); ok {
			return sz
		}
	}
	return defaultContainer
}

// parseSize reads WxH, for example 1920x1080.
func parseSize(s string) (vector.Size, bool) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return vector.Size{}, false
	}
	wf, err1 := strconv.ParseFloat(w, 64)
	hf, err2 := strconv.ParseFloat(h, 64)
	if err1 != nil || err2 != nil || !(wf > 0) || !(hf > 0) {
		return vector.Size{}, false
	}
	return vector.Size{W: wf, H: hf}, true
}
