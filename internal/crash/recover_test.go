/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	applog "stageview/internal/log"
	"stageview/internal/vector"
	"stageview/internal/viewport"
)

// silenceStderr points os.Stderr at the null device for the rest of the test.
func silenceStderr(t *testing.T) {
	t.Helper()
	old := os.Stderr
	devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open devnull: %v", err)
	}
	os.Stderr = devnull
	t.Cleanup(func() {
		os.Stderr = old
		_ = devnull.Close()
	})
}

// A listener that panics mid-gesture is caught with the committed transform
// in the report, and exit is requested with code 2.
func TestRecover_ListenerPanicDuringWheel(t *testing.T) {
	silenceStderr(t)
	code := 0
	oldExit := exitFn
	exitFn = func(c int) { code = c }
	t.Cleanup(func() { exitFn = oldExit })

	opts := viewport.DefaultOptions()
	opts.Logger = applog.Discard()
	ctrl := viewport.NewStage(vector.Size{W: 600, H: 400}, vector.Size{W: 600, H: 400}, opts)
	ctrl.Subscribe(func(viewport.Transform, viewport.Thumbs) { panic("renderer gone") })

	cc := &Context{
		Dir:     filepath.Join(t.TempDir(), "reports"),
		Command: "tui",
		State:   func() string { return ctrl.Transform().String() },
	}
	func() {
		defer Recover(cc)
		ctrl.Handle(viewport.WheelEvent{DeltaY: 1, Pointer: vector.Pt{X: 300, Y: 200}})
	}()

	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	matches, _ := filepath.Glob(filepath.Join(cc.Dir, "stageview-crash-*.log"))
	if len(matches) != 1 {
		t.Fatalf("reports = %v", matches)
	}
	b, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	report := string(b)
	for _, want := range []string{"Panic: renderer gone", "Command: tui", "State: " + ctrl.Transform().String()} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
	if ctrl.Transform().Scale == 1 {
		t.Fatal("transform should be committed before listeners run")
	}
}

func TestRecover_NoPanicIsNoop(t *testing.T) {
	called := false
	oldExit := exitFn
	exitFn = func(int) { called = true }
	t.Cleanup(func() { exitFn = oldExit })
	func() {
		defer Recover(nil)
	}()
	if called {
		t.Fatal("exit requested without a panic")
	}
}
