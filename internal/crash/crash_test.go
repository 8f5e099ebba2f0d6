/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"strings"
	"testing"
)

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	path, err := writeReport(nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "StageView Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
}

func TestWriteReportIncludesContext(t *testing.T) {
	dir := t.TempDir()
	cc := &Context{
		Dir:     dir,
		Command: "tui",
		Scene:   "demo.json",
		State:   func() string { return "(x=-30.000 y=-30.000 scale=1.1000)" },
	}
	path, err := writeReport(cc, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Fatalf("expected crash report under %s, got %s", dir, path)
	}
	b, _ := os.ReadFile(path)
	for _, want := range []string{"Command: tui", "Scene: demo.json", "State: (x=-30.000"} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("report missing %q: %s", want, b)
		}
	}
}

func TestSafeStatePanics(t *testing.T) {
	got := safeState(func() string { panic("bad stage") })
	if !strings.Contains(got, "unavailable: bad stage") {
		t.Fatalf("safeState = %q", got)
	}
}
