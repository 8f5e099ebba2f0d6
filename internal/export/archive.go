/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stageview/internal/version"
)

// manifestEntry describes one archived shot.
type manifestEntry struct {
	File      string     `json:"file"`
	Name      string     `json:"name"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Scale     float64    `json:"scale"`
	Container [2]float64 `json:"container"`
}

type manifest struct {
	Generator string          `json:"generator"`
	Created   time.Time       `json:"created"`
	Shots     []manifestEntry `json:"shots"`
}

// Archive packages shots as numbered PNG images into a zip file and adds a
// manifest.json with each shot's transform.
func Archive(outPath string, shots []Shot, opt PNGOptions) error {
	if !strings.HasSuffix(strings.ToLower(outPath), ".zip") {
		outPath += ".zip"
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = f.Close() }()
	zw := zip.NewWriter(f)

	pad := len(fmt.Sprint(len(shots)))
	m := manifest{Generator: "stageview " + version.String(), Created: time.Now().UTC()}
	for i, s := range shots {
		name := fmt.Sprintf("%0*d-%s.png", pad, i+1, safeName(s.Name))
		var buf bytes.Buffer
		if err := PNG(&buf, s.Frame, opt); err != nil {
			return fmt.Errorf("shot %s: %w", s.Name, err)
		}
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("zip entry: %w", err)
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("zip write: %w", err)
		}
		t := s.Frame.Transform
		m.Shots = append(m.Shots, manifestEntry{
			File: name, Name: s.Name, X: t.X, Y: t.Y, Scale: t.Scale,
			Container: [2]float64{s.Frame.Container.W, s.Frame.Container.H},
		})
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	w, err := zw.Create("manifest.json")
	if err != nil {
		return fmt.Errorf("zip entry: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("zip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return f.Close()
}

func safeName(s string) string {
	if s == "" {
		return "shot"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
