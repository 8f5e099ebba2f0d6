/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene describes the content placed on a stage: its size and the
// named regions a viewer can focus on.
package scene

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"stageview/internal/vector"
	"stageview/internal/viewport"
)

//go:embed scene.schema.json
var schemaJSON []byte

// ErrUnknownTarget is returned when a target id is not in the scene.
var ErrUnknownTarget = errors.New("unknown target")

// ErrInvalidScene wraps schema and consistency failures.
var ErrInvalidScene = errors.New("invalid scene")

type Content struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color,omitempty"`
}

// Target is a focusable region in content coordinates.
type Target struct {
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color,omitempty"`
}

func (t Target) Rect() vector.Rect { return vector.R(t.Left, t.Top, t.Width, t.Height) }

// Focus returns the region as a zoom-to-fit target.
func (t Target) Focus() viewport.FocusTarget { return viewport.TargetFromRect(t.Rect()) }

// Scene is the stage content.
type Scene struct {
	Name    string   `json:"name,omitempty"`
	Content Content  `json:"content"`
	Targets []Target `json:"targets,omitempty"`
}

// Size returns the unscaled content size.
func (s *Scene) Size() vector.Size { return vector.Size{W: s.Content.Width, H: s.Content.Height} }

// Target looks a target up by id.
func (s *Scene) Target(id string) (Target, error) {
	for _, t := range s.Targets {
		if t.ID == id {
			return t, nil
		}
	}
	return Target{}, fmt.Errorf("%w: %q", ErrUnknownTarget, id)
}

// IDs lists the target ids in declaration order.
func (s *Scene) IDs() []string {
	ids := make([]string, len(s.Targets))
	for i, t := range s.Targets {
		ids[i] = t.ID
	}
	return ids
}

// Default is the built-in demo stage.
func Default() *Scene {
	s := &Scene{
		Name:    "demo",
		Content: Content{Width: 600, Height: 400, Color: "#d9e3ec"},
	}
	palette := []string{"#e4572e", "#29335c", "#f3a712", "#a8c686", "#669bbc", "#8e7dbe"}
	pos := [][2]float64{{150, -30}, {300, -30}, {150, 90}, {300, 90}, {150, 200}, {300, 200}}
	for i, p := range pos {
		s.Targets = append(s.Targets, Target{
			ID:     "item" + strconv.Itoa(i+1),
			Label:  "Item " + strconv.Itoa(i+1),
			Left:   p[0],
			Top:    p[1],
			Width:  100,
			Height: 100,
			Color:  palette[i],
		})
	}
	return s
}

// Validate checks raw JSON against the scene schema.
func Validate(data []byte) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidScene, strings.Join(msgs, "; "))
	}
	return nil
}

// Parse validates and decodes a scene document.
func Parse(data []byte) (*Scene, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	seen := make(map[string]bool, len(s.Targets))
	for _, t := range s.Targets {
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: duplicate target %q", ErrInvalidScene, t.ID)
		}
		seen[t.ID] = true
	}
	return &s, nil
}

// Load reads a scene file. An empty path yields Default.
func Load(path string) (*Scene, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// Save writes s as indented JSON.
func Save(path string, s *Scene) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := Validate(data); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ParseColor decodes "#rrggbb", falling back to def when empty or malformed.
func ParseColor(hex string, def color.RGBA) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return def
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return def
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
