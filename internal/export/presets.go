/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export of a set of shots.
//
// Path semantics:
//   - OutDir is created if missing; it defaults to the preset name.
//   - PDF and zip are single files: shots.pdf, shots.zip.
//   - PNG and SVG write one file per shot into png/ or svg/ subfolders.
type BatchOptions struct {
	Preset  PresetName
	Formats []string // allowed: pdf, png, svg, zip; empty means preset defaults
	OutDir  string
	Width   int // when > 0 overrides the raster width
}

// Batch runs exports according to the given preset.
func Batch(shots []Shot, opt BatchOptions) error {
	if len(shots) == 0 {
		return fmt.Errorf("batch: no shots")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	base := opt.OutDir
	if base == "" {
		base = string(opt.Preset)
		if base == "" {
			base = "export"
		}
	}
	po := PNGOptions{Width: opt.Width, HideLabel: opt.Preset == PresetPrint}
	for _, f := range formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "pdf":
			if err := PDF(filepath.Join(base, "shots.pdf"), shots, PDFOptions{Labels: opt.Preset != PresetWeb}); err != nil {
				return fmt.Errorf("pdf: %w", err)
			}
		case "zip":
			if err := Archive(filepath.Join(base, "shots.zip"), shots, po); err != nil {
				return fmt.Errorf("zip: %w", err)
			}
		case "png":
			for _, s := range shots {
				if err := WritePNG(filepath.Join(base, "png", safeName(s.Name)+".png"), s.Frame, po); err != nil {
					return fmt.Errorf("png %s: %w", s.Name, err)
				}
			}
		case "svg":
			for _, s := range shots {
				if err := WriteSVG(filepath.Join(base, "svg", safeName(s.Name)+".svg"), s.Frame); err != nil {
					return fmt.Errorf("svg %s: %w", s.Name, err)
				}
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg", "zip"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"png"}
	}
}
