/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes snapshots of the stage as PNG, SVG, PDF and zip
// archives of focused shots.
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"stageview/internal/render"
)

// PNGOptions controls PNG export behavior.
// - Width: when > 0 the image is resampled to this width, keeping the aspect ratio
// - HideLabel: omit the zoom percentage
type PNGOptions struct {
	Width     int
	HideLabel bool
}

// PNG encodes one frame.
func PNG(w io.Writer, f render.Frame, opt PNGOptions) error {
	img, err := rasterize(f, opt)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePNG writes one frame to path, creating parent directories.
func WritePNG(path string, f render.Frame, opt PNGOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := PNG(out, f, opt); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func rasterize(f render.Frame, opt PNGOptions) (image.Image, error) {
	r := render.NewRaster()
	r.HideLabel = opt.HideLabel
	if err := r.Draw(f); err != nil {
		return nil, fmt.Errorf("draw frame: %w", err)
	}
	img := r.Image()
	if opt.Width > 0 && opt.Width != img.Bounds().Dx() {
		h := img.Bounds().Dy() * opt.Width / img.Bounds().Dx()
		if h < 1 {
			h = 1
		}
		return render.Scale(img, opt.Width, h), nil
	}
	return img, nil
}
