/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"stageview/internal/scene"
	"stageview/internal/vector"
)

var (
	stageColor   = color.RGBA{R: 0x3a, G: 0x3f, B: 0x44, A: 0xff}
	contentColor = color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	targetColor  = color.RGBA{R: 0x66, G: 0x9b, B: 0xbc, A: 0xff}
	borderColor  = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	thumbColor   = color.RGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xff}
	labelColor   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Raster draws frames into an RGBA image sized to the container.
type Raster struct {
	img *image.RGBA
	// HideLabel suppresses the zoom percentage in the corner.
	HideLabel bool
}

func NewRaster() *Raster { return &Raster{} }

// Image returns the last drawn image, or nil before the first Draw.
func (r *Raster) Image() *image.RGBA { return r.img }

// Draw renders f, reallocating the image when the container size changes.
func (r *Raster) Draw(f Frame) error {
	w, h := int(math.Round(f.Container.W)), int(math.Round(f.Container.H))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if r.img == nil || r.img.Bounds().Dx() != w || r.img.Bounds().Dy() != h {
		r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	img := r.img
	draw.Draw(img, img.Bounds(), image.NewUniform(stageColor), image.Point{}, draw.Src)

	l := f.Layout()
	fillRect(img, l.Content, scene.ParseColor(f.ContentColor, contentColor), 0xff)
	for _, p := range l.Targets {
		fillRect(img, p.Rect, scene.ParseColor(p.Target.Color, targetColor), 0xff)
		strokeRect(img, p.Rect, borderColor)
		if p.Target.Label != "" && p.Rect.W > 8*float64(len(p.Target.Label)) && p.Rect.H > 16 {
			drawText(img, p.Target.Label, int(p.Rect.X)+4, int(p.Rect.Y)+14, borderColor)
		}
	}

	alpha := uint8(math.Round(clampUnit(f.Opacity) * 0xff))
	if l.HShow {
		fillRect(img, l.HThumb, thumbColor, alpha)
	}
	if l.VShow {
		fillRect(img, l.VThumb, thumbColor, alpha)
	}
	if !r.HideLabel {
		drawText(img, l.Label, 6, h-6-int(f.ScrollbarWidth), labelColor)
	}
	return nil
}

// pixelRect converts a float rect to the pixel rect it covers.
func pixelRect(rc vector.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(rc.X)), int(math.Floor(rc.Y)),
		int(math.Ceil(rc.X+rc.W)), int(math.Ceil(rc.Y+rc.H)),
	)
}

// fillRect composites col over img inside rc with the given alpha.
func fillRect(img *image.RGBA, rc vector.Rect, col color.RGBA, alpha uint8) {
	pr := pixelRect(rc).Intersect(img.Bounds())
	if pr.Empty() || alpha == 0 {
		return
	}
	if alpha == 0xff {
		draw.Draw(img, pr, image.NewUniform(col), image.Point{}, draw.Src)
		return
	}
	draw.DrawMask(img, pr, image.NewUniform(col), image.Point{}, image.NewUniform(color.Alpha{A: alpha}), image.Point{}, draw.Over)
}

// strokeRect draws a 1px border just inside rc.
func strokeRect(img *image.RGBA, rc vector.Rect, col color.RGBA) {
	pr := pixelRect(rc)
	if pr.Empty() || !pr.Overlaps(img.Bounds()) {
		return
	}
	b := img.Bounds()
	for x := pr.Min.X; x < pr.Max.X; x++ {
		setIn(img, b, x, pr.Min.Y, col)
		setIn(img, b, x, pr.Max.Y-1, col)
	}
	for y := pr.Min.Y; y < pr.Max.Y; y++ {
		setIn(img, b, pr.Min.X, y, col)
		setIn(img, b, pr.Max.X-1, y, col)
	}
}

func setIn(img *image.RGBA, b image.Rectangle, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(b) {
		img.SetRGBA(x, y, col)
	}
}

func drawText(img *image.RGBA, s string, x, y int, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// Scale resamples src to w×h with Catmull-Rom filtering.
func Scale(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
