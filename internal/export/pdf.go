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
	"image/color"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"stageview/internal/scene"
	"stageview/internal/version"
)

// PDFOptions controls PDF export behavior.
// Units are points: one container pixel maps to one point, so each page has
// the container's size. Built-in Helvetica keeps labels vector without embedding.
type PDFOptions struct {
	Title string
	// Labels draws target labels and the zoom percentage.
	Labels bool
}

var (
	pdfStage   = color.RGBA{R: 0x3a, G: 0x3f, B: 0x44, A: 0xff}
	pdfContent = color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	pdfTarget  = color.RGBA{R: 0x66, G: 0x9b, B: 0xbc, A: 0xff}
	pdfBorder  = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
)

// PDF writes one page per shot to outPath.
func PDF(outPath string, shots []Shot, opt PDFOptions) error {
	if len(shots) == 0 {
		return fmt.Errorf("pdf: no frames")
	}
	first := shots[0].Frame.Container
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pageLen(first.W), Ht: pageLen(first.H)},
	})
	title := opt.Title
	if title == "" {
		title = "StageView snapshot"
	}
	pdf.SetTitle(title, false)
	pdf.SetCreator("stageview "+version.String(), false)
	pdf.SetFont("Helvetica", "", 10)

	for _, s := range shots {
		f := s.Frame
		w, h := pageLen(f.Container.W), pageLen(f.Container.H)
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: w, Ht: h})
		// content outside the page is clipped like the on-screen container
		pdf.ClipRect(0, 0, w, h, false)
		setFillColor(pdf, pdfStage)
		pdf.Rect(0, 0, w, h, "F")

		l := f.Layout()
		setFillColor(pdf, scene.ParseColor(f.ContentColor, pdfContent))
		pdf.Rect(l.Content.X, l.Content.Y, l.Content.W, l.Content.H, "F")

		setDrawColor(pdf, pdfBorder)
		pdf.SetLineWidth(1)
		for _, p := range l.Targets {
			setFillColor(pdf, scene.ParseColor(p.Target.Color, pdfTarget))
			pdf.Rect(p.Rect.X, p.Rect.Y, p.Rect.W, p.Rect.H, "FD")
			if opt.Labels && p.Target.Label != "" {
				pdf.SetTextColor(int(pdfBorder.R), int(pdfBorder.G), int(pdfBorder.B))
				pdf.Text(p.Rect.X+4, p.Rect.Y+12, p.Target.Label)
			}
		}

		if l.HShow || l.VShow {
			pdf.SetAlpha(f.Opacity, "Normal")
			pdf.SetFillColor(0x90, 0x90, 0x90)
			if l.HShow {
				pdf.Rect(l.HThumb.X, l.HThumb.Y, l.HThumb.W, l.HThumb.H, "F")
			}
			if l.VShow {
				pdf.Rect(l.VThumb.X, l.VThumb.Y, l.VThumb.W, l.VThumb.H, "F")
			}
			pdf.SetAlpha(1, "Normal")
		}
		if opt.Labels {
			pdf.SetTextColor(255, 255, 255)
			caption := l.Label
			if s.Name != "" {
				caption = s.Name + " " + caption
			}
			pdf.Text(6, h-6-f.ScrollbarWidth, caption)
		}
		pdf.ClipEnd()
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// pageLen keeps degenerate containers printable.
func pageLen(v float64) float64 {
	if !(v >= 1) {
		return 1
	}
	return v
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
