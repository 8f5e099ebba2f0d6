/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"

	"stageview/internal/render"
)

// SVG writes one frame as a standalone SVG document sized to the container.
// The content layer is a group carrying the stage transform, so editors see
// unscaled content coordinates.
func SVG(w io.Writer, f render.Frame) error {
	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	cw, ch := pageLen(f.Container.W), pageLen(f.Container.H)
	t := f.Transform
	l := f.Layout()

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %g %g\">\n", cw, ch, cw, ch)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", cw, ch, hexColor(pdfStage))
	wf("  <g id=\"content\" transform=\"translate(%g %g) scale(%g)\">\n", t.X, t.Y, t.Scale)
	wf("    <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", f.Content.W, f.Content.H, colorOr(f.ContentColor, pdfContent))
	for _, tg := range f.Targets {
		wf("    <rect id=\"%s\" x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"1\" vector-effect=\"non-scaling-stroke\"/>\n",
			html.EscapeString(tg.ID), tg.Left, tg.Top, tg.Width, tg.Height, colorOr(tg.Color, pdfTarget), hexColor(pdfBorder))
		if tg.Label != "" {
			wf("    <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"12\" fill=\"%s\">%s</text>\n",
				tg.Left+4, tg.Top+14, hexColor(pdfBorder), html.EscapeString(tg.Label))
		}
	}
	wf("  </g>\n")
	if l.HShow || l.VShow {
		wf("  <g id=\"scrollbars\" fill=\"#909090\" opacity=\"%.3f\">\n", f.Opacity)
		if l.HShow {
			wf("    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\"/>\n", l.HThumb.X, l.HThumb.Y, l.HThumb.W, l.HThumb.H)
		}
		if l.VShow {
			wf("    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\"/>\n", l.VThumb.X, l.VThumb.Y, l.VThumb.W, l.VThumb.H)
		}
		wf("  </g>\n")
	}
	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// WriteSVG writes one frame to path.
func WriteSVG(path string, f render.Frame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	var buf bytes.Buffer
	if err := SVG(&buf, f); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
