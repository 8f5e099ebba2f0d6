/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tui is a terminal stage built on tcell. Each cell stands for a
// fixed block of container pixels, so the controller works in the same
// units as every other backend.
package tui

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"stageview/internal/render"
	"stageview/internal/scene"
	"stageview/internal/vector"
)

// Default cell footprint in container pixels.
const (
	CellW = 8
	CellH = 16
)

var (
	stageStyle   = tcell.StyleDefault.Background(tcell.NewRGBColor(0x3a, 0x3f, 0x44))
	contentStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(0xf5, 0xf5, 0xf5)).Foreground(tcell.ColorBlack)
	statusStyle  = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
)

// Canvas draws frames onto a tcell screen. The last row is a status line;
// the rows above it are the stage.
type Canvas struct {
	screen tcell.Screen
	cellW  float64
	cellH  float64
	Status string
}

func NewCanvas(s tcell.Screen) *Canvas {
	return &Canvas{screen: s, cellW: CellW, cellH: CellH}
}

// Container returns the stage size in pixels for the current screen size.
func (c *Canvas) Container() vector.Size {
	cols, rows := c.screen.Size()
	if rows > 0 {
		rows--
	}
	return vector.Size{W: float64(cols) * c.cellW, H: float64(rows) * c.cellH}
}

// CellCenter returns the pixel at the center of a cell.
func (c *Canvas) CellCenter(col, row int) vector.Pt {
	return vector.Pt{X: (float64(col) + 0.5) * c.cellW, Y: (float64(row) + 0.5) * c.cellH}
}

// cells returns the cell range whose centers fall inside r.
func (c *Canvas) cells(r vector.Rect) (c0, r0, c1, r1 int) {
	c0 = int(math.Ceil(r.X/c.cellW - 0.5))
	r0 = int(math.Ceil(r.Y/c.cellH - 0.5))
	c1 = int(math.Floor((r.X+r.W)/c.cellW - 0.5))
	r1 = int(math.Floor((r.Y+r.H)/c.cellH - 0.5))
	return
}

func (c *Canvas) fill(r vector.Rect, ch rune, st tcell.Style, maxCol, maxRow int) {
	c0, r0, c1, r1 := c.cells(r)
	for row := max(r0, 0); row <= min(r1, maxRow); row++ {
		for col := max(c0, 0); col <= min(c1, maxCol); col++ {
			c.screen.SetContent(col, row, ch, nil, st)
		}
	}
}

func (c *Canvas) text(col, row int, s string, st tcell.Style, maxCol int) {
	for _, r := range s {
		if col > maxCol {
			return
		}
		if col >= 0 {
			c.screen.SetContent(col, row, r, nil, st)
		}
		col++
	}
}

// Draw paints f and shows the screen.
func (c *Canvas) Draw(f render.Frame) error {
	cols, rows := c.screen.Size()
	stageRows := rows - 1
	c.screen.Clear()
	maxCol, maxRow := cols-1, stageRows-1
	c.fill(vector.R(0, 0, float64(cols)*c.cellW, float64(stageRows)*c.cellH), ' ', stageStyle, maxCol, maxRow)

	l := f.Layout()
	content := contentStyle
	if f.ContentColor != "" {
		content = content.Background(rgb(scene.ParseColor(f.ContentColor, color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff})))
	}
	c.fill(l.Content, ' ', content, maxCol, maxRow)
	for _, p := range l.Targets {
		st := tcell.StyleDefault.Background(rgb(scene.ParseColor(p.Target.Color, color.RGBA{R: 0x66, G: 0x9b, B: 0xbc, A: 0xff}))).Foreground(tcell.ColorBlack)
		c.fill(p.Rect, ' ', st, maxCol, maxRow)
		c0, r0, c1, _ := c.cells(p.Rect)
		if r0 >= 0 && r0 <= maxRow {
			c.text(max(c0, 0), r0, p.Target.ID, st, min(c1, maxCol))
		}
	}

	thumb := tcell.StyleDefault.Foreground(tcell.ColorGray)
	if f.Opacity >= 0.5 {
		thumb = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	}
	if l.HShow {
		c.fill(l.HThumb, '▀', thumb, maxCol, maxRow)
	}
	if l.VShow {
		c.fill(l.VThumb, '▐', thumb, maxCol, maxRow)
	}

	if rows > 0 {
		for col := 0; col < cols; col++ {
			c.screen.SetContent(col, rows-1, ' ', nil, statusStyle)
		}
		status := " " + l.Label
		if c.Status != "" {
			status += "  " + c.Status
		}
		c.text(0, rows-1, status, statusStyle, maxCol)
	}
	c.screen.Show()
	return nil
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
