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

	"stageview/internal/render"
	"stageview/internal/scene"
	"stageview/internal/viewport"
)

// Shot is a named frame ready for export.
type Shot struct {
	Name  string
	Frame render.Frame
}

// Current captures the controller as it is.
func Current(c *viewport.Controller, sc *scene.Scene) Shot {
	return Shot{Name: "view", Frame: render.FrameOf(c, sc)}
}

// Tour resets c and captures an overview, then focuses every target of sc in
// turn and captures each. c is left focused on the last target.
func Tour(c *viewport.Controller, sc *scene.Scene) []Shot {
	shots := make([]Shot, 0, len(sc.Targets)+1)
	c.Reset()
	shots = append(shots, Shot{Name: "overview", Frame: render.FrameOf(c, sc)})
	for _, tg := range sc.Targets {
		c.Focus(tg.Focus())
		shots = append(shots, Shot{Name: tg.ID, Frame: render.FrameOf(c, sc)})
	}
	return shots
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func colorOr(hex string, def color.RGBA) string {
	return hexColor(scene.ParseColor(hex, def))
}
