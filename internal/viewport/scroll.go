/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"math"

	"stageview/internal/vector"
)

// Orientation names a scroll axis.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

func (o Orientation) horiz() bool { return o == Horizontal }

// ThumbDescriptor places a scrollbar thumb on its track. Both fields are
// fractions of the track length: the thumb starts at OffsetFraction and spans
// LengthFraction.
type ThumbDescriptor struct {
	OffsetFraction float64
	LengthFraction float64
}

// FullThumb is reported when the axis cannot scroll.
var FullThumb = ThumbDescriptor{OffsetFraction: 0, LengthFraction: 1}

// Start returns the thumb start in track pixels.
func (d ThumbDescriptor) Start(track float64) float64 { return d.OffsetFraction * track }

// Length returns the thumb length in track pixels.
func (d ThumbDescriptor) Length(track float64) float64 { return d.LengthFraction * track }

// Scrollable reports whether the thumb is shorter than its track.
func (d ThumbDescriptor) Scrollable() bool { return d.LengthFraction < 1 }

// Thumbs holds the descriptors of both scrollbars.
type Thumbs struct {
	Horizontal ThumbDescriptor
	Vertical   ThumbDescriptor
}

// Get returns the descriptor for axis o.
func (t Thumbs) Get(o Orientation) ThumbDescriptor {
	if o == Horizontal {
		return t.Horizontal
	}
	return t.Vertical
}

func (t *Thumbs) set(o Orientation, d ThumbDescriptor) {
	if o == Horizontal {
		t.Horizontal = d
		return
	}
	t.Vertical = d
}

// ScrollSync maps between a transform offset and a scrollbar thumb on one
// axis. It holds no state; every method is a pure function of its arguments.
// The track of each scrollbar spans the full container length on its axis.
type ScrollSync struct {
	Axis Orientation
}

// ToThumb derives the thumb for an axis offset.
func (ScrollSync) ToThumb(offset, scale, containerLen, contentLen float64) ThumbDescriptor {
	extent := contentLen * scale
	if !(containerLen > 0) || !(extent > 0) || !isFinite(extent) || !isFinite(containerLen) {
		return FullThumb
	}
	l := containerLen / extent
	if l >= 1 {
		return FullThumb
	}
	p := clamp01(-offset / (extent - containerLen))
	return ThumbDescriptor{OffsetFraction: p * (1 - l), LengthFraction: l}
}

// FromThumb derives the axis offset for a thumb starting at thumbStart track
// pixels. The thumb center's position between the track bounds
// [thumbLen/2, containerLen-thumbLen/2] is the scroll percentage. ok is false
// when the axis cannot scroll, in which case the offset must not change.
func (s ScrollSync) FromThumb(thumbStart, scale, containerLen, contentLen float64) (offset float64, ok bool) {
	d := s.ToThumb(0, scale, containerLen, contentLen)
	if !d.Scrollable() || !isFinite(thumbStart) {
		return 0, false
	}
	thumbLen := d.Length(containerLen)
	trackMin := thumbLen / 2
	trackMax := containerLen - thumbLen/2
	span := trackMax - trackMin
	if !(span > 0) {
		return 0, false
	}
	p := clamp01((thumbStart + thumbLen/2 - trackMin) / span)
	return -p * (contentLen*scale - containerLen), true
}

// TrackMax returns the largest permitted thumb start in track pixels.
func (s ScrollSync) TrackMax(scale, containerLen, contentLen float64) float64 {
	d := s.ToThumb(0, scale, containerLen, contentLen)
	return math.Max(0, containerLen-d.Length(containerLen))
}

// DragBound constrains a raw thumb drag position: the coordinate across the
// axis is pinned to the scrollbar lane and the coordinate along it is clamped
// to [0, TrackMax].
func (s ScrollSync) DragBound(pos vector.Pt, scale float64, container, content vector.Size, barWidth float64) vector.Pt {
	h := s.Axis.horiz()
	maxStart := s.TrackMax(scale, container.Along(h), content.Along(h))
	along := pos.Along(h)
	if !(along > 0) {
		along = 0
	}
	if along > maxStart {
		along = maxStart
	}
	if h {
		return vector.Pt{X: along, Y: container.H - barWidth}
	}
	return vector.Pt{X: container.W - barWidth, Y: along}
}

// ThumbRect returns the thumb's rectangle in container pixels.
func (s ScrollSync) ThumbRect(d ThumbDescriptor, container vector.Size, barWidth float64) vector.Rect {
	if s.Axis.horiz() {
		return vector.R(d.Start(container.W), container.H-barWidth, d.Length(container.W), barWidth)
	}
	return vector.R(container.W-barWidth, d.Start(container.H), barWidth, d.Length(container.H))
}

// ThumbsFor derives both thumbs from a transform.
func ThumbsFor(t Transform, container, content vector.Size) Thumbs {
	return Thumbs{
		Horizontal: ScrollSync{Axis: Horizontal}.ToThumb(t.X, t.Scale, container.W, content.W),
		Vertical:   ScrollSync{Axis: Vertical}.ToThumb(t.Y, t.Scale, container.H, content.H),
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
