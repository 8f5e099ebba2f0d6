/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import "stageview/internal/vector"

// Event is a normalized input delivered to Controller.Handle.
type Event interface {
	Kind() string
}

// Event kinds, also used as the stored discriminator of recorded traces.
const (
	KindResize       = "resize"
	KindWheel        = "wheel"
	KindScroll       = "scroll"
	KindPinch        = "pinch"
	KindPointerDown  = "pointer_down"
	KindPointerMove  = "pointer_move"
	KindPointerUp    = "pointer_up"
	KindPointerEnter = "pointer_enter"
	KindPointerLeave = "pointer_leave"
	KindDrag         = "drag"
	KindDragEnd      = "drag_end"
	KindFocus        = "focus"
	KindStep         = "step"
	KindReset        = "reset"
)

// Resize reports a new container size.
type Resize struct {
	Container vector.Size `json:"container"`
}

// WheelEvent is a wheel notch or trackpad pinch (CtrlKey set) at Pointer.
type WheelEvent struct {
	DeltaY  float64   `json:"deltaY"`
	CtrlKey bool      `json:"ctrlKey"`
	Pointer vector.Pt `json:"pointer"`
}

// ScrollEvent pans by a wheel or keyboard delta.
type ScrollEvent struct {
	DeltaX float64 `json:"deltaX"`
	DeltaY float64 `json:"deltaY"`
}

// PinchEvent carries the gesture's accumulated scale around Origin.
type PinchEvent struct {
	Origin      vector.Pt `json:"origin"`
	OffsetScale float64   `json:"offsetScale"`
	Direction   Direction `json:"direction"`
}

type PointerDown struct {
	Pointer vector.Pt `json:"pointer"`
}

type PointerMove struct {
	Pointer vector.Pt `json:"pointer"`
}

type PointerUp struct {
	Pointer vector.Pt `json:"pointer"`
}

type PointerEnter struct{}

type PointerLeave struct{}

// DragEvent proposes a new top-left position for the thumb on Axis, as
// delivered by toolkits that drag the thumb shape natively.
type DragEvent struct {
	Axis    Orientation `json:"axis"`
	Pointer vector.Pt   `json:"pointer"`
}

// DragEnd finishes a native thumb drag.
type DragEnd struct {
	Axis Orientation `json:"axis"`
}

// FocusRequest asks to zoom to a content region.
type FocusRequest struct {
	Target FocusTarget `json:"target"`
}

// StepEvent is a zoom button press anchored at the container center.
type StepEvent struct {
	Direction Direction `json:"direction"`
}

// ResetEvent returns to the identity transform.
type ResetEvent struct{}

func (Resize) Kind() string       { return KindResize }
func (WheelEvent) Kind() string   { return KindWheel }
func (ScrollEvent) Kind() string  { return KindScroll }
func (PinchEvent) Kind() string   { return KindPinch }
func (PointerDown) Kind() string  { return KindPointerDown }
func (PointerMove) Kind() string  { return KindPointerMove }
func (PointerUp) Kind() string    { return KindPointerUp }
func (PointerEnter) Kind() string { return KindPointerEnter }
func (PointerLeave) Kind() string { return KindPointerLeave }
func (DragEvent) Kind() string    { return KindDrag }
func (DragEnd) Kind() string      { return KindDragEnd }
func (FocusRequest) Kind() string { return KindFocus }
func (StepEvent) Kind() string    { return KindStep }
func (ResetEvent) Kind() string   { return KindReset }
