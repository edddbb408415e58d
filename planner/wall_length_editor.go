package planner

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
)

// WallLengthEditor is the numeric overlay opened by double-clicking a wall.
// Applying a length scales the wall about its start corner.
type WallLengthEditor struct {
	viewer *Viewer2D
	wall   *Wall
	subs   subscriptions

	// Input is the text shown in the editor, initialised to the rounded length
	Input string

	Opened Event[*Wall]
	Closed Signal
}

// NewWallLengthEditor attaches the editor to the 2D controller's double-click events
func NewWallLengthEditor(v *Viewer2D) *WallLengthEditor {
	ed := &WallLengthEditor{viewer: v}
	ed.subs.add(v.WallDoubleClicked.Subscribe(func(hit WallHit) { ed.edit(hit.Wall) }))
	ed.subs.add(v.Floorplan().WallRemoved.Subscribe(func(w *Wall) {
		if w == ed.wall {
			ed.Cancel()
		}
	}))
	return ed
}

// Close detaches the editor
func (ed *WallLengthEditor) Close() { ed.subs.close() }

// Wall returns the wall being edited, or nil when closed
func (ed *WallLengthEditor) Wall() *Wall { return ed.wall }

// IsOpen reports whether the editor is showing
func (ed *WallLengthEditor) IsOpen() bool { return ed.wall != nil }

// Open finds the wall nearest pixel (px, py) and opens the editor on it
func (ed *WallLengthEditor) Open(px, py float64) error {
	w := ed.viewer.WallAt(px, py)
	if w == nil {
		return ErrNoWallNearby
	}
	ed.edit(w)
	return nil
}

// OpenWall opens the editor on a known wall
func (ed *WallLengthEditor) OpenWall(w *Wall) { ed.edit(w) }

func (ed *WallLengthEditor) edit(w *Wall) {
	ed.wall = w
	ed.Input = strconv.Itoa(int(math.Round(w.Length())))
	ed.Opened.Emit(w)
}

// Apply parses input as the new length and rescales the wall. Invalid input
// leaves the floorplan untouched and the editor open.
func (ed *WallLengthEditor) Apply(input string) error {
	w := ed.wall
	if w == nil {
		return nil
	}
	ed.Input = input

	length, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(length) || math.IsInf(length, 0) || length <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidLength, input)
	}
	if err := SetWallLength(ed.viewer.Floorplan(), w, length); err != nil {
		return err
	}

	ed.viewer.Redraw()
	ed.close()
	return nil
}

// Cancel closes the editor without changes
func (ed *WallLengthEditor) Cancel() { ed.close() }

func (ed *WallLengthEditor) close() {
	if ed.wall == nil {
		return
	}
	ed.wall = nil
	ed.Input = ""
	Fire(&ed.Closed)
}

// SetWallLength moves the wall's end corner along its direction so that the
// wall measures length, keeping the start corner fixed.
func SetWallLength(fp *Floorplan, w *Wall, length float64) error {
	if math.IsNaN(length) || math.IsInf(length, 0) || length <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidLength, length)
	}
	current := w.Length()
	if current == 0 {
		return ErrDegenerateWall
	}
	start, end := w.StartPoint(), w.EndPoint()
	scale := length / current
	fp.MoveWallEndpoint(w, EndpointEnd, start.Add(end.Sub(start).Scale(scale)))
	fp.Update()
	log.Printf("[PLANNER] wall %s length %.1f -> %.1f", w.ID, current, length)
	return nil
}
