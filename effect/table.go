package effect

import (
	"fmt"

	"go-vjgrid/debug"
)

// Effect rows on the grid
const (
	RowDoF       = 2
	RowPixelSort = 3
	RowChromatic = 4
)

var effectRows = []int{RowDoF, RowPixelSort, RowChromatic}

// Table maps grid rows 2-4 to controllers and remembers which row was
// touched last. Driven from the tick goroutine only.
type Table struct {
	rows      map[int]Controller
	activeRow int
}

func NewTable() *Table {
	return &Table{
		rows:      make(map[int]Controller),
		activeRow: RowDoF,
	}
}

func validRow(row int) bool {
	return row >= RowDoF && row <= RowChromatic
}

// Register binds c to row, replacing any previous binding
func (t *Table) Register(row int, c Controller) error {
	if !validRow(row) {
		return fmt.Errorf("register %d: %w", row, ErrInvalidRow)
	}
	t.rows[row] = c
	return nil
}

// SelectPreset makes row active and applies slot on its controller.
// Rows outside 2-4 are ignored; an empty slot is the controller's no-op.
func (t *Table) SelectPreset(row, slot int) {
	if !validRow(row) {
		debug.Log("effects", "preset select on row %d ignored", row)
		return
	}
	t.activeRow = row
	c := t.rows[row]
	if c == nil {
		debug.Log("effects", "no controller on row %d", row)
		return
	}
	c.ApplyPreset(slot)
}

func (t *Table) Randomize(row int) {
	if !validRow(row) {
		debug.Log("effects", "randomize on row %d ignored", row)
		return
	}
	t.activeRow = row
	c := t.rows[row]
	if c == nil {
		debug.Log("effects", "no controller on row %d", row)
		return
	}
	c.Randomize()
}

// RandomizeAll rolls every registered controller without moving the active row
func (t *Table) RandomizeAll() {
	for _, row := range effectRows {
		if c := t.rows[row]; c != nil {
			c.Randomize()
		}
	}
}

func (t *Table) ActiveRow() int { return t.activeRow }

// ActiveController is nil when nothing is registered on the active row
func (t *Table) ActiveController() Controller {
	return t.rows[t.activeRow]
}

func (t *Table) ControllerFor(row int) Controller {
	return t.rows[row]
}

// ControllerForType finds the controller whose EffectTypeName matches
func (t *Table) ControllerForType(effectType string) Controller {
	for _, row := range effectRows {
		if c := t.rows[row]; c != nil && c.EffectTypeName() == effectType {
			return c
		}
	}
	return nil
}

// Rows returns the effect rows in grid order
func (t *Table) Rows() []int {
	return append([]int(nil), effectRows...)
}
