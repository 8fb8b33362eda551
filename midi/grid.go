package midi

import "fmt"

// Midi Fighter 64 note layout: 8x8 grid starting at note 36 in the bottom-left
// corner, counting left to right then bottom to top. Nothing outside this file
// should know about the offset or the Y inversion.
const (
	NoteOffset = 36
	GridSize   = 8
	NoteMax    = NoteOffset + GridSize*GridSize - 1 // 99
)

// GridButton is a logical pad position. Row 1 is the top row, col 1 the left column.
type GridButton struct {
	Row   int // 1-8
	Col   int // 1-8
	Index int // 0-63, hardware order
	Code  int // raw note number
}

func (b GridButton) String() string {
	return fmt.Sprintf("Grid[R%d,C%d] note=%d", b.Row, b.Col, b.Code)
}

// IsInRange reports whether code is one of the 64 grid notes
func IsInRange(code int) bool {
	return code >= NoteOffset && code <= NoteMax
}

// FromCode converts a raw note to a grid position.
// Only defined for codes where IsInRange holds; callers check first.
func FromCode(code int) GridButton {
	index := code - NoteOffset
	physicalRow := index / GridSize // 0 = bottom
	return GridButton{
		Row:   GridSize - physicalRow,
		Col:   index%GridSize + 1,
		Index: index,
		Code:  code,
	}
}

// ToCode is the inverse of FromCode
func ToCode(row, col int) int {
	physicalRow := GridSize - row
	return NoteOffset + physicalRow*GridSize + (col - 1)
}
