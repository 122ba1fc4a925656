package models

// RawSheet is one worksheet read verbatim: no types, no trimming. Empty cells
// are empty strings and rows may be ragged.
type RawSheet struct {
	Name string
	Rows [][]string
}

// Cell returns the text at (row, col), or "" outside the grid.
func (s *RawSheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Width returns the length of the longest row.
func (s *RawSheet) Width() int {
	width := 0
	for _, r := range s.Rows {
		if len(r) > width {
			width = len(r)
		}
	}
	return width
}
