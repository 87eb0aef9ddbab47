package mefxml

// lineIndex maps a byte offset into a source document to a 1-based line
// number, used to annotate elements and errors with (file, line) per
// SPEC_FULL.md §4.J and §3's source-location expansion. scanRoot records
// offsets only for the document root's direct children, so only those
// definitions (and the errors raised for them) get a location; nested
// definitions carry a zero Location.
type lineIndex struct {
	// offsets[i] is the byte offset of the first character of line i+2
	// (line 1 always starts at offset 0, so it is never stored).
	offsets []int
}

func newLineIndex(data []byte) *lineIndex {
	idx := &lineIndex{}
	for i, b := range data {
		if b == '\n' {
			idx.offsets = append(idx.offsets, i+1)
		}
	}
	return idx
}

// lineAt returns the 1-based line number containing byte offset.
func (idx *lineIndex) lineAt(offset int64) int {
	line := 1
	for _, start := range idx.offsets {
		if int64(start) > offset {
			break
		}
		line++
	}
	return line
}
