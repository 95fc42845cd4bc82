package gcode

import (
	"bytes"
	"strconv"
)

// LayerMark is one marker occurrence found by ScanLayers.
type LayerMark struct {
	Layer  uint64
	Text   string // digits as written, leading zeros included
	Line   int // 1-based
	Offset int // byte offset of the marker text
}

// ScanLayers returns every "LAYER:<digits>" occurrence in document order.
// Markers whose digits overflow uint64 are skipped.
func ScanLayers(content []byte) []LayerMark {
	var marks []LayerMark
	prefix := []byte(MarkerPrefix)
	line := 1
	lineStart := 0
	pos := 0
	for pos < len(content) {
		idx := bytes.Index(content[pos:], prefix)
		if idx < 0 {
			break
		}
		at := pos + idx
		line += bytes.Count(content[lineStart:at], []byte{'\n'})
		lineStart = at

		digits := at + len(prefix)
		end := digits
		for end < len(content) && content[end] >= '0' && content[end] <= '9' {
			end++
		}
		if end > digits {
			text := string(content[digits:end])
			if n, err := strconv.ParseUint(text, 10, 64); err == nil {
				marks = append(marks, LayerMark{Layer: n, Text: text, Line: line, Offset: at})
			}
		}
		pos = end
	}
	return marks
}
