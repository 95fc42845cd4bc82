// Package gcode locates slicer layer markers in G-code text and splices
// speed-override commands after them.
//
// The search is purely textual: a marker is the substring "LAYER:<n>" and
// nothing about the surrounding G-code is parsed. A request for layer 1 can
// therefore match inside "LAYER:10" when that text appears first. Layer and
// speed are decimal text used exactly as entered: "007" looks for "LAYER:007".
//
//	ok, err := gcode.InsertSpeedOverride("part.gcode", "12", "80")
//
// Documents are read and rewritten in full; there is no streaming path.
package gcode
