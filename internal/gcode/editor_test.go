package gcode

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGCode(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "part.gcode")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write gcode: %v", err)
	}
	return path
}

func readGCode(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read gcode: %v", err)
	}
	return string(data)
}

func TestSplice(t *testing.T) {
	cases := []struct {
		name    string
		content string
		layer   string
		speed   string
		want    string
		ok      bool
	}{
		{
			name:    "middle layer",
			content: "G28\n;LAYER:2\nG1 X10\nG1 Y10\n",
			layer:   "2",
			speed:   "80",
			want:    "G28\n;LAYER:2\nM220 S80\nG1 X10\nG1 Y10\n",
			ok:      true,
		},
		{
			name:    "first line",
			content: ";LAYER:0\nG1 Z0.2\n",
			layer:   "0",
			speed:   "50",
			want:    ";LAYER:0\nM220 S50\nG1 Z0.2\n",
			ok:      true,
		},
		{
			name:    "marker then only terminator",
			content: "G28\n;LAYER:5\n",
			layer:   "5",
			speed:   "120",
			want:    "G28\n;LAYER:5\nM220 S120\n",
			ok:      true,
		},
		{
			name:    "first of duplicates",
			content: ";LAYER:3\nA\n;LAYER:3\nB\n",
			layer:   "3",
			speed:   "90",
			want:    ";LAYER:3\nM220 S90\nA\n;LAYER:3\nB\n",
			ok:      true,
		},
		{
			name:    "trailing text on marker line",
			content: ";LAYER:4 height=0.8\nG1 X1\n",
			layer:   "4",
			speed:   "70",
			want:    ";LAYER:4 height=0.8\nM220 S70\nG1 X1\n",
			ok:      true,
		},
		{
			name:    "crlf keeps carriage return on marker line",
			content: ";LAYER:1\r\nG1 X1\r\n",
			layer:   "1",
			speed:   "60",
			want:    ";LAYER:1\r\nM220 S60\nG1 X1\r\n",
			ok:      true,
		},
		{
			name:    "absent",
			content: ";LAYER:1\nG1\n",
			layer:   "7",
			speed:   "80",
			want:    ";LAYER:1\nG1\n",
			ok:      false,
		},
		{
			name:    "last line without terminator",
			content: "G28\n;LAYER:9",
			layer:   "9",
			speed:   "80",
			want:    "G28\n;LAYER:9",
			ok:      false,
		},
		{
			name:    "empty document",
			content: "",
			layer:   "0",
			speed:   "100",
			want:    "",
			ok:      false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Splice([]byte(tc.content), tc.layer, tc.speed)
			if ok != tc.ok {
				t.Fatalf("Splice ok = %v, want %v", ok, tc.ok)
			}
			if string(got) != tc.want {
				t.Fatalf("Splice = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSpliceDoesNotAliasInput(t *testing.T) {
	content := []byte(";LAYER:2\nG1 X10\n")
	orig := append([]byte(nil), content...)
	if _, ok := Splice(content, "2", "80"); !ok {
		t.Fatalf("expected splice")
	}
	if !bytes.Equal(content, orig) {
		t.Fatalf("input mutated: %q", content)
	}
}

// A request for layer 1 matches inside LAYER:10 when that marker comes first.
func TestSplicePrefixMatchPreserved(t *testing.T) {
	content := ";LAYER:10\nA\n;LAYER:1\nB\n"
	got, ok := Splice([]byte(content), "1", "80")
	if !ok {
		t.Fatalf("expected splice")
	}
	want := ";LAYER:10\nM220 S80\nA\n;LAYER:1\nB\n"
	if string(got) != want {
		t.Fatalf("Splice = %q, want %q", got, want)
	}
}

func TestSpliceLeavesOtherLinesUnchanged(t *testing.T) {
	lines := []string{"; generated", "G28", "G1 Z0.2", ";LAYER:5", "G1 X10 Y10", "G1 X20", ";LAYER:6", "M104 S0"}
	content := strings.Join(lines, "\n") + "\n"
	got, ok := Splice([]byte(content), "5", "80")
	if !ok {
		t.Fatalf("expected splice")
	}
	out := strings.Split(strings.TrimSuffix(string(got), "\n"), "\n")
	if len(out) != len(lines)+1 {
		t.Fatalf("got %d lines, want %d", len(out), len(lines)+1)
	}
	if out[4] != "M220 S80" {
		t.Fatalf("line 5 = %q, want M220 S80", out[4])
	}
	rest := append(append([]string{}, out[:4]...), out[5:]...)
	for i := range lines {
		if rest[i] != lines[i] {
			t.Fatalf("line %d = %q, want %q", i, rest[i], lines[i])
		}
	}
}

func TestInsertSpeedOverride(t *testing.T) {
	path := writeGCode(t, "...\nLAYER:2\nG1 X10\n...")
	ok, err := InsertSpeedOverride(path, "2", "80")
	if err != nil {
		t.Fatalf("InsertSpeedOverride: %v", err)
	}
	if !ok {
		t.Fatalf("expected insertion")
	}
	if got, want := readGCode(t, path), "...\nLAYER:2\nM220 S80\nG1 X10\n..."; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
}

func TestInsertSpeedOverrideNotFoundLeavesFile(t *testing.T) {
	cases := map[string]string{
		"absent":          ";LAYER:1\nG1\n;LAYER:2\nG1\n",
		"no terminator":   "G28\n;LAYER:7",
		"only other text": "G28\nG1 X1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeGCode(t, content)
			before, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat: %v", err)
			}
			ok, err := InsertSpeedOverride(path, "7", "80")
			if err != nil {
				t.Fatalf("InsertSpeedOverride: %v", err)
			}
			if ok {
				t.Fatalf("expected no insertion")
			}
			if got := readGCode(t, path); got != content {
				t.Fatalf("content changed: %q", got)
			}
			after, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat: %v", err)
			}
			if !after.ModTime().Equal(before.ModTime()) {
				t.Fatalf("file was rewritten")
			}
		})
	}
}

func TestInsertSpeedOverrideTwiceStacks(t *testing.T) {
	path := writeGCode(t, "G28\nLAYER:2\nG1 X10\n")
	for _, speed := range []string{"80", "90"} {
		ok, err := InsertSpeedOverride(path, "2", speed)
		if err != nil || !ok {
			t.Fatalf("InsertSpeedOverride(%s) = %v, %v", speed, ok, err)
		}
	}
	want := "G28\nLAYER:2\nM220 S90\nM220 S80\nG1 X10\n"
	if got := readGCode(t, path); got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
}

func TestInsertSpeedOverrideMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.gcode")
	ok, err := InsertSpeedOverride(path, "1", "80")
	if err == nil {
		t.Fatalf("expected error")
	}
	if ok {
		t.Fatalf("expected no insertion")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error = %v, want fs.ErrNotExist", err)
	}
}

func TestInsertSpeedOverrideKeepsMode(t *testing.T) {
	path := writeGCode(t, "LAYER:1\nG1\n")
	if err := os.Chmod(path, 0o640); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if ok, err := InsertSpeedOverride(path, "1", "80"); err != nil || !ok {
		t.Fatalf("InsertSpeedOverride = %v, %v", ok, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("mode = %v, want 0640", info.Mode().Perm())
	}
}

func TestMarkerAndSpeedOverride(t *testing.T) {
	if got := Marker("12"); got != "LAYER:12" {
		t.Fatalf("Marker = %q", got)
	}
	if got := SpeedOverride("0"); got != "M220 S0" {
		t.Fatalf("SpeedOverride = %q", got)
	}
	if got := Marker("007"); got != "LAYER:007" {
		t.Fatalf("Marker kept no leading zeros: %q", got)
	}
}

// Layer and speed text are matched and written exactly as entered.
func TestSpliceLeadingZeros(t *testing.T) {
	cases := []struct {
		name    string
		content string
		layer   string
		speed   string
		want    string
		ok      bool
	}{
		{
			name:    "padded layer does not match unpadded marker",
			content: ";LAYER:7\nG1 X1\n",
			layer:   "007",
			speed:   "080",
			want:    ";LAYER:7\nG1 X1\n",
			ok:      false,
		},
		{
			name:    "padded layer matches padded marker",
			content: ";LAYER:02\nG1 X1\n",
			layer:   "02",
			speed:   "080",
			want:    ";LAYER:02\nM220 S080\nG1 X1\n",
			ok:      true,
		},
		{
			name:    "unpadded layer does not match padded marker",
			content: ";LAYER:02\nG1 X1\n",
			layer:   "2",
			speed:   "80",
			want:    ";LAYER:02\nG1 X1\n",
			ok:      false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Splice([]byte(tc.content), tc.layer, tc.speed)
			if ok != tc.ok {
				t.Fatalf("Splice ok = %v, want %v", ok, tc.ok)
			}
			if string(got) != tc.want {
				t.Fatalf("Splice = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestInsertSpeedOverrideDirectory(t *testing.T) {
	ok, err := InsertSpeedOverride(t.TempDir(), "1", "80")
	if err == nil || ok {
		t.Fatalf("InsertSpeedOverride(dir) = %v, %v; want error", ok, err)
	}
}
