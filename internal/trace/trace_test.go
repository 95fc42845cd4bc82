package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"off":     LevelOff,
		"":        LevelOff,
		"ERROR":   LevelError,
		"command": LevelCommand,
		"detail":  LevelDetail,
		"Debug":   LevelDebug,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevelShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeCommand, false},
		{LevelError, ScopeCommand, false},
		{LevelCommand, ScopeCommand, true},
		{LevelCommand, ScopeEdit, false},
		{LevelDetail, ScopeEdit, true},
		{LevelDetail, ScopeIO, false},
		{LevelDebug, ScopeIO, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Fatalf("%v.ShouldEmit(%v) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestStreamTracerFiltersByScope(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelCommand, FormatText)

	cmd := Begin(tr, ScopeCommand, "edit-layer", 0)
	edit := Begin(tr, ScopeEdit, "edit", cmd.ID())
	edit.End("")
	cmd.WithExtra("file", "part.gcode").End("ok")

	out := buf.String()
	if strings.Contains(out, "→ edit\n") || strings.Contains(out, "← edit\n") {
		t.Fatalf("edit scope leaked at command level:\n%s", out)
	}
	if !strings.Contains(out, "→ edit-layer") {
		t.Fatalf("missing begin event:\n%s", out)
	}
	if !strings.Contains(out, "← edit-layer (ok) {file=part.gcode}") {
		t.Fatalf("missing end event:\n%s", out)
	}
}

func TestErrorEventPassesErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatText)
	Point(tr, ScopeCommand, "ignored", "", 0)
	Error(tr, ScopeIO, "write", errors.New("disk full"), 0)
	out := buf.String()
	if strings.Contains(out, "ignored") {
		t.Fatalf("point event emitted at error level:\n%s", out)
	}
	if !strings.Contains(out, "! write (disk full)") {
		t.Fatalf("missing error event:\n%s", out)
	}
}

func TestNDJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeIO, "read", "part.gcode", 7)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if got["kind"] != "point" || got["scope"] != "io" || got["name"] != "read" || got["detail"] != "part.gcode" {
		t.Fatalf("unexpected event: %v", got)
	}
	if got["parent_id"] != float64(7) {
		t.Fatalf("parent_id = %v, want 7", got["parent_id"])
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(tr, ScopeEdit, name, "", 0)
	}
	snap := tr.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot has %d events, want 3", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Fatalf("snapshot[%d] = %q, want %q", i, snap[i].Name, want)
		}
	}
	var buf bytes.Buffer
	if err := tr.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("Dump wrote %q", buf.String())
	}
}

func TestNewModes(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	multi, ok := tr.(*MultiTracer)
	if !ok {
		t.Fatalf("ModeBoth returned %T", tr)
	}
	Point(tr, ScopeEdit, "splice", "", 0)
	if buf.Len() == 0 {
		t.Fatalf("stream side received nothing")
	}
	if ring := multi.Ring(); ring == nil || len(ring.Snapshot()) != 1 {
		t.Fatalf("ring side did not receive the event")
	}

	off, err := New(Config{Level: LevelOff, Mode: ModeStream})
	if err != nil {
		t.Fatalf("New off: %v", err)
	}
	if off.Enabled() {
		t.Fatalf("off tracer reports enabled")
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop from empty context")
	}
	tr := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatalf("tracer not propagated")
	}
	span := Begin(tr, ScopeCommand, "cmd", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatalf("CurrentSpan = %d, want %d", CurrentSpan(ctx), span.ID())
	}
}

func TestRingOf(t *testing.T) {
	ring := NewRingTracer(4, LevelDebug)
	if RingOf(ring) != ring {
		t.Fatalf("RingOf(ring) did not return the ring")
	}
	multi := NewMultiTracer(LevelDebug, NewStreamTracer(io.Discard, LevelDebug, FormatText), ring)
	if RingOf(multi) != ring {
		t.Fatalf("RingOf(multi) did not return the ring half")
	}
	if RingOf(NewStreamTracer(io.Discard, LevelDebug, FormatText)) != nil {
		t.Fatalf("RingOf(stream) returned a ring")
	}
	if RingOf(Nop) != nil {
		t.Fatalf("RingOf(Nop) returned a ring")
	}
}
