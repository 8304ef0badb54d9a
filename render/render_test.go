package render

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestBitmap_Geometry(t *testing.T) {
	out := Bitmap(make([]byte, 560), 140, 32)
	lines := strings.Split(out, "\n")
	if len(lines) != 16 {
		t.Fatalf("got %d lines, want 16 (two pixel rows per line)", len(lines))
	}
	for i, line := range lines {
		if n := len([]rune(line)); n != 140 {
			t.Errorf("line %d has %d cells, want 140", i, n)
		}
	}
}

func TestBitmap_PixelMapping(t *testing.T) {
	// 8x2 display, one byte per row. Top row 0b10000001, bottom all set.
	frame := []byte{0x81, 0xFF}
	out := Bitmap(frame, 8, 2)
	want := "█▄▄▄▄▄▄█"
	if out != want {
		t.Errorf("Bitmap = %q, want %q", out, want)
	}
}

func TestBitmap_ShortFrameIsDark(t *testing.T) {
	out := Bitmap(nil, 8, 2)
	if out != strings.Repeat(" ", 8) {
		t.Errorf("nil frame rendered %q, want blanks", out)
	}
}

func TestModel_FrameUpdates(t *testing.T) {
	m := NewModel(8, 2)

	next, _ := m.Update(frameMsg([]byte{0xFF, 0x00}))
	m = next.(Model)
	if m.frames != 1 {
		t.Errorf("frames = %d, want 1", m.frames)
	}

	view := m.View()
	if !strings.Contains(view, "frames: 1") {
		t.Errorf("view missing frame counter:\n%s", view)
	}
	if !strings.Contains(view, "▀▀▀▀▀▀▀▀") {
		t.Errorf("view missing rendered bitmap:\n%s", view)
	}
}

func TestModel_BannerShownUntilFirstFrame(t *testing.T) {
	m := NewModel(8, 2)

	next, _ := m.Update(bannerMsg("Stream Ready"))
	m = next.(Model)
	if !strings.Contains(m.View(), "Stream Ready") {
		t.Error("banner not shown")
	}

	next, _ = m.Update(frameMsg(make([]byte, 2)))
	m = next.(Model)
	if strings.Contains(m.View(), "Stream Ready") {
		t.Error("banner still shown after first frame")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := NewModel(8, 2)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(Model)
	if !m.quitting || cmd == nil {
		t.Error("q did not quit")
	}
	if m.View() != "" {
		t.Error("quitting view not empty")
	}
}
