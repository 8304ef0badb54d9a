// Package render previews the device framebuffer in the terminal, so
// a stream can be watched without VFD hardware on the line.
//
// The framebuffer is interpreted row-major, MSB first: bit i maps to
// pixel (i mod width, i div width). Two pixel rows share one text row
// via half-block characters.
package render

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// frameMsg delivers a framebuffer copy to the model.
type frameMsg []byte

// bannerMsg delivers boot banner text to the model.
type bannerMsg string

// Model is a Bubble Tea model displaying the reconstructed screen.
type Model struct {
	width  int
	height int

	frame    []byte
	banner   string
	frames   uint64
	quitting bool
}

// NewModel creates a preview model for the given display geometry.
func NewModel(width, height int) Model {
	return Model{width: width, height: height}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case frameMsg:
		m.frame = msg
		m.banner = ""
		m.frames++
		return m, nil

	case bannerMsg:
		m.banner = string(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("vfdstream %dx%d", m.width, m.height)))
	b.WriteString("\n")

	if m.banner != "" {
		b.WriteString(ScreenStyle.Render(m.banner))
	} else {
		b.WriteString(ScreenStyle.Render(Bitmap(m.frame, m.width, m.height)))
	}
	b.WriteString("\n")

	b.WriteString(StatusStyle.Render(fmt.Sprintf("frames: %d", m.frames)))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("Press q or Ctrl+C to quit"))
	return b.String()
}

// half-block glyphs indexed by (top<<1 | bottom).
var blocks = [4]rune{' ', '▄', '▀', '█'}

// Bitmap renders a packed 1bpp framebuffer as half-block text, two
// pixel rows per line. A nil or short frame renders as dark pixels.
func Bitmap(frame []byte, width, height int) string {
	var b strings.Builder
	for y := 0; y < height; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			idx := pixel(frame, width, x, y)<<1 | pixel(frame, width, x, y+1)
			b.WriteRune(blocks[idx])
		}
	}
	return b.String()
}

// pixel returns the bit at (x, y), or 0 when out of range.
func pixel(frame []byte, width, x, y int) int {
	i := y*width + x
	if i/8 >= len(frame) {
		return 0
	}
	if frame[i/8]&(0x80>>(i%8)) != 0 {
		return 1
	}
	return 0
}
