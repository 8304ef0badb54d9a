package render

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Terminal adapts a running Bubble Tea program to the device's
// Renderer interface. Render and Banner only post messages; the
// program's own goroutine draws.
type Terminal struct {
	prog *tea.Program
}

// NewTerminal creates the preview program. Call Run on the returned
// program (typically in the command's main goroutine) and hand the
// Terminal to the device loop.
func NewTerminal(width, height int) (*Terminal, *tea.Program) {
	prog := tea.NewProgram(NewModel(width, height))
	return &Terminal{prog: prog}, prog
}

// Render posts the framebuffer to the preview.
func (t *Terminal) Render(frame []byte) error {
	t.prog.Send(frameMsg(append([]byte(nil), frame...)))
	return nil
}

// Banner posts boot banner text to the preview.
func (t *Terminal) Banner(text string) error {
	t.prog.Send(bannerMsg(text))
	return nil
}

// Writer dumps every frame as half-block text to an io.Writer. Used
// when no interactive terminal is wanted.
type Writer struct {
	w      io.Writer
	width  int
	height int
}

// NewWriter creates a plain writer renderer.
func NewWriter(w io.Writer, width, height int) *Writer {
	return &Writer{w: w, width: width, height: height}
}

// Render writes one frame followed by a blank line.
func (r *Writer) Render(frame []byte) error {
	_, err := fmt.Fprintf(r.w, "%s\n\n", Bitmap(frame, r.width, r.height))
	return err
}
