package transport

import "io"

// pipeLink joins one read side and one write side of two io.Pipes into
// a single duplex endpoint.
type pipeLink struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (p *pipeLink) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipeLink) Write(b []byte) (int, error) { return p.w.Write(b) }

func (p *pipeLink) Close() error {
	_ = p.r.Close()
	return p.w.Close()
}

// Pipe returns two connected in-memory link endpoints. Bytes written
// to one are read from the other, in order. Closing either endpoint
// unblocks the peer with io.EOF / io.ErrClosedPipe.
//
// Used for loopback testing without hardware.
func Pipe() (Link, Link) {
	ar, bw := io.Pipe()
	br, aw := io.Pipe()
	return &pipeLink{r: ar, w: aw}, &pipeLink{r: br, w: bw}
}
