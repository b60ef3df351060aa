package serial

import "io"

// pipeEnd is one side of an in-memory serial link.
type pipeEnd struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (p *pipeEnd) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipeEnd) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p *pipeEnd) Flush() error                { return nil }

// Close ends both directions; the far side sees io.EOF on read and
// io.ErrClosedPipe on write.
func (p *pipeEnd) Close() error {
	p.w.Close()
	return p.r.Close()
}

// Pipe returns the two ends of an in-memory serial link: host for the
// capture side, device for the simulated board's console. Writes block
// until the other side reads.
func Pipe() (host Port, device Port) {
	toDevR, toDevW := io.Pipe()
	toHostR, toHostW := io.Pipe()
	return &pipeEnd{r: toHostR, w: toDevW}, &pipeEnd{r: toDevR, w: toHostW}
}
