package sim

// Loopback is the analog path from the codec DAC back into its ADC: a
// fixed delay in frames with optional channel swap. Frames are the raw
// 32-bit slots, so the 24-bit payload survives unchanged.
type Loopback struct {
	Latency int  // frames between DAC out and ADC in
	Swap    bool // route left out to right in and vice versa

	line []frame
	head int
}

type frame struct {
	left, right uint32
}

// NewLoopback returns a loopback with the given latency in frames.
func NewLoopback(latency int) *Loopback {
	if latency < 0 {
		latency = 0
	}
	return &Loopback{Latency: latency, line: make([]frame, latency+1)}
}

// Step pushes one DAC frame and returns the ADC frame for the same tick.
func (l *Loopback) Step(left, right uint32) (uint32, uint32) {
	if l.Swap {
		left, right = right, left
	}
	l.line[l.head] = frame{left, right}
	out := l.line[(l.head+1)%len(l.line)]
	l.head = (l.head + 1) % len(l.line)
	return out.left, out.right
}

const (
	fpgaStatus = 0x0
	fpgaTxR    = 0x4
	fpgaTxL    = 0x8
	fpgaRxR    = 0xC
	fpgaRxL    = 0x10

	fpgaFrameReady = 1 << 0
)

// FPGAI2S models the polled I2S slave on the FPGA board. Each frame latches
// TX_L/TX_R into the loopback and presents the returning frame in
// RX_L/RX_R with the ready bit set; reading RX_R consumes the frame.
//
// With no free-running clock attached, a status read that finds no frame
// pending produces the next frame itself, so a polling loop always makes
// progress.
type FPGAI2S struct {
	Path *Loopback

	// SelfClocked makes status polls produce frames (see above).
	SelfClocked bool

	Frames  int
	Overrun int // frames produced while the previous one was unread

	txL, txR uint32
	rxL, rxR uint32
	ready    bool
}

// NewFPGAI2S returns a self-clocked slave on the given path.
func NewFPGAI2S(path *Loopback) *FPGAI2S {
	return &FPGAI2S{Path: path, SelfClocked: true}
}

// Frame runs one frame-sync period.
func (f *FPGAI2S) Frame() {
	if f.ready {
		f.Overrun++
	}
	f.rxL, f.rxR = f.Path.Step(f.txL, f.txR)
	f.ready = true
	f.Frames++
}

// ReadWord implements core.RegisterIO.
func (f *FPGAI2S) ReadWord(offset uint32) uint32 {
	switch offset {
	case fpgaStatus:
		if !f.ready && f.SelfClocked {
			f.Frame()
		}
		if f.ready {
			return fpgaFrameReady
		}
		return 0
	case fpgaTxL:
		return f.txL
	case fpgaTxR:
		return f.txR
	case fpgaRxL:
		return f.rxL
	case fpgaRxR:
		f.ready = false
		return f.rxR
	}
	return 0
}

// WriteWord implements core.RegisterIO.
func (f *FPGAI2S) WriteWord(offset uint32, v uint32) {
	switch offset {
	case fpgaTxL:
		f.txL = v
	case fpgaTxR:
		f.txR = v
	}
}
