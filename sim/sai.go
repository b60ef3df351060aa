package sim

const (
	saiTCSR = 0x00
	saiTCR1 = 0x04
	saiTCR2 = 0x08
	saiTCR3 = 0x0C
	saiTCR4 = 0x10
	saiTCR5 = 0x14
	saiTDR0 = 0x20
	saiTMR  = 0x60
	saiRCSR = 0x80
	saiRCR1 = 0x84
	saiRCR2 = 0x88
	saiRCR3 = 0x8C
	saiRCR4 = 0x90
	saiRCR5 = 0x94
	saiRDR0 = 0xA0
	saiRMR  = 0xE0
	saiMCR  = 0x100
	saiMDR  = 0x104

	csrTE   = 1 << 31
	csrRE   = 1 << 31
	csrBCE  = 1 << 28
	csrFR   = 1 << 25
	csrFRF  = 1 << 16
	csrFRIE = 1 << 8

	saiFIFODepth = 8
)

// Interrupter is the interrupt line the SAI raises on a FIFO request.
type Interrupter interface {
	Fire() bool
}

// KinetisSAI models the I2S0 (SAI) block of the K20 with one transmit and
// one receive data channel in a 2-word frame. Frame moves one stereo frame
// through the loopback and raises the transmit FIFO request interrupt while
// the transmit FIFO is at or below its watermark.
type KinetisSAI struct {
	Path *Loopback
	IRQ  Interrupter

	Regs map[uint32]uint32

	Frames      int
	TxUnderruns int // frames sent with too few words queued
	RxUnderruns int // RDR0 reads from an empty FIFO
	RxOverruns  int // words lost to a full receive FIFO

	tx []uint32
	rx []uint32
}

// NewKinetisSAI returns the block on path raising irq.
func NewKinetisSAI(path *Loopback, irq Interrupter) *KinetisSAI {
	return &KinetisSAI{Path: path, IRQ: irq, Regs: make(map[uint32]uint32)}
}

func (s *KinetisSAI) txEnabled() bool { return s.Regs[saiTCSR]&csrTE != 0 }
func (s *KinetisSAI) rxEnabled() bool { return s.Regs[saiRCSR]&csrRE != 0 }

// TxLevel returns the number of words in the transmit FIFO.
func (s *KinetisSAI) TxLevel() int { return len(s.tx) }

// RxLevel returns the number of words in the receive FIFO.
func (s *KinetisSAI) RxLevel() int { return len(s.rx) }

func (s *KinetisSAI) watermark() int {
	return int(s.Regs[saiTCR1] & 0x7)
}

func (s *KinetisSAI) requesting() bool {
	return s.txEnabled() && len(s.tx) <= s.watermark()
}

// Frame runs one frame-sync period and then services the FIFO request.
func (s *KinetisSAI) Frame() {
	if !s.txEnabled() {
		return
	}
	s.Frames++

	var out [2]uint32
	for i := range out {
		if len(s.tx) == 0 {
			s.TxUnderruns++
			continue
		}
		out[i] = s.tx[0]
		s.tx = s.tx[1:]
	}

	inL, inR := s.Path.Step(out[0], out[1])
	if s.rxEnabled() {
		s.pushRx(inL)
		s.pushRx(inR)
	}

	if s.Regs[saiTCSR]&csrFRIE != 0 && s.requesting() && s.IRQ != nil {
		s.IRQ.Fire()
	}
}

func (s *KinetisSAI) pushRx(v uint32) {
	if len(s.rx) >= saiFIFODepth {
		s.RxOverruns++
		return
	}
	s.rx = append(s.rx, v)
}

// ReadWord implements core.RegisterIO.
func (s *KinetisSAI) ReadWord(offset uint32) uint32 {
	switch offset {
	case saiRDR0:
		if len(s.rx) == 0 {
			s.RxUnderruns++
			return 0
		}
		v := s.rx[0]
		s.rx = s.rx[1:]
		return v
	case saiTCSR:
		v := s.Regs[saiTCSR]
		if s.requesting() {
			v |= csrFRF
		}
		return v
	}
	return s.Regs[offset]
}

// WriteWord implements core.RegisterIO.
func (s *KinetisSAI) WriteWord(offset uint32, v uint32) {
	switch offset {
	case saiTDR0:
		if len(s.tx) < saiFIFODepth {
			s.tx = append(s.tx, v)
		}
		return
	case saiTCSR:
		if v&csrFR != 0 {
			s.tx = s.tx[:0]
		}
		v &^= csrFR | csrFRF
	case saiRCSR:
		if v&csrFR != 0 {
			s.rx = s.rx[:0]
		}
		v &^= csrFR | csrFRF
	}
	s.Regs[offset] = v
}
