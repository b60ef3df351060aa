package sim

const (
	kF   = 0x1
	kC1  = 0x2
	kS   = 0x3
	kD   = 0x4
	kC2  = 0x5
	kFLT = 0x6

	c1IICEN = 0x80
	c1MST   = 0x20
	c1TX    = 0x10
	c1TXAK  = 0x08
	c1RSTA  = 0x04

	sTCF   = 0x80
	sBUSY  = 0x20
	sARBL  = 0x10
	sIICIF = 0x02
	sRXAK  = 0x01
)

// KinetisI2C models the K20 I2C0 module in master mode. MST rising drives a
// START, MST falling a STOP, RSTA with MST held a repeated START. Writing D
// in transmit mode sends a byte; reading D in receive mode returns the last
// byte and clocks in the next one, acknowledged according to TXAK.
type KinetisI2C struct {
	Bus *Bus

	// LoseArbitrationAt sets ARBL after the Nth transmitted byte (1-based,
	// counted across the model's lifetime). Zero disables it.
	LoseArbitrationAt int

	F, FLT, C2 uint32
	C1         uint32
	RegWrites  int

	s       uint32
	d       byte
	txBytes int
}

// NewKinetisI2C returns the module wired to bus.
func NewKinetisI2C(bus *Bus) *KinetisI2C {
	return &KinetisI2C{Bus: bus}
}

// ReadWord implements core.RegisterIO.
func (k *KinetisI2C) ReadWord(offset uint32) uint32 {
	switch offset {
	case kF:
		return k.F
	case kFLT:
		return k.FLT
	case kC2:
		return k.C2
	case kC1:
		return k.C1
	case kS:
		v := k.s
		if k.Bus.Owned() {
			v |= sBUSY
		}
		return v
	case kD:
		v := k.d
		if k.C1&c1MST != 0 && k.C1&c1TX == 0 {
			k.d = k.Bus.Read()
			k.Bus.Ack(k.C1&c1TXAK == 0)
			k.s |= sIICIF | sTCF
		}
		return uint32(v)
	}
	return 0
}

// WriteWord implements core.RegisterIO.
func (k *KinetisI2C) WriteWord(offset uint32, v uint32) {
	v &= 0xFF
	k.RegWrites++
	switch offset {
	case kF:
		k.F = v
	case kFLT:
		k.FLT = v
	case kC2:
		k.C2 = v
	case kS:
		k.s &^= v & (sIICIF | sARBL)
	case kC1:
		old := k.C1
		k.C1 = v &^ c1RSTA
		switch {
		case old&c1MST == 0 && v&c1MST != 0:
			k.Bus.Start()
		case old&c1MST != 0 && v&c1MST == 0:
			k.Bus.Stop()
		case v&c1MST != 0 && v&c1RSTA != 0:
			k.Bus.Start()
		}
	case kD:
		if k.C1&c1MST == 0 || k.C1&c1TX == 0 {
			return
		}
		ack := k.Bus.Write(byte(v))
		k.txBytes++
		if ack {
			k.s &^= sRXAK
		} else {
			k.s |= sRXAK
		}
		if k.LoseArbitrationAt != 0 && k.txBytes == k.LoseArbitrationAt {
			k.s |= sARBL
		}
		k.s |= sIICIF | sTCF
	}
}
