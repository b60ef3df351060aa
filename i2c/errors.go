package i2c

import (
	"errors"

	"codecbench/core"
)

// MaxTransfer is the largest number of data bytes accepted in one direction
// of a transaction.
const MaxTransfer = 32

var (
	ErrTooManyBytes    = errors.New("i2c: too many bytes requested")
	ErrAddressNack     = errors.New("i2c: address not acknowledged")
	ErrDataNack        = errors.New("i2c: data not acknowledged")
	ErrArbitrationLost = errors.New("i2c: arbitration lost")

	// ErrTimeout is only returned when a SpinLimit is configured. By default
	// the engines wait for the hardware forever.
	ErrTimeout = errors.New("i2c: module busy timeout")
)

// NackError reports which byte of a transfer phase was not acknowledged.
// Index 0 is the address byte; data bytes follow from 1.
type NackError struct {
	Index int
}

func (e *NackError) Error() string {
	if e.Index == 0 {
		return ErrAddressNack.Error()
	}
	return "i2c: data byte " + core.Itoa(e.Index) + " not acknowledged"
}

// Is lets errors.Is match ErrAddressNack or ErrDataNack.
func (e *NackError) Is(target error) bool {
	switch target {
	case ErrAddressNack:
		return e.Index == 0
	case ErrDataNack:
		return e.Index > 0
	}
	return false
}

// ErrCode is the numeric error reported to callers that expect the flag
// values of the original controller firmware.
type ErrCode uint8

// Write error codes
const (
	WriteOK              ErrCode = 0
	WriteErrTooManyBytes ErrCode = 1
	WriteErrAddrNack     ErrCode = 2
	WriteErrDataNack     ErrCode = 4
	WriteErrLostArb      ErrCode = 8
)

// Read error codes
const (
	ReadOK              ErrCode = 0
	ReadErrTooManyBytes ErrCode = 1
	ReadErrAddrNack     ErrCode = 2
	ReadErrLostArb      ErrCode = 4
)

// WriteCode maps a write error to its numeric code. Errors without a code
// (timeouts) map to WriteErrLostArb since the bus state is unknown.
func WriteCode(err error) ErrCode {
	switch {
	case err == nil:
		return WriteOK
	case errors.Is(err, ErrTooManyBytes):
		return WriteErrTooManyBytes
	case errors.Is(err, ErrAddressNack):
		return WriteErrAddrNack
	case errors.Is(err, ErrDataNack):
		return WriteErrDataNack
	default:
		return WriteErrLostArb
	}
}

// ReadCode maps a read error to its numeric code.
func ReadCode(err error) ErrCode {
	switch {
	case err == nil:
		return ReadOK
	case errors.Is(err, ErrTooManyBytes):
		return ReadErrTooManyBytes
	case errors.Is(err, ErrAddressNack):
		return ReadErrAddrNack
	default:
		return ReadErrLostArb
	}
}
