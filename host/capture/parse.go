// Package capture reads a bench session from the host side of the serial
// link: it answers the prompts, collects the register read-back and the
// sample dump, and writes the samples as CSV.
package capture

import (
	"strconv"
	"strings"
)

// Kind classifies one console line.
type Kind int

const (
	KindText Kind = iota
	KindPromptInit
	KindPromptStart
	KindPromptChannel
	KindInvalidChannel
	KindRegister
	KindSample
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindPromptInit:
		return "prompt-init"
	case KindPromptStart:
		return "prompt-start"
	case KindPromptChannel:
		return "prompt-channel"
	case KindInvalidChannel:
		return "invalid-channel"
	case KindRegister:
		return "register"
	case KindSample:
		return "sample"
	case KindEnd:
		return "end"
	}
	return "text"
}

// Register is one read-back line.
type Register struct {
	Address uint8
	Value   uint8
}

// Sample is one printed sample. Single-column dumps fill Value only.
type Sample struct {
	Value int32
	Right int32
	Left  int32
	Pair  bool
}

// Line is a parsed console line.
type Line struct {
	Kind     Kind
	Text     string
	Register Register
	Sample   Sample
}

// ParseLine classifies s. Leading prompt markers ("> ") left over from the
// previous prompt are stripped first.
func ParseLine(s string) Line {
	s = strings.TrimRight(s, "\r\n")
	s = strings.TrimLeft(s, "> ")
	l := Line{Kind: KindText, Text: s}

	switch {
	case strings.HasPrefix(s, "Init codec?"):
		l.Kind = KindPromptInit
	case strings.HasPrefix(s, "Start test?"):
		l.Kind = KindPromptStart
	case strings.HasPrefix(s, "Please select the channel"):
		l.Kind = KindPromptChannel
	case strings.HasPrefix(s, "Invalid channel selection"):
		l.Kind = KindInvalidChannel
	case s == "End of samples" || s == "End of data.":
		l.Kind = KindEnd
	case strings.HasPrefix(s, "Address "):
		if r, ok := parseRegister(s[len("Address "):]); ok {
			l.Kind = KindRegister
			l.Register = r
		}
	default:
		if smp, ok := parseSample(s); ok {
			l.Kind = KindSample
			l.Sample = smp
		}
	}
	return l
}

// parseRegister accepts "XXXXXXXX XXXXXXXX" (hex) and "N: V" (decimal).
func parseRegister(s string) (Register, bool) {
	if a, v, ok := strings.Cut(s, ": "); ok {
		addr, err1 := strconv.ParseUint(a, 10, 8)
		val, err2 := strconv.ParseUint(v, 10, 8)
		if err1 != nil || err2 != nil {
			return Register{}, false
		}
		return Register{Address: uint8(addr), Value: uint8(val)}, true
	}
	a, v, ok := strings.Cut(s, " ")
	if !ok {
		return Register{}, false
	}
	addr, err1 := strconv.ParseUint(a, 16, 32)
	val, err2 := strconv.ParseUint(v, 16, 32)
	if err1 != nil || err2 != nil || addr > 0xFF || val > 0xFF {
		return Register{}, false
	}
	return Register{Address: uint8(addr), Value: uint8(val)}, true
}

func parseSample(s string) (Sample, bool) {
	if r, l, ok := strings.Cut(s, ","); ok {
		rv, err1 := strconv.ParseInt(r, 10, 32)
		lv, err2 := strconv.ParseInt(l, 10, 32)
		if err1 != nil || err2 != nil {
			return Sample{}, false
		}
		return Sample{Right: int32(rv), Left: int32(lv), Pair: true}, true
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return Sample{}, false
	}
	return Sample{Value: int32(v)}, true
}
