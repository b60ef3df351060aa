package core

// Itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func Itoa(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	u := uint64(n)
	if negative {
		u = uint64(-n)
	}

	var buf [21]byte
	pos := len(buf)
	for u > 0 {
		pos--
		buf[pos] = byte('0' + u%10)
		u /= 10
	}

	if negative {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}

// Utoa converts an unsigned integer to a string
func Utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[pos:])
}

// Hex32 formats v as eight upper-case hex digits, no prefix.
func Hex32(v uint32) string {
	const digits = "0123456789ABCDEF"
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = digits[(v>>(28-4*uint(i)))&0x0F]
	}
	return string(buf[:])
}
