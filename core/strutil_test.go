package core

import "testing"

func TestItoa(t *testing.T) {
	testCases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{-7, "-7"},
		{7476354, "7476354"},
		{-7476354, "-7476354"},
		{-2147483648, "-2147483648"},
	}

	for _, tc := range testCases {
		if got := Itoa(tc.in); got != tc.want {
			t.Errorf("Itoa(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUtoa(t *testing.T) {
	testCases := []struct {
		in   uint32
		want string
	}{
		{0, "0"},
		{42, "42"},
		{4294967295, "4294967295"},
	}

	for _, tc := range testCases {
		if got := Utoa(tc.in); got != tc.want {
			t.Errorf("Utoa(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHex32(t *testing.T) {
	testCases := []struct {
		in   uint32
		want string
	}{
		{0, "00000000"},
		{0x10, "00000010"},
		{0xDEADBEEF, "DEADBEEF"},
		{0xFFFFFFFF, "FFFFFFFF"},
	}

	for _, tc := range testCases {
		if got := Hex32(tc.in); got != tc.want {
			t.Errorf("Hex32(0x%X) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
