package sinetest

import "math"

// Amplitude is the peak of the test tone, about -1dBFS in 24 bits.
const Amplitude = 7476354

// Sine48 is one period of the test tone in 48 samples (1kHz at 48kHz).
var Sine48 = [48]int32{
	0, 975860, 1935023, 2861077, 3738177, 4551316, 5286581, 5931390,
	6474712, 6907250, 7221603, 7412393, 7476354, 7412393, 7221603, 6907250,
	6474712, 5931390, 5286581, 4551316, 3738177, 2861077, 1935023, 975860,
	0, -975860, -1935023, -2861077, -3738177, -4551316, -5286581, -5931390,
	-6474712, -6907250, -7221603, -7412393, -7476354, -7412393, -7221603, -6907250,
	-6474712, -5931390, -5286581, -4551316, -3738177, -2861077, -1935023, -975860,
}

// GenerateSine returns one period of a sine of the given peak in n
// samples, rounded to the nearest integer.
func GenerateSine(n int, amplitude int32) []int32 {
	if n <= 0 {
		return nil
	}
	out := make([]int32, n)
	for i := range out {
		v := float64(amplitude) * math.Sin(2*math.Pi*float64(i)/float64(n))
		out[i] = int32(math.Round(v))
	}
	return out
}

// AlignedLength rounds max down to a whole number of table periods so
// every capture pass starts at the same phase. It returns max unchanged
// when max is shorter than one period.
func AlignedLength(max, tableLen int) int {
	if tableLen <= 0 || max < tableLen {
		return max
	}
	return max - max%tableLen
}
