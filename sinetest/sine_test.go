package sinetest

import "testing"

func TestGenerateSineMatchesTable(t *testing.T) {
	got := GenerateSine(len(Sine48), Amplitude)
	for i, want := range Sine48 {
		if got[i] != want {
			t.Errorf("sample %d = %d, want %d", i, got[i], want)
		}
	}
}

func TestGenerateSineShape(t *testing.T) {
	s := GenerateSine(240, Amplitude)
	if len(s) != 240 {
		t.Fatalf("len = %d", len(s))
	}
	if s[0] != 0 || s[60] != Amplitude || s[180] != -Amplitude {
		t.Errorf("s[0]=%d s[60]=%d s[180]=%d", s[0], s[60], s[180])
	}
	for i := 1; i < 120; i++ {
		if s[i] != -s[240-i] {
			t.Fatalf("not odd-symmetric at %d: %d vs %d", i, s[i], s[240-i])
		}
	}
	if GenerateSine(0, Amplitude) != nil {
		t.Error("GenerateSine(0) returned samples")
	}
}

func TestAlignedLength(t *testing.T) {
	testCases := []struct {
		max, table, want int
	}{
		{4096, 48, 4080},
		{4080, 240, 4080},
		{100, 48, 96},
		{20, 48, 20},
		{96, 48, 96},
		{10, 0, 10},
	}

	for _, tc := range testCases {
		if got := AlignedLength(tc.max, tc.table); got != tc.want {
			t.Errorf("AlignedLength(%d, %d) = %d, want %d", tc.max, tc.table, got, tc.want)
		}
	}
}
