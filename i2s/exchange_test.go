package i2s

import "testing"

// loopPort records every transmitted frame and returns the tick number on
// the left slot and its negation on the right.
type loopPort struct {
	tx    [][2]uint32
	reads int32
}

func (p *loopPort) WriteFrame(l, r uint32) {
	p.tx = append(p.tx, [2]uint32{l, r})
}

func (p *loopPort) ReadFrame() (uint32, uint32) {
	n := p.reads
	p.reads++
	return ToSlot(n), ToSlot(-n)
}

func runToEnd(t *testing.T, x *Exchange, p FrameIO, limit int) int {
	t.Helper()
	x.begin()
	for i := 1; i <= limit; i++ {
		if x.Tick(p) {
			return i
		}
	}
	t.Fatalf("exchange still running after %d ticks", limit)
	return 0
}

func TestExchangeScenario(t *testing.T) {
	table := []int32{10, 20, 30}
	x, err := NewExchange(Config{Table: table, CaptureLen: 8, Runs: 2})
	if err != nil {
		t.Fatal(err)
	}
	p := &loopPort{}

	x.begin()
	for i := 0; i < 8; i++ {
		if x.Tick(p) {
			t.Fatal("finished during warm-up")
		}
	}
	if x.Pass() != 1 {
		t.Errorf("Pass after warm-up = %d, want 1", x.Pass())
	}
	for i, v := range x.Samples(Left) {
		if v != 0 {
			t.Errorf("warm-up sample %d stored: %d", i, v)
		}
	}

	wantIdx := []int{0, 1, 2, 0, 1, 2, 0, 1}
	for i, want := range wantIdx {
		got := FromSlot(p.tx[i][0])/10 - 1
		if int(got) != want {
			t.Errorf("tick %d sent table[%d], want table[%d]", i, got, want)
		}
		if p.tx[i][1] != 0 {
			t.Errorf("tick %d: unselected channel sent %#x", i, p.tx[i][1])
		}
	}

	for !x.Tick(p) {
	}
	if x.Running() {
		t.Error("still running after the last pass")
	}
	if x.Ticks() != 24 {
		t.Errorf("Ticks = %d, want 24 (warm-up plus 2 passes of 8)", x.Ticks())
	}

	left, right := x.Samples(Left), x.Samples(Right)
	for i := range left {
		if left[i] != int32(16+i) || right[i] != -int32(16+i) {
			t.Errorf("sample %d = (%d, %d), want last pass (%d, %d)", i, left[i], right[i], 16+i, -(16 + i))
		}
	}
}

func TestExchangeAccumulate(t *testing.T) {
	x, err := NewExchange(Config{Table: []int32{1}, CaptureLen: 8, Runs: 2, Accumulate: true})
	if err != nil {
		t.Fatal(err)
	}
	runToEnd(t, x, &loopPort{}, 100)

	// Passes 1 and 2 see ticks 8+i and 16+i; ticks 0..7 are never summed.
	for i, v := range x.Samples(Left) {
		if want := int32(24 + 2*i); v != want {
			t.Errorf("left[%d] = %d, want %d", i, v, want)
		}
	}
	for i, v := range x.Samples(Right) {
		if want := -int32(24 + 2*i); v != want {
			t.Errorf("right[%d] = %d, want %d", i, v, want)
		}
	}
	if f := x.At(3); f.Left != 30 || f.Right != -30 {
		t.Errorf("At(3) = %+v", f)
	}
}

// onePort returns 1 on both channels every tick, so an accumulating
// exchange counts how many times each cell was stored.
type onePort struct{}

func (onePort) WriteFrame(l, r uint32)      {}
func (onePort) ReadFrame() (uint32, uint32) { return ToSlot(1), ToSlot(1) }

func TestExchangeStoredCount(t *testing.T) {
	testCases := []struct {
		runs, capture, table int
	}{
		{1, 8, 3},
		{2, 8, 3},
		{5, 7, 48},
		{3, 240, 240},
	}

	for _, tc := range testCases {
		x, err := NewExchange(Config{Table: make([]int32, tc.table), CaptureLen: tc.capture, Runs: tc.runs, Accumulate: true})
		if err != nil {
			t.Fatal(err)
		}
		runToEnd(t, x, onePort{}, (tc.runs+2)*tc.capture)

		stored := 0
		for i := 0; i < tc.capture; i++ {
			f := x.At(i)
			if f.Left != int32(tc.runs) || f.Right != int32(tc.runs) {
				t.Errorf("runs=%d capture=%d: cell %d stored %d,%d times, want %d",
					tc.runs, tc.capture, i, f.Left, f.Right, tc.runs)
			}
			stored += int(f.Left)
		}
		if stored != tc.runs*tc.capture {
			t.Errorf("runs=%d capture=%d: stored %d samples, want %d", tc.runs, tc.capture, stored, tc.runs*tc.capture)
		}
		if x.Pass() != tc.runs+1 {
			t.Errorf("runs=%d: Pass = %d, want %d", tc.runs, x.Pass(), tc.runs+1)
		}
	}
}

func TestExchangeIndexWrap(t *testing.T) {
	x, err := NewExchange(Config{Table: make([]int32, 5), CaptureLen: 7, Runs: 3})
	if err != nil {
		t.Fatal(err)
	}
	p := &loopPort{}
	x.begin()
	for i := 1; ; i++ {
		done := x.Tick(p)
		if x.TxIndex() != i%5 {
			t.Fatalf("tick %d: TxIndex = %d, want %d", i, x.TxIndex(), i%5)
		}
		if x.RxIndex() != i%7 {
			t.Fatalf("tick %d: RxIndex = %d, want %d", i, x.RxIndex(), i%7)
		}
		if done {
			break
		}
	}
}

func TestExchangeRightChannel(t *testing.T) {
	x, err := NewExchange(Config{Table: []int32{-5}, CaptureLen: 2, Runs: 1, Channel: Right})
	if err != nil {
		t.Fatal(err)
	}
	p := &loopPort{}
	runToEnd(t, x, p, 10)
	for i, f := range p.tx {
		if f[0] != 0 || FromSlot(f[1]) != -5 {
			t.Errorf("frame %d = %#x,%#x, want 0 on left and -5 on right", i, f[0], f[1])
		}
	}
}

func TestExchangeReset(t *testing.T) {
	x, err := NewExchange(Config{Table: []int32{1, 2}, CaptureLen: 4, Runs: 1})
	if err != nil {
		t.Fatal(err)
	}
	runToEnd(t, x, &loopPort{}, 20)
	x.Reset()
	if x.TxIndex() != 0 || x.RxIndex() != 0 || x.Pass() != 0 || x.Ticks() != 0 {
		t.Errorf("Reset left tx=%d rx=%d pass=%d ticks=%d", x.TxIndex(), x.RxIndex(), x.Pass(), x.Ticks())
	}
	for i, v := range x.Samples(Left) {
		if v != 0 {
			t.Errorf("left[%d] = %d after Reset", i, v)
		}
	}
}

func TestNewExchangeValidation(t *testing.T) {
	testCases := []struct {
		cfg  Config
		want error
	}{
		{Config{CaptureLen: 8, Runs: 1}, ErrEmptyTable},
		{Config{Table: []int32{0}, Runs: 1}, ErrBadCapture},
		{Config{Table: []int32{0}, CaptureLen: 8}, ErrBadRuns},
		{Config{Table: []int32{0}, CaptureLen: 8, Runs: -1}, ErrBadRuns},
	}

	for _, tc := range testCases {
		if _, err := NewExchange(tc.cfg); err != tc.want {
			t.Errorf("NewExchange(%+v) = %v, want %v", tc.cfg, err, tc.want)
		}
	}
}

func TestSlotCoding(t *testing.T) {
	testCases := []struct {
		sample int32
		word   uint32
	}{
		{0, 0},
		{1, 0x00000100},
		{-1, 0xFFFFFF00},
		{0x7FFFFF, 0x7FFFFF00},
		{-0x800000, 0x80000000},
		{7476354, 0x72148200},
	}

	for _, tc := range testCases {
		if got := ToSlot(tc.sample); got != tc.word {
			t.Errorf("ToSlot(%d) = %#x, want %#x", tc.sample, got, tc.word)
		}
		if got := FromSlot(tc.word); got != tc.sample {
			t.Errorf("FromSlot(%#x) = %d, want %d", tc.word, got, tc.sample)
		}
	}

	// The low byte of a received slot is padding.
	if got := FromSlot(0xFFFFFFFF); got != -1 {
		t.Errorf("FromSlot(0xFFFFFFFF) = %d, want -1", got)
	}
}

func TestParseChannel(t *testing.T) {
	testCases := []struct {
		in   string
		want Channel
		ok   bool
	}{
		{"L", Left, true},
		{"l", Left, true},
		{"left", Left, true},
		{"R", Right, true},
		{"r", Right, true},
		{"", Left, false},
		{"x", Left, false},
		{" R", Left, false},
	}

	for _, tc := range testCases {
		got, ok := ParseChannel(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseChannel(%q) = %v, %v, want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
