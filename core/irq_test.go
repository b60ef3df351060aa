package core

import "testing"

type fakeLine struct{ enabled bool }

func (l *fakeLine) Enable()  { l.enabled = true }
func (l *fakeLine) Disable() { l.enabled = false }

func TestIRQEnable(t *testing.T) {
	runs := 0
	q := NewIRQ(func() { runs++ })
	line := &fakeLine{}
	q.SetLine(line)

	if q.Fire() {
		t.Error("disabled IRQ ran its handler")
	}

	q.Enable()
	if !line.enabled {
		t.Error("Enable did not unmask the line")
	}
	if !q.Fire() || !q.Fire() {
		t.Error("enabled IRQ did not run its handler")
	}

	q.Disable()
	if line.enabled {
		t.Error("Disable did not mask the line")
	}
	q.Fire()

	if runs != 2 || q.Fired() != 2 {
		t.Errorf("handler ran %d times (Fired=%d), want 2", runs, q.Fired())
	}
}

func TestIRQNotReentered(t *testing.T) {
	var q *IRQ
	depth, maxDepth := 0, 0
	q = NewIRQ(func() {
		depth++
		if depth > maxDepth {
			maxDepth = depth
		}
		q.Fire()
		depth--
	})
	q.Enable()

	q.Fire()
	if maxDepth != 1 {
		t.Errorf("handler nested %d deep, want 1", maxDepth)
	}
	if q.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", q.Dropped())
	}
	if q.Fired() != 1 {
		t.Errorf("Fired = %d, want 1", q.Fired())
	}
}
