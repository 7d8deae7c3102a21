package kernel

import (
	"math"
	"testing"
)

// S4 — STDP additive symmetry.
func TestS4AdditiveSTDPPositiveLagPotentiates(t *testing.T) {
	s := &AdditiveSTDPSynapse{
		DeltaSynapse: DeltaSynapse{Weight: 0},
		TauPlus:      10,
		TauMinus:     10,
	}
	for i := 0; i < 20; i++ {
		s.recordPre(10)
		s.recordPost(12)
	}

	delta, applied := StepAdditiveSTDP(s, AdditiveSTDPParams{APlus: 1, AMinus: 1}, false)
	if !applied {
		t.Fatalf("expected update to be applied")
	}
	if delta <= 0 {
		t.Fatalf("expected positive delta for post-after-pre timing, got %v", delta)
	}
	want := 20.0 * 20.0 * math.Exp(-2.0/10.0)
	if math.Abs(delta-want) > 1e-9 {
		t.Fatalf("expected |delta| ~= %v, got %v", want, delta)
	}
	if len(s.PreSpikeTimes) != 0 || len(s.PostSpikeTimes) != 0 {
		t.Fatalf("expected both queues cleared after update")
	}
}

// S6 — weight-lock obeyed: queues still clear, weight byte-for-byte unchanged.
func TestS6AdditiveSTDPWeightLockObeyed(t *testing.T) {
	s := &AdditiveSTDPSynapse{
		DeltaSynapse: DeltaSynapse{Weight: 0.5},
		TauPlus:      10,
		TauMinus:     10,
	}
	for i := 0; i < 20; i++ {
		s.recordPre(10)
		s.recordPost(12)
	}

	before := s.Weight
	_, applied := StepAdditiveSTDP(s, AdditiveSTDPParams{APlus: 1, AMinus: 1}, true)
	if applied {
		t.Fatalf("expected locked update not to apply")
	}
	if s.Weight != before {
		t.Fatalf("expected weight unchanged under lock, got %v want %v", s.Weight, before)
	}
	if len(s.PreSpikeTimes) != 0 || len(s.PostSpikeTimes) != 0 {
		t.Fatalf("expected queues cleared even though update was not applied")
	}
}

func TestAdditiveSTDPWaitsForFullQueues(t *testing.T) {
	s := &AdditiveSTDPSynapse{TauPlus: 10, TauMinus: 10}
	s.recordPre(1)
	s.recordPost(2)
	if _, applied := StepAdditiveSTDP(s, AdditiveSTDPParams{APlus: 1, AMinus: 1}, false); applied {
		t.Fatalf("expected no update before queues reach tau_plus+tau_minus")
	}
}
