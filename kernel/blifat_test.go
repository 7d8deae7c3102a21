package kernel

import (
	"testing"

	"github.com/SynapticNetworks/stepnet/message"
)

// S1 — single BLIFAT neuron, one excitatory spike.
func TestS1SingleNeuronExcitatorySpike(t *testing.T) {
	n := &BLIFATNeuron{
		PotentialDecay:           1.0,
		ThresholdDecay:           1.0,
		AbsoluteRefractoryPeriod: 0,
		MinPotential:             -1e9,
		PotentialResetValue:      0.0,
	}
	neurons := []*BLIFATNeuron{n}

	impacts := []message.Impact{
		{Value: 1.5, Type: message.Excitatory, PostsynapticNeuronIndex: 0},
	}
	fired := StepBLIFATPopulation(neurons, impacts)
	if len(fired) != 1 || fired[0] != 0 {
		t.Fatalf("expected neuron 0 to fire at step 1, got %v", fired)
	}

	fired = StepBLIFATPopulation(neurons, nil)
	if len(fired) != 0 {
		t.Fatalf("expected no spike at step 2, got %v", fired)
	}
}

func TestBLIFATRefractoryPeriodBlocksFiring(t *testing.T) {
	n := &BLIFATNeuron{
		PotentialDecay:            1.0,
		ThresholdDecay:            1.0,
		AbsoluteRefractoryPeriod:  2,
		MinPotential:              -1e9,
		NTimeStepsSinceLastFiring: 10,
	}
	neurons := []*BLIFATNeuron{n}
	impact := []message.Impact{{Value: 5.0, Type: message.Excitatory, PostsynapticNeuronIndex: 0}}

	if fired := StepBLIFATPopulation(neurons, impact); len(fired) != 1 {
		t.Fatalf("expected first impact to fire, got %v", fired)
	}
	// Still within the refractory window: n_time_steps_since_last_firing(1) is
	// not yet > absolute_refractory_period(2).
	if fired := StepBLIFATPopulation(neurons, impact); len(fired) != 0 {
		t.Fatalf("expected refractory gate to block firing, got %v", fired)
	}
}

func TestBLIFATBlockingImpactGatesFiring(t *testing.T) {
	n := &BLIFATNeuron{PotentialDecay: 1.0, MinPotential: -1e9}
	neurons := []*BLIFATNeuron{n}

	impacts := []message.Impact{
		{Value: 3, Type: message.Blocking, PostsynapticNeuronIndex: 0},
		{Value: 5.0, Type: message.Excitatory, PostsynapticNeuronIndex: 0},
	}
	if fired := StepBLIFATPopulation(neurons, impacts); len(fired) != 0 {
		t.Fatalf("expected blocking to suppress firing, got %v", fired)
	}
	// The decay phase (which decrements the blocking period) runs before the
	// Blocking impact is applied, so the period set this step is still whole.
	if n.TotalBlockingPeriod != 3 {
		t.Fatalf("expected blocking period not yet decremented this step, got %d", n.TotalBlockingPeriod)
	}
}

func TestBLIFATInhibitoryConductanceSaturatesToReversalPotential(t *testing.T) {
	n := &BLIFATNeuron{
		Potential:                   10,
		PotentialDecay:               1.0,
		InhibitoryConductance:        1.5,
		InhibitoryConductanceDecay:   1.0,
		ReversalInhibitoryPotential: -0.3,
		MinPotential:                 -1e9,
	}
	neurons := []*BLIFATNeuron{n}
	StepBLIFATPopulation(neurons, nil)
	if n.Potential != -0.3 {
		t.Fatalf("expected potential clamped to reversal potential, got %v", n.Potential)
	}
}
