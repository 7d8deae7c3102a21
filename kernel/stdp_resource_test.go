package kernel

import (
	"math"
	"testing"
)

// S5 — synaptic resource weight recomputation.
func TestS5SynapticResourceWeightRecompute(t *testing.T) {
	syn := &ResourceSTDPSynapse{
		WMin:             0,
		WMax:             1,
		SynapticResource: 1,
		DU:               0,
	}
	neuron := &ResourceSTDPNeuron{DH: 1}

	DrainAndHebbian(syn, neuron)
	if syn.SynapticResource != 2 {
		t.Fatalf("expected resource to reach 2 after one Hebbian update, got %v", syn.SynapticResource)
	}

	RecomputeWeight(syn, false)
	want := float32(0 + 1*2.0/(1+2))
	if math.Abs(float64(syn.Weight-want)) > 1e-6 {
		t.Fatalf("expected weight ~= %v, got %v", want, syn.Weight)
	}
}

func TestRecomputeWeightSkipsMutationWhenLocked(t *testing.T) {
	syn := &ResourceSTDPSynapse{WMin: 0, WMax: 1, SynapticResource: 1, Weight: 0.25}
	RecomputeWeight(syn, true)
	if syn.Weight != 0.25 {
		t.Fatalf("expected weight unchanged under lock, got %v", syn.Weight)
	}
}

func TestHebbianUpdateSkippedWhenAlreadyDoneThisPeriod(t *testing.T) {
	syn := &ResourceSTDPSynapse{SynapticResource: 1, DU: 0, HadHebbianUpdate: true}
	neuron := &ResourceSTDPNeuron{DH: 1}
	DrainAndHebbian(syn, neuron)
	if syn.SynapticResource != 1 {
		t.Fatalf("expected resource unchanged when Hebbian update already ran, got %v", syn.SynapticResource)
	}
}

func TestISIStatusTransitions(t *testing.T) {
	n := &ResourceSTDPNeuron{ISIMax: 5}

	UpdateISIStatus(n, 10, false)
	if n.Status != PeriodStarted {
		t.Fatalf("expected first spike to start a period, got %v", n.Status)
	}

	UpdateISIStatus(n, 12, false) // delta=2 < isi_max=5
	if n.Status != PeriodContinued {
		t.Fatalf("expected short gap to continue the period, got %v", n.Status)
	}

	UpdateISIStatus(n, 30, false) // delta=18 >= isi_max=5
	if n.Status != NotInPeriod {
		t.Fatalf("expected long gap to end the period, got %v", n.Status)
	}
}

func TestISIStatusForcingOverridesWithoutAdvancingLastStep(t *testing.T) {
	n := &ResourceSTDPNeuron{ISIMax: 5, LastStep: 7}
	UpdateISIStatus(n, 20, true)
	if n.Status != IsForced {
		t.Fatalf("expected forcing impact to set IsForced, got %v", n.Status)
	}
	if n.LastStep != 7 {
		t.Fatalf("expected LastStep untouched by a forcing impact, got %v", n.LastStep)
	}
}

func TestSetDopamineSignalReachesApplyDopamine(t *testing.T) {
	syn := &ResourceSTDPSynapse{SynapticResource: 0, DopaminePlasticityPeriod: 10, LastSpikeStep: 5}
	neuron := &ResourceSTDPNeuron{StabilityChangeParameter: 1, ISIMax: 5, FirstISISpike: 5}

	neuron.SetDopamineSignal(2, false)
	if neuron.DopamineValue != 2 {
		t.Fatalf("expected SetDopamineSignal to set DopamineValue, got %v", neuron.DopamineValue)
	}

	ApplyDopamine(syn, neuron, 6)
	if syn.SynapticResource == 0 {
		t.Fatalf("expected ApplyDopamine to move resource once a dopamine signal is armed")
	}
}

func TestRedistributeResourceRequiresOutOfISIPeriod(t *testing.T) {
	n := &ResourceSTDPNeuron{FreeSynapticResource: 10, SynapticResourceThreshold: 1, ResourceDrainCoefficient: 0, Status: PeriodContinued}
	synapses := []*ResourceSTDPSynapse{{SynapticResource: 0}}
	RedistributeResource(n, synapses)
	if synapses[0].SynapticResource != 0 {
		t.Fatalf("expected no redistribution while inside an ISI period")
	}

	n.Status = NotInPeriod
	RedistributeResource(n, synapses)
	if synapses[0].SynapticResource != 10 {
		t.Fatalf("expected full redistribution with a single synapse and zero drain coefficient, got %v", synapses[0].SynapticResource)
	}
	if n.FreeSynapticResource != 0 {
		t.Fatalf("expected free pool zeroed after redistribution")
	}
}
