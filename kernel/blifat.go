/*
=================================================================================
BLIFAT NEURON - LEAKY INTEGRATE-AND-FIRE WITH BURSTING AND ADAPTIVE THRESHOLD
=================================================================================

BLIFATNeuron carries the parameter set of the BLIFAT model: a leaky
integrate-and-fire neuron extended with a dynamic firing threshold,
inhibitory conductance, and a post-firing bursting phase. ActivationThreshold
is carried as a persisted field (§3.2) but, per the ground-truth kernel
(blifat_population.cpp: "potential_ >= 1.0 + dynamic_threshold_"), the firing
condition's base is the literal 1.0, not this field — activation_threshold_
is the firing field of the unrelated AltAILIF model, not BLIFAT's. See
postInput below.
=================================================================================
*/

package kernel

import (
	"math"

	"github.com/SynapticNetworks/stepnet/message"
)

// BLIFATNeuron is the per-neuron parameter record a population of BLIFAT
// neurons stores, one per slot.
type BLIFATNeuron struct {
	Potential           float64
	PotentialDecay      float64
	PotentialResetValue float64
	MinPotential        float64

	DynamicThreshold    float64
	ThresholdDecay      float64
	ThresholdIncrement  float64
	// ActivationThreshold is a persisted BLIFAT parameter (§3.2) that the
	// firing condition does not read: the ground-truth firing base is the
	// literal 1.0 (see postInput), not this field.
	ActivationThreshold float64

	PostsynapticTrace          float64
	PostsynapticTraceDecay     float64
	PostsynapticTraceIncrement float64

	InhibitoryConductance       float64
	InhibitoryConductanceDecay  float64
	ReversalInhibitoryPotential float64

	NTimeStepsSinceLastFiring uint64
	AbsoluteRefractoryPeriod  uint64

	BurstingPeriod   uint32
	BurstingPhase    uint32
	ReflexiveWeight  float64

	// TotalBlockingPeriod is set by a Blocking impact and, while positive,
	// extends the refractory gate independently of AbsoluteRefractoryPeriod.
	// It is not part of the model's static defaults; it is runtime state
	// written only by an inbound Blocking impact and decremented here.
	TotalBlockingPeriod uint64
}

// NewDefaultBLIFATNeuron returns a neuron at rest: never fired
// (NTimeStepsSinceLastFiring starts saturated so the refractory gate never
// blocks the very first spike), decays at 1.0 (no decay) unless overridden.
func NewDefaultBLIFATNeuron() BLIFATNeuron {
	return BLIFATNeuron{
		PotentialDecay:              1.0,
		ThresholdDecay:              1.0,
		PostsynapticTraceDecay:      1.0,
		InhibitoryConductanceDecay:  1.0,
		ReversalInhibitoryPotential: -0.3,
		MinPotential:                -1.0e9,
		NTimeStepsSinceLastFiring:   math.MaxUint64,
	}
}

// decay runs the per-step decay phase (§4.5.1, decay phase) on a single
// neuron, in place.
func (n *BLIFATNeuron) decay() {
	if n.NTimeStepsSinceLastFiring != math.MaxUint64 {
		n.NTimeStepsSinceLastFiring++
	}
	n.DynamicThreshold *= n.ThresholdDecay
	n.PostsynapticTrace *= n.PostsynapticTraceDecay
	n.InhibitoryConductance *= n.InhibitoryConductanceDecay
	n.Potential *= n.PotentialDecay
	if n.BurstingPhase > 0 {
		n.BurstingPhase--
		if n.BurstingPhase == 0 {
			n.Potential += n.ReflexiveWeight
		}
	}
	if n.TotalBlockingPeriod > 0 {
		n.TotalBlockingPeriod--
	}
}

// applyImpact applies one synaptic impact to the neuron it targets,
// dispatching on output type per the table in §4.5.1.
func (n *BLIFATNeuron) applyImpact(imp message.Impact) {
	switch imp.Type {
	case message.Excitatory:
		n.Potential += float64(imp.Value)
	case message.InhibitoryCurrent:
		n.Potential -= float64(imp.Value)
	case message.InhibitoryConductance:
		n.InhibitoryConductance += float64(imp.Value)
	case message.Dopamine:
		// Routed to plasticity elsewhere; no potential change here.
	case message.Blocking:
		n.TotalBlockingPeriod = uint64(imp.Value)
	}
}

// postInput runs the post-input phase (§4.5.1) and reports whether the
// neuron fired this step.
func (n *BLIFATNeuron) postInput() bool {
	if n.InhibitoryConductance < 1.0 {
		n.Potential -= (n.Potential - n.ReversalInhibitoryPotential) * n.InhibitoryConductance
	} else {
		n.Potential = n.ReversalInhibitoryPotential
	}

	refractoryClear := n.NTimeStepsSinceLastFiring > n.AbsoluteRefractoryPeriod && n.TotalBlockingPeriod == 0
	fired := refractoryClear && n.Potential >= 1.0+n.DynamicThreshold
	if fired {
		n.Potential = n.PotentialResetValue
		n.DynamicThreshold += n.ThresholdIncrement
		n.NTimeStepsSinceLastFiring = 0
		n.BurstingPhase = n.BurstingPeriod
		n.PostsynapticTrace += n.PostsynapticTraceIncrement
	}

	if n.Potential < n.MinPotential {
		n.Potential = n.MinPotential
	}
	return fired
}

// StepBLIFATPopulation runs one simulation step over neurons, applying
// impacts whose PostsynapticNeuronIndex addresses a live slot, and returns
// the ascending-ordered indexes of every neuron that fired. Impacts
// targeting an out-of-range index are ignored by the caller's responsibility
// to keep indices valid (§3.8 invariant 1); StepBLIFATPopulation itself
// bounds-checks defensively and skips anything out of range.
func StepBLIFATPopulation(neurons []*BLIFATNeuron, impacts []message.Impact) []uint32 {
	for _, n := range neurons {
		n.decay()
	}

	for _, imp := range impacts {
		idx := int(imp.PostsynapticNeuronIndex)
		if idx < 0 || idx >= len(neurons) {
			continue
		}
		neurons[idx].applyImpact(imp)
	}

	var fired []uint32
	for i, n := range neurons {
		if n.postInput() {
			fired = append(fired, uint32(i))
		}
	}
	return fired
}
