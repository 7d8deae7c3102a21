/*
=================================================================================
STDP (SYNAPTIC-RESOURCE) - RESOURCE-POOL DRIVEN WEIGHT RECOMPUTATION
=================================================================================

ResourceSTDPSynapse implements §3.6/§4.5.4: rather than nudging weight
directly from spike timing, each synapse holds a resource pool shared with
its postsynaptic neuron's free pool. Every presynaptic spike drains the
pool toward the neuron (simulating vesicle depletion), a bounded Hebbian
refill runs at most once per ISI period, and weight is recomputed from the
resource level via a saturating map. A dopamine signal additionally nudges
resource and a per-neuron stability estimate that gates how strongly future
dopamine and Hebbian updates land (via 2^-stability).

Grounded on synapse/vesicle_dynamics.go's depletion-then-replenish pool
bookkeeping, adapted from the teacher's continuous recovery-time-constant
model to the spec's explicit per-step resource arithmetic.
=================================================================================
*/

package kernel

import (
	"math"
	"sort"

	"github.com/SynapticNetworks/stepnet/message"
)

// ResourceSTDPSynapse is the per-synapse record of a synaptic-resource STDP
// projection.
type ResourceSTDPSynapse struct {
	DeltaSynapse

	SynapticResource float64
	WMin             float64
	WMax             float64
	DU               float64

	LastSpikeStep            uint64
	DopaminePlasticityPeriod uint64
	HadHebbianUpdate         bool
}

// resourceFactor is the 2^-stability scaling factor shared by the Hebbian
// refill and the dopamine update (§4.5.4).
func resourceFactor(stability float64) float64 {
	return math.Min(math.Pow(2, -stability), 1)
}

// DrainAndHebbian implements §4.5.4 steps 1-2: drains d_u from the
// synapse's resource into the neuron's free pool, then — unless a Hebbian
// update has already run this ISI period — refills a stability-scaled
// amount back from the free pool.
func DrainAndHebbian(syn *ResourceSTDPSynapse, neuron *ResourceSTDPNeuron) {
	syn.SynapticResource -= syn.DU
	neuron.FreeSynapticResource += syn.DU

	if syn.HadHebbianUpdate {
		return
	}
	dh := neuron.DH * resourceFactor(neuron.Stability)
	syn.SynapticResource += dh
	neuron.FreeSynapticResource -= dh
	syn.HadHebbianUpdate = true
}

// ResetHebbianWindow clears the once-per-ISI-period Hebbian gate for every
// synapse in synapses (the caller passes those targeting one neuron), called
// when UpdateISIStatus starts a fresh period.
func ResetHebbianWindow(synapses []*ResourceSTDPSynapse) {
	for _, s := range synapses {
		s.HadHebbianUpdate = false
	}
}

// RecomputeWeight implements §4.5.4 step 3: weight saturates toward w_max
// as resource grows, toward w_min as it drains to zero or below. The new
// weight is computed but discarded when locked is true, matching the
// additive-STDP rule's weight-lock contract (§3.8 invariant 3, P6).
func RecomputeWeight(syn *ResourceSTDPSynapse, locked bool) {
	r := math.Max(syn.SynapticResource, 0)
	delta := syn.WMax - syn.WMin
	w := float32(syn.WMin + delta*r/(delta+r))
	if locked {
		return
	}
	syn.Weight = w
}

// ApplyDopamine implements §4.5.4's dopamine-signal paragraph for one
// synapse: resource nudge plus the neuron's stability update. A zero
// DopamineValue, or a synapse outside the plasticity-eligible window since
// its last spike, leaves both resource and stability untouched.
func ApplyDopamine(syn *ResourceSTDPSynapse, neuron *ResourceSTDPNeuron, step uint64) {
	if neuron.DopamineValue == 0 {
		return
	}
	if step-syn.LastSpikeStep >= syn.DopaminePlasticityPeriod {
		return
	}

	factor := resourceFactor(neuron.Stability)
	dr := neuron.DopamineValue * factor / 1000
	syn.SynapticResource += dr
	neuron.FreeSynapticResource -= dr

	punishedOrForced := neuron.DopamineValue < 0 || neuron.IsBeingForced
	if punishedOrForced {
		neuron.Stability -= neuron.DopamineValue * neuron.StabilityChangeParameter
		if neuron.Stability < 0 {
			neuron.Stability = 0
		}
		return
	}

	diff := float64(step) - float64(neuron.FirstISISpike) - float64(neuron.ISIMax)
	shaping := math.Max(2-math.Abs(diff)/float64(neuron.ISIMax), -1)
	neuron.Stability += neuron.StabilityChangeParameter * neuron.DopamineValue * shaping
}

// RedistributeResource implements §4.5.4's final paragraph: once the
// neuron's free pool magnitude crosses its threshold and the neuron is
// between ISI periods, the pool is divided across every synapse in synapses
// (FinalizeResourceSTDPStep passes those targeting the neuron), plus a drain
// coefficient smoothing the denominator, and
// the free pool is zeroed.
func RedistributeResource(neuron *ResourceSTDPNeuron, synapses []*ResourceSTDPSynapse) {
	if math.Abs(neuron.FreeSynapticResource) < neuron.SynapticResourceThreshold {
		return
	}
	if neuron.InISIPeriod() {
		return
	}
	if len(synapses) == 0 {
		return
	}

	share := neuron.FreeSynapticResource / (float64(len(synapses)) + neuron.ResourceDrainCoefficient)
	for _, s := range synapses {
		s.SynapticResource += share
	}
	neuron.FreeSynapticResource = 0
}

// StepResourceSTDPProjection runs one step of a synaptic-resource STDP
// projection (§4.5.4 steps 1-3): for every synapse reached by an inbound
// spike, drains and Hebbian-refills its resource, recomputes its weight
// (computed but not applied when locked is true, per §3.8 invariant 3 and
// P6), and schedules the resulting impact exactly as a plain delta synapse
// would (IsForcing is always false for this rule, per §4.2). It returns the
// ascending, deduplicated postsynaptic neuron indices touched this step, for
// FinalizeResourceSTDPStep to run §4.5.4's remaining per-neuron algorithm.
func StepResourceSTDPProjection(
	store *FutureImpacts,
	spikes []message.SpikeMessage,
	bySource SourceIndexer,
	synapses []*ResourceSTDPSynapse,
	neuronByTarget func(target uint32) *ResourceSTDPNeuron,
	locked bool,
	currentStep uint64,
) []uint32 {
	touchedSet := make(map[uint32]struct{})
	for _, msg := range spikes {
		counts := countIndexes(msg.NeuronIndexes)
		for j, c := range counts {
			for _, idx := range bySource(j) {
				syn := synapses[idx]
				neuron := neuronByTarget(syn.Target)
				for k := 0; k < c; k++ {
					DrainAndHebbian(syn, neuron)
				}
				RecomputeWeight(syn, locked)
				syn.LastSpikeStep = currentStep
				touchedSet[syn.Target] = struct{}{}

				delivery := currentStep + uint64(syn.Delay) - 1
				store.schedule(delivery, message.Impact{
					SynapseIndex:            uint64(idx),
					Value:                   syn.Weight * float32(c),
					Type:                    syn.OutputType,
					PresynapticNeuronIndex:  j,
					PostsynapticNeuronIndex: syn.Target,
				})
			}
		}
	}

	touched := make([]uint32, 0, len(touchedSet))
	for target := range touchedSet {
		touched = append(touched, target)
	}
	sort.Slice(touched, func(a, b int) bool { return touched[a] < touched[b] })
	return touched
}

// FinalizeResourceSTDPStep completes §4.5.4's per-step algorithm for one
// synaptic-resource STDP projection, after StepResourceSTDPProjection has
// drained spikes and recomputed weights: it advances ISI status for every
// postsynaptic neuron touched by a spike this step (resetting the Hebbian
// gate when a fresh period starts), applies any pending dopamine signal to
// every synapse whose plasticity window is still open, and redistributes
// free resource for every postsynaptic neuron whose free pool has crossed
// its threshold while out of an ISI period.
func FinalizeResourceSTDPStep(
	touchedTargets []uint32,
	neurons []*ResourceSTDPNeuron,
	byTarget SourceIndexer,
	synapses []*ResourceSTDPSynapse,
	currentStep uint64,
) {
	synapsesFor := func(target uint32) []*ResourceSTDPSynapse {
		idxs := byTarget(target)
		driven := make([]*ResourceSTDPSynapse, len(idxs))
		for i, idx := range idxs {
			driven[i] = synapses[idx]
		}
		return driven
	}

	for _, target := range touchedTargets {
		if int(target) >= len(neurons) {
			continue
		}
		neuron := neurons[target]
		wasInPeriod := neuron.InISIPeriod()
		UpdateISIStatus(neuron, currentStep, false)
		if !wasInPeriod && neuron.Status == PeriodStarted {
			ResetHebbianWindow(synapsesFor(target))
		}
	}

	for _, syn := range synapses {
		if int(syn.Target) >= len(neurons) {
			continue
		}
		ApplyDopamine(syn, neurons[syn.Target], currentStep)
	}

	for i, neuron := range neurons {
		driven := synapsesFor(uint32(i))
		if len(driven) == 0 {
			continue
		}
		RedistributeResource(neuron, driven)
	}
}
