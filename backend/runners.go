/*
=================================================================================
RUNNERS - ADAPTERS BINDING ONE NETWORK KIND TO ITS KERNEL STEP FUNCTION
=================================================================================

A PopulationRunner/ProjectionRunner adapts one concrete *network.Population[T]
or *network.Projection[S] instantiation to the kernel step function its kind
calls for. The backend's step loop (backend.go) holds these behind the
narrow runner interfaces and never needs its own type switch on the
underlying neuron/synapse kind — each runner already knows which kernel
function to call. This is the Go realization of §9's "Dispatch in the step
loop is a single match on the tag": the match happens once, here, when a
runner is constructed, rather than on every step.
=================================================================================
*/

package backend

import (
	"github.com/SynapticNetworks/stepnet/kernel"
	"github.com/SynapticNetworks/stepnet/message"
	"github.com/SynapticNetworks/stepnet/network"
	"github.com/SynapticNetworks/stepnet/uid"
)

// PopulationRunner is a population the backend can step.
type PopulationRunner interface {
	network.PopulationHandle
	// Step runs one simulation step (§4.5.1) given the impacts addressed
	// to this population this phase, and returns the ascending-ordered
	// indexes of every neuron that fired.
	Step(impacts []message.Impact) []uint32
}

// ProjectionRunner is a projection the backend can step.
type ProjectionRunner interface {
	network.ProjectionHandle
	PresynapticUID() uid.UID
	PostsynapticUID() uid.UID
	// AdditionalSpikeSenders lists extra sender UIDs (beyond the
	// presynaptic population) this projection must subscribe to — the
	// STDP-tracked "plastic" presynaptic population UIDs of §4.5.3. Plain
	// delta projections return nil.
	AdditionalSpikeSenders() []uid.UID
	// StepSpikes runs one projection step (§4.5.2-4.5.4) given the spike
	// messages routed to this projection this phase.
	StepSpikes(spikes []message.SpikeMessage, currentStep uint64)
	// TakeDelivery returns the SynapticImpactMessage scheduled for
	// delivery at currentStep, if any, per §4.5.2 step 3.
	TakeDelivery(currentStep uint64) (message.SynapticImpactMessage, bool)
}

// BLIFATPopulationRunner steps a population of plain BLIFAT neurons.
type BLIFATPopulationRunner struct {
	*network.Population[kernel.BLIFATNeuron]
}

func NewBLIFATPopulationRunner(p *network.Population[kernel.BLIFATNeuron]) *BLIFATPopulationRunner {
	return &BLIFATPopulationRunner{Population: p}
}

func (r *BLIFATPopulationRunner) Step(impacts []message.Impact) []uint32 {
	return kernel.StepBLIFATPopulation(r.Pointers(), impacts)
}

// ResourcePopulationRunner steps a population of synaptic-resource STDP
// neurons, reusing the BLIFAT step function on the embedded base state.
type ResourcePopulationRunner struct {
	*network.Population[kernel.ResourceSTDPNeuron]
}

func NewResourcePopulationRunner(p *network.Population[kernel.ResourceSTDPNeuron]) *ResourcePopulationRunner {
	return &ResourcePopulationRunner{Population: p}
}

func (r *ResourcePopulationRunner) Step(impacts []message.Impact) []uint32 {
	neurons := r.Pointers()
	base := make([]*kernel.BLIFATNeuron, len(neurons))
	for i, n := range neurons {
		base[i] = &n.BLIFATNeuron
	}
	return kernel.StepBLIFATPopulation(base, impacts)
}

// Neurons exposes the underlying []*kernel.ResourceSTDPNeuron, for a
// ResourceSTDPProjectionRunner wired against this population's neurons by
// target index.
func (r *ResourcePopulationRunner) Neurons() []*kernel.ResourceSTDPNeuron {
	return r.Pointers()
}

// DeltaProjectionRunner steps a plain delta-synapse projection (§4.5.2).
type DeltaProjectionRunner struct {
	*network.Projection[kernel.DeltaSynapse]
	store *kernel.FutureImpacts
}

func NewDeltaProjectionRunner(p *network.Projection[kernel.DeltaSynapse]) *DeltaProjectionRunner {
	return &DeltaProjectionRunner{Projection: p, store: kernel.NewFutureImpacts()}
}

func (r *DeltaProjectionRunner) AdditionalSpikeSenders() []uid.UID { return nil }

func (r *DeltaProjectionRunner) StepSpikes(spikes []message.SpikeMessage, currentStep uint64) {
	kernel.StepDeltaSynapses(r.store, spikes, r.BySourceIndexer(), r.Synapses(), currentStep)
}

func (r *DeltaProjectionRunner) TakeDelivery(currentStep uint64) (message.SynapticImpactMessage, bool) {
	imps, ok := r.store.Take(currentStep)
	if !ok {
		return message.SynapticImpactMessage{}, false
	}
	return message.SynapticImpactMessage{
		SenderUID:                 r.UID(),
		SendTime:                  currentStep,
		PresynapticPopulationUID:  r.PresynapticUID(),
		PostsynapticPopulationUID: r.PostsynapticUID(),
		IsForcing:                 true,
		Impacts:                   imps,
	}, true
}

// STDPAdditiveProjectionRunner steps an additive-STDP delta-synapse
// projection (§4.5.3).
type STDPAdditiveProjectionRunner struct {
	*network.STDPProjection[kernel.AdditiveSTDPSynapse]
	store  *kernel.FutureImpacts
	params kernel.AdditiveSTDPParams
}

func NewSTDPAdditiveProjectionRunner(p *network.STDPProjection[kernel.AdditiveSTDPSynapse], params kernel.AdditiveSTDPParams) *STDPAdditiveProjectionRunner {
	return &STDPAdditiveProjectionRunner{STDPProjection: p, store: kernel.NewFutureImpacts(), params: params}
}

func (r *STDPAdditiveProjectionRunner) AdditionalSpikeSenders() []uid.UID {
	senders := make([]uid.UID, 0)
	for s := range r.Tracked() {
		senders = append(senders, s)
	}
	return senders
}

func (r *STDPAdditiveProjectionRunner) StepSpikes(spikes []message.SpikeMessage, currentStep uint64) {
	var inputSpikes, postSpikes []message.SpikeMessage
	for _, msg := range spikes {
		mode, tracked := r.ModeFor(msg.SenderUID)
		if !tracked {
			inputSpikes = append(inputSpikes, msg)
			continue
		}
		if mode == network.STDPAndSpike {
			inputSpikes = append(inputSpikes, msg)
		}
		postSpikes = append(postSpikes, msg)
	}
	kernel.StepAdditiveSTDPProjection(
		r.store, inputSpikes, postSpikes,
		r.BySourceIndexer(), r.ByTargetIndexer(),
		r.Pointers(), r.params, r.IsLocked(), currentStep,
	)
}

func (r *STDPAdditiveProjectionRunner) TakeDelivery(currentStep uint64) (message.SynapticImpactMessage, bool) {
	imps, ok := r.store.Take(currentStep)
	if !ok {
		return message.SynapticImpactMessage{}, false
	}
	return message.SynapticImpactMessage{
		SenderUID:                 r.UID(),
		SendTime:                  currentStep,
		PresynapticPopulationUID:  r.PresynapticUID(),
		PostsynapticPopulationUID: r.PostsynapticUID(),
		IsForcing:                 false,
		Impacts:                   imps,
	}, true
}

// ResourceSTDPProjectionRunner steps a synaptic-resource STDP projection
// (§4.5.4). It needs pointer access to the postsynaptic population's
// neurons (for DrainAndHebbian/ApplyDopamine), supplied at construction
// time by the backend that already owns both runners.
type ResourceSTDPProjectionRunner struct {
	*network.Projection[kernel.ResourceSTDPSynapse]
	store       *kernel.FutureImpacts
	postNeurons *ResourcePopulationRunner
}

func NewResourceSTDPProjectionRunner(p *network.Projection[kernel.ResourceSTDPSynapse], post *ResourcePopulationRunner) *ResourceSTDPProjectionRunner {
	return &ResourceSTDPProjectionRunner{Projection: p, store: kernel.NewFutureImpacts(), postNeurons: post}
}

func (r *ResourceSTDPProjectionRunner) AdditionalSpikeSenders() []uid.UID { return nil }

func (r *ResourceSTDPProjectionRunner) StepSpikes(spikes []message.SpikeMessage, currentStep uint64) {
	neurons := r.postNeurons.Neurons()
	neuronByTarget := func(target uint32) *kernel.ResourceSTDPNeuron {
		if int(target) >= len(neurons) {
			return &kernel.ResourceSTDPNeuron{}
		}
		return neurons[target]
	}

	touched := kernel.StepResourceSTDPProjection(
		r.store, spikes, r.BySourceIndexer(), r.Pointers(),
		neuronByTarget, r.IsLocked(), currentStep,
	)
	kernel.FinalizeResourceSTDPStep(touched, neurons, r.ByTargetIndexer(), r.Pointers(), currentStep)
}

func (r *ResourceSTDPProjectionRunner) TakeDelivery(currentStep uint64) (message.SynapticImpactMessage, bool) {
	imps, ok := r.store.Take(currentStep)
	if !ok {
		return message.SynapticImpactMessage{}, false
	}
	return message.SynapticImpactMessage{
		SenderUID:                 r.UID(),
		SendTime:                  currentStep,
		PresynapticPopulationUID:  r.PresynapticUID(),
		PostsynapticPopulationUID: r.PostsynapticUID(),
		IsForcing:                 false,
		Impacts:                   imps,
	}, true
}
