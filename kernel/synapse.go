/*
=================================================================================
DELTA SYNAPSE - INSTANTANEOUS WEIGHTED PROJECTION STEP
=================================================================================

DeltaSynapse is the plain synapse kind of §3.4/§4.5.2: a weight, an integer
delay of at least one step, and an output type selecting how its impact
affects the postsynaptic neuron (see BLIFATNeuron.applyImpact). The step
function below drains inbound spikes and schedules a SynapticImpactMessage
for delivery exactly delay-1 steps after the spike that caused it (§4.5.2,
properties P4/P5).

Grounded on the same decay-then-integrate phase structure as blifat.go;
the "future_messages" accumulator is FutureImpacts, a map keyed by delivery
step rather than a ring buffer, since delay is unbounded and per-synapse.
=================================================================================
*/

package kernel

import "github.com/SynapticNetworks/stepnet/message"

// DeltaSynapse is the per-synapse record of a delta-synapse projection,
// including the source/target neuron indices the spec requires every
// synapse to carry alongside its parameters (§3.8).
type DeltaSynapse struct {
	Weight     float32
	Delay      uint32
	OutputType message.OutputType
	Source     uint32
	Target     uint32
}

// SourceIndex, TargetIndex, and DelaySteps satisfy network.SynapseRecord
// structurally, without kernel importing the network package.
func (s DeltaSynapse) SourceIndex() uint32 { return s.Source }
func (s DeltaSynapse) TargetIndex() uint32 { return s.Target }
func (s DeltaSynapse) DelaySteps() uint32  { return s.Delay }

// SourceIndexer looks up the synapse indices whose presynaptic neuron index
// is j. Projections own the index (§3.8: "secondary index keyed by source
// index and by target index"); kernel functions only consume it.
type SourceIndexer func(j uint32) []int

// FutureImpacts is the per-projection accumulator of §4.5.2's
// "future_messages" map: impacts scheduled for a delivery step not yet
// reached accumulate here until Take is called for that step.
type FutureImpacts struct {
	pending map[uint64][]message.Impact
}

// NewFutureImpacts returns an empty accumulator.
func NewFutureImpacts() *FutureImpacts {
	return &FutureImpacts{pending: make(map[uint64][]message.Impact)}
}

func (f *FutureImpacts) schedule(step uint64, imp message.Impact) {
	f.pending[step] = append(f.pending[step], imp)
}

// Take removes and returns the impacts scheduled for delivery at step, if
// any (§4.5.2 step 3: look up future_messages[s], send if present, remove).
func (f *FutureImpacts) Take(step uint64) ([]message.Impact, bool) {
	imps, ok := f.pending[step]
	if ok {
		delete(f.pending, step)
	}
	return imps, ok
}

// countIndexes tallies how many times each neuron index occurs in a spike
// message's NeuronIndexes, so a repeated index scales its impact by the
// count instead of producing duplicate impact entries (§4.5.2).
func countIndexes(indexes []uint32) map[uint32]int {
	counts := make(map[uint32]int, len(indexes))
	for _, j := range indexes {
		counts[j]++
	}
	return counts
}

// StepDeltaSynapses implements §4.5.2 steps 1-2 for one projection: for
// every presynaptic neuron index named by an inbound spike message, looks
// up the synapses sourced from it and schedules a future impact at
// currentStep + delay - 1 (the message's own SendTime is not read). Step 3 (draining the current step's entry) is the
// caller's responsibility via store.Take, since the caller also owns
// sending the resulting SynapticImpactMessage on the fabric.
func StepDeltaSynapses(store *FutureImpacts, spikes []message.SpikeMessage, bySource SourceIndexer, synapses []DeltaSynapse, currentStep uint64) {
	for _, msg := range spikes {
		counts := countIndexes(msg.NeuronIndexes)
		for j, c := range counts {
			for _, idx := range bySource(j) {
				syn := synapses[idx]
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
}
