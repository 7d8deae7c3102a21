package kernel

import (
	"testing"

	"github.com/SynapticNetworks/stepnet/message"
)

func bySourceFromSlice(synapses []DeltaSynapse) SourceIndexer {
	idx := make(map[uint32][]int)
	for i, s := range synapses {
		idx[s.Source] = append(idx[s.Source], i)
	}
	return func(j uint32) []int { return idx[j] }
}

// S2 — delta projection delay.
func TestS2DeltaProjectionDelay(t *testing.T) {
	synapses := []DeltaSynapse{
		{Weight: 0.7, Delay: 3, OutputType: message.Excitatory, Source: 0, Target: 0},
	}
	store := NewFutureImpacts()
	bySource := bySourceFromSlice(synapses)

	spikes := []message.SpikeMessage{{SendTime: 10, NeuronIndexes: []uint32{0}}}
	StepDeltaSynapses(store, spikes, bySource, synapses, 10)

	for _, step := range []uint64{10, 11, 13} {
		if _, ok := store.Take(step); ok {
			t.Fatalf("expected no impact at step %d", step)
		}
	}

	imps, ok := store.Take(12)
	if !ok {
		t.Fatalf("expected an impact scheduled at step 12")
	}
	if len(imps) != 1 {
		t.Fatalf("expected exactly one impact, got %d", len(imps))
	}
	got := imps[0]
	if got.Value != 0.7 || got.Type != message.Excitatory || got.PresynapticNeuronIndex != 0 || got.PostsynapticNeuronIndex != 0 {
		t.Fatalf("unexpected impact: %+v", got)
	}
}

func TestDeltaSynapseRepeatedIndexScalesImpact(t *testing.T) {
	synapses := []DeltaSynapse{{Weight: 1.0, Delay: 1, OutputType: message.Excitatory, Source: 0, Target: 0}}
	store := NewFutureImpacts()
	bySource := bySourceFromSlice(synapses)

	spikes := []message.SpikeMessage{{SendTime: 5, NeuronIndexes: []uint32{0, 0, 0}}}
	StepDeltaSynapses(store, spikes, bySource, synapses, 5)

	imps, ok := store.Take(5)
	if !ok || len(imps) != 1 {
		t.Fatalf("expected one accumulated impact at step 5, got %v ok=%v", imps, ok)
	}
	if imps[0].Value != 3.0 {
		t.Fatalf("expected impact value scaled by multiplicity 3, got %v", imps[0].Value)
	}
}
