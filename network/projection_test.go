package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SynapticNetworks/stepnet/uid"
)

type testSynapse struct {
	Weight float32
	Source uint32
	Target uint32
}

func (s testSynapse) SourceIndex() uint32 { return s.Source }
func (s testSynapse) TargetIndex() uint32 { return s.Target }
func (s testSynapse) DelaySteps() uint32  { return 1 }

func TestProjectionFindSynapsesAfterReindex(t *testing.T) {
	gen := AllToAll(2, 2, func(source, target uint32) testSynapse {
		return testSynapse{Weight: 1, Source: source, Target: target}
	})
	p, err := NewProjection[testSynapse](uid.New(), uid.New(), gen, 4)
	require.NoError(t, err)

	bySource0 := p.FindSynapses(0, ByPresynaptic)
	assert.Len(t, bySource0, 2, "synapses sourced from neuron 0")

	byTarget1 := p.FindSynapses(1, ByPostsynaptic)
	assert.Len(t, byTarget1, 2, "synapses targeting neuron 1")
}

func TestProjectionReindexAfterRemoval(t *testing.T) {
	gen := AllToAll(2, 2, func(source, target uint32) testSynapse {
		return testSynapse{Weight: 1, Source: source, Target: target}
	})
	p, err := NewProjection[testSynapse](uid.New(), uid.New(), gen, 4)
	require.NoError(t, err)

	removed := p.RemovePresynapticNeuronSynapses(0)
	require.Equal(t, 2, removed, "synapses removed")
	assert.Empty(t, p.FindSynapses(0, ByPresynaptic), "no synapses left sourced from neuron 0")
	assert.Len(t, p.FindSynapses(1, ByPresynaptic), 2, "synapses still sourced from neuron 1")
}

func TestProjectionWeightLockFlag(t *testing.T) {
	p, err := NewProjection[testSynapse](uid.Nil, uid.New(), FromContainer([]testSynapse{{Weight: 1}}), 1)
	require.NoError(t, err)
	assert.False(t, p.IsLocked(), "unlocked by default")
	p.LockWeights()
	assert.True(t, p.IsLocked(), "locked after LockWeights")
	p.UnlockWeights()
	assert.False(t, p.IsLocked(), "unlocked after UnlockWeights")
}

func TestInputProjectionHasNilPresynapticUID(t *testing.T) {
	p, err := NewProjection[testSynapse](uid.Nil, uid.New(), FromContainer(nil), 0)
	require.NoError(t, err)
	assert.True(t, p.IsInputProjection(), "nil presynaptic UID marks an input projection")
}

func TestProjectionRejectsZeroDelaySynapse(t *testing.T) {
	gen := func(i uint64) (testSynapseWithDelay, bool) {
		if i >= 2 {
			return testSynapseWithDelay{}, false
		}
		return testSynapseWithDelay{Source: uint32(i), Target: uint32(i), Delay: uint32(i)}, true
	}
	p, err := NewProjection[testSynapseWithDelay](uid.New(), uid.New(), gen, 2)
	require.ErrorIs(t, err, ErrInvalidDelay)
	assert.Equal(t, 1, p.Size(), "only the synapse with a valid delay is kept")
}

type testSynapseWithDelay struct {
	Source, Target, Delay uint32
}

func (s testSynapseWithDelay) SourceIndex() uint32 { return s.Source }
func (s testSynapseWithDelay) TargetIndex() uint32 { return s.Target }
func (s testSynapseWithDelay) DelaySteps() uint32  { return s.Delay }
