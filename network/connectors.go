/*
=================================================================================
CONNECTORS - PURE GRAPH-SHAPE GENERATORS FOR PROJECTION CONSTRUCTION
=================================================================================

Each connector is a pure function returning a Generator[S] (§4.4's
"graph-level connector library... emitting generators"): it decides which
(source, target) neuron-index pairs exist, and hands each accepted pair to
a caller-supplied SynapseFactory to build the actual synapse record. This
keeps the connector library entirely ignorant of which synapse kind S it is
wiring — the same AllToAll works for kernel.DeltaSynapse,
kernel.AdditiveSTDPSynapse, or kernel.ResourceSTDPSynapse.

FixedProbability and FixedNumberPre/Post are grounded on
gonum.org/v1/gonum/stat/distuv's Bernoulli and Uniform distributions rather
than hand-rolled math/rand sampling, since gonum is a real dependency
exercised elsewhere in the retrieved corpus (see DESIGN.md).
=================================================================================
*/

package network

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/SynapticNetworks/stepnet/uid"
)

// SynapseFactory builds the synapse record for an accepted (source, target)
// pair.
type SynapseFactory[S SynapseRecord] func(source, target uint32) S

// AllToAll connects every one of n presynaptic neurons to every one of m
// postsynaptic neurons (n*m synapses).
func AllToAll[S SynapseRecord](n, m uint64, factory SynapseFactory[S]) Generator[S] {
	total := n * m
	return func(i uint64) (S, bool) {
		var zero S
		if i >= total {
			return zero, false
		}
		source := uint32(i / m)
		target := uint32(i % m)
		return factory(source, target), true
	}
}

// OneToOne connects neuron i of the presynaptic population to neuron i of
// the postsynaptic population; the caller is responsible for n matching
// both population sizes (§4.4: "requires equal-sized populations").
func OneToOne[S SynapseRecord](n uint64, factory SynapseFactory[S]) Generator[S] {
	return func(i uint64) (S, bool) {
		var zero S
		if i >= n {
			return zero, false
		}
		return factory(uint32(i), uint32(i)), true
	}
}

// FixedProbability draws a Bernoulli(p) trial independently for every one
// of the n*m (source, target) pairs and keeps the pair when the trial
// succeeds.
func FixedProbability[S SynapseRecord](n, m uint64, p float64, src rand.Source, factory SynapseFactory[S]) Generator[S] {
	total := n * m
	trial := distuv.Bernoulli{P: p, Src: src}
	return func(i uint64) (S, bool) {
		var zero S
		if i >= total {
			return zero, false
		}
		source := uint32(i / m)
		target := uint32(i % m)
		if trial.Rand() == 0 {
			return zero, false
		}
		return factory(source, target), true
	}
}

// FixedNumberPre connects k presynaptic neurons, sampled with replacement
// from a uniform distribution over the n presynaptic indices, to each of
// the m postsynaptic neurons.
func FixedNumberPre[S SynapseRecord](n, m, k uint64, src rand.Source, factory SynapseFactory[S]) Generator[S] {
	total := m * k
	draw := distuv.Uniform{Min: 0, Max: float64(n), Src: src}
	return func(i uint64) (S, bool) {
		var zero S
		if i >= total {
			return zero, false
		}
		target := uint32(i / k)
		source := uint32(math.Min(float64(n-1), math.Floor(draw.Rand())))
		return factory(source, target), true
	}
}

// FixedNumberPost connects k postsynaptic neurons, sampled with
// replacement from a uniform distribution over the m postsynaptic indices,
// to each of the n presynaptic neurons.
func FixedNumberPost[S SynapseRecord](n, m, k uint64, src rand.Source, factory SynapseFactory[S]) Generator[S] {
	total := n * k
	draw := distuv.Uniform{Min: 0, Max: float64(m), Src: src}
	return func(i uint64) (S, bool) {
		var zero S
		if i >= total {
			return zero, false
		}
		source := uint32(i / k)
		target := uint32(math.Min(float64(m-1), math.Floor(draw.Rand())))
		return factory(source, target), true
	}
}

// FromContainer builds a generator over an already-built slice of synapses
// (the literal-construction connector, §4.4's from_container).
func FromContainer[S SynapseRecord](synapses []S) Generator[S] {
	return func(i uint64) (S, bool) {
		var zero S
		if i >= uint64(len(synapses)) {
			return zero, false
		}
		return synapses[i], true
	}
}

// FromMap builds a generator over a sparse index -> synapse map (§4.4's
// from_map), enumerating keys in ascending order for determinism.
func FromMap[S SynapseRecord](synapses map[uint64]S) Generator[S] {
	keys := make([]uint64, 0, len(synapses))
	for k := range synapses {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })
	return func(i uint64) (S, bool) {
		var zero S
		if i >= uint64(len(keys)) {
			return zero, false
		}
		return synapses[keys[i]], true
	}
}

// CloneProjection builds a shape-preserving copy of source: same
// (source_index, target_index) pairs in the same order, but with freshly
// generated parameters from synGen, and optionally retargeted to new
// presynaptic/postsynaptic population UIDs (a nil pre or post pointer keeps
// the original endpoint). Returns ErrInvalidDelay if synGen produces an
// invalid delay for any synapse (§3.8 invariant 2).
func CloneProjection[S SynapseRecord](source *Projection[S], synGen func(old S) S, pre, post *uid.UID) (*Projection[S], error) {
	presynaptic := source.PresynapticUID()
	if pre != nil {
		presynaptic = *pre
	}
	postsynaptic := source.PostsynapticUID()
	if post != nil {
		postsynaptic = *post
	}

	originals := source.Synapses()
	fresh := make([]S, len(originals))
	for i, s := range originals {
		fresh[i] = synGen(s)
	}

	return NewProjection(presynaptic, postsynaptic, FromContainer(fresh), uint64(len(fresh)))
}
