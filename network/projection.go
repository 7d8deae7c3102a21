/*
=================================================================================
PROJECTION - A DIRECTED, INDEXED BUNDLE OF SYNAPSES BETWEEN TWO POPULATIONS
=================================================================================

A Projection[S] links a presynaptic population UID to a postsynaptic
population UID and owns an ordered vector of synapses of one kind S (§3.8).
A nil presynaptic UID marks an *input* projection: it receives spikes from
an external source under the nil sentinel (invariant 4). The projection
maintains a secondary index by source and by target neuron index, rebuilt
lazily the first time it is consulted after a mutation — exactly the
"lazily rebuilt... after mutation" contract of §3.8.

SynapseRecord is satisfied structurally by every kernel synapse kind
(kernel.DeltaSynapse, kernel.AdditiveSTDPSynapse, kernel.ResourceSTDPSynapse)
without this package importing kernel: the constraint is duck-typed, in
keeping with Go's preference for small, locally-declared interfaces.

Grounded on extracellular/registry.go's map-backed lookup pattern,
generalized from a flat map to Projection's two disjoint indices plus the
dirty-bit reindex-on-demand discipline §4.4 specifies.
=================================================================================
*/

package network

import (
	"github.com/SynapticNetworks/stepnet/uid"
)

// SynapseRecord is the minimal shape a projection's synapse kind must
// expose so Projection[S] can build and query its source/target indices,
// plus its delay for the §3.8 invariant (2) check (delay >= 1 step).
type SynapseRecord interface {
	SourceIndex() uint32
	TargetIndex() uint32
	DelaySteps() uint32
}

// Search selects which secondary index FindSynapses consults (§4.4).
type Search int

const (
	ByPresynaptic Search = iota
	ByPostsynaptic
)

// Projection is a directed, indexed bundle of synapses of kind S.
type Projection[S SynapseRecord] struct {
	base uid.BaseData

	presynapticUID  uid.UID
	postsynapticUID uid.UID

	synapses []S

	bySource map[uint32][]int
	byTarget map[uint32][]int
	dirty    bool

	locked bool
}

// NewProjection constructs a projection from presynaptic to postsynaptic,
// invoking gen(i) for i in [0, count) and keeping every slot gen accepts
// whose delay satisfies §3.8 invariant (2). Returns ErrInvalidDelay if any
// slot's delay is less than 1; the projection is still returned, holding
// every synapse that did pass validation.
func NewProjection[S SynapseRecord](presynaptic, postsynaptic uid.UID, gen Generator[S], count uint64) (*Projection[S], error) {
	p := &Projection[S]{
		base:            uid.NewBaseData(),
		presynapticUID:  presynaptic,
		postsynapticUID: postsynaptic,
	}
	_, err := p.AddSynapsesFromGenerator(gen, count)
	return p, err
}

func (p *Projection[S]) UID() uid.UID             { return p.base.UID }
func (p *Projection[S]) Tags() *uid.TagMap         { return p.base.Tags }
func (p *Projection[S]) PresynapticUID() uid.UID   { return p.presynapticUID }
func (p *Projection[S]) PostsynapticUID() uid.UID  { return p.postsynapticUID }
func (p *Projection[S]) IsInputProjection() bool   { return p.presynapticUID.IsNil() }
func (p *Projection[S]) Size() int                 { return len(p.synapses) }
func (p *Projection[S]) IsLocked() bool            { return p.locked }
func (p *Projection[S]) LockWeights()              { p.locked = true }
func (p *Projection[S]) UnlockWeights()             { p.locked = false }

// Synapses returns the projection's synapse records for read-only
// iteration.
func (p *Projection[S]) Synapses() []S { return p.synapses }

// At returns a pointer to synapse i, for in-place mutation by a kernel
// step or plasticity function.
func (p *Projection[S]) At(i int) *S { return &p.synapses[i] }

// Pointers returns one *S per synapse, in index order, for callers that
// hand a kernel step function a []*S it mutates in place.
func (p *Projection[S]) Pointers() []*S {
	out := make([]*S, len(p.synapses))
	for i := range p.synapses {
		out[i] = &p.synapses[i]
	}
	return out
}

// AddSynapsesFromGenerator invokes gen(i) for i in [0, count), continuing
// the index sequence from the projection's current size, and appends every
// accepted synapse whose delay is valid (§3.8 invariant 2). Returns the
// number added and, if any accepted slot's delay was less than 1,
// ErrInvalidDelay — that slot is skipped rather than appended, and every
// other valid slot is still kept.
func (p *Projection[S]) AddSynapsesFromGenerator(gen Generator[S], count uint64) (int, error) {
	start := uint64(len(p.synapses))
	added := 0
	var firstErr error
	for i := uint64(0); i < count; i++ {
		s, ok := gen(start + i)
		if !ok {
			continue
		}
		if s.DelaySteps() < 1 {
			if firstErr == nil {
				firstErr = ErrInvalidDelay
			}
			continue
		}
		p.synapses = append(p.synapses, s)
		added++
	}
	if added > 0 {
		p.dirty = true
	}
	return added, firstErr
}

// AddSynapses appends a literal slice of already-built synapses (the
// from_container connector's use case), rejecting any whose delay is
// invalid (§3.8 invariant 2). Returns the number added and, if any slot was
// rejected, ErrInvalidDelay.
func (p *Projection[S]) AddSynapses(synapses []S) (int, error) {
	if len(synapses) == 0 {
		return 0, nil
	}
	added := 0
	var firstErr error
	for _, s := range synapses {
		if s.DelaySteps() < 1 {
			if firstErr == nil {
				firstErr = ErrInvalidDelay
			}
			continue
		}
		p.synapses = append(p.synapses, s)
		added++
	}
	if added > 0 {
		p.dirty = true
	}
	return added, firstErr
}

// RemoveSynapse deletes the synapse at index i. Reports whether i was in
// range.
func (p *Projection[S]) RemoveSynapse(i int) bool {
	if i < 0 || i >= len(p.synapses) {
		return false
	}
	p.synapses = append(p.synapses[:i], p.synapses[i+1:]...)
	p.dirty = true
	return true
}

// RemoveSynapseIf deletes every synapse for which predicate returns true
// and returns the number removed.
func (p *Projection[S]) RemoveSynapseIf(predicate func(S) bool) int {
	kept := p.synapses[:0]
	removed := 0
	for _, s := range p.synapses {
		if predicate(s) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	p.synapses = kept
	if removed > 0 {
		p.dirty = true
	}
	return removed
}

// RemovePresynapticNeuronSynapses deletes every synapse sourced from
// neuron index j and returns the number removed.
func (p *Projection[S]) RemovePresynapticNeuronSynapses(j uint32) int {
	return p.RemoveSynapseIf(func(s S) bool { return s.SourceIndex() == j })
}

// RemovePostsynapticNeuronSynapses deletes every synapse targeting neuron
// index j and returns the number removed.
func (p *Projection[S]) RemovePostsynapticNeuronSynapses(j uint32) int {
	return p.RemoveSynapseIf(func(s S) bool { return s.TargetIndex() == j })
}

// FindSynapses returns the indices of every synapse matching neuronIndex
// under the given search mode, rebuilding the secondary index first if it
// is stale.
func (p *Projection[S]) FindSynapses(neuronIndex uint32, mode Search) []int {
	p.reindex()
	if mode == ByPresynaptic {
		return append([]int(nil), p.bySource[neuronIndex]...)
	}
	return append([]int(nil), p.byTarget[neuronIndex]...)
}

// BySourceIndexer returns a lookup function suitable for the kernel step
// functions (kernel.SourceIndexer), rebuilding the index first if stale.
func (p *Projection[S]) BySourceIndexer() func(j uint32) []int {
	p.reindex()
	return func(j uint32) []int { return p.bySource[j] }
}

// ByTargetIndexer mirrors BySourceIndexer for the postsynaptic index.
func (p *Projection[S]) ByTargetIndexer() func(j uint32) []int {
	p.reindex()
	return func(j uint32) []int { return p.byTarget[j] }
}

func (p *Projection[S]) reindex() {
	if !p.dirty && p.bySource != nil {
		return
	}
	p.bySource = make(map[uint32][]int, len(p.synapses))
	p.byTarget = make(map[uint32][]int, len(p.synapses))
	for i, s := range p.synapses {
		src := s.SourceIndex()
		tgt := s.TargetIndex()
		p.bySource[src] = append(p.bySource[src], i)
		p.byTarget[tgt] = append(p.byTarget[tgt], i)
	}
	p.dirty = false
}

// ProcessingMode distinguishes how an STDP projection treats spikes from a
// tracked ("plastic") presynaptic population (§4.4, §4.5.3).
type ProcessingMode int

const (
	// STDPOnly: spikes from this sender only append to the postsynaptic
	// spike-time queue; they are not treated as delta-synapse input.
	STDPOnly ProcessingMode = iota
	// STDPAndSpike: spikes from this sender are both delta-synapse input
	// and queued as postsynaptic events.
	STDPAndSpike
)

// STDPProjection wraps a Projection[S] with the set of plastic presynaptic
// population UIDs and their processing mode, used by STDP-flavored
// projections (§3.8, §4.5.3).
type STDPProjection[S SynapseRecord] struct {
	*Projection[S]

	plastic map[uid.UID]ProcessingMode
}

// NewSTDPProjection wraps an existing projection with STDP bookkeeping.
func NewSTDPProjection[S SynapseRecord](p *Projection[S]) *STDPProjection[S] {
	return &STDPProjection[S]{Projection: p, plastic: make(map[uid.UID]ProcessingMode)}
}

// TrackPresynaptic marks sender as a plastic presynaptic population under
// mode, for STDP bookkeeping.
func (p *STDPProjection[S]) TrackPresynaptic(sender uid.UID, mode ProcessingMode) {
	p.plastic[sender] = mode
}

// ModeFor reports the processing mode for sender, if tracked.
func (p *STDPProjection[S]) ModeFor(sender uid.UID) (ProcessingMode, bool) {
	m, ok := p.plastic[sender]
	return m, ok
}

// Tracked returns every plastic presynaptic population UID this projection
// subscribes to, with its processing mode.
func (p *STDPProjection[S]) Tracked() map[uid.UID]ProcessingMode {
	return p.plastic
}
