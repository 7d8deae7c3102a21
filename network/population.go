/*
=================================================================================
POPULATION - AN ORDERED, UID-TAGGED GROUP OF ONE NEURON KIND
=================================================================================

A Population[T] is an ordered, zero-indexed vector of neuron parameter
records of a single kind T, plus a stable UID (§3.7). Kind is fixed for the
population's lifetime by the type parameter itself — there is no runtime
tag to get out of sync with the stored records, which is the Go-idiomatic
reading of §9's "Variant is a tagged sum over supported kinds" note (the
PopulationHandle interface and the backend's per-kind runners stand in for
the tagged union; see DESIGN.md).

Grounded on extracellular/registry.go's map+mutex-free simple slice
ownership pattern, generalized to the generator-constructor and
stable-index-on-removal semantics §4.4 calls for.
=================================================================================
*/

package network

import (
	"sort"

	"github.com/SynapticNetworks/stepnet/uid"
)

// Generator yields the neuron record for slot i, or (zero, false) to skip
// that slot — skipping compresses the resulting population, it does not
// leave a hole (§4.4: "the resulting population is densely re-indexed").
type Generator[T any] func(i uint64) (T, bool)

// Population is an ordered group of neurons of one kind T.
type Population[T any] struct {
	base    uid.BaseData
	neurons []T
}

// NewPopulation invokes gen(i) for i in [0, count) and keeps every slot for
// which gen returns true, re-indexed densely.
func NewPopulation[T any](gen Generator[T], count uint64) *Population[T] {
	p := &Population[T]{base: uid.NewBaseData()}
	p.AddNeurons(gen, count)
	return p
}

// UID returns the population's stable identity.
func (p *Population[T]) UID() uid.UID { return p.base.UID }

// Tags returns the population's tag map.
func (p *Population[T]) Tags() *uid.TagMap { return p.base.Tags }

// Size returns the current neuron count.
func (p *Population[T]) Size() int { return len(p.neurons) }

// At returns a pointer to the neuron record at index i, for in-place
// mutation by a kernel step function.
func (p *Population[T]) At(i int) *T { return &p.neurons[i] }

// All returns the population's neuron records as a value slice, safe for
// read-only iteration.
func (p *Population[T]) All() []T { return p.neurons }

// Pointers returns one *T per neuron, in index order, for callers (the
// backend) that need to hand a kernel step function a []*T it can mutate
// in place (e.g. kernel.StepBLIFATPopulation).
func (p *Population[T]) Pointers() []*T {
	out := make([]*T, len(p.neurons))
	for i := range p.neurons {
		out[i] = &p.neurons[i]
	}
	return out
}

// AddNeurons appends up to count newly generated neurons, continuing the
// index sequence passed to gen from the population's current size, and
// returns how many were actually added (gen may skip slots).
func (p *Population[T]) AddNeurons(gen Generator[T], count uint64) int {
	start := uint64(len(p.neurons))
	added := 0
	for i := uint64(0); i < count; i++ {
		if v, ok := gen(start + i); ok {
			p.neurons = append(p.neurons, v)
			added++
		}
	}
	return added
}

// RemoveNeuron deletes the neuron at index i, shifting later neurons down
// by one (stable relative order for survivors, §3.10). Reports whether i
// was in range.
func (p *Population[T]) RemoveNeuron(i int) bool {
	if i < 0 || i >= len(p.neurons) {
		return false
	}
	p.neurons = append(p.neurons[:i], p.neurons[i+1:]...)
	return true
}

// RemoveNeurons deletes every neuron named in indices (duplicates
// tolerated) and returns the number actually removed.
func (p *Population[T]) RemoveNeurons(indices []int) int {
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	removed := 0
	last := -1
	for _, idx := range sorted {
		if idx == last {
			continue
		}
		last = idx
		if p.RemoveNeuron(idx) {
			removed++
		}
	}
	return removed
}
