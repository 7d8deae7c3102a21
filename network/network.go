/*
=================================================================================
NETWORK - THE OWNING GRAPH OF POPULATIONS AND PROJECTIONS
=================================================================================

Network owns populations and projections as two flat UID-keyed collections
(§3.9). It never stores a concrete *Population[T] or *Projection[S] type
parameter directly — only the narrow PopulationHandle/ProjectionHandle
interfaces every instantiation satisfies — so a network can mix BLIFAT and
synaptic-resource populations, or delta and STDP projections, in one graph
(§9's "Vec<Variant>" note, realized here as an interface rather than a
tagged enum: idiomatic in Go, per DESIGN.md).

Lookups never follow a direct pointer between a population and a
projection: every cross-reference is by UID, resolved back through the
Network on demand. That indirection is what lets cycles in the
population<->projection graph exist without a reference cycle in memory
(§9's cycle-handling note) — the message fabric, not a pointer, is what
actually carries traffic around the cycle at runtime.

Grounded on extracellular/registry.go's ComponentRegistry: a
map[string]ComponentInfo guarded by sync.RWMutex, generalized here to two
maps keyed by uid.UID instead of string, and typed by interface instead of
a loosely-typed ComponentInfo struct.
=================================================================================
*/

package network

import (
	"sync"

	"github.com/SynapticNetworks/stepnet/uid"
)

// PopulationHandle is the narrow interface Network stores, satisfied by
// every *Population[T] instantiation.
type PopulationHandle interface {
	UID() uid.UID
	Size() int
}

// ProjectionHandle is the narrow interface Network stores, satisfied by
// every *Projection[S] (and *STDPProjection[S]) instantiation.
type ProjectionHandle interface {
	UID() uid.UID
	PresynapticUID() uid.UID
	PostsynapticUID() uid.UID
	IsLocked() bool
	LockWeights()
	UnlockWeights()
}

// Network owns populations and projections, keyed by UID, and carries its
// own UID as the serialization root (§3.9, §6).
type Network struct {
	base uid.BaseData

	mu          sync.RWMutex
	populations map[uid.UID]PopulationHandle
	projections map[uid.UID]ProjectionHandle
}

// NewNetwork returns an empty network with a fresh UID.
func NewNetwork() *Network {
	return &Network{
		base:        uid.NewBaseData(),
		populations: make(map[uid.UID]PopulationHandle),
		projections: make(map[uid.UID]ProjectionHandle),
	}
}

// UID returns the network's own identity, used as the serialization root.
func (n *Network) UID() uid.UID { return n.base.UID }

// AddPopulation attaches p to the network, keyed by its own UID.
func (n *Network) AddPopulation(p PopulationHandle) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.populations[p.UID()] = p
}

// AddProjection attaches p to the network, keyed by its own UID.
func (n *Network) AddProjection(p ProjectionHandle) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.projections[p.UID()] = p
}

// RemovePopulation detaches the population identified by id. Reports
// whether it was present.
func (n *Network) RemovePopulation(id uid.UID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.populations[id]; !ok {
		return false
	}
	delete(n.populations, id)
	return true
}

// RemoveProjection detaches the projection identified by id. Reports
// whether it was present.
func (n *Network) RemoveProjection(id uid.UID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.projections[id]; !ok {
		return false
	}
	delete(n.projections, id)
	return true
}

// Population looks up a population by UID.
func (n *Network) Population(id uid.UID) (PopulationHandle, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	p, ok := n.populations[id]
	if !ok {
		return nil, NewTopologyError(KindInvalidTopology, id, 0, ErrUnknownPopulation)
	}
	return p, nil
}

// Projection looks up a projection by UID.
func (n *Network) Projection(id uid.UID) (ProjectionHandle, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	p, ok := n.projections[id]
	if !ok {
		return nil, NewTopologyError(KindInvalidTopology, id, 0, ErrUnknownProjection)
	}
	return p, nil
}

// Populations returns every population currently attached, in no
// guaranteed order.
func (n *Network) Populations() []PopulationHandle {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]PopulationHandle, 0, len(n.populations))
	for _, p := range n.populations {
		out = append(out, p)
	}
	return out
}

// Projections returns every projection currently attached, in no
// guaranteed order.
func (n *Network) Projections() []ProjectionHandle {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]ProjectionHandle, 0, len(n.projections))
	for _, p := range n.projections {
		out = append(out, p)
	}
	return out
}

// SetLearning flips weight-lock on every projection the network owns
// (backend.StartLearning/StopLearning, §4.6.1).
func (n *Network) SetLearning(enabled bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, p := range n.projections {
		if enabled {
			p.UnlockWeights()
		} else {
			p.LockWeights()
		}
	}
}
