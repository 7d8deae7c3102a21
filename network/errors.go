/*
=================================================================================
NETWORK ERRORS - THE InvalidTopology AND InvariantViolation KINDS OF §7
=================================================================================

Grounded on synapse/synapse.go's sentinel-error convention
(var ErrSynapseInactive = errors.New(...)) for kinds with no payload, plus a
TopologyError carrying entity UID and step context for kinds §7 requires to
surface "sufficient context" to the start() caller.
=================================================================================
*/

package network

import (
	"errors"
	"fmt"

	"github.com/SynapticNetworks/stepnet/uid"
)

// ErrUnknownPopulation and ErrUnknownProjection are InvalidTopology errors
// raised by Network lookups against a UID it does not hold.
var (
	ErrUnknownPopulation = errors.New("network: unknown population UID")
	ErrUnknownProjection = errors.New("network: unknown projection UID")
)

// ErrInvalidDelay is the InvariantViolation raised when a synapse's delay
// is less than 1 (§3.4, §3.8 invariant 2).
var ErrInvalidDelay = errors.New("network: synapse delay must be >= 1")

// TopologyErrorKind classifies a TopologyError.
type TopologyErrorKind int

const (
	KindInvalidTopology TopologyErrorKind = iota
	KindInvariantViolation
)

// TopologyError carries the entity UID and (when known) the step at which
// a topology or invariant error was raised, per §7's "sufficient context"
// requirement.
type TopologyError struct {
	Kind      TopologyErrorKind
	EntityUID uid.UID
	Step      uint64
	Err       error
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("network: entity %s at step %d: %v", e.EntityUID, e.Step, e.Err)
}

func (e *TopologyError) Unwrap() error { return e.Err }

// NewTopologyError constructs a TopologyError wrapping err with entity/step
// context.
func NewTopologyError(kind TopologyErrorKind, entity uid.UID, step uint64, err error) *TopologyError {
	return &TopologyError{Kind: kind, EntityUID: entity, Step: step, Err: err}
}
