/*
=================================================================================
SYNAPTIC-RESOURCE NEURON - BLIFAT WRAPPED WITH RESOURCE-POOL BOOKKEEPING
=================================================================================

ResourceSTDPNeuron wraps BLIFATNeuron (§3.3): the decay/integrate/fire state
machine is unchanged, but each neuron also owns a free synaptic resource
pool, a stability estimate, and the per-neuron ISI (inter-spike interval)
tracking the synaptic-resource STDP rule (kernel/stdp_resource.go) reads and
writes once per step.
=================================================================================
*/

package kernel

// ISIStatus is the per-neuron inter-spike-interval phase used by the
// synaptic-resource STDP rule to decide whether a Hebbian update is due and
// whether resource redistribution may run (§4.5.4).
type ISIStatus int

const (
	NotInPeriod ISIStatus = iota
	PeriodStarted
	PeriodContinued
	IsForced
)

func (s ISIStatus) String() string {
	switch s {
	case NotInPeriod:
		return "not_in_period"
	case PeriodStarted:
		return "period_started"
	case PeriodContinued:
		return "period_continued"
	case IsForced:
		return "is_forced"
	default:
		return "unknown"
	}
}

// ResourceSTDPNeuron is a BLIFATNeuron extended with the synaptic-resource
// rule's per-neuron state (§3.3).
type ResourceSTDPNeuron struct {
	BLIFATNeuron

	FreeSynapticResource      float64
	SynapticResourceThreshold float64
	ResourceDrainCoefficient  float64

	Stability                float64
	StabilityChangeParameter float64
	StabilityChangeAtISI     float64

	ISIMax        uint64
	DH            float64 // d_h_: the neuron's base Hebbian increment
	Status        ISIStatus
	LastStep      uint64
	FirstISISpike uint64
	IsBeingForced bool
	DopamineValue float64
}

// NewDefaultResourceSTDPNeuron returns a resting synaptic-resource neuron
// wrapping a resting BLIFAT neuron.
func NewDefaultResourceSTDPNeuron() ResourceSTDPNeuron {
	return ResourceSTDPNeuron{
		BLIFATNeuron: NewDefaultBLIFATNeuron(),
		Status:       NotInPeriod,
	}
}

// UpdateISIStatus advances the neuron's ISI phase on a spike arriving at
// step, per the table in §4.5.4. An incoming forcing impact overrides the
// phase to IsForced and does not advance LastStep.
func UpdateISIStatus(neuron *ResourceSTDPNeuron, step uint64, isForcing bool) {
	if isForcing {
		neuron.Status = IsForced
		return
	}

	delta := step - neuron.LastStep
	switch neuron.Status {
	case NotInPeriod, IsForced:
		neuron.Status = PeriodStarted
		neuron.FirstISISpike = step
	case PeriodStarted:
		if delta < neuron.ISIMax {
			neuron.Status = PeriodContinued
		}
	case PeriodContinued:
		if delta < neuron.ISIMax {
			neuron.Status = PeriodContinued
		} else {
			neuron.Status = NotInPeriod
		}
	}
	neuron.LastStep = step
}

// InISIPeriod reports whether the neuron is currently inside an ISI period
// (used to gate resource redistribution, §4.5.4).
func (n *ResourceSTDPNeuron) InISIPeriod() bool {
	return n.Status == PeriodStarted || n.Status == PeriodContinued
}

// SetDopamineSignal arms the neuron's pending dopamine modulation for the
// synaptic-resource STDP rule's per-step pass (ApplyDopamine): the §6
// reward-input collaborator this package does not itself implement calls
// this between steps. The signal stays in effect until the caller sets it
// back to zero; ApplyDopamine is a no-op while DopamineValue is zero.
func (n *ResourceSTDPNeuron) SetDopamineSignal(value float64, forced bool) {
	n.DopamineValue = value
	n.IsBeingForced = forced
}
