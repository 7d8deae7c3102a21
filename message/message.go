/*
=================================================================================
MESSAGE TYPES - SPIKES AND SYNAPTIC IMPACTS
=================================================================================

Exactly two payload kinds travel through the fabric (see package fabric):

  - SpikeMessage: produced by a population at the end of its step, naming
    every neuron index that crossed threshold this step.
  - SynapticImpactMessage: produced by a projection, carrying the per-synapse
    effect a future step's population must apply.

Both are plain, serializable structs; neither holds a lock or a callback.
All the decoupling between populations and projections happens through the
fabric (package fabric), never through a direct reference here.
=================================================================================
*/

package message

import "github.com/SynapticNetworks/stepnet/uid"

// OutputType classifies the biological effect a synaptic impact has on its
// target neuron (§3.4, §4.5.1).
type OutputType int

const (
	Excitatory OutputType = iota
	InhibitoryCurrent
	InhibitoryConductance
	Dopamine
	Blocking
)

func (t OutputType) String() string {
	switch t {
	case Excitatory:
		return "Excitatory"
	case InhibitoryCurrent:
		return "InhibitoryCurrent"
	case InhibitoryConductance:
		return "InhibitoryConductance"
	case Dopamine:
		return "Dopamine"
	case Blocking:
		return "Blocking"
	default:
		return "Unknown"
	}
}

// SpikeMessage is produced by populations and consumed by projections.
// A neuron index may repeat in NeuronIndexes; each repetition counts as one
// additional contribution when a projection computes impact magnitude
// (§4.5.2).
type SpikeMessage struct {
	SenderUID     uid.UID
	SendTime      uint64
	NeuronIndexes []uint32
}

// Impact is the effect of a single synapse on a single postsynaptic neuron.
type Impact struct {
	SynapseIndex             uint64
	Value                     float32
	Type                      OutputType
	PresynapticNeuronIndex    uint32
	PostsynapticNeuronIndex   uint32
}

// SynapticImpactMessage is produced by projections and consumed by
// populations. IsForcing is true for plain delta synapses (bypasses
// plasticity gating) and false for STDP-gated variants (§4.2).
type SynapticImpactMessage struct {
	SenderUID                 uid.UID
	SendTime                  uint64
	PresynapticPopulationUID  uid.UID
	PostsynapticPopulationUID uid.UID
	IsForcing                 bool
	Impacts                   []Impact
}

// Type is the tag distinguishing the two payload kinds in the wire envelope
// (envelope.go) and in fabric subscriptions.
type Type int

const (
	TypeSpike Type = iota
	TypeSynapticImpact
)

func (t Type) String() string {
	switch t {
	case TypeSpike:
		return "SpikeMessage"
	case TypeSynapticImpact:
		return "SynapticImpactMessage"
	default:
		return "Unknown"
	}
}
