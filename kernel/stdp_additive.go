/*
=================================================================================
STDP (ADDITIVE) - EXPONENTIAL PRE/POST SPIKE-TIMING WEIGHT UPDATE
=================================================================================

AdditiveSTDPSynapse extends DeltaSynapse with the bounded spike-time queues
of §3.5/§4.5.3. Weight updates are applied once both queues reach length
tau_plus+tau_minus, summing the classic asymmetric-exponential STDP kernel
over every (pre, post) pair before clearing both queues.

Grounded on synapse/plasticity.go's CalculateSTDPWeightChange: same
asymmetric-exponential shape (potentiate on positive lag, depress on
negative lag) and the same bounded time window, adapted here from continuous
time.Duration deltas to the spec's discrete integer step deltas.
=================================================================================
*/

package kernel

import (
	"math"

	"github.com/SynapticNetworks/stepnet/message"
)

// AdditiveSTDPSynapse is the per-synapse record of an additive-STDP
// projection: a DeltaSynapse plus the plasticity rule's own state.
type AdditiveSTDPSynapse struct {
	DeltaSynapse

	TauPlus  float64
	TauMinus float64

	PreSpikeTimes  []uint64
	PostSpikeTimes []uint64
}

// AdditiveSTDPParams are the rule's learning-rate constants, shared across
// every synapse in one STDP-additive projection rather than stored
// per-synapse (spec §3.5 lists only the per-synapse state; A_plus/A_minus
// are rule-level).
type AdditiveSTDPParams struct {
	APlus  float64
	AMinus float64
}

func (s *AdditiveSTDPSynapse) queueLimit() int {
	return int(s.TauPlus + s.TauMinus)
}

func (s *AdditiveSTDPSynapse) recordPre(step uint64) {
	s.PreSpikeTimes = append(s.PreSpikeTimes, step)
	s.trim(&s.PreSpikeTimes)
}

func (s *AdditiveSTDPSynapse) recordPost(step uint64) {
	s.PostSpikeTimes = append(s.PostSpikeTimes, step)
	s.trim(&s.PostSpikeTimes)
}

func (s *AdditiveSTDPSynapse) trim(q *[]uint64) {
	limit := s.queueLimit()
	if limit <= 0 {
		return
	}
	if len(*q) > limit {
		*q = (*q)[len(*q)-limit:]
	}
}

// StepAdditiveSTDP applies §4.5.3's weight update to one synapse in place
// once both queues hold at least tau_plus+tau_minus entries, then clears
// both queues regardless of whether weight-lock is active (only the weight
// mutation itself is gated, per P6 and scenario S6).
func StepAdditiveSTDP(s *AdditiveSTDPSynapse, params AdditiveSTDPParams, locked bool) (delta float64, applied bool) {
	threshold := s.queueLimit()
	if threshold <= 0 || len(s.PreSpikeTimes) < threshold || len(s.PostSpikeTimes) < threshold {
		return 0, false
	}

	var dw float64
	for _, tf := range s.PreSpikeTimes {
		for _, tn := range s.PostSpikeTimes {
			dt := float64(int64(tn) - int64(tf))
			if dt > 0 {
				dw += params.APlus * math.Exp(-dt/s.TauPlus)
			} else {
				dw += -params.AMinus * math.Exp(dt/s.TauMinus)
			}
		}
	}

	s.PreSpikeTimes = nil
	s.PostSpikeTimes = nil

	if locked {
		return dw, false
	}
	s.Weight += float32(dw)
	return dw, true
}

// StepAdditiveSTDPProjection runs one step of a full STDP-additive
// projection (§4.5.3). inputSpikes are spike messages treated as ordinary
// delta-synapse input (an unknown sender, or a tracked sender in
// STDPAndSpike mode): they schedule future impacts exactly as
// StepDeltaSynapses does, and additionally append to each affected
// synapse's presynaptic queue. postSpikes are spike messages from a tracked
// sender in STDPOnly or STDPAndSpike mode: they only append to the
// postsynaptic queue, keyed by target neuron index. Partitioning messages
// into these two slices by sender/mode is the caller's responsibility
// (network/backend own the stdp_populations_ map of §4.5.3).
func StepAdditiveSTDPProjection(
	store *FutureImpacts,
	inputSpikes []message.SpikeMessage,
	postSpikes []message.SpikeMessage,
	bySource SourceIndexer,
	byTarget SourceIndexer,
	synapses []*AdditiveSTDPSynapse,
	params AdditiveSTDPParams,
	locked bool,
	currentStep uint64,
) {
	for _, msg := range inputSpikes {
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
				syn.recordPre(msg.SendTime)
			}
		}
	}

	for _, msg := range postSpikes {
		counts := countIndexes(msg.NeuronIndexes)
		for j, c := range counts {
			for _, idx := range byTarget(j) {
				syn := synapses[idx]
				for k := 0; k < c; k++ {
					syn.recordPost(msg.SendTime)
				}
			}
		}
	}

	for _, syn := range synapses {
		StepAdditiveSTDP(syn, params, locked)
	}
}
