/*
=================================================================================
BACKEND - THE PER-STEP STATE MACHINE DRIVING THE SIMULATION
=================================================================================

Backend owns no neuron or synapse state itself: it holds the population and
projection runners a network builder loaded, a fabric.Bus and a single
fabric.Endpoint shared across every population/projection identity, and a
lifecycle. Its job is exactly §4.6.2's three-phase step: route+receive,
step every population, route+receive, step every projection, route+receive,
advance the step counter. §4.6.3's one-time subscription wiring runs on the
first Start call.

Logging (subscription initialization, stop requests, plasticity lock
changes) goes through github.com/sirupsen/logrus with structured fields;
individual steps are not logged. Logrus is used since the
teacher's own package has no logging dependency and the ambient-stack rule
requires one regardless (see DESIGN.md).
=================================================================================
*/

package backend

import (
	"github.com/sirupsen/logrus"

	"github.com/SynapticNetworks/stepnet/fabric"
	"github.com/SynapticNetworks/stepnet/message"
	"github.com/SynapticNetworks/stepnet/network"
	"github.com/SynapticNetworks/stepnet/uid"
)

// Backend drives one simulation's populations and projections through the
// per-step state machine of §4.6.2.
type Backend struct {
	cfg Config
	log *logrus.Logger

	bus      fabric.Bus
	endpoint *fabric.Endpoint

	lc lifecycle

	populations map[uid.UID]PopulationRunner
	projections map[uid.UID]ProjectionRunner

	pool *WorkerPool
}

// NewBackend returns a backend driving bus with cfg, with an empty
// population/projection set.
func NewBackend(cfg Config, bus fabric.Bus) *Backend {
	log := logrus.New()
	b := &Backend{
		cfg:         cfg,
		log:         log,
		bus:         bus,
		endpoint:    fabric.NewEndpoint(bus),
		populations: make(map[uid.UID]PopulationRunner),
		projections: make(map[uid.UID]ProjectionRunner),
	}
	if cfg.Variant == WorkerPool {
		b.pool = NewWorkerPool(cfg.WorkerCount)
	}
	return b
}

// LoadPopulations attaches runners to the backend (§4.6.1 load_populations).
func (b *Backend) LoadPopulations(runners ...PopulationRunner) {
	for _, r := range runners {
		b.populations[r.UID()] = r
	}
}

// LoadProjections attaches runners to the backend (§4.6.1 load_projections).
func (b *Backend) LoadProjections(runners ...ProjectionRunner) {
	for _, r := range runners {
		b.projections[r.UID()] = r
	}
}

// RemovePopulations detaches the named populations and tears down their
// fabric subscriptions.
func (b *Backend) RemovePopulations(ids ...uid.UID) {
	for _, id := range ids {
		delete(b.populations, id)
		b.endpoint.RemoveReceiver(id)
	}
}

// RemoveProjections detaches the named projections and tears down their
// fabric subscriptions.
func (b *Backend) RemoveProjections(ids ...uid.UID) {
	for _, id := range ids {
		delete(b.projections, id)
		b.endpoint.RemoveReceiver(id)
	}
}

// Running reports whether the backend is currently driving steps.
func (b *Backend) Running() bool { return b.lc.isRunning() }

// GetStep returns the current step counter.
func (b *Backend) GetStep() uint64 { return b.lc.currentStep() }

// Stop requests the backend halt after completing its current step's
// remaining phases (§5 cancellation contract).
func (b *Backend) Stop() {
	b.lc.markStopped()
	b.log.WithField("step", b.lc.currentStep()).Info("backend: stop requested")
}

// StartLearning unlocks weights on every projection (§4.6.1).
func (b *Backend) StartLearning(net *network.Network) {
	net.SetLearning(true)
	b.log.Info("backend: learning enabled")
}

// StopLearning locks weights on every projection (§4.6.1).
func (b *Backend) StopLearning(net *network.Network) {
	net.SetLearning(false)
	b.log.Info("backend: learning disabled")
}

// Start drives steps until Stop() is called.
func (b *Backend) Start() error {
	return b.run(func(uint64) bool { return true }, nil, nil)
}

// StartUntil drives steps until Stop() is called or predicate returns
// false. The predicate is evaluated only at step boundaries.
func (b *Backend) StartUntil(predicate func(step uint64) bool) error {
	return b.run(predicate, nil, nil)
}

// StartWithHooks drives steps until Stop() is called, invoking pre before
// and post after each step, both with that step's index.
func (b *Backend) StartWithHooks(pre, post func(step uint64)) error {
	return b.run(func(uint64) bool { return true }, pre, post)
}

func (b *Backend) run(predicate func(uint64) bool, pre, post func(uint64)) error {
	if b.lc.needsInit() {
		b.initialize()
	}
	b.lc.markRunning()

	for b.lc.isRunning() {
		step := b.lc.currentStep()
		if !predicate(step) {
			break
		}
		if pre != nil {
			pre(step)
		}
		b.runStep()
		if post != nil {
			post(step)
		}
	}

	b.lc.markStopped()
	return nil
}

// initialize wires every projection's fabric subscriptions (§4.6.3): a
// projection subscribes, under its own UID as receiver, to spikes from its
// presynaptic population (or the nil sentinel for an input projection) and
// any STDP-tracked additional senders; its postsynaptic population
// subscribes to impacts from every projection that targets it.
func (b *Backend) initialize() {
	impactSendersByReceiver := make(map[uid.UID][]uid.UID)

	for projID, pr := range b.projections {
		senders := append([]uid.UID{pr.PresynapticUID()}, pr.AdditionalSpikeSenders()...)
		b.endpoint.SubscribeSpikes(projID, senders)
		impactSendersByReceiver[pr.PostsynapticUID()] = append(impactSendersByReceiver[pr.PostsynapticUID()], projID)
	}
	for popID, senders := range impactSendersByReceiver {
		b.endpoint.SubscribeImpacts(popID, senders)
	}

	b.log.WithFields(logrus.Fields{
		"populations": len(b.populations),
		"projections": len(b.projections),
	}).Info("backend: initialized subscriptions")
}

func flattenImpacts(msgs []message.SynapticImpactMessage) []message.Impact {
	var out []message.Impact
	for _, m := range msgs {
		out = append(out, m.Impacts...)
	}
	return out
}

// runStep executes exactly one pass of §4.6.2's state machine.
func (b *Backend) runStep() {
	step := b.lc.currentStep()

	b.bus.RouteMessages()
	b.endpoint.ReceiveAllMessages(0)
	b.stepPopulations(step)

	b.bus.RouteMessages()
	b.endpoint.ReceiveAllMessages(0)
	b.stepProjections(step)

	b.bus.RouteMessages()
	b.endpoint.ReceiveAllMessages(0)

	b.lc.advanceStep()
}

func (b *Backend) stepPopulations(step uint64) {
	if b.pool == nil {
		for id, pr := range b.populations {
			b.stepOnePopulation(id, pr, step)
		}
		return
	}
	ids := b.populationIDs()
	b.pool.Run(len(ids), func(i int) {
		id := ids[i]
		b.stepOnePopulation(id, b.populations[id], step)
	})
}

func (b *Backend) stepOnePopulation(id uid.UID, pr PopulationRunner, step uint64) {
	impacts := flattenImpacts(b.endpoint.UnloadImpacts(id))
	fired := pr.Step(impacts)
	if len(fired) == 0 {
		return
	}
	b.endpoint.SendSpike(message.SpikeMessage{SenderUID: id, SendTime: step, NeuronIndexes: fired})
}

func (b *Backend) stepProjections(step uint64) {
	if b.pool == nil {
		for id, pr := range b.projections {
			b.stepOneProjection(id, pr, step)
		}
		return
	}
	ids := b.projectionIDs()
	b.pool.Run(len(ids), func(i int) {
		id := ids[i]
		b.stepOneProjection(id, b.projections[id], step)
	})
}

func (b *Backend) stepOneProjection(id uid.UID, pr ProjectionRunner, step uint64) {
	spikes := b.endpoint.UnloadSpikes(id)
	pr.StepSpikes(spikes, step)
	if msg, ok := pr.TakeDelivery(step); ok {
		b.endpoint.SendImpact(msg)
	}
}

// populationIDs and projectionIDs give the worker-pool scheduler a stable
// positional partition of the backend's maps, snapshotted once per phase
// since Go's map iteration order is intentionally randomized.
func (b *Backend) populationIDs() []uid.UID {
	ids := make([]uid.UID, 0, len(b.populations))
	for id := range b.populations {
		ids = append(ids, id)
	}
	return ids
}

func (b *Backend) projectionIDs() []uid.UID {
	ids := make([]uid.UID, 0, len(b.projections))
	for id := range b.projections {
		ids = append(ids, id)
	}
	return ids
}
