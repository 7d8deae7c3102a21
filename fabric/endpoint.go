/*
=================================================================================
ENDPOINT - PER-COMPONENT BUS HANDLE
=================================================================================

An Endpoint is the handle through which a component subscribes, sends, and
eventually reads its own mail. One Endpoint can serve several receiver
identities: the backend uses a single Endpoint for every population and
projection it drives. The two-phase receive — ReceiveAllMessages pulls routed traffic out of
the bus into the endpoint's own per-subscription inboxes, Unload*Messages
drains those local inboxes — lets a component call ReceiveAllMessages once
per phase and then unload as many times as convenient without re-touching
the bus's lock.
=================================================================================
*/

package fabric

import (
	"sync"

	"github.com/SynapticNetworks/stepnet/message"
	"github.com/SynapticNetworks/stepnet/uid"
)

// Endpoint is a one-per-component handle onto a Bus.
type Endpoint struct {
	bus Bus

	mu sync.Mutex

	spikeReceivers  map[uid.UID]struct{}
	impactReceivers map[uid.UID]struct{}

	spikeInbox  map[uid.UID][]message.SpikeMessage
	impactInbox map[uid.UID][]message.SynapticImpactMessage
}

// NewEndpoint returns an Endpoint bound to bus.
func NewEndpoint(bus Bus) *Endpoint {
	return &Endpoint{
		bus:             bus,
		spikeReceivers:  make(map[uid.UID]struct{}),
		impactReceivers: make(map[uid.UID]struct{}),
		spikeInbox:      make(map[uid.UID][]message.SpikeMessage),
		impactInbox:     make(map[uid.UID][]message.SynapticImpactMessage),
	}
}

// SubscribeSpikes subscribes receiver to SpikeMessages whose sender is in
// senders.
func (e *Endpoint) SubscribeSpikes(receiver uid.UID, senders []uid.UID) {
	e.bus.Subscribe(message.TypeSpike, receiver, senders)
	e.mu.Lock()
	e.spikeReceivers[receiver] = struct{}{}
	e.mu.Unlock()
}

// SubscribeImpacts subscribes receiver to SynapticImpactMessages whose
// sender is in senders.
func (e *Endpoint) SubscribeImpacts(receiver uid.UID, senders []uid.UID) {
	e.bus.Subscribe(message.TypeSynapticImpact, receiver, senders)
	e.mu.Lock()
	e.impactReceivers[receiver] = struct{}{}
	e.mu.Unlock()
}

// UnsubscribeSpikes tears down receiver's SpikeMessage subscription.
func (e *Endpoint) UnsubscribeSpikes(receiver uid.UID) {
	e.bus.Unsubscribe(message.TypeSpike, receiver)
	e.mu.Lock()
	delete(e.spikeReceivers, receiver)
	e.mu.Unlock()
}

// UnsubscribeImpacts tears down receiver's SynapticImpactMessage
// subscription.
func (e *Endpoint) UnsubscribeImpacts(receiver uid.UID) {
	e.bus.Unsubscribe(message.TypeSynapticImpact, receiver)
	e.mu.Lock()
	delete(e.impactReceivers, receiver)
	e.mu.Unlock()
}

// RemoveReceiver tears down every subscription this endpoint holds for
// receiver, on both message types, and discards its local inboxes.
func (e *Endpoint) RemoveReceiver(receiver uid.UID) {
	e.bus.RemoveReceiver(receiver)
	e.mu.Lock()
	delete(e.spikeReceivers, receiver)
	delete(e.impactReceivers, receiver)
	delete(e.spikeInbox, receiver)
	delete(e.impactInbox, receiver)
	e.mu.Unlock()
}

// SendSpike hands msg to the bus for routing.
func (e *Endpoint) SendSpike(msg message.SpikeMessage) {
	e.bus.SendSpike(msg)
}

// SendImpact hands msg to the bus for routing.
func (e *Endpoint) SendImpact(msg message.SynapticImpactMessage) {
	e.bus.SendImpact(msg)
}

// ReceiveAllMessages pulls routed messages from the bus into this
// endpoint's per-subscription inboxes, for every receiver identity this
// endpoint currently subscribes as. limit <= 0 means no per-receiver cap.
// Returns the total number of messages pulled.
func (e *Endpoint) ReceiveAllMessages(limit int) int {
	e.mu.Lock()
	spikeReceivers := make([]uid.UID, 0, len(e.spikeReceivers))
	for r := range e.spikeReceivers {
		spikeReceivers = append(spikeReceivers, r)
	}
	impactReceivers := make([]uid.UID, 0, len(e.impactReceivers))
	for r := range e.impactReceivers {
		impactReceivers = append(impactReceivers, r)
	}
	e.mu.Unlock()

	pulled := 0
	for _, r := range spikeReceivers {
		msgs := e.bus.PullSpikes(r, limit)
		if len(msgs) == 0 {
			continue
		}
		e.mu.Lock()
		e.spikeInbox[r] = append(e.spikeInbox[r], msgs...)
		e.mu.Unlock()
		pulled += len(msgs)
	}
	for _, r := range impactReceivers {
		msgs := e.bus.PullImpacts(r, limit)
		if len(msgs) == 0 {
			continue
		}
		e.mu.Lock()
		e.impactInbox[r] = append(e.impactInbox[r], msgs...)
		e.mu.Unlock()
		pulled += len(msgs)
	}
	return pulled
}

// UnloadSpikes drains and returns every SpikeMessage currently buffered in
// receiver's local inbox.
func (e *Endpoint) UnloadSpikes(receiver uid.UID) []message.SpikeMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.spikeInbox[receiver]
	delete(e.spikeInbox, receiver)
	return out
}

// UnloadImpacts drains and returns every SynapticImpactMessage currently
// buffered in receiver's local inbox.
func (e *Endpoint) UnloadImpacts(receiver uid.UID) []message.SynapticImpactMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.impactInbox[receiver]
	delete(e.impactInbox, receiver)
	return out
}
