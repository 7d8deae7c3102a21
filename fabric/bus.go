/*
=================================================================================
MESSAGE BUS - TYPED, TOPIC-LESS PUB/SUB ROUTING
=================================================================================

The bus is the single shared mutable resource of the simulation (§5). It
routes SpikeMessages and SynapticImpactMessages to every subscription whose
accepted-sender set contains the message's sender UID. Subscriptions are
keyed by (message type, receiver UID) — there is no topic string, and no
direct reference from a population to a projection or back; cycles in the
population<->projection graph are broken here, at the bus, not in the graph
itself (§9).

This in-process implementation is grounded directly on the teacher's
extracellular/signal_mediator.go: a listener map guarded by a single
sync.Mutex, with messages queued on the send side and dispatched in one pass.
Where signal_mediator.go broadcasts to every registered listener,
InProcessBus narrows delivery to subscriptions whose accepted-sender set
matches, per §4.3's exactly-once-per-subscription contract.
=================================================================================
*/

package fabric

import (
	"sync"

	"github.com/SynapticNetworks/stepnet/message"
	"github.com/SynapticNetworks/stepnet/uid"
)

// Bus is the interface both the in-process and streaming fabrics satisfy.
// Endpoint and the backend depend only on this interface, never on a
// concrete implementation, so the scheduler can select either at
// construction time with identical observable semantics (§4.3).
type Bus interface {
	Subscribe(msgType message.Type, receiver uid.UID, senders []uid.UID)
	Unsubscribe(msgType message.Type, receiver uid.UID)
	RemoveReceiver(receiver uid.UID)

	SendSpike(msg message.SpikeMessage)
	SendImpact(msg message.SynapticImpactMessage)

	// RouteMessages drains every send-side queue and dispatches into
	// subscriber inboxes atomically for the step. Returns the number of
	// individual (message, subscriber) deliveries made.
	RouteMessages() int
	// Step performs one bounded router iteration, for callers polling for
	// progress rather than draining to completion.
	Step() int

	PullSpikes(receiver uid.UID, limit int) []message.SpikeMessage
	PullImpacts(receiver uid.UID, limit int) []message.SynapticImpactMessage

	Stats() Stats
}

// Stats is a cumulative accounting of bus activity, used to assert the
// bus-conservation property P7: messages_in == messages_out +
// messages_dropped_no_subscriber across any span of RouteMessages calls.
// MessagesOut counts each message once when it reaches at least one
// subscription, however many subscriptions it was delivered to.
type Stats struct {
	MessagesIn      uint64
	MessagesOut     uint64
	MessagesDropped uint64
}

// InProcessBus is the default fabric: a single shared queue guarded by a
// mutex, with endpoints holding only a reference to the bus (no weak
// pointers are needed in Go — the garbage collector handles teardown once
// every endpoint referencing the bus is gone).
type InProcessBus struct {
	mu sync.Mutex

	spikeSubs  map[uid.UID]map[uid.UID]struct{} // receiver -> accepted senders
	impactSubs map[uid.UID]map[uid.UID]struct{}

	spikeInbox  map[uid.UID][]message.SpikeMessage
	impactInbox map[uid.UID][]message.SynapticImpactMessage

	pendingSpikes  []message.SpikeMessage
	pendingImpacts []message.SynapticImpactMessage

	stats Stats
}

// NewInProcessBus returns an empty in-process bus.
func NewInProcessBus() *InProcessBus {
	return &InProcessBus{
		spikeSubs:   make(map[uid.UID]map[uid.UID]struct{}),
		impactSubs:  make(map[uid.UID]map[uid.UID]struct{}),
		spikeInbox:  make(map[uid.UID][]message.SpikeMessage),
		impactInbox: make(map[uid.UID][]message.SynapticImpactMessage),
	}
}

// Subscribe creates or replaces the subscription for (msgType, receiver).
// Calling it twice with identical arguments leaves an equivalent state (P8):
// the accepted-sender set is rebuilt each time, but rebuilding it from the
// same senders slice produces the same set.
func (b *InProcessBus) Subscribe(msgType message.Type, receiver uid.UID, senders []uid.UID) {
	set := make(map[uid.UID]struct{}, len(senders))
	for _, s := range senders {
		set[s] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	switch msgType {
	case message.TypeSpike:
		b.spikeSubs[receiver] = set
	case message.TypeSynapticImpact:
		b.impactSubs[receiver] = set
	}
}

// Unsubscribe tears down the subscription for (msgType, receiver). Messages
// already routed into the receiver's inbox remain available until pulled.
func (b *InProcessBus) Unsubscribe(msgType message.Type, receiver uid.UID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch msgType {
	case message.TypeSpike:
		delete(b.spikeSubs, receiver)
	case message.TypeSynapticImpact:
		delete(b.impactSubs, receiver)
	}
}

// RemoveReceiver tears down every subscription and discards every queued
// inbox message for receiver — the full-teardown counterpart of a dropped
// endpoint (see the lifecycle table in §3.10).
func (b *InProcessBus) RemoveReceiver(receiver uid.UID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.spikeSubs, receiver)
	delete(b.impactSubs, receiver)
	delete(b.spikeInbox, receiver)
	delete(b.impactInbox, receiver)
}

// SendSpike enqueues a spike message for the next RouteMessages call.
// Sending from the nil UID is legal (input channels do exactly this); there
// is no addressed receiver to be nil here, since pub/sub has no destination
// field on the message itself.
func (b *InProcessBus) SendSpike(msg message.SpikeMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pendingSpikes = append(b.pendingSpikes, msg)
}

// SendImpact enqueues a synaptic impact message for the next RouteMessages
// call.
func (b *InProcessBus) SendImpact(msg message.SynapticImpactMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pendingImpacts = append(b.pendingImpacts, msg)
}

// RouteMessages drains the send queues and dispatches every message into
// every subscription whose accepted-sender set contains the message's
// sender, in the order messages were sent. A message matching no
// subscription is counted as dropped, never as an error (§7: the fabric
// tolerates missing subscribers silently).
func (b *InProcessBus) RouteMessages() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0

	spikes := b.pendingSpikes
	b.pendingSpikes = nil
	for _, msg := range spikes {
		b.stats.MessagesIn++
		matched := false
		for receiver, senders := range b.spikeSubs {
			if _, ok := senders[msg.SenderUID]; ok {
				b.spikeInbox[receiver] = append(b.spikeInbox[receiver], msg)
				matched = true
				delivered++
			}
		}
		if matched {
			b.stats.MessagesOut++
		} else {
			b.stats.MessagesDropped++
		}
	}

	impacts := b.pendingImpacts
	b.pendingImpacts = nil
	for _, msg := range impacts {
		b.stats.MessagesIn++
		matched := false
		for receiver, senders := range b.impactSubs {
			if _, ok := senders[msg.SenderUID]; ok {
				b.impactInbox[receiver] = append(b.impactInbox[receiver], msg)
				matched = true
				delivered++
			}
		}
		if matched {
			b.stats.MessagesOut++
		} else {
			b.stats.MessagesDropped++
		}
	}

	return delivered
}

// Step performs one router iteration. For the in-process bus this is
// identical to RouteMessages, since routing is not itself chunked; the
// distinction matters for a bus backed by a remote broker that may only
// drain a bounded batch per call.
func (b *InProcessBus) Step() int {
	return b.RouteMessages()
}

// PullSpikes removes and returns up to limit queued spike messages for
// receiver (all of them if limit <= 0).
func (b *InProcessBus) PullSpikes(receiver uid.UID, limit int) []message.SpikeMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return pullFrom(b.spikeInbox, receiver, limit)
}

// PullImpacts removes and returns up to limit queued impact messages for
// receiver (all of them if limit <= 0).
func (b *InProcessBus) PullImpacts(receiver uid.UID, limit int) []message.SynapticImpactMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return pullFrom(b.impactInbox, receiver, limit)
}

// Stats returns a snapshot of cumulative routing counters.
func (b *InProcessBus) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

func pullFrom[T any](inbox map[uid.UID][]T, receiver uid.UID, limit int) []T {
	queue := inbox[receiver]
	if limit <= 0 || limit >= len(queue) {
		delete(inbox, receiver)
		return queue
	}
	inbox[receiver] = queue[limit:]
	out := make([]T, limit)
	copy(out, queue[:limit])
	return out
}
