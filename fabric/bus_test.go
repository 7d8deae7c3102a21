package fabric

import (
	"testing"

	"github.com/SynapticNetworks/stepnet/message"
	"github.com/SynapticNetworks/stepnet/uid"
)

func TestSubscribeAndRouteDelivers(t *testing.T) {
	bus := NewInProcessBus()
	sender := uid.New()
	receiver := uid.New()

	bus.Subscribe(message.TypeSpike, receiver, []uid.UID{sender})
	bus.SendSpike(message.SpikeMessage{SenderUID: sender, SendTime: 1, NeuronIndexes: []uint32{0}})

	routed := bus.RouteMessages()
	if routed != 1 {
		t.Fatalf("expected 1 delivery, got %d", routed)
	}

	got := bus.PullSpikes(receiver, 0)
	if len(got) != 1 || got[0].SendTime != 1 {
		t.Fatalf("unexpected pulled spikes: %+v", got)
	}
}

func TestUnmatchedSenderIsDroppedSilently(t *testing.T) {
	bus := NewInProcessBus()
	receiver := uid.New()
	acceptedSender := uid.New()
	otherSender := uid.New()

	bus.Subscribe(message.TypeSpike, receiver, []uid.UID{acceptedSender})
	bus.SendSpike(message.SpikeMessage{SenderUID: otherSender, SendTime: 1})

	routed := bus.RouteMessages()
	if routed != 0 {
		t.Fatalf("expected 0 deliveries for unmatched sender, got %d", routed)
	}
	if got := bus.PullSpikes(receiver, 0); len(got) != 0 {
		t.Fatalf("expected no pulled messages, got %+v", got)
	}
}

func TestSendingFromNilSenderIsRoutedLikeAnyOther(t *testing.T) {
	// Input projections subscribe to the nil sentinel as a legitimate
	// sender identity (§3.8 invariant 4); the bus must not special-case it.
	bus := NewInProcessBus()
	receiver := uid.New()

	bus.Subscribe(message.TypeSpike, receiver, []uid.UID{uid.Nil})
	bus.SendSpike(message.SpikeMessage{SenderUID: uid.Nil, SendTime: 5, NeuronIndexes: []uint32{1}})

	if routed := bus.RouteMessages(); routed != 1 {
		t.Fatalf("expected 1 delivery from nil sender, got %d", routed)
	}
}

func TestBusConservationP7(t *testing.T) {
	bus := NewInProcessBus()
	senderA := uid.New()
	senderB := uid.New()
	receiver := uid.New()

	bus.Subscribe(message.TypeSpike, receiver, []uid.UID{senderA})

	bus.SendSpike(message.SpikeMessage{SenderUID: senderA, SendTime: 1})
	bus.SendSpike(message.SpikeMessage{SenderUID: senderB, SendTime: 1}) // no subscriber wants senderB

	before := bus.Stats()
	bus.RouteMessages()
	after := bus.Stats()

	in := after.MessagesIn - before.MessagesIn
	out := after.MessagesOut - before.MessagesOut
	dropped := after.MessagesDropped - before.MessagesDropped

	if in != out+dropped {
		t.Fatalf("P7 violated: in=%d out=%d dropped=%d", in, out, dropped)
	}
	if in != 2 || out != 1 || dropped != 1 {
		t.Fatalf("unexpected counts: in=%d out=%d dropped=%d", in, out, dropped)
	}
}

func TestSubscribeIdempotenceP8(t *testing.T) {
	bus := NewInProcessBus()
	sender := uid.New()
	receiver := uid.New()

	bus.Subscribe(message.TypeSpike, receiver, []uid.UID{sender})
	bus.Subscribe(message.TypeSpike, receiver, []uid.UID{sender}) // same args again

	bus.SendSpike(message.SpikeMessage{SenderUID: sender, SendTime: 1})
	if routed := bus.RouteMessages(); routed != 1 {
		t.Fatalf("expected exactly one delivery after idempotent subscribe, got %d", routed)
	}
}

func TestInboxPreservesRoutingOrder(t *testing.T) {
	bus := NewInProcessBus()
	sender := uid.New()
	receiver := uid.New()
	bus.Subscribe(message.TypeSpike, receiver, []uid.UID{sender})

	for step := uint64(1); step <= 5; step++ {
		bus.SendSpike(message.SpikeMessage{SenderUID: sender, SendTime: step})
	}
	bus.RouteMessages()

	got := bus.PullSpikes(receiver, 0)
	for i, msg := range got {
		if msg.SendTime != uint64(i+1) {
			t.Fatalf("order not preserved: index %d has SendTime %d", i, msg.SendTime)
		}
	}
}

func TestRemoveReceiverTearsDownSubscriptionAndInbox(t *testing.T) {
	bus := NewInProcessBus()
	sender := uid.New()
	receiver := uid.New()
	bus.Subscribe(message.TypeSpike, receiver, []uid.UID{sender})
	bus.SendSpike(message.SpikeMessage{SenderUID: sender, SendTime: 1})
	bus.RouteMessages()

	bus.RemoveReceiver(receiver)

	if got := bus.PullSpikes(receiver, 0); len(got) != 0 {
		t.Fatalf("expected empty inbox after RemoveReceiver, got %+v", got)
	}

	bus.SendSpike(message.SpikeMessage{SenderUID: sender, SendTime: 2})
	if routed := bus.RouteMessages(); routed != 0 {
		t.Fatalf("expected no deliveries after RemoveReceiver, got %d", routed)
	}
}
