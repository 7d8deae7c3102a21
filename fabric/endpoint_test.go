package fabric

import (
	"testing"

	"github.com/SynapticNetworks/stepnet/message"
	"github.com/SynapticNetworks/stepnet/uid"
)

func TestEndpointReceiveThenUnload(t *testing.T) {
	bus := NewInProcessBus()
	ep := NewEndpoint(bus)

	sender := uid.New()
	receiver := uid.New()

	ep.SubscribeSpikes(receiver, []uid.UID{sender})
	ep.SendSpike(message.SpikeMessage{SenderUID: sender, SendTime: 1, NeuronIndexes: []uint32{0}})

	bus.RouteMessages()
	if n := ep.ReceiveAllMessages(0); n != 1 {
		t.Fatalf("expected to receive 1 message, got %d", n)
	}

	msgs := ep.UnloadSpikes(receiver)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 unloaded message, got %d", len(msgs))
	}

	// A second unload before another receive must be empty: unload drains.
	if msgs2 := ep.UnloadSpikes(receiver); len(msgs2) != 0 {
		t.Fatalf("expected empty inbox on second unload, got %+v", msgs2)
	}
}

func TestEndpointRemoveReceiverStopsDelivery(t *testing.T) {
	bus := NewInProcessBus()
	ep := NewEndpoint(bus)
	sender := uid.New()
	receiver := uid.New()

	ep.SubscribeSpikes(receiver, []uid.UID{sender})
	ep.RemoveReceiver(receiver)

	ep.SendSpike(message.SpikeMessage{SenderUID: sender, SendTime: 1})
	bus.RouteMessages()
	if n := ep.ReceiveAllMessages(0); n != 0 {
		t.Fatalf("expected no messages after RemoveReceiver, got %d", n)
	}
}

func TestEndpointSubscribesBothMessageKinds(t *testing.T) {
	bus := NewInProcessBus()
	ep := NewEndpoint(bus)
	sender := uid.New()
	receiver := uid.New()

	ep.SubscribeSpikes(receiver, []uid.UID{sender})
	ep.SubscribeImpacts(receiver, []uid.UID{sender})

	ep.SendSpike(message.SpikeMessage{SenderUID: sender, SendTime: 1})
	ep.SendImpact(message.SynapticImpactMessage{SenderUID: sender, SendTime: 1})
	bus.RouteMessages()

	if n := ep.ReceiveAllMessages(0); n != 2 {
		t.Fatalf("expected 2 messages across both kinds, got %d", n)
	}
	if len(ep.UnloadSpikes(receiver)) != 1 {
		t.Fatalf("expected 1 spike message")
	}
	if len(ep.UnloadImpacts(receiver)) != 1 {
		t.Fatalf("expected 1 impact message")
	}
}
