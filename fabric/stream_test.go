package fabric

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/SynapticNetworks/stepnet/message"
	"github.com/SynapticNetworks/stepnet/uid"
)

func TestStreamBusMirrorsSendsOverTheWire(t *testing.T) {
	var wire bytes.Buffer
	sb := NewStreamBus(&wire, nil)

	sender := uid.New()
	sb.SendSpike(message.SpikeMessage{SenderUID: sender, SendTime: 3, NeuronIndexes: []uint32{0, 1}})

	if wire.Len() == 0 {
		t.Fatalf("expected bytes written to the wire")
	}

	env, err := message.Decode(wire.Bytes()[4:])
	if err != nil {
		t.Fatalf("decode mirrored frame: %v", err)
	}
	if env.Kind != message.TypeSpike || env.Spike.SendTime != 3 {
		t.Fatalf("unexpected mirrored envelope: %+v", env)
	}
}

func TestStreamBusIngestsRemoteFrames(t *testing.T) {
	pr, pw := io.Pipe()
	defer pr.Close()

	receiver := uid.New()
	sender := uid.New()

	remoteBus := NewStreamBus(pw, nil)
	localBus := NewStreamBus(nil, pr)
	localBus.Subscribe(message.TypeSpike, receiver, []uid.UID{sender})

	remoteBus.SendSpike(message.SpikeMessage{SenderUID: sender, SendTime: 7, NeuronIndexes: []uint32{2}})

	// Ingestion runs in a background goroutine; give it a moment to land.
	deadline := time.Now().Add(2 * time.Second)
	for {
		localBus.RouteMessages()
		if got := localBus.PullSpikes(receiver, 0); len(got) == 1 {
			if got[0].SendTime != 7 {
				t.Fatalf("unexpected ingested message: %+v", got[0])
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for ingested message")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
