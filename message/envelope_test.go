package message

import (
	"reflect"
	"testing"

	"github.com/SynapticNetworks/stepnet/uid"
)

func TestEnvelopeRoundTripSpike(t *testing.T) {
	sender := uid.New()
	orig := Envelope{
		Kind: TypeSpike,
		Spike: &SpikeMessage{
			SenderUID:     sender,
			SendTime:      42,
			NeuronIndexes: []uint32{0, 2, 4},
		},
	}

	raw, err := orig.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.Kind != TypeSpike {
		t.Fatalf("expected TypeSpike, got %v", decoded.Kind)
	}
	if !reflect.DeepEqual(*decoded.Spike, *orig.Spike) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", *decoded.Spike, *orig.Spike)
	}
}

func TestEnvelopeRoundTripSynapticImpact(t *testing.T) {
	orig := Envelope{
		Kind: TypeSynapticImpact,
		Impact: &SynapticImpactMessage{
			SenderUID:                 uid.New(),
			SendTime:                  12,
			PresynapticPopulationUID:  uid.New(),
			PostsynapticPopulationUID: uid.New(),
			IsForcing:                 true,
			Impacts: []Impact{
				{SynapseIndex: 0, Value: 0.7, Type: Excitatory, PresynapticNeuronIndex: 0, PostsynapticNeuronIndex: 0},
			},
		},
	}

	raw, err := orig.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !reflect.DeepEqual(*decoded.Impact, *orig.Impact) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", *decoded.Impact, *orig.Impact)
	}
}

func TestDecodeRejectsEmptyInput(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Fatalf("expected error decoding empty input")
	}
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	if _, err := Decode([]byte{99, 1, 2, 3}); err == nil {
		t.Fatalf("expected error decoding unknown kind")
	}
}
