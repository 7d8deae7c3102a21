package message

import (
	"testing"

	"github.com/SynapticNetworks/stepnet/uid"
)

func TestSpikeMultiplicityCounts(t *testing.T) {
	// §4.5.2: a neuron index repeated in NeuronIndexes counts as that many
	// contributions — this is purely a property of the slice, asserted here
	// so future refactors don't accidentally start deduplicating it.
	m := SpikeMessage{
		SenderUID:     uid.New(),
		SendTime:      10,
		NeuronIndexes: []uint32{0, 0, 2},
	}
	count := 0
	for _, idx := range m.NeuronIndexes {
		if idx == 0 {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected neuron 0 to appear twice, got %d", count)
	}
}

func TestOutputTypeString(t *testing.T) {
	cases := map[OutputType]string{
		Excitatory:             "Excitatory",
		InhibitoryCurrent:      "InhibitoryCurrent",
		InhibitoryConductance:  "InhibitoryConductance",
		Dopamine:               "Dopamine",
		Blocking:               "Blocking",
	}
	for ot, want := range cases {
		if got := ot.String(); got != want {
			t.Fatalf("OutputType(%d).String() = %q, want %q", ot, got, want)
		}
	}
}
