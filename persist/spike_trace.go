/*
=================================================================================
SPIKE TRACE - JSON SERIALIZATION OF A RECORDED SPIKE TRAIN
=================================================================================

Implements the §6 data-stream "JSON" layout for spike traces and property
P2 (load_spikes(save_spikes(S)) == S modulo the step*time_per_step
conversion). encoding/json is used deliberately rather than a third-party
codec: the wire shape is a fixed, already-specified nested object
(magic/version attributes plus two parallel arrays), exactly the kind of
one-shot structural marshaling the standard library's encoding/json is
built for, and nothing in the example corpus reaches for a JSON library
beyond it for this shape (see DESIGN.md).
=================================================================================
*/

package persist

import (
	"encoding/json"
	"fmt"
	"os"
)

// SpikeMagic and SpikeVersion are the fixed header values §6 specifies for
// the spike-trace data-stream format.
const (
	SpikeMagic        = 2682
	SpikeVersionMajor = 0
	SpikeVersionMinor = 1
)

// SpikeRecord is one (neuron_index, step) pair from a recorded spike train.
type SpikeRecord struct {
	NodeID    int64
	Step      uint64
	TimeScale float32 // time_per_step, used only to compute Timestamp on save
}

// Timestamp returns the step converted to simulation time (step *
// time_per_step), as §6's timestamps dataset stores it.
func (r SpikeRecord) Timestamp() float32 {
	return float32(r.Step) * r.TimeScale
}

type spikeGroup struct {
	Attributes []string  `json:"attributes"`
	NodeIDs    nodeIDs   `json:"node_ids"`
	Timestamps timestamp `json:"timestamps"`
}

type nodeIDs struct {
	Data []int64 `json:"data"`
}

type timestamp struct {
	Units string    `json:"units"`
	Data  []float32 `json:"data"`
}

// SpikeTrace is the root JSON document of §6's spike data-stream format.
type SpikeTrace struct {
	VersionPair [2]uint32
	Spikes      spikeGroup
}

// wireTrace is the on-disk shape: §6 specifies attributes as [magic,
// version] where version is itself a pair, so the JSON array is
// [magic, [major, minor]].
type wireTrace struct {
	Attributes []json.RawMessage `json:"attributes"`
	Spikes     spikeGroup        `json:"spikes"`
}

// NewSpikeTrace builds a trace from recorded spikes, sorted by step as §6's
// "sorting=by_timestamps" attribute requires.
func NewSpikeTrace(records []SpikeRecord) SpikeTrace {
	sorted := make([]SpikeRecord, len(records))
	copy(sorted, records)
	insertionSortByStep(sorted)

	ids := make([]int64, len(sorted))
	times := make([]float32, len(sorted))
	for i, r := range sorted {
		ids[i] = r.NodeID
		times[i] = r.Timestamp()
	}

	return SpikeTrace{
		VersionPair: [2]uint32{SpikeVersionMajor, SpikeVersionMinor},
		Spikes: spikeGroup{
			Attributes: []string{"by_timestamps"},
			NodeIDs:    nodeIDs{Data: ids},
			Timestamps: timestamp{Units: "step", Data: times},
		},
	}
}

func insertionSortByStep(records []SpikeRecord) {
	for i := 1; i < len(records); i++ {
		for j := i; j > 0 && records[j].Step < records[j-1].Step; j-- {
			records[j], records[j-1] = records[j-1], records[j]
		}
	}
}

// SaveSpikeTrace writes trace to path in the §6 JSON layout.
func SaveSpikeTrace(path string, trace SpikeTrace) error {
	magic, err := json.Marshal(SpikeMagic)
	if err != nil {
		return err
	}
	version, err := json.Marshal(trace.VersionPair)
	if err != nil {
		return err
	}
	wire := wireTrace{
		Attributes: []json.RawMessage{magic, version},
		Spikes:     trace.Spikes,
	}
	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return fmt.Errorf("persist: encoding spike trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("persist: writing spike trace %s: %w", path, err)
	}
	return nil
}

// LoadSpikeTrace reads a §6 JSON spike trace from path, validating the
// magic number (FormatError in the abstract taxonomy, surfaced here as a
// plain error since this package has no error-kind type of its own).
func LoadSpikeTrace(path string) (SpikeTrace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SpikeTrace{}, fmt.Errorf("persist: reading spike trace %s: %w", path, err)
	}
	var wire wireTrace
	if err := json.Unmarshal(data, &wire); err != nil {
		return SpikeTrace{}, fmt.Errorf("persist: decoding spike trace %s: %w", path, err)
	}
	if len(wire.Attributes) != 2 {
		return SpikeTrace{}, fmt.Errorf("persist: spike trace %s missing magic/version attributes", path)
	}
	var magic uint32
	if err := json.Unmarshal(wire.Attributes[0], &magic); err != nil {
		return SpikeTrace{}, fmt.Errorf("persist: spike trace %s: malformed magic: %w", path, err)
	}
	if magic != SpikeMagic {
		return SpikeTrace{}, fmt.Errorf("persist: spike trace %s: bad magic %d, want %d", path, magic, SpikeMagic)
	}
	var version [2]uint32
	if err := json.Unmarshal(wire.Attributes[1], &version); err != nil {
		return SpikeTrace{}, fmt.Errorf("persist: spike trace %s: malformed version: %w", path, err)
	}
	return SpikeTrace{VersionPair: version, Spikes: wire.Spikes}, nil
}

// Records expands the trace back into (node, step) pairs, recovering Step
// from Timestamp via the supplied time_per_step — the "modulo conversion"
// P2 allows, since Timestamp is stored as step*time_per_step and division
// is not guaranteed exact for arbitrary float32 time_per_step values.
func (t SpikeTrace) Records(timeScale float32) []SpikeRecord {
	out := make([]SpikeRecord, len(t.Spikes.NodeIDs.Data))
	for i := range out {
		step := uint64(0)
		if timeScale != 0 {
			step = uint64(t.Spikes.Timestamps.Data[i]/timeScale + 0.5)
		}
		out[i] = SpikeRecord{
			NodeID:    t.Spikes.NodeIDs.Data[i],
			Step:      step,
			TimeScale: timeScale,
		}
	}
	return out
}
