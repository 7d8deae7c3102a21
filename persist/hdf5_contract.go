/*
=================================================================================
HDF5 / CSV NETWORK-FORMAT CONTRACT
=================================================================================

§6 specifies a network-serialization format backed by HDF5 and two CSV
type catalogs. No HDF5 Go binding is imported or implemented here — per
SPEC_FULL.md's explicit implementation boundary, §6 is a *contract*
carried forward as Go struct definitions so a future reader (or a real
HDF5-backed persist.Save/Load pair) has the exact layout to target,
without this repository taking on a cgo-backed HDF5 dependency that no
example in the corpus uses. Property P1 (network round-trip) is therefore
not exercised by any test in this repository.
=================================================================================
*/

package persist

// PopulationsH5Layout documents the /nodes/<population_uid>/ group of
// populations.h5 (§6). Root attribute network_uid lives one level above
// this group in the actual file.
type PopulationsH5Layout struct {
	NetworkUID string // file-root attribute

	// Per-population group "/nodes/<population_uid>/".
	NodeID        []int64  // dataset: node_id, size N
	NodeGroupID   []int64  // dataset: node_group_id, size N
	NodeGroupIdx  []int64  // dataset: node_group_index, size N
	NodeTypeID    []int64  // dataset: node_type_id, size N
	DynamicsGroup DynamicsParamsGroup
}

// DynamicsParamsGroup documents the "0/" subgroup: one dataset per neuron
// parameter (fixed, size N, numeric) plus a "dynamics_params/" subgroup
// holding the mutable state.
type DynamicsParamsGroup struct {
	// Per-parameter dataset name -> N-length numeric column. Keys mirror
	// the BLIFAT/SynapticResourceSTDPBLIFAT field names of §3.2/§3.3
	// (potential_decay, activation_threshold, ...).
	Parameters map[string][]float64

	// "0/dynamics_params/" subgroup: the subset of Parameters that is
	// mutable across steps (membrane potential, dynamic threshold,
	// free synaptic resource, stability, ...).
	DynamicsParams map[string][]float64
}

// ProjectionsH5Layout documents the /edges/<projection_uid>/ group of
// projections.h5.
type ProjectionsH5Layout struct {
	// "source_node_id" / "target_node_id" datasets each carry a
	// "node_population" attribute naming the source/target population
	// UID string.
	SourceNodeID          []int64
	SourceNodePopulation  string
	TargetNodeID          []int64
	TargetNodePopulation  string

	EdgeGroupID  []int64
	EdgeGroupIdx []int64
	EdgeTypeID   []int64
	IsLocked     bool // group attribute

	// "0/" subgroup.
	SynWeight  []float64 // syn_weight
	Delay      []uint32  // delay
	OutputType []int32   // output_type_

	// Per-rule datasets, present only for STDP projections. Keys follow
	// the source naming (rule_d_u_, rule_synaptic_resource_, ...).
	RuleParams map[string][]float64
}

// NeuronTypeRow is one row of neurons.csv (§6): node_type_id, model_type,
// model_template, model_name. Type IDs are the stable numeric tags §6
// assigns: BLIFAT=1000, SynapticResourceSTDPBLIFAT=1100.
type NeuronTypeRow struct {
	NodeTypeID    int64
	ModelType     string
	ModelTemplate string
	ModelName     string
}

// SynapseTypeRow is one row of synapses.csv: edge_type_id,
// dynamics_params, model_template. Stable numeric tags: DeltaSynapse=1000,
// SynapticResourceSTDPDeltaSynapse=1100.
type SynapseTypeRow struct {
	EdgeTypeID     int64
	DynamicsParams string
	ModelTemplate  string
}

// Stable numeric type tags assigned by §6.
const (
	NodeTypeBLIFAT                     = 1000
	NodeTypeSynapticResourceSTDPBLIFAT = 1100
	EdgeTypeDeltaSynapse                     = 1000
	EdgeTypeSynapticResourceSTDPDeltaSynapse = 1100
)

// NetworkConfig documents <root>/network/network_config.json: the
// populations + projections manifest that, together with
// <root>/config.json's pointer, locates the two .h5 files and two .csv
// catalogs above.
type NetworkConfig struct {
	Populations []PopulationManifestEntry `json:"populations"`
	Projections []ProjectionManifestEntry `json:"projections"`
}

type PopulationManifestEntry struct {
	UID  string `json:"uid"`
	Size int    `json:"size"`
}

type ProjectionManifestEntry struct {
	UID           string `json:"uid"`
	Presynaptic   string `json:"presynaptic_uid"`
	Postsynaptic  string `json:"postsynaptic_uid"`
	Size          int    `json:"size"`
}
