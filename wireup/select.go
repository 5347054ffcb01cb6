package wireup

import (
	"github.com/NVIDIA/ucx-wireup/cmn/config"
	"github.com/NVIDIA/ucx-wireup/cmn/cos"
	"github.com/NVIDIA/ucx-wireup/cmn/nlog"
)

// SockAddrInfo marks a client-side sockaddr endpoint creation request. The
// selector never inspects the address itself (spec.md section 4.7: "the
// remote is a socket address, not a UCX address") — its mere presence
// changes whether the AM pass is mandatory (spec.md section 4.4.3(b)).
type SockAddrInfo struct {
	Present bool
}

// EpParams is the endpoint-creation input (spec.md section 6): feature
// mask, error-handling mode, optional sockaddr, and the per-endpoint lane
// budgets a creator supplies.
type EpParams struct {
	Features           Features
	ErrMode            ErrHandlingMode
	SockAddr           SockAddrInfo
	InitFlags          InitFlags // input hints, e.g. FlagWireupOverAM
	MemTypeCopy        bool      // endpoint used solely for cross-memory-type staging
	MaxEagerLanes      int       // AM-BW budget; 1 means "no AM-BW lanes"
	MaxRndvLanes       int       // RMA-BW budget
	EstimatedEndpoints int
}

// LaneInfo is the bit-stable per-lane record of the output configuration
// key (spec.md section 3, "Endpoint configuration key").
type LaneInfo struct {
	LocalResource int
	ProxyLane     int
	RemoteMD      int
}

// EpConfig is the selector's bit-stable output (spec.md sections 3 and 6).
// The value MaxLanes (the sentinel spec.md section 6 specifies, not the
// internal NoLane) marks an unused slot or an absent designated lane.
type EpConfig struct {
	MaxLanes int // sentinel value for "no lane" in every field/array below

	NumLanes      int
	Lanes         []LaneInfo // length NumLanes
	LaneRemoteIdx []int      // length NumLanes; lane -> remote address index

	AMLane  int
	TagLane int

	AMBWLanes  []int // length MaxLanes; slot 0 == AMLane when AM exists
	RMALanes   []int
	RMABWLanes []int
	AMOLanes   []int

	WireupLane int

	RMABWMDMap cos.BitMask // remote MD indices needing rkey packing

	InitFlags InitFlags // output-produced bits, e.g. FlagCreateAMLane
}

// Select is the core's single entry point (spec.md section 6). It is a
// pure function: identical inputs (including slice ordering) produce a
// bit-identical EpConfig (spec.md section 8, law L1).
func Select(resources []Resource, remotes []RemoteEntry, reachable ReachableFn, params EpParams, cfg *config.Selection) (*EpConfig, error) {
	if cfg == nil {
		def := config.Default().Selection
		cfg = &def
	}
	corrID := cos.GenID()
	nlog.Debugf("[%s] wireup select: %d local resources, %d remote entries, features=%v", corrID, len(resources), len(remotes), params.Features)

	if len(remotes) == 0 {
		err := newUnreachable("select", "zero remote address entries")
		recordMetrics(nil, err)
		return nil, err
	}
	if err := validateParams(resources, params); err != nil {
		recordMetrics(nil, err)
		return nil, err
	}

	ctx := &SelectCtx{
		Resources:          resources,
		Remotes:            remotes,
		Reachable:          reachable,
		Params:             params,
		Cfg:                cfg,
		EstimatedEndpoints: maxInt(1, params.EstimatedEndpoints),
		CorrelationID:      corrID,
		MemTypeTransports:  defaultMemTypeTransports(resources),
		AtomicOpRequest:    defaultAtomicRequest(params.Features),
		AMSelected:         NoLane,
		TagSelected:        NoLane,
	}

	lt := newLaneTable(cfg.MaxLanes)

	for _, p := range passes {
		if err := p.Run(ctx, lt); err != nil {
			nlog.Warningf("[%s] pass %s failed fatally: %v", corrID, p.Name(), err)
			recordMetrics(nil, err)
			return nil, err
		}
	}

	if lt.Len() == 0 {
		err := newUnreachable("select", "no lane could be placed for any requested role")
		recordMetrics(nil, err)
		return nil, err
	}

	cfgOut := finalize(ctx, lt)
	recordMetrics(cfgOut, nil)
	return cfgOut, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// defaultMemTypeTransports derives the memory-type -> allowed-transport
// map Select uses: a single entry, host memory over every resource. No
// device memory type gets an entry, so the RMA-BW pass runs once per
// Select call; Select's exported signature offers no way to supply other
// memory types.
func defaultMemTypeTransports(resources []Resource) map[MemType]cos.BitMask {
	return map[MemType]cos.BitMask{
		MemTypeHost: AllowAll(len(resources)),
	}
}

func defaultAtomicRequest(features Features) AtomicCaps {
	all := AtomicAdd | AtomicAnd | AtomicOr | AtomicXor | AtomicSwap | AtomicCswap
	req := AtomicCaps{}
	if features.Has(FeatAMO32) {
		req.Op32, req.Fop32 = all, all
	}
	if features.Has(FeatAMO64) {
		req.Op64, req.Fop64 = all, all
	}
	return req
}

// validateParams implements the INVALID_PARAM row of spec.md section 7's
// error table: declared features with no transport anywhere capable of
// them at all indicate a misconfigured worker, not a reachability failure
// against this particular remote.
func validateParams(resources []Resource, params EpParams) error {
	if params.Features.Has(FeatTag) {
		if !anyResource(resources, func(r *Resource) bool { return r.Caps.Iface.Has(IfaceTagEagerBcopy) }) {
			return newInvalidParam("feature TAG requested but no local resource advertises tag_eager_bcopy")
		}
	}
	if params.Features.Has(FeatAM) || params.Features.Has(FeatTag) || params.Features.Has(FeatStream) {
		if !anyResource(resources, func(r *Resource) bool { return r.Caps.Iface.Has(IfaceAMBcopy) }) {
			return newInvalidParam("feature AM/TAG/STREAM requested but no local resource advertises am_bcopy")
		}
	}
	return nil
}

func anyResource(resources []Resource, pred func(*Resource) bool) bool {
	for i := range resources {
		if pred(&resources[i]) {
			return true
		}
	}
	return false
}
