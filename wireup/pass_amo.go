package wireup

import "github.com/NVIDIA/ucx-wireup/cmn/cos"

// amoPass places atomic-operation lanes (spec.md section 4.4.2). Gated on
// FeatAMO32 or FeatAMO64 and never run for a memory-type-copy endpoint
// (atomics operate on registered remote memory, which a copy-only
// endpoint never exposes). The allowed local-transport set excludes
// peer-to-peer transports unless a resource explicitly opts in via
// RsrcAtomicCapable — atomics require an address exchange a P2P
// transport cannot reciprocate blind.
//
// Failure falls back identically to the RMA pass: AM-emulation unless
// peer-failure handling is enabled.
type amoPass struct{}

func (p *amoPass) Name() string { return "amo" }

func (p *amoPass) Run(ctx *SelectCtx, lt *laneTable) error {
	if ctx.Params.MemTypeCopy {
		return nil
	}
	if !ctx.Params.Features.Has(FeatAMO32) && !ctx.Params.Features.Has(FeatAMO64) {
		return nil
	}

	allowedTransports := cos.BitMask(0)
	for i := range ctx.Resources {
		r := &ctx.Resources[i]
		if !r.IsPeerToPeer() || r.RsrcFlags.Has(RsrcAtomicCapable) {
			allowedTransports = allowedTransports.Set(cos.BitMask(1) << uint(r.Index))
		}
	}

	req := ctx.AtomicOpRequest
	buildCriteria := func() *Criteria {
		return &Criteria{
			Title:         "amo",
			LocalMD:       MDFlagReg,
			RemoteMD:      MDFlagReg,
			RemoteAtomics: req,
			Score:         ScoreAMO,
		}
	}

	_, _, err := runMultiLane(ctx, lt, laneLoopSpec{
		Role:       RoleAMO,
		MaxLanes:   ctx.Cfg.MaxLanes,
		AllowProxy: false,
		Allowed: AllowedMasks{
			Transports:    allowedTransports,
			LocalDevices:  allOnes,
			RemoteDevices: allOnes,
			RemoteMDs:     allOnes,
		},
		DiversifyRemoteMD: true,
		Phases:            []laneLoopPhase{{BuildCriteria: buildCriteria}},
	})
	if err != nil {
		return rmaFallback(ctx, err)
	}
	return nil
}
