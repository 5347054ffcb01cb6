package wireup

// rmabwPass places bulk-RMA bandwidth lanes (spec.md section 4.4.4). It
// runs when the endpoint is memory-type-copy or requested TAG (tag
// messages rendezvous over RMA-BW for large payloads), once per memory
// type the context advertises an access-transport set for
// (SelectCtx.MemTypeTransports). Proxy lanes are never created for
// RMA-BW — zero-copy bulk transfer has no notion of a signaling shim.
type rmabwPass struct{}

func (p *rmabwPass) Name() string { return "rmabw" }

func (p *rmabwPass) Run(ctx *SelectCtx, lt *laneTable) error {
	if !ctx.Params.MemTypeCopy && !ctx.Params.Features.Has(FeatTag) {
		return nil
	}

	// Case (2) — TAG-requested rendezvous — requires registered memory on
	// both sides. Case (1) — memory-type-copy — leaves the MD flag
	// unconstrained (spec.md section 4.4.4).
	var mdFlag MDFlags
	if !ctx.Params.MemTypeCopy {
		mdFlag = MDFlagReg
	}
	buildCriteria := func() *Criteria {
		return &Criteria{
			Title:       "rma-bw",
			LocalMD:     mdFlag,
			RemoteMD:    mdFlag,
			LocalIface:  IfaceGetZcopy | IfacePutZcopy | IfacePending,
			RemoteIface: IfaceGetZcopy | IfacePutZcopy,
			Score:       ScoreRMABW,
		}
	}

	for _, transports := range ctx.MemTypeTransports {
		maxLanes := ctx.Params.MaxRndvLanes
		if maxLanes <= 0 {
			maxLanes = ctx.Cfg.MaxLanes
		}
		// A memory type with no viable RMA-BW lane simply gets none; other
		// memory types still get their own attempt (spec.md section 4.4.4).
		_, _, _ = runMultiLane(ctx, lt, laneLoopSpec{
			Role:       RoleRMABW,
			MaxLanes:   maxLanes,
			AllowProxy: false,
			Allowed: AllowedMasks{
				Transports:    transports,
				LocalDevices:  allOnes,
				RemoteDevices: allOnes,
				RemoteMDs:     allOnes,
			},
			DiversifyDevice: true,
			Phases:          []laneLoopPhase{{BuildCriteria: buildCriteria}},
		})
	}
	return nil
}
