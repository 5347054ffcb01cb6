package wireup

// rmaPass places RMA lanes (spec.md section 4.4.1). It is gated on
// FeatRMA or on the endpoint being a memory-type-copy endpoint, in which
// case it degrades to a single required capability (PutShort both sides)
// rather than the full Put/Get bcopy set.
//
// The multi-lane loop runs registered-memory resources first, then
// allocated-memory resources, admitting an alloc-backed lane only when it
// out-scores the best registered one (spec.md section 4.4.1).
//
// Failure here never propagates directly: unless the endpoint's
// error-handling mode is ErrModePeer (scenario 5: peer-failure handling
// disables AM-emulation, so a failed RMA pass really does mean
// UNREACHABLE), a failed pass sets FlagCreateAMLane so the caller falls
// back to emulating RMA over the AM lane the AM pass places later.
type rmaPass struct{}

func (p *rmaPass) Name() string { return "rma" }

func (p *rmaPass) Run(ctx *SelectCtx, lt *laneTable) error {
	memTypeCopy := ctx.Params.MemTypeCopy
	if !ctx.Params.Features.Has(FeatRMA) && !memTypeCopy {
		return nil
	}

	remoteIface := IfacePutShort | IfacePutBcopy | IfaceGetBcopy
	localIface := remoteIface | IfacePending
	if memTypeCopy {
		remoteIface = IfacePutShort
		localIface = IfacePutShort
	}

	criteriaFor := func(mdFlag MDFlags) func() *Criteria {
		return func() *Criteria {
			return &Criteria{
				Title:       "rma",
				LocalMD:     mdFlag,
				RemoteMD:    mdFlag,
				LocalIface:  localIface,
				RemoteIface: remoteIface,
				Score:       ScoreRMA,
			}
		}
	}

	full := AllowAll(len(ctx.Resources))
	_, _, err := runMultiLane(ctx, lt, laneLoopSpec{
		Role:       RoleRMA,
		MaxLanes:   ctx.Cfg.MaxLanes,
		AllowProxy: false,
		Allowed: AllowedMasks{
			Transports:    full,
			LocalDevices:  allOnes,
			RemoteDevices: allOnes,
			RemoteMDs:     allOnes,
		},
		DiversifyRemoteMD: true,
		Phases: []laneLoopPhase{
			{BuildCriteria: criteriaFor(MDFlagReg)},
			{BuildCriteria: criteriaFor(MDFlagAlloc), RequireAboveFirst: true},
		},
	})
	if err != nil {
		return rmaFallback(ctx, err)
	}
	return nil
}

func rmaFallback(ctx *SelectCtx, evalErr error) error {
	if ctx.Params.ErrMode == ErrModePeer {
		return newUnreachable("rma", "no RMA lane available and peer-failure handling disables AM-emulation: "+evalErr.Error())
	}
	ctx.OutInitFlags = ctx.OutInitFlags.Set(FlagCreateAMLane)
	return nil
}
