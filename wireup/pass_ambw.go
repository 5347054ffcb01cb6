package wireup

import "github.com/NVIDIA/ucx-wireup/cmn/cos"

// ambwPass places additional active-message bandwidth lanes (spec.md
// section 4.4.7), seeded from the AM lane the AM pass already placed.
// Requires FeatTag, a non-memory-type-copy endpoint, and a caller budget
// of at least two eager lanes (MaxEagerLanes counts the AM lane itself,
// so the loop here places at most MaxEagerLanes-1 more). If the AM lane
// runs over a self or shared-memory resource there is nothing to spread
// bandwidth across, so the pass is skipped entirely.
type ambwPass struct{}

func (p *ambwPass) Name() string { return "ambw" }

func (p *ambwPass) Run(ctx *SelectCtx, lt *laneTable) error {
	if !ctx.Params.Features.Has(FeatTag) || ctx.Params.MemTypeCopy {
		return nil
	}
	if ctx.Params.MaxEagerLanes < 2 {
		return nil
	}
	if ctx.AMSelected == NoLane {
		return nil
	}

	amLane := lt.At(ctx.AMSelected)
	amLocal := &ctx.Resources[amLane.LocalRsc]
	if amLocal.DeviceType.IsLocalOnly() {
		return nil
	}
	amRemote := &ctx.Remotes[amLane.RemoteIdx]

	allowed := AllowedMasks{
		Transports:    AllowAll(len(ctx.Resources)) &^ transportsSharingMD(ctx.Resources, amLocal.MD),
		LocalDevices:  allOnes &^ (cos.BitMask(1) << uint(amLocal.Device)),
		RemoteDevices: allOnes &^ (cos.BitMask(1) << uint(amRemote.Device)),
		RemoteMDs:     allOnes,
	}

	buildCriteria := func() *Criteria {
		return &Criteria{
			Title:       "am-bw",
			LocalIface:  IfaceAMBcopy,
			RemoteIface: IfaceAMBcopy | IfaceCBSync,
			Score:       ScoreAMBW,
		}
	}

	_, _, _ = runMultiLane(ctx, lt, laneLoopSpec{
		Role:            RoleAMBW,
		MaxLanes:        ctx.Params.MaxEagerLanes - 1,
		AllowProxy:      true,
		Allowed:         allowed,
		DiversifyDevice: true,
		Phases:          []laneLoopPhase{{BuildCriteria: buildCriteria}},
	})
	return nil
}
