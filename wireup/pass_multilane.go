package wireup

import "github.com/NVIDIA/ucx-wireup/cmn/cos"

// laneLoopPhase is one pass over the multi-lane loop's remote-MD
// requirement (spec.md section 4.4.5). RMA runs two phases — REG, then
// ALLOC admitted only above the REG phase's first score — every other
// multi-lane pass runs a single phase.
type laneLoopPhase struct {
	BuildCriteria func() *Criteria
	// RequireAboveFirst, when true, rejects a candidate whose score does
	// not strictly exceed the score of the first lane this runMultiLane
	// call placed (spec.md section 4.4.1: "alloc lane must out-score the
	// registered one"). Meaningless as the first phase, where no lane has
	// been placed yet and the check is skipped.
	RequireAboveFirst bool
}

// laneLoopSpec configures one multi-lane loop invocation (spec.md section
// 4.4.5, shared by RMA, AMO, RMA-BW, and AM-BW).
type laneLoopSpec struct {
	Role              RoleMask
	MaxLanes          int
	AllowProxy        bool
	Allowed           AllowedMasks
	DiversifyRemoteMD bool // mask off the remote MD just used
	DiversifyDevice   bool // mask off the local+remote device just used
	Phases            []laneLoopPhase
}

// runMultiLane implements spec.md section 4.4.5: repeat criteria
// evaluation and lane-table append until the role's lane budget, the
// MAX_OP_MDS budget, or a self/shared-memory resource stops the loop.
// It returns the number of lanes placed and the score of the first lane
// placed (used by RMA's two-phase admission rule); err is non-nil only
// when zero lanes could be placed across every phase.
func runMultiLane(ctx *SelectCtx, lt *laneTable, spec laneLoopSpec) (placed int, firstScore float64, err error) {
	allowed := spec.Allowed
	mdSeen := cos.BitMask(0)
	var lastErr error

	for _, phase := range spec.Phases {
		for placed < spec.MaxLanes && mdSeen.Popcount() < ctx.Cfg.MaxOpMDs {
			c := phase.BuildCriteria()
			sel, evalErr := ctx.Evaluate(c, allowed, placed == 0)
			if evalErr != nil {
				lastErr = evalErr
				break
			}
			if phase.RequireAboveFirst && placed > 0 && !(sel.Score > firstScore) {
				break
			}

			isProxy := spec.AllowProxy && needsProxy(sel.Local, sel.Remote)
			lt.append(sel, sel.Remote.MD, spec.Role, isProxy, sel.Score)
			if placed == 0 {
				firstScore = sel.Score
			}
			placed++
			mdSeen = mdSeen.Set(cos.BitMask(1) << uint(sel.Remote.MD))

			if sel.Local.DeviceType.IsLocalOnly() {
				return placed, firstScore, nil
			}

			allowed.Transports &^= transportsSharingMD(ctx.Resources, sel.Local.MD)
			if spec.DiversifyRemoteMD {
				allowed.RemoteMDs &^= cos.BitMask(1) << uint(sel.Remote.MD)
			}
			if spec.DiversifyDevice {
				allowed.LocalDevices &^= cos.BitMask(1) << uint(sel.Local.Device)
				allowed.RemoteDevices &^= cos.BitMask(1) << uint(sel.Remote.Device)
			}
		}
	}

	if placed == 0 {
		return 0, 0, lastErr
	}
	return placed, firstScore, nil
}

// transportsSharingMD returns the bitmask of local resource indices that
// register through the same memory domain as md, so a subsequent loop
// iteration never places a second lane through an MD already claimed
// (spec.md section 4.4.5: "mask off every local transport sharing the
// chosen MD").
func transportsSharingMD(resources []Resource, md int) cos.BitMask {
	mask := cos.BitMask(0)
	for i := range resources {
		if resources[i].MD == md {
			mask = mask.Set(cos.BitMask(1) << uint(resources[i].Index))
		}
	}
	return mask
}

// needsProxy implements the shared AM/TAG/AM-BW proxy test (spec.md
// section 4.4.3): a non-peer-to-peer local resource paired against a
// remote that can only signal receive completion, not accept an
// unsignaled one, needs a signaling shim lane.
func needsProxy(local *Resource, remote *RemoteEntry) bool {
	return !local.IsPeerToPeer() && remote.Caps.Iface.Has(IfaceEventRecvSig) && !remote.Caps.Iface.Has(IfaceEventRecv)
}
