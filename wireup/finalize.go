package wireup

import (
	"sort"
	"strings"

	"github.com/NVIDIA/ucx-wireup/cmn/cos"
	"github.com/NVIDIA/ucx-wireup/cmn/debug"
)

// finalize implements spec.md section 4.5: turn the accumulated lane
// table into the bit-stable EpConfig the endpoint layer consumes.
func finalize(ctx *SelectCtx, lt *laneTable) *EpConfig {
	n := lt.Len()
	maxLanes := ctx.Cfg.MaxLanes
	none := maxLanes

	out := &EpConfig{
		MaxLanes:      maxLanes,
		NumLanes:      n,
		Lanes:         make([]LaneInfo, n),
		LaneRemoteIdx: make([]int, n),
		AMLane:        none,
		TagLane:       none,
		WireupLane:    none,
		InitFlags:     ctx.OutInitFlags,
	}

	// Step 1: per-lane output arrays.
	for i := 0; i < n; i++ {
		ld := lt.At(i)
		out.Lanes[i] = LaneInfo{LocalResource: ld.LocalRsc, ProxyLane: resolveProxySentinel(ld.ProxyLane, i, none), RemoteMD: ld.RemoteMD}
		out.LaneRemoteIdx[i] = ld.RemoteIdx
	}

	// Step 2: designated AM/TAG lanes; uniqueness is structural (each
	// pass appends or merges into at most one lane for its own role). AM
	// and TAG may share a lane when both passes chose the same pair; the
	// assertions check that each designated lane carries its role.
	if ctx.AMSelected != NoLane {
		out.AMLane = ctx.AMSelected
	}
	if ctx.TagSelected != NoLane {
		out.TagLane = ctx.TagSelected
	}
	debug.Assertf(out.AMLane == none || lt.At(out.AMLane).Usage.Has(RoleAM),
		"AM lane %d does not carry the AM role", out.AMLane)
	debug.Assertf(out.TagLane == none || lt.At(out.TagLane).Usage.Has(RoleTag),
		"TAG lane %d does not carry the TAG role", out.TagLane)

	// Step 3: per-role ranked arrays.
	out.RMALanes = rankedRoleLanes(lt, RoleRMA, func(ld *laneDescriptor) RoleScore { return ld.ScoreRMA }, maxLanes, none)
	out.RMABWLanes = rankedRoleLanes(lt, RoleRMABW, func(ld *laneDescriptor) RoleScore { return ld.ScoreRMABW }, maxLanes, none)
	out.AMOLanes = rankedRoleLanes(lt, RoleAMO, func(ld *laneDescriptor) RoleScore { return ld.ScoreAMO }, maxLanes, none)
	out.AMBWLanes = rankedAMBWLanes(ctx, lt, maxLanes, none)

	// Step 4: elect the wireup lane.
	out.WireupLane = electWireupLane(ctx, lt, none)

	// Step 5: rma_bw_md_map.
	out.RMABWMDMap = buildRMABWMDMap(ctx, lt, out.RMABWLanes, none)

	return out
}

// resolveProxySentinel turns the scratch table's self-proxy convention
// (ProxyLane == own index) and "no proxy" convention (ProxyLane == NoLane)
// into the output's NONE sentinel, leaving a genuine cross-reference to
// another lane untouched.
func resolveProxySentinel(proxyLane, self, none int) int {
	if proxyLane == NoLane || proxyLane == self {
		return none
	}
	return proxyLane
}

// rankedRoleLanes builds a length-maxLanes array of lane indices carrying
// role, sorted by decreasing score with a stable tie-break (ascending
// lane index, since sort.SliceStable preserves the lane table's own
// append order on ties), NONE-filled past the number of lanes found.
func rankedRoleLanes(lt *laneTable, role RoleMask, score func(*laneDescriptor) RoleScore, maxLanes, none int) []int {
	idxs := make([]int, 0, maxLanes)
	for i := 0; i < lt.Len(); i++ {
		if lt.At(i).Usage.Has(role) {
			idxs = append(idxs, i)
		}
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		return score(lt.At(idxs[a])).Value > score(lt.At(idxs[b])).Value
	})
	return padWithNone(idxs, maxLanes, none)
}

// rankedAMBWLanes is rankedRoleLanes specialized for AM-BW: slot 0 is
// reserved for the AM lane (spec.md section 4.5 step 3), the remaining
// AM-BW-carrying lanes are ranked into slots 1..maxLanes-1.
func rankedAMBWLanes(ctx *SelectCtx, lt *laneTable, maxLanes, none int) []int {
	out := make([]int, maxLanes)
	for i := range out {
		out[i] = none
	}
	if ctx.AMSelected != NoLane {
		out[0] = ctx.AMSelected
	}
	if maxLanes <= 1 {
		return out
	}

	idxs := make([]int, 0, maxLanes-1)
	for i := 0; i < lt.Len(); i++ {
		if i == ctx.AMSelected {
			continue
		}
		if lt.At(i).Usage.Has(RoleAMBW) {
			idxs = append(idxs, i)
		}
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		return lt.At(idxs[a]).ScoreAMBW.Value > lt.At(idxs[b]).ScoreAMBW.Value
	})
	for i, idx := range idxs {
		if i+1 >= maxLanes {
			break
		}
		out[i+1] = idx
	}
	return out
}

func padWithNone(idxs []int, maxLanes, none int) []int {
	out := make([]int, maxLanes)
	for i := range out {
		if i < len(idxs) {
			out[i] = idxs[i]
		} else {
			out[i] = none
		}
	}
	return out
}

// electWireupLane implements spec.md section 4.5 step 4: the first lane
// (in lane-table order) whose local/remote interfaces both satisfy the
// auxiliary criteria wins; otherwise the first lane on a peer-to-peer
// transport; otherwise NONE.
func electWireupLane(ctx *SelectCtx, lt *laneTable, none int) int {
	auxLocal := IfaceConnectToIface | IfaceAMBcopy | IfacePending
	auxRemote := IfaceConnectToIface | IfaceAMBcopy | IfaceCBAsync

	for i := 0; i < lt.Len(); i++ {
		ld := lt.At(i)
		local := &ctx.Resources[ld.LocalRsc]
		remote := &ctx.Remotes[ld.RemoteIdx]
		if local.Caps.Iface.Has(auxLocal) && remote.Caps.Iface.Has(auxRemote) {
			return i
		}
	}
	for i := 0; i < lt.Len(); i++ {
		ld := lt.At(i)
		if ctx.Resources[ld.LocalRsc].IsPeerToPeer() {
			return i
		}
	}
	return none
}

// buildRMABWMDMap implements spec.md section 4.5 step 5: walk rma_bw_lanes
// in score order, including a lane's remote MD while it needs rkey
// packing and the MAX_OP_MDS budget is not exceeded, skipping any lane
// whose local transport name matches a configured rendezvous exclusion.
func buildRMABWMDMap(ctx *SelectCtx, lt *laneTable, rmabwLanes []int, none int) cos.BitMask {
	var mdMap cos.BitMask
	included := 0
	for _, idx := range rmabwLanes {
		if idx == none {
			break
		}
		if included >= ctx.Cfg.MaxOpMDs {
			break
		}
		ld := lt.At(idx)
		local := &ctx.Resources[ld.LocalRsc]
		remote := &ctx.Remotes[ld.RemoteIdx]
		if !remote.MDFlags.Has(MDFlagNeedRkey) {
			continue
		}
		if isExcludedTransport(local.TransportName, ctx.Cfg.RndvExcludedTransports) {
			continue
		}
		mdMap = mdMap.Set(cos.BitMask(1) << uint(remote.MD))
		included++
	}
	return mdMap
}

func isExcludedTransport(name string, excluded []string) bool {
	for _, e := range excluded {
		if e != "" && strings.Contains(name, e) {
			return true
		}
	}
	return false
}
