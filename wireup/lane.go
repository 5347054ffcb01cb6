package wireup

import "github.com/NVIDIA/ucx-wireup/cmn/debug"

// NoLane is the scratch-table "no lane" sentinel. It is distinct from the
// bit-stable output sentinel (MaxLanes, spec.md section 6) — NoLane is an
// internal index value only, never written to an EpConfig.
const NoLane = -1

// laneDescriptor is the scratch-buffer lane record (spec.md section 3).
type laneDescriptor struct {
	LocalRsc  int
	RemoteIdx int
	ProxyLane int // NoLane, self-index, or another lane's index
	RemoteMD  int
	Usage     RoleMask

	ScoreAMBW RoleScore
	ScoreRMA  RoleScore
	ScoreRMABW RoleScore
	ScoreAMO  RoleScore
}

// RoleScore pairs a score with whether it has been written; a lane that
// never carries a role leaves that role's score at its zero value, which
// must never be mistaken for "role present with a zero score" in the
// finalizer's ranking step.
type RoleScore struct {
	Value float64
	Set   bool
}

// laneTable is the append-only table accumulated across the six role
// passes (spec.md section 4.3), held in a fixed-capacity scratch array
// (spec.md section 5: "allocates exclusively within... a stack-resident
// lane-descriptor array sized to MaxLanes").
type laneTable struct {
	lanes []laneDescriptor
	cap   int
}

func newLaneTable(capacity int) *laneTable {
	return &laneTable{lanes: make([]laneDescriptor, 0, capacity), cap: capacity}
}

func (lt *laneTable) Len() int { return len(lt.lanes) }

func (lt *laneTable) At(i int) *laneDescriptor { return &lt.lanes[i] }

// find returns the index of an existing lane for (localRsc, remoteIdx), or
// -1 if none exists — spec.md invariant I1: "a (local_resource, remote_entry)
// pair appears at most once in the lane table".
func (lt *laneTable) find(localRsc, remoteIdx int) int {
	for i := range lt.lanes {
		if lt.lanes[i].LocalRsc == localRsc && lt.lanes[i].RemoteIdx == remoteIdx {
			return i
		}
	}
	return -1
}

// setScore writes the per-role score matching a usage bit, and only that
// bit (spec.md section 4.3: "Per-role score fields on a lane are written
// when and only when the matching role bit appears in the usage being
// added").
func (ld *laneDescriptor) setScore(usage RoleMask, score float64) {
	if usage.Has(RoleAMBW) {
		ld.ScoreAMBW = RoleScore{Value: score, Set: true}
	}
	if usage.Has(RoleRMA) {
		ld.ScoreRMA = RoleScore{Value: score, Set: true}
	}
	if usage.Has(RoleRMABW) {
		ld.ScoreRMABW = RoleScore{Value: score, Set: true}
	}
	if usage.Has(RoleAMO) {
		ld.ScoreAMO = RoleScore{Value: score, Set: true}
	}
}

// append implements the merge rule of spec.md section 4.3.
//
// Returns the index of the lane that now carries the new usage/score (which
// may be a pre-existing lane, when the pair already has a non-proxy entry
// and the new addition is not itself a proxy).
func (lt *laneTable) append(sel Selection, remoteMD int, usage RoleMask, isProxy bool, score float64) int {
	existing := lt.find(sel.Local.Index, sel.Remote.Index)

	if existing < 0 {
		debug.Assertf(len(lt.lanes) < lt.cap, "lane table overflow: cap=%d", lt.cap)
		ld := laneDescriptor{
			LocalRsc:  sel.Local.Index,
			RemoteIdx: sel.Remote.Index,
			RemoteMD:  remoteMD,
			Usage:     usage,
		}
		idx := len(lt.lanes)
		if isProxy {
			ld.ProxyLane = idx // self-proxy
		} else {
			ld.ProxyLane = NoLane
		}
		ld.setScore(usage, score)
		lt.lanes = append(lt.lanes, ld)
		return idx
	}

	existingLane := &lt.lanes[existing]
	debug.Assertf(existingLane.Usage&usage == 0, "usage overlap on lane merge: lane %d already carries %v, adding %v", existing, existingLane.Usage, usage)

	existingIsSelfProxy := existingLane.ProxyLane == existing
	existingIsNonProxy := existingLane.ProxyLane == NoLane
	debug.Assertf(!isProxy || existingIsNonProxy || existingIsSelfProxy,
		"lane merge: proxy addition against an existing proxy-for-another lane %d is not a defined case", existing)
	debug.Assertf(isProxy || existingIsNonProxy || existingIsSelfProxy,
		"lane merge: non-proxy addition against an existing proxy-for-another lane %d is not a defined case", existing)

	switch {
	case isProxy && existingIsNonProxy:
		// existing lane is non-proxy: the new lane exists solely as a
		// signaled-send shim pointing at the real one.
		debug.Assertf(len(lt.lanes) < lt.cap, "lane table overflow: cap=%d", lt.cap)
		ld := laneDescriptor{
			LocalRsc:  sel.Local.Index,
			RemoteIdx: sel.Remote.Index,
			RemoteMD:  remoteMD,
			Usage:     usage,
			ProxyLane: existing,
		}
		ld.setScore(usage, score)
		idx := len(lt.lanes)
		lt.lanes = append(lt.lanes, ld)
		return idx

	case !isProxy && existingIsSelfProxy:
		// existing lane is a self-proxy: repoint it at the new
		// (to-be-appended) lane, then append the new non-proxy lane.
		debug.Assertf(len(lt.lanes) < lt.cap, "lane table overflow: cap=%d", lt.cap)
		newIdx := len(lt.lanes)
		ld := laneDescriptor{
			LocalRsc:  sel.Local.Index,
			RemoteIdx: sel.Remote.Index,
			RemoteMD:  remoteMD,
			Usage:     usage,
			ProxyLane: NoLane,
		}
		ld.setScore(usage, score)
		lt.lanes = append(lt.lanes, ld)
		lt.lanes[existing].ProxyLane = newIdx
		return newIdx

	default:
		// non-proxy addition onto a non-proxy lane, or proxy addition onto
		// a self-proxy lane: OR usage bits into the existing lane, update
		// its per-role scores, do not append.
		existingLane.Usage = existingLane.Usage.Set(usage)
		existingLane.setScore(usage, score)
		return existing
	}
}
