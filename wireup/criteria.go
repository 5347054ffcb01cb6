package wireup

import (
	"github.com/NVIDIA/ucx-wireup/cmn/config"
	"github.com/NVIDIA/ucx-wireup/cmn/cos"
	"github.com/NVIDIA/ucx-wireup/cmn/debug"
)

// Criteria is the diagnostic + requirement record the evaluator scores
// against (spec.md section 3, "Criteria").
type Criteria struct {
	Title          string
	LocalMD        MDFlags
	RemoteMD       MDFlags
	LocalIface     IfaceFlags
	RemoteIface    IfaceFlags
	LocalAtomics   AtomicCaps
	RemoteAtomics  AtomicCaps
	RsrcFlags      RsrcFlags // e.g. RsrcAuxOnly opts auxiliary-only resources in
	Score          ScoreFunc
}

// Selection is a scored (local, remote) pair, the evaluator's success
// result.
type Selection struct {
	Local  *Resource
	Remote *RemoteEntry
	Score  float64
}

// SelectCtx bundles the per-call, read-only inputs the evaluator and every
// pass need (spec.md section 5: "the selector treats them as read-only").
type SelectCtx struct {
	Resources          []Resource
	Remotes            []RemoteEntry
	Reachable          ReachableFn
	Params             EpParams
	Cfg                *config.Selection
	EstimatedEndpoints int
	CorrelationID      string

	// MemTypeTransports maps a memory type the context advertises access
	// transports for, to the allowed-local-transport bitmap for that
	// memory type (spec.md section 4.4.4). A nil/missing entry means
	// "this memory type has no dedicated allowed set" and the RMA-BW
	// pass skips it.
	MemTypeTransports map[MemType]cos.BitMask

	// AtomicOpRequest is the context's requested atomic operation set,
	// consulted by the AMO pass (spec.md section 4.4.2).
	AtomicOpRequest AtomicCaps

	// OutInitFlags accumulates selector-produced output bits across passes
	// (spec.md section 7's AM-emulation fallback sets FlagCreateAMLane
	// here); the finalizer copies it into EpConfig.InitFlags.
	OutInitFlags InitFlags

	// AMSelected records the AM pass's placed lane index (NoLane if the
	// AM pass determined a lane was not required), consulted by the TAG
	// and AM-BW passes (spec.md sections 4.4.6 and 4.4.7). AMScore is
	// that lane's score at the moment it was placed — the AM role has no
	// dedicated per-role field on laneDescriptor, so it is carried here
	// instead of re-derived from the lane table.
	AMSelected  int
	AMScore     float64
	TagSelected int

	diag *diagBuilder
}

// Evaluate runs the two-phase criteria evaluation algorithm (spec.md
// section 4.2): a remote filter pass, then a local scan that applies the
// reachability predicate and scores survivors, tracking the best pair.
//
// showError controls only whether the accumulated diagnostic is populated
// in the returned error; it never changes which pair wins.
func (ctx *SelectCtx) Evaluate(c *Criteria, allowed AllowedMasks, showError bool) (Selection, error) {
	remoteCandidates := ctx.filterRemotes(c, allowed)
	if len(remoteCandidates) == 0 {
		if showError {
			return Selection{}, newUnreachable(c.Title, "no remote entry satisfies required flags: "+ctx.diagString())
		}
		return Selection{}, newUnreachable(c.Title, "no remote entry satisfies required flags")
	}

	var (
		best      Selection
		found     bool
		localDiag = newDiagBuilder()
	)

	for i := range ctx.Resources {
		local := &ctx.Resources[i]
		if !allowed.Transports.Has(cos.BitMask(1) << uint(local.Index)) {
			continue
		}
		if !allowed.LocalDevices.Has(cos.BitMask(1) << uint(local.Device)) {
			continue
		}
		if local.IsAuxOnly() && !c.RsrcFlags.Has(RsrcAuxOnly) {
			continue
		}
		if missing := local.MDFlags.Missing(c.LocalMD); !missing.IsZero() {
			localDiag.addf("local rsc %d(%s): missing md flag %s", local.Index, local.TransportName, firstMissingMDName(missing))
			continue
		}
		if missing := local.Caps.Iface.Missing(c.LocalIface); !missing.IsZero() {
			localDiag.addf("local rsc %d(%s): missing iface flag %s", local.Index, local.TransportName, firstMissingIfaceName(missing))
			continue
		}
		if missing := local.Caps.Atomics.Missing(c.LocalAtomics); !missing.IsZero() {
			localDiag.addf("local rsc %d(%s): missing atomic flag %s", local.Index, local.TransportName, firstMissingAtomicName(missing))
			continue
		}

		reachedAny := false
		for _, remote := range remoteCandidates {
			if !ctx.Reachable(local, remote) {
				continue
			}
			reachedAny = true
			score := c.Score(local, remote, ctx.EstimatedEndpoints, ctx.Cfg)
			if !found {
				best, found = Selection{Local: local, Remote: remote, Score: score}, true
				continue
			}
			best = ctx.betterOf(best, Selection{Local: local, Remote: remote, Score: score})
		}
		if !reachedAny {
			localDiag.addf("local rsc %d(%s): no reachable remote", local.Index, local.TransportName)
		}
	}

	if !found {
		reason := "no (local, remote) pair reachable"
		if showError {
			reason += ": " + ctx.diagString() + "; " + localDiag.String()
		}
		return Selection{}, newUnreachable(c.Title, reason)
	}
	return best, nil
}

// betterOf applies spec.md section 4.1's comparison: higher score wins;
// equal scores (within epsilon) break on summed priority; still-tied keeps
// the first candidate found, which — because callers iterate resources and
// remotes in ascending index order — is exactly "ascending local resource
// index, then ascending remote entry index".
func (ctx *SelectCtx) betterOf(a, b Selection) Selection {
	if cos.ScoreEqual(a.Score, b.Score, ctx.Cfg.Epsilon) {
		pa := a.Local.Caps.Priority + a.Remote.Caps.Priority
		pb := b.Local.Caps.Priority + b.Remote.Caps.Priority
		if pb > pa {
			return b
		}
		return a
	}
	if b.Score > a.Score {
		return b
	}
	return a
}

// filterRemotes implements spec.md section 4.2 phase 1: keep remote
// entries whose device/MD/flags satisfy the criteria's remote-side
// requirements, logging (into ctx.diag) the first missing flag for each
// rejected entry.
func (ctx *SelectCtx) filterRemotes(c *Criteria, allowed AllowedMasks) []*RemoteEntry {
	ctx.diag = newDiagBuilder()
	out := make([]*RemoteEntry, 0, len(ctx.Remotes))
	for i := range ctx.Remotes {
		r := &ctx.Remotes[i]
		if !allowed.RemoteDevices.Has(cos.BitMask(1) << uint(r.Device)) {
			continue
		}
		if !allowed.RemoteMDs.Has(cos.BitMask(1) << uint(r.MD)) {
			continue
		}
		if missing := r.MDFlags.Missing(c.RemoteMD); !missing.IsZero() {
			ctx.diag.addf("remote %d: missing md flag %s", r.Index, firstMissingMDName(missing))
			continue
		}
		if missing := r.Caps.Iface.Missing(c.RemoteIface); !missing.IsZero() {
			ctx.diag.addf("remote %d: missing iface flag %s", r.Index, firstMissingIfaceName(missing))
			continue
		}
		if missing := r.Caps.Atomics.Missing(c.RemoteAtomics); !missing.IsZero() {
			ctx.diag.addf("remote %d: missing atomic flag %s", r.Index, firstMissingAtomicName(missing))
			continue
		}
		out = append(out, r)
	}
	return out
}

func (ctx *SelectCtx) diagString() string {
	debug.Assert(ctx.diag != nil, "filterRemotes must run before diagString")
	return ctx.diag.String()
}
