package wireup

// amPass places the single active-message lane (spec.md section 4.4.3).
// Whenever the lane is needed, a failure here is fatal and propagates out
// of Select as an UNREACHABLE error.
//
// The lane is needed whenever any of:
//   - the caller hinted FlagWireupOverAM (control messages ride AM itself);
//   - an earlier RMA or AMO pass fell back to AM-emulation and set
//     FlagCreateAMLane;
//   - a sockaddr endpoint is being created;
//   - the endpoint is not memory-type-copy-only and requested TAG, STREAM,
//     or AM; or
//   - an earlier pass (RMA or AMO) already placed a peer-to-peer lane,
//     which needs an AM lane to carry its own wireup handshake.
//
// If none apply the pass is a no-op: no lane, no error.
type amPass struct{}

func (p *amPass) Name() string { return "am" }

func (p *amPass) Run(ctx *SelectCtx, lt *laneTable) error {
	if !amLaneNeeded(ctx, lt) {
		return nil
	}

	remoteIface := IfaceAMBcopy | IfaceCBSync
	localIface := IfaceAMBcopy
	if ctx.Params.Features.Has(FeatTag) && ctx.Params.Features.Has(FeatWakeup) {
		localIface |= IfaceEventRecv
	}

	c := &Criteria{
		Title:       "am",
		LocalIface:  localIface,
		RemoteIface: remoteIface,
		Score:       ScoreLatency,
	}
	full := AllowAll(len(ctx.Resources))
	sel, err := ctx.Evaluate(c, AllowedMasks{Transports: full, LocalDevices: allOnes, RemoteDevices: allOnes, RemoteMDs: allOnes}, true)
	if err != nil {
		return newUnreachable("am", "AM lane required but none placed: "+err.Error())
	}

	isProxy := needsProxy(sel.Local, sel.Remote)
	ctx.AMSelected = lt.append(sel, sel.Remote.MD, RoleAM, isProxy, sel.Score)
	ctx.AMScore = sel.Score
	return nil
}

// amLaneNeeded evaluates spec.md section 4.4.3's four gating conditions,
// plus the AM-emulation request an earlier pass left in OutInitFlags.
func amLaneNeeded(ctx *SelectCtx, lt *laneTable) bool {
	if ctx.Params.InitFlags.Has(FlagWireupOverAM) {
		return true
	}
	if ctx.OutInitFlags.Has(FlagCreateAMLane) {
		return true
	}
	if ctx.Params.SockAddr.Present {
		return true
	}
	if !ctx.Params.MemTypeCopy && (ctx.Params.Features.Has(FeatTag) || ctx.Params.Features.Has(FeatStream) || ctx.Params.Features.Has(FeatAM)) {
		return true
	}
	for i := 0; i < lt.Len(); i++ {
		ld := lt.At(i)
		if ctx.Resources[ld.LocalRsc].IsPeerToPeer() {
			return true
		}
	}
	return false
}
