package wireup

// tagPass places the single tag-matching lane (spec.md section 4.4.6).
// Gated on FeatTag and ErrModeNone (peer-failure handling has no
// reliable tag-rendezvous story, so the TAG lane is skipped and traffic
// rides AM instead). Optional: a failed Evaluate is silently swallowed,
// and even a successful one is only accepted if it scores at or above
// the AM lane already placed — otherwise AM is already the better choice
// for tag-sized messages and a second lane buys nothing.
type tagPass struct{}

func (p *tagPass) Name() string { return "tag" }

func (p *tagPass) Run(ctx *SelectCtx, lt *laneTable) error {
	if !ctx.Params.Features.Has(FeatTag) || ctx.Params.ErrMode != ErrModeNone {
		return nil
	}

	c := &Criteria{
		Title:       "tag",
		RemoteMD:    MDFlagReg,
		LocalIface:  IfaceTagEagerBcopy | IfaceGetZcopy | IfacePending,
		RemoteIface: IfaceTagEagerBcopy | IfaceTagRndvZcopy | IfaceGetZcopy,
		Score:       ScoreLatency,
	}
	full := AllowAll(len(ctx.Resources))
	sel, err := ctx.Evaluate(c, AllowedMasks{Transports: full, LocalDevices: allOnes, RemoteDevices: allOnes, RemoteMDs: allOnes}, false)
	if err != nil {
		return nil
	}

	if ctx.AMSelected != NoLane && sel.Score < ctx.AMScore {
		return nil
	}

	isProxy := needsProxy(sel.Local, sel.Remote)
	ctx.TagSelected = lt.append(sel, sel.Remote.MD, RoleTag, isProxy, sel.Score)
	return nil
}
