package wireup

import "github.com/NVIDIA/ucx-wireup/cmn/config"

// SelectAuxiliary runs the single-shot auxiliary-transport selection of
// spec.md section 4.6: the endpoint state machine calls this, not Select,
// before the main address exchange, to pick the transport carrying the
// wireup handshake messages themselves. Failure is fatal for endpoint
// creation — there is no fallback transport for the handshake that picks
// the real lanes.
func SelectAuxiliary(resources []Resource, remotes []RemoteEntry, reachable ReachableFn, estimatedEndpoints int, cfg *config.Selection) (Selection, error) {
	ctx := &SelectCtx{
		Resources:          resources,
		Remotes:            remotes,
		Reachable:          reachable,
		Cfg:                cfg,
		EstimatedEndpoints: maxInt(1, estimatedEndpoints),
	}
	c := &Criteria{
		Title:       "aux",
		LocalIface:  IfaceConnectToIface | IfaceAMBcopy | IfacePending,
		RemoteIface: IfaceConnectToIface | IfaceAMBcopy | IfaceCBAsync,
		RsrcFlags:   RsrcAuxOnly,
		Score:       ScoreAux,
	}
	full := AllowAll(len(resources))
	return ctx.Evaluate(c, AllowedMasks{Transports: full, LocalDevices: allOnes, RemoteDevices: allOnes, RemoteMDs: allOnes}, true)
}
