package wireup

// Pass is one of the six role passes from spec.md section 4.4, run in a
// fixed order. The interface is deliberately narrow — Run receives only
// the selection context and the lane table's merge primitive, never a way
// to bypass it — which is the re-architecture spec.md section 9 asks for:
// "role passes should not reach into the lane table directly; they should
// use the merge primitive."
//
// The shape (a small struct implementing one method, registered in
// declaration order) is adapted from the teacher's xreg.Renewable factory
// idiom (xact/xs/tcb.go's tcbFactory: a per-kind struct with an interface
// guard, driven by a fixed registration rather than a type switch) —
// repurposed here from "renew a running cluster xaction" to "run one
// stateless, ordered selection pass".
type Pass interface {
	// Name identifies the pass in Select's log line when the pass fails
	// fatally.
	Name() string
	// Run attempts to place zero or more lanes for this pass's role(s). A
	// non-nil return is always fatal to the overall Select call. The AM
	// pass's failure is unconditionally fatal (spec.md section 4.4.3);
	// RMA and AMO instead swallow a failed Evaluate into "no lane added"
	// and fall back to AM-emulation, returning an error only when
	// ErrModePeer disables that fallback (spec.md section 7 scenario 5);
	// RMA-BW, TAG, and AM-BW always swallow failure.
	Run(ctx *SelectCtx, lt *laneTable) error
}

// passes is the fixed, ordered pass table (spec.md section 4.4: "Executed
// in this exact order... later passes depend on lane-table state from
// earlier ones").
var passes = []Pass{
	&rmaPass{},
	&amoPass{},
	&amPass{},
	&rmabwPass{},
	&tagPass{},
	&ambwPass{},
}

// interface guards, mirroring the teacher's "// interface guard" blocks.
var (
	_ Pass = (*rmaPass)(nil)
	_ Pass = (*amoPass)(nil)
	_ Pass = (*amPass)(nil)
	_ Pass = (*rmabwPass)(nil)
	_ Pass = (*tagPass)(nil)
	_ Pass = (*ambwPass)(nil)
)
