package wireup

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/ucx-wireup/cmn/cos"
)

// ifaceFlagNames gives the criteria evaluator's "first missing flag" human
// name (spec.md section 4.2), in declaration order so the lowest bit wins
// ties the same way cos.BitMask.Lowest() does.
var ifaceFlagNames = []struct {
	bit  IfaceFlags
	name string
}{
	{IfaceAMShort, "am_short"},
	{IfaceAMBcopy, "am_bcopy"},
	{IfaceAMZcopy, "am_zcopy"},
	{IfacePutShort, "put_short"},
	{IfacePutBcopy, "put_bcopy"},
	{IfacePutZcopy, "put_zcopy"},
	{IfaceGetShort, "get_short"},
	{IfaceGetBcopy, "get_bcopy"},
	{IfaceGetZcopy, "get_zcopy"},
	{IfaceTagEagerShort, "tag_eager_short"},
	{IfaceTagEagerBcopy, "tag_eager_bcopy"},
	{IfaceTagEagerZcopy, "tag_eager_zcopy"},
	{IfaceTagRndvZcopy, "tag_rndv_zcopy"},
	{IfaceConnectToIface, "connect_to_iface"},
	{IfaceConnectToEP, "connect_to_ep"},
	{IfacePending, "pending"},
	{IfaceCBSync, "cb_sync"},
	{IfaceCBAsync, "cb_async"},
	{IfaceEventSendComp, "event_send_comp"},
	{IfaceEventRecv, "event_recv"},
	{IfaceEventRecvSig, "event_recv_sig"},
	{IfaceReliable, "reliable"},
	{IfaceErrHandlePeerFailure, "err_handle_peer_failure"},
}

func firstMissingIfaceName(missing IfaceFlags) string {
	for _, f := range ifaceFlagNames {
		if missing.Has(f.bit) {
			return f.name
		}
	}
	return ""
}

var mdFlagNames = []struct {
	bit  MDFlags
	name string
}{
	{MDFlagReg, "md_reg"},
	{MDFlagAlloc, "md_alloc"},
	{MDFlagNeedRkey, "md_need_rkey"},
}

func firstMissingMDName(missing MDFlags) string {
	for _, f := range mdFlagNames {
		if missing.Has(f.bit) {
			return f.name
		}
	}
	return ""
}

var atomicOpNames = []struct {
	bit  AtomicFlags
	name string
}{
	{AtomicAdd, "add"},
	{AtomicAnd, "and"},
	{AtomicOr, "or"},
	{AtomicXor, "xor"},
	{AtomicSwap, "swap"},
	{AtomicCswap, "cswap"},
}

func firstMissingAtomicName(missing AtomicCaps) string {
	type entry struct {
		bits AtomicFlags
		kind string
	}
	for _, e := range []entry{
		{missing.Op32, "op32"}, {missing.Fop32, "fop32"},
		{missing.Op64, "op64"}, {missing.Fop64, "fop64"},
	} {
		for _, op := range atomicOpNames {
			if e.bits.Has(op.bit) {
				return e.kind + "_" + op.name
			}
		}
	}
	return ""
}

// maxDiagLen caps the accumulated diagnostic string, echoing the design
// note in spec.md section 9 about a fixed-capacity string builder on the
// selection hot path: a failed selection still needs to be debuggable, but
// an endpoint with hundreds of resources must not turn one UNREACHABLE into
// a multi-megabyte log line.
const maxDiagLen = 4096

// diagBuilder accumulates "resource X failed because Y" reasons for the
// UNREACHABLE diagnostic spec.md sections 4.2 and 7 require.
type diagBuilder struct {
	b   strings.Builder
	cap int
}

func newDiagBuilder() *diagBuilder { return &diagBuilder{cap: maxDiagLen} }

func (d *diagBuilder) addf(format string, args ...any) {
	if d.b.Len() >= d.cap {
		return
	}
	if d.b.Len() > 0 {
		d.b.WriteString("; ")
	}
	fmt.Fprintf(&d.b, format, args...)
}

func (d *diagBuilder) String() string {
	s := d.b.String()
	if len(s) > d.cap {
		return s[:d.cap] + "...(truncated)"
	}
	return s
}

func bitIndex(mask cos.BitMask) []int {
	var out []int
	for i := 0; i < 64; i++ {
		if mask.Has(cos.BitMask(1) << uint(i)) {
			out = append(out, i)
		}
	}
	return out
}
