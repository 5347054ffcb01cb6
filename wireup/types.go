package wireup

import "github.com/NVIDIA/ucx-wireup/cmn/cos"

// MemType identifies a memory type the endpoint's context advertises access
// transports for (spec.md section 4.4.4: "executed once per memory type
// that the context advertises access transports for"). A small closed set
// covers the host plus the device memory types the teacher's own object
// pipeline already reasons about (system/pinned/GPU), generalized here to
// the transport layer's notion of memory type rather than a storage tier.
type MemType int

const (
	MemTypeHost MemType = iota
	MemTypeCUDA
	MemTypeROCm
)

// Latency models a transport's overhead/growth pair (spec.md section 4.1):
// latency = max(local.Overhead, remote.Overhead) + local.Growth*estimatedEndpoints.
type Latency struct {
	Overhead float64 // seconds, fixed per-message overhead
	Growth   float64 // seconds, added per additional concurrent endpoint
}

// Capabilities mirrors a transport resource's (or remote entry's)
// capability record (spec.md section 3).
type Capabilities struct {
	Iface       IfaceFlags
	Atomics     AtomicCaps
	Latency     Latency
	Bandwidth   float64 // bytes/sec, advertised bandwidth
	Overhead    float64 // seconds, per-op overhead (separate from Latency.Overhead)
	Priority    int
	MaxBcopy    float64 // bytes, max single bcopy-path message size (AM-BW score)
	RegGrowth   float64 // seconds/byte, memory registration cost growth (bulk-RMA score)
	RegOverhead float64 // seconds, fixed memory registration cost
}

// Resource is a local transport resource, immutable for the lifetime of
// the worker (spec.md section 3, "Transport resource (local)").
type Resource struct {
	Index        int
	MD           int
	Device       int
	DeviceType   DeviceType
	TransportName string
	RsrcFlags    RsrcFlags
	MDFlags      MDFlags
	Caps         Capabilities
}

func (r *Resource) IsAuxOnly() bool { return r.RsrcFlags.Has(RsrcAuxOnly) }
func (r *Resource) IsPeerToPeer() bool { return IsPeerToPeer(r.Caps.Iface) }

// RemoteEntry is one entry from the unpacked remote address list (spec.md
// section 3, "Remote address entry").
type RemoteEntry struct {
	Index            int
	MD               int
	Device           int
	MDFlags          MDFlags
	TransportChecksum uint64
	Caps             Capabilities
}

// AllowedMasks bounds the criteria evaluator's search space (spec.md
// section 4.2). Bits are indexed by Resource.Index / Resource.Device /
// RemoteEntry.Device / RemoteEntry.MD respectively — a
// caller with more than 64 of any one of those needs a wider BitMask, which
// the teacher's own fixed MAX_LANES-bounded design never requires either.
type AllowedMasks struct {
	Transports   cos.BitMask // by Resource.Index
	LocalDevices cos.BitMask // by Resource.Device
	RemoteDevices cos.BitMask // by RemoteEntry.Device
	RemoteMDs    cos.BitMask // by RemoteEntry.MD
}

// AllowAll returns a mask with every bit set up through n resources — used
// when a pass has not yet narrowed the search space.
func AllowAll(n int) cos.BitMask {
	if n >= 64 {
		return ^cos.BitMask(0)
	}
	return (cos.BitMask(1) << uint(n)) - 1
}

// allOnes is the "every device/MD index allowed" mask, used by criteria
// that only narrow on Transports/RemoteMDs and leave device filtering to
// the reachability predicate.
const allOnes = ^cos.BitMask(0)

// ReachableFn is the transport layer's reachability predicate (spec.md
// section 4.2 and the GLOSSARY): "typically requires matching transport-
// name checksum and the local device being able to address the remote
// device". Supplied by the caller; apart from the rendezvous-exclusion
// substring check when building rma_bw_md_map, wireup does not look at
// transport names itself.
type ReachableFn func(local *Resource, remote *RemoteEntry) bool
