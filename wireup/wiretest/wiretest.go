// Package wiretest builds small, hand-tuned local-resource and
// remote-entry fixtures for exercising wireup.Select without a real UCX
// worker, mirroring how the teacher's fuse/fs tests build a bare-bones
// bucket/cache fixture instead of hitting a real cluster.
package wiretest

import "github.com/NVIDIA/ucx-wireup/wireup"

// ResourceOpt mutates a Resource built by NewResource.
type ResourceOpt func(*wireup.Resource)

func WithIface(f wireup.IfaceFlags) ResourceOpt {
	return func(r *wireup.Resource) { r.Caps.Iface = f }
}

func WithMDFlags(f wireup.MDFlags) ResourceOpt {
	return func(r *wireup.Resource) { r.MDFlags = f }
}

func WithRsrcFlags(f wireup.RsrcFlags) ResourceOpt {
	return func(r *wireup.Resource) { r.RsrcFlags = f }
}

func WithDeviceType(t wireup.DeviceType) ResourceOpt {
	return func(r *wireup.Resource) { r.DeviceType = t }
}

func WithAtomics(c wireup.AtomicCaps) ResourceOpt {
	return func(r *wireup.Resource) { r.Caps.Atomics = c }
}

func WithLatency(overhead, growth float64) ResourceOpt {
	return func(r *wireup.Resource) { r.Caps.Latency = wireup.Latency{Overhead: overhead, Growth: growth} }
}

func WithBandwidth(bw float64) ResourceOpt {
	return func(r *wireup.Resource) { r.Caps.Bandwidth = bw }
}

// NewResource builds a Resource with reasonable scoring defaults
// (non-zero bandwidth/latency so every score function stays finite), an
// MD and device equal to its index unless overridden, and no capability
// flags unless an opt sets them.
func NewResource(index int, name string, opts ...ResourceOpt) wireup.Resource {
	r := wireup.Resource{
		Index:         index,
		MD:            index,
		Device:        index,
		TransportName: name,
		MDFlags:       wireup.MDFlagReg,
		Caps: wireup.Capabilities{
			Latency:   wireup.Latency{Overhead: 1e-6, Growth: 1e-9},
			Bandwidth: 1e10,
			Overhead:  1e-7,
			MaxBcopy:  8192,
		},
	}
	for _, o := range opts {
		o(&r)
	}
	return r
}

// RemoteOpt mutates a RemoteEntry built by NewRemote.
type RemoteOpt func(*wireup.RemoteEntry)

func RemoteWithIface(f wireup.IfaceFlags) RemoteOpt {
	return func(r *wireup.RemoteEntry) { r.Caps.Iface = f }
}

func RemoteWithMDFlags(f wireup.MDFlags) RemoteOpt {
	return func(r *wireup.RemoteEntry) { r.MDFlags = f }
}

func RemoteWithAtomics(c wireup.AtomicCaps) RemoteOpt {
	return func(r *wireup.RemoteEntry) { r.Caps.Atomics = c }
}

func RemoteWithChecksum(sum uint64) RemoteOpt {
	return func(r *wireup.RemoteEntry) { r.TransportChecksum = sum }
}

// NewRemote mirrors NewResource's scoring defaults for a RemoteEntry.
func NewRemote(index int, opts ...RemoteOpt) wireup.RemoteEntry {
	r := wireup.RemoteEntry{
		Index:   index,
		MD:      index,
		Device:  index,
		MDFlags: wireup.MDFlagReg,
		Caps: wireup.Capabilities{
			Latency:   wireup.Latency{Overhead: 1e-6, Growth: 1e-9},
			Bandwidth: 1e10,
			Overhead:  1e-7,
			MaxBcopy:  8192,
		},
	}
	for _, o := range opts {
		o(&r)
	}
	return r
}

// AlwaysReachable is a wireup.ReachableFn that accepts every pair, for
// tests that only care about capability-flag filtering.
func AlwaysReachable(*wireup.Resource, *wireup.RemoteEntry) bool { return true }

// ReachableByIndex is a wireup.ReachableFn that accepts only (local, remote)
// pairs whose indexes are equal — the common "one NIC per peer" topology.
func ReachableByIndex(local *wireup.Resource, remote *wireup.RemoteEntry) bool {
	return local.Index == remote.Index
}
