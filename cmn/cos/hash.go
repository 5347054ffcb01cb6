package cos

import "github.com/cespare/xxhash/v2"

// Checksum computes the transport-name checksum carried by a remote address
// entry (spec.md section 3): "used only for diagnostics and cross-matching".
// It is never used to gate reachability on its own — the reachability
// predicate supplied by the transport layer does that. Nothing in this
// module calls it; wiretest.RemoteWithChecksum and wireupsim scenario
// files take a precomputed checksum value.
func Checksum(transportName string) uint64 {
	return xxhash.Sum64String(transportName)
}
