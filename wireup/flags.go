// Package wireup implements the UCX wireup lane selector: given a worker's
// local transport resources and a remote worker's packed address entries,
// it decides which transport lanes a newly opened endpoint uses for each
// class of operation (spec.md sections 1-9). The package has no I/O, no
// goroutines, and no hidden state — wireup.Select is a pure function of its
// arguments, called once per endpoint under the worker's lock.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package wireup

import "github.com/NVIDIA/ucx-wireup/cmn/cos"

// IfaceFlags is the capability flag universe from spec.md section 3: AM,
// PUT/GET, TAG, connection mode, callback mode, event mode, reliability,
// and peer-failure handling. One bitmap, shared by local resources and
// remote entries so a required-flags check is a single Missing() call.
type IfaceFlags = cos.BitMask

const (
	IfaceAMShort IfaceFlags = 1 << iota
	IfaceAMBcopy
	IfaceAMZcopy

	IfacePutShort
	IfacePutBcopy
	IfacePutZcopy
	IfaceGetShort
	IfaceGetBcopy
	IfaceGetZcopy

	IfaceTagEagerShort
	IfaceTagEagerBcopy
	IfaceTagEagerZcopy
	IfaceTagRndvZcopy

	IfaceConnectToIface
	IfaceConnectToEP

	IfacePending

	IfaceCBSync
	IfaceCBAsync

	IfaceEventSendComp
	IfaceEventRecv
	IfaceEventRecvSig

	IfaceReliable // "reliable-duplication": no duplicate delivery
	IfaceErrHandlePeerFailure
)

// IsPeerToPeer reports whether a channel on this interface can only be
// established by exchanging endpoint addresses (glossary: "Peer-to-peer
// transport"), as opposed to being reachable purely from interface
// addresses (IfaceConnectToIface).
func IsPeerToPeer(f IfaceFlags) bool {
	return f.Has(IfaceConnectToEP) && !f.Has(IfaceConnectToIface)
}

// AtomicFlags partitions the atomic-op bits by width (32/64) and by
// fetching-ness (op = non-fetching, fop = fetching), spec.md section 3.
type AtomicFlags = cos.BitMask

const (
	AtomicAdd AtomicFlags = 1 << iota
	AtomicAnd
	AtomicOr
	AtomicXor
	AtomicSwap
	AtomicCswap
)

// AtomicCaps groups the four independent atomic-flag sets a resource or
// remote entry advertises.
type AtomicCaps struct {
	Op32, Fop32 AtomicFlags
	Op64, Fop64 AtomicFlags
}

// Missing returns, per width/fetching-ness, the bits in req not present in
// c; a zero AtomicCaps{} return means every requirement is satisfied.
func (c AtomicCaps) Missing(req AtomicCaps) AtomicCaps {
	return AtomicCaps{
		Op32:  c.Op32.Missing(req.Op32),
		Fop32: c.Fop32.Missing(req.Fop32),
		Op64:  c.Op64.Missing(req.Op64),
		Fop64: c.Fop64.Missing(req.Fop64),
	}
}

// IsZero reports whether every field of an AtomicCaps.Missing() result is
// empty, i.e. all atomic requirements are satisfied.
func (c AtomicCaps) IsZero() bool {
	return c.Op32.IsZero() && c.Fop32.IsZero() && c.Op64.IsZero() && c.Fop64.IsZero()
}

// MDFlags is the memory-domain flag set: whether the MD supports
// registration, allocation, and whether it requires remote-key packing
// (spec.md sections 3 and 4.5).
type MDFlags = cos.BitMask

const (
	MDFlagReg MDFlags = 1 << iota
	MDFlagAlloc
	MDFlagNeedRkey
)

// RsrcFlags marks local-resource classification bits independent of its
// interface capabilities (spec.md section 3's "resource-class flags").
type RsrcFlags = cos.BitMask

const (
	// RsrcAuxOnly marks a resource usable only for the auxiliary
	// (wireup-message) lane, never for a data-path role unless a
	// criteria opts it in explicitly (spec.md section 4.2).
	RsrcAuxOnly RsrcFlags = 1 << iota
	// RsrcAtomicCapable opts a peer-to-peer resource into the AMO pass's
	// allowed-local-transport set (spec.md section 4.4.2) even though it
	// would otherwise be excluded for requiring an address exchange the
	// remote side cannot reciprocate blind.
	RsrcAtomicCapable
)

// DeviceType classifies a transport resource's underlying device,
// consulted by the multi-lane loop's stopping rule (spec.md section 4.4.5:
// "terminate when... the chosen resource is self or shared memory") and by
// the AM-BW pass's "if the AM lane is self/shm, add no AM-BW lanes" rule.
type DeviceType int

const (
	DevNetwork DeviceType = iota
	DevShm
	DevSelf
)

func (d DeviceType) IsLocalOnly() bool { return d == DevSelf || d == DevShm }

// Features is the endpoint-level feature mask requested by the creator
// (spec.md section 4.4, "Gated on feature flag X being enabled").
type Features = cos.BitMask

const (
	FeatTag Features = 1 << iota
	FeatStream
	FeatAM
	FeatRMA
	FeatAMO32
	FeatAMO64
	// FeatWakeup requests event-driven (as opposed to polling) progress;
	// combined with FeatTag it tightens the AM pass's local requirement
	// (spec.md section 4.4.3).
	FeatWakeup
)

// InitFlags carries both caller-supplied hints (FlagWireupOverAM) and
// selector-produced output bits (FlagCreateAMLane), spec.md sections 4.4.3
// and 7 ("AM-emulation fallback... sets a 'create AM lane' bit").
type InitFlags = cos.BitMask

const (
	FlagWireupOverAM InitFlags = 1 << iota
	FlagCreateAMLane
)

// ErrHandlingMode is the endpoint's peer-failure handling mode (spec.md
// sections 4.4.1, 4.4.6, 7).
type ErrHandlingMode int

const (
	ErrModeNone ErrHandlingMode = iota
	ErrModePeer
)

// RoleMask is the per-lane usage bitmask (spec.md's lane descriptor
// "usage bitmask").
type RoleMask = cos.BitMask

const (
	RoleAM RoleMask = 1 << iota
	RoleTag
	RoleRMA
	RoleRMABW
	RoleAMO
	RoleAMBW
)
