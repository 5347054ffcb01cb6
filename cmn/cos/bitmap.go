// Package cos ("common small stuff", named after the teacher's cmn/cos)
// holds the handful of primitives shared across the wireup package that are
// too small to be their own dependency: bitmaps, epsilon comparison,
// checksums, and correlation IDs.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import "math/bits"

// BitMask is a fixed-width bitmap used throughout wireup for capability
// flag sets, and for the allowed-transport/device/MD masks the criteria
// evaluator filters against (spec.md section 4.2). A plain uint64 is
// sufficient: the selector never deals with more than MaxLanes-many
// resources, devices, or memory domains in a single endpoint, and the
// teacher itself reaches for a raw integer bitmask rather than a library
// for exactly this kind of small, fixed-cardinality set.
type BitMask uint64

func (b BitMask) Has(bit BitMask) bool    { return b&bit == bit }
func (b BitMask) HasAny(bits BitMask) bool { return b&bits != 0 }
func (b BitMask) Set(bit BitMask) BitMask { return b | bit }
func (b BitMask) Clear(bit BitMask) BitMask { return b &^ bit }
func (b BitMask) Popcount() int           { return bits.OnesCount64(uint64(b)) }
func (b BitMask) IsZero() bool            { return b == 0 }

// Missing returns the bits set in required but not in b, used to build the
// "first missing flag" diagnostics from spec.md section 4.2.
func (b BitMask) Missing(required BitMask) BitMask { return required &^ b }

// Lowest returns the lowest set bit, or 0 if none is set.
func (b BitMask) Lowest() BitMask {
	if b == 0 {
		return 0
	}
	return BitMask(1) << bits.TrailingZeros64(uint64(b))
}
