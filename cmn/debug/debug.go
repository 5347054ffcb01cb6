// Package debug provides assertions that are compiled in only when the
// "debug" build tag is set, mirroring the teacher's cmn/debug split between
// a release build (no-ops, zero overhead) and a development/test build
// (panics on violation). Used for the Assertion error kind from spec.md
// section 7: duplicate AM/TAG designation, usage overlap on lane merge, a
// proxy-lane cycle — all indicate a bug in the selector, never a runtime
// condition a caller can recover from.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package debug
