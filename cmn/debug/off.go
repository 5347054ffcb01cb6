//go:build !debug

package debug

const Enabled = false

func Assert(_ bool, _ ...any)            {}
func Assertf(_ bool, _ string, _ ...any) {}
func AssertNoErr(_ error)                {}
func AssertMsg(_ bool, _ string)         {}
