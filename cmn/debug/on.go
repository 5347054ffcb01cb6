//go:build debug

package debug

import "fmt"

const Enabled = true

func Assert(cond bool, msg ...any) {
	if !cond {
		if len(msg) == 0 {
			panic("assertion failed")
		}
		panic(fmt.Sprint(msg...))
	}
}

func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

func AssertNoErr(err error) {
	if err != nil {
		panic(err)
	}
}

func AssertMsg(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}
