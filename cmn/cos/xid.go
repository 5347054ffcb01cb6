package cos

import (
	"sync"

	"github.com/teris-io/shortid"
)

var (
	genMu sync.Mutex
	gen   *shortid.Shortid
)

func init() {
	var err error
	gen, err = shortid.New(1, shortid.DefaultABC, 0xbeef)
	if err != nil {
		// shortid.New only fails on a malformed alphabet/seed; the defaults
		// above are constant and known-good, so this is unreachable.
		panic(err)
	}
}

// GenID mints a short correlation ID for one Select call. Select prefixes
// its own nlog lines with it so an operator can grep a single selection
// attempt out of a busy log; the errors Select returns do not carry it.
func GenID() string {
	genMu.Lock()
	defer genMu.Unlock()
	id, err := gen.Generate()
	if err != nil {
		return "????"
	}
	return id
}
