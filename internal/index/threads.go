package index

import (
	"runtime"
	"strconv"
)

// Threads is the parallelism policy for index decoding. The zero value means
// no explicit limit was configured.
type Threads struct {
	limit int
	set   bool
}

// ThreadLimit returns an explicit policy. 0 means use all available
// parallelism, 1 disables threading.
func ThreadLimit(n int) Threads {
	if n < 0 {
		n = 1
	}
	return Threads{limit: n, set: true}
}

// Limit returns the explicit limit, if any.
func (t Threads) Limit() (int, bool) {
	return t.limit, t.set
}

// Workers resolves the policy to a worker count.
func (t Threads) Workers() int {
	if !t.set || t.limit == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return t.limit
}

func (t Threads) String() string {
	switch {
	case !t.set:
		return "default"
	case t.limit == 0:
		return "auto"
	default:
		return strconv.Itoa(t.limit)
	}
}
