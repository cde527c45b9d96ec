package executor

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutinePrefix is the fixed prefix of the first line of a stack trace,
// e.g. "goroutine 18 [running]:".
var goroutinePrefix = []byte("goroutine ")

// goroutineID returns the numeric id of the calling goroutine.
//
// The runtime does not expose goroutine identity, so the id is parsed from
// the header line of a (small) stack dump. This is only used to answer the
// "am I on the home goroutine?" question; no scheduling decision depends on
// the id being anything but a stable, unique number per goroutine.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]

	buf = bytes.TrimPrefix(buf, goroutinePrefix)
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}

	id, err := strconv.ParseUint(string(buf), 10, 64)
	if err != nil {
		// only reachable if the runtime changes its stack header format
		panic("executor: cannot parse goroutine id: " + err.Error())
	}
	return id
}
