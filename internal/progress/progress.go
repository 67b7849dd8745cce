// Package progress provides throttled reporting for long-running loops.
package progress

import (
	"strconv"
	"time"
)

// OnceEvery wraps fn so that calls are dropped until the period has elapsed
// since the last run. The first run happens only after one full period, so
// short loops stay quiet. The returned function is not safe for concurrent
// use.
func OnceEvery(period time.Duration, fn func()) func() {
	next := time.Now().Add(period)
	return func() {
		if now := time.Now(); !now.Before(next) {
			fn()
			next = now.Add(period)
		}
	}
}

// Ratio formats a done/total pair as a percentage string for log output.
func Ratio(done, total int) string {
	if total <= 0 {
		return "0%"
	}
	pct := done * 100 / total
	if pct > 100 {
		pct = 100
	}
	return strconv.Itoa(pct) + "%"
}
