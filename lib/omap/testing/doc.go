// Package testing provides a reusable contract test suite for the
// observable map. The suite exercises only the documented map contract, so
// the same tests run against every option combination: inline mutations,
// executor-marshaled mutations, change tracking on or off.
//
// Usage:
//
//	func Test(t *testing.T) {
//		maptesting.RunMapTests(t, "Inline", func() *omap.Map[string, int] {
//			return omap.New[string, int](nil)
//		})
//	}
package testing
