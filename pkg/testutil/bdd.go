package testutil

import "testing"

// Scenario runs fn as a subtest named after its given/when/then description, so
// table-driven workflow tests read as behaviour rather than as input grids.
func Scenario(t *testing.T, given, when, then string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("given "+given+" when "+when+" then "+then, fn)
}
