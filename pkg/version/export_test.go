package version

import "runtime/debug"

// Apply exposes apply for tests.
func Apply(info *debug.BuildInfo) { apply(info) }
