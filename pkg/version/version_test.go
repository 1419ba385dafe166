package version_test

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/commitclass/pkg/version"
)

func reset(t *testing.T) {
	t.Helper()

	oldVersion, oldCommit, oldDate := version.Version, version.Commit, version.Date
	version.Version, version.Commit, version.Date = "dev", "<unknown>", "<unknown>"

	t.Cleanup(func() {
		version.Version, version.Commit, version.Date = oldVersion, oldCommit, oldDate
	})
}

func TestApply_FillsFromBuildInfo(t *testing.T) {
	reset(t)

	version.Apply(&debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	assert.Equal(t, "v1.2.3", version.Version)
	assert.Equal(t, "0123456789ab-dirty", version.Commit)
	assert.Equal(t, "2025-01-02T03:04:05Z", version.Date)
	assert.Equal(t, "v1.2.3 (commit: 0123456789ab-dirty, built: 2025-01-02T03:04:05Z)", version.String())
}

func TestApply_KeepsLinkerValues(t *testing.T) {
	reset(t)

	version.Version, version.Commit = "v9.0.0", "abc"

	version.Apply(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffff"}},
	})

	assert.Equal(t, "v9.0.0", version.Version)
	assert.Equal(t, "abc", version.Commit)
	assert.Equal(t, "<unknown>", version.Date)
}

func TestApply_DevelBuildStaysDev(t *testing.T) {
	reset(t)

	version.Apply(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	assert.Equal(t, "dev", version.Version)
	assert.Equal(t, "<unknown>", version.Commit)
}
