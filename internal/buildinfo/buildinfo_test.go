package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGet(t *testing.T) {
	orig := current
	defer func() { current = orig }()

	Set("1.2.3", "abc1234", "2026-08-23")
	info := Get()
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc1234", info.Commit)
	assert.Equal(t, "1.2.3 (commit: abc1234, built: 2026-08-23)", info.String())
}

func TestGetDefaults(t *testing.T) {
	orig := current
	defer func() { current = orig }()

	current = Info{Version: "dev", Commit: "none", Date: "unknown"}
	info := Get()
	assert.Equal(t, "dev", info.Version)
	// Commit may be backfilled from build info when tests run inside a git
	// checkout, so only the version and date are stable here.
	assert.Equal(t, "unknown", info.Date)
}
