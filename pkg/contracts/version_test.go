package contracts

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, ReportSchemaVersion, info.ReportSchema)
	assert.False(t, IsPrerelease())
	assert.Contains(t, GetFullVersionString(), "loaneda v"+Version)
}
