package contracts

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, APIVersion, info.APIVersion)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestVersionStrings(t *testing.T) {
	assert.Equal(t, "Solar Farm Data Analysis Dashboard v"+Version, GetVersionString())
	assert.Contains(t, GetFullVersionString(), "commit "+GitCommit)
	assert.Contains(t, GetFullVersionString(), "api "+APIVersion)
}
