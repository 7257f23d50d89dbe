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
	assert.Equal(t, DataFormatVersion, info.DataFormat)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.OS+"/"+info.Architecture)
}

func TestGetFullVersionString(t *testing.T) {
	s := GetFullVersionString()

	assert.Contains(t, s, Version)
	assert.Contains(t, s, "commit: "+GitCommit)
	assert.Contains(t, s, runtime.GOOS+"/"+runtime.GOARCH)
}
