package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortCommit(t *testing.T) {
	orig := Commit
	t.Cleanup(func() { Commit = orig })

	Commit = "0123456789abcdef"
	assert.Equal(t, "01234567", ShortCommit())

	Commit = "abc"
	assert.Equal(t, "abc", ShortCommit())
}

func TestIsDevBuild(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "dev"
	assert.True(t, IsDevBuild())

	Version = "1.2.0"
	assert.False(t, IsDevBuild())
}
