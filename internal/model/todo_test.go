package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagValid(t *testing.T) {
	for _, tag := range Tags {
		assert.True(t, tag.Valid(), "tag %q", tag)
	}

	assert.False(t, Tag("").Valid())
	assert.False(t, Tag("purple").Valid())
	assert.False(t, Tag("Blue").Valid())
}
