package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGroupAll(t *testing.T) {
	assert.True(t, IsGroupAll("all"))
	assert.True(t, IsGroupAll("ALL"))
	assert.True(t, IsGroupAll("All"))
	assert.False(t, IsGroupAll("none"))
	assert.False(t, IsGroupAll(""))
	assert.False(t, IsGroupAll("fleet1"))
}
