package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInt(t *testing.T) {
	assert.Equal(t, 3, ParseInt("3", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("tres", 1))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("12"))
	assert.True(t, IsNumeric("007"))
	assert.False(t, IsNumeric(""))
	assert.False(t, IsNumeric("-1"))
	assert.False(t, IsNumeric("12a"))
	assert.False(t, IsNumeric("productos"))
}
