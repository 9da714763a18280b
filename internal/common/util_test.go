package common

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	require.NoError(t, err)
	assert.Len(t, s, n*2)
	_, err = hex.DecodeString(s)
	assert.NoError(t, err)
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf)
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestValidationError(t *testing.T) {
	var empty ValidationError
	assert.False(t, empty.HasErrors())
	assert.NoError(t, empty.OrNil())

	ve := &ValidationError{}
	ve.Add("email", "required").Add("slug", "invalid format")
	require.True(t, ve.HasErrors())

	err := ve.OrNil()
	require.Error(t, err)
	assert.Equal(t, "validation error: email: required; slug: invalid format", err.Error())

	var target *ValidationError
	require.True(t, errors.As(err, &target))
	assert.Len(t, target.Fields, 2)
}
