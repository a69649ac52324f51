package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryID(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  int64
		expectErr bool
	}{
		{name: "Plain integer", raw: "2", expected: 2},
		{name: "Surrounding spaces", raw: "  42 ", expected: 42},
		{name: "Zero fraction", raw: "7.0", expected: 7},
		{name: "Negative integer", raw: "-3", expected: -3},
		{name: "Empty", raw: "", expectErr: true},
		{name: "Only spaces", raw: "   ", expectErr: true},
		{name: "Letters", raw: "abc", expectErr: true},
		{name: "Fractional", raw: "2.5", expectErr: true},
		{name: "Not a number", raw: "NaN", expectErr: true},
		{name: "Infinity", raw: "Inf", expectErr: true},
		{name: "Mixed", raw: "12abc", expectErr: true},
		{name: "Just past int64", raw: "9223372036854775808.0", expectErr: true},
		{name: "Far past int64", raw: "1e30", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CategoryID(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCategoryID_EmptyIsSentinel(t *testing.T) {
	_, err := CategoryID(" ")
	assert.ErrorIs(t, err, ErrEmptyID)
	assert.True(t, IsEmpty(" \t"))
	assert.False(t, IsEmpty("0"))
}

func TestAssetID(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  int64
		expectErr bool
	}{
		{name: "Valid", raw: "7", expected: 7},
		{name: "Zero", raw: "0", expectErr: true},
		{name: "Negative", raw: "-1", expectErr: true},
		{name: "Fractional", raw: "1.0", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AssetID(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
