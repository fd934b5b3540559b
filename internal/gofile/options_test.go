package gofile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expiry int32

// TestEncodeFolderOption tests the kind checks of every option
func TestEncodeFolderOption(t *testing.T) {
	tests := []struct {
		name        string
		option      string
		value       any
		expected    string
		expectError bool
	}{
		{name: "public true", option: "public", value: true, expected: "true"},
		{name: "public false", option: "public", value: false, expected: "false"},
		{name: "public as string", option: "public", value: "true", expectError: true},
		{name: "expire int", option: "expire", value: 1700000000, expected: "1700000000"},
		{name: "expire int64", option: "expire", value: int64(1700000000), expected: "1700000000"},
		{name: "expire uint32", option: "expire", value: uint32(42), expected: "42"},
		{name: "expire named integer", option: "expire", value: expiry(7), expected: "7"},
		{name: "expire time", option: "expire", value: time.Unix(1700000000, 0), expected: "1700000000"},
		{name: "expire float", option: "expire", value: 1.5, expectError: true},
		{name: "expire bool", option: "expire", value: true, expectError: true},
		{name: "tags slice", option: "tags", value: []string{"a", " b "}, expected: "a,b"},
		{name: "tags array", option: "tags", value: [2]string{"x", "y"}, expected: "x,y"},
		{name: "tags with comma", option: "tags", value: []string{"a,b"}, expectError: true},
		{name: "tags as string", option: "tags", value: "a,b", expectError: true},
		{name: "tags as ints", option: "tags", value: []int{1}, expectError: true},
		{name: "password", option: "password", value: "s3cret", expected: "s3cret"},
		{name: "password as int", option: "password", value: 1234, expectError: true},
		{name: "description", option: "description", value: "holiday photos", expected: "holiday photos"},
		{name: "description nil", option: "description", value: nil, expectError: true},
		{name: "unknown option", option: "color", value: "red", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := EncodeFolderOption(tt.option, tt.value)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				assert.Error(t, ValidateFolderOption(tt.option, tt.value))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, encoded)
			assert.NoError(t, ValidateFolderOption(tt.option, tt.value))
		})
	}
}

// TestParseFolderOptionValue tests conversion of command line values
func TestParseFolderOptionValue(t *testing.T) {
	tests := []struct {
		name        string
		option      string
		raw         string
		expected    any
		expectError bool
	}{
		{name: "public", option: "public", raw: "true", expected: true},
		{name: "public numeric", option: "public", raw: "0", expected: false},
		{name: "public garbage", option: "public", raw: "yes please", expectError: true},
		{name: "expire timestamp", option: "expire", raw: "1700000000", expected: int64(1700000000)},
		{name: "expire date", option: "expire", raw: "2024-01-02", expected: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Unix()},
		{name: "expire rfc3339", option: "expire", raw: "2024-01-02T03:04:05Z", expected: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Unix()},
		{name: "expire garbage", option: "expire", raw: "tomorrow", expectError: true},
		{name: "tags", option: "tags", raw: "a, b,,c", expected: []string{"a", "b", "c"}},
		{name: "tags empty", option: "tags", raw: " , ", expectError: true},
		{name: "password", option: "password", raw: "pw", expected: "pw"},
		{name: "description", option: "description", raw: "text, with comma", expected: "text, with comma"},
		{name: "unknown", option: "owner", raw: "x", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := ParseFolderOptionValue(tt.option, tt.raw)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
			// Parsed values always pass the kind check
			assert.NoError(t, ValidateFolderOption(tt.option, value))
		})
	}
}
