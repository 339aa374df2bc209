package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinor(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"$12.50", 1250},
		{"$12.34", 1234},
		{"$0.29", 29}, // float math would give 28
		{"$4.005", 401},
		{"7", 700},
		{" $ 3.1 ", 310},
		{"$0", 0},
	}
	for _, c := range cases {
		got, err := ParseMinor(c.in, "$")
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseMinorRejects(t *testing.T) {
	for _, in := range []string{"", "$", "$abc", "$-1.00", "£3.00", "1e400"} {
		_, err := ParseMinor(in, "$")
		assert.Error(t, err, in)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12.50", Format(1250))
	assert.Equal(t, "0.05", Format(5))
}
