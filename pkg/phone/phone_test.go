package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		region string
		want   string
	}{
		{"national US", "(650) 253-0000", "US", "+16502530000"},
		{"international overrides region", "+44 20 7031 3000", "US", "+442070313000"},
		{"spaces trimmed", "  650 253 0000 ", "US", "+16502530000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, tt.region)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	for _, raw := range []string{"", "12", "not a phone", "+1 000 000 0000"} {
		_, err := Normalize(raw, "US")
		assert.ErrorIs(t, err, ErrInvalidPhone, raw)
	}
}
