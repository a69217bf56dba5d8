package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple title",
			input: "Spacious Villa in Downtown",
			want:  "spacious-villa-in-downtown",
		},
		{
			name:  "underscores and special chars",
			input: "my_photo (1).final!",
			want:  "my-photo-1final",
		},
		{
			name:  "collapses hyphens",
			input: "two  --  apartments",
			want:  "two-apartments",
		},
		{
			name:  "non-latin input drops to empty",
			input: "شقة فاخرة",
			want:  "",
		},
		{
			name:  "trims leading and trailing",
			input: " -hello- ",
			want:  "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GenerateSlug(tt.input))
		})
	}
}
