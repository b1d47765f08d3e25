package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-03-20", "2026-03-20"},
		{" 2026-03-20 ", "2026-03-20"},
		{"March 20, 2026", "2026-03-20"},
		{"03/20/2026", "2026-03-20"},
		{"2026-03-20T23:30:00-05:00", "2026-03-20"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := NormalizeDate(got)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestNormalizeDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "2026-02-30", "12:30", "9/9", "1.2.3"} {
		t.Run(in, func(t *testing.T) {
			_, err := NormalizeDate(in)
			assert.ErrorIs(t, err, ErrInvalidDateFormat)
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{in: "9:00", want: "09:00"},
		{in: "23:59", want: "23:59"},
		{in: "0:00", want: "00:00"},
		{in: " 7:05 ", want: "07:05"},
		{in: "09:30", want: "09:30"},
		{in: "24:00", wantErr: ErrInvalidTimeValues},
		{in: "12:60", wantErr: ErrInvalidTimeValues},
		{in: "9:0", wantErr: ErrInvalidTimeFormat},
		{in: "09:00:00", wantErr: ErrInvalidTimeFormat},
		{in: "9:00 AM", wantErr: ErrInvalidTimeFormat},
		{in: "123:00", wantErr: ErrInvalidTimeFormat},
		{in: "", wantErr: ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeTime(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
