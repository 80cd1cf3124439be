package gitconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{in: "3", want: 3},
		{in: "0", want: 0},
		{in: "-2", want: -2},
		{in: " 7 ", want: 7},
		{in: "1k", want: 1024},
		{in: "2M", want: 2 << 20},
		{in: "1g", want: 1 << 30},
		{in: "banana", wantErr: ErrNotInteger},
		{in: "", wantErr: ErrNotInteger},
		{in: "k", wantErr: ErrNotInteger},
		{in: "99999999999999999999", wantErr: ErrOutOfRange},
		{in: "9223372036854775807g", wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInt(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterpret(t *testing.T) {
	t.Run("boolean first", func(t *testing.T) {
		v := Interpret("on")
		assert.Equal(t, KindBoolean, v.Kind())
		b, ok := v.Bool()
		assert.True(t, ok)
		assert.True(t, b)
	})

	t.Run("numerals are integers", func(t *testing.T) {
		v := Interpret("1")
		assert.Equal(t, KindInteger, v.Kind())
		n, ok := v.Int()
		assert.True(t, ok)
		assert.Equal(t, int64(1), n)
		_, ok = v.Bool()
		assert.False(t, ok)
	})

	t.Run("text keeps raw value and failure", func(t *testing.T) {
		v := Interpret("banana")
		assert.Equal(t, KindText, v.Kind())
		assert.Equal(t, "banana", v.String())
		assert.ErrorIs(t, v.Err(), ErrNotInteger)
	})

	t.Run("empty is implicit true", func(t *testing.T) {
		b, ok := Interpret("").Bool()
		assert.True(t, ok)
		assert.True(t, b)
	})
}
