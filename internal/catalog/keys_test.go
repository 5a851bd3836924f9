package catalog

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexKeyPattern = regexp.MustCompile(`^[0-9A-F]{2} [0-9A-F]{2} [0-9A-F]{2} [0-9A-F]{2}$`)

func TestHexKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   int64
		want string
	}{
		{name: "catalog id", id: 203000001, want: "C1 88 19 0C"},
		{name: "small", id: 305, want: "31 01 00 00"},
		{name: "zero", id: 0, want: "00 00 00 00"},
		{name: "max uint32", id: 0xFFFFFFFF, want: "FF FF FF FF"},
		{name: "beyond 32 bits keeps low word", id: 1<<32 + 1, want: "01 00 00 00"},
		{name: "negative wraps", id: -1, want: "FF FF FF FF"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := HexKey(tt.id)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, hexKeyPattern, got)
		})
	}
}

func TestHexKeyFromDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "305", want: "31 01 00 00", wantOK: true},
		{in: "0305", want: "31 01 00 00", wantOK: true},
		{in: "203000001", want: "C1 88 19 0C", wantOK: true},
		{in: "4294967297", want: "01 00 00 00", wantOK: true},
		{in: "99999999999999999999999", want: "FF FF 7F F6", wantOK: true},
		{in: ""},
		{in: "-5"},
		{in: "12a"},
		{in: "C1 88 19 0C"},
		{in: " 305"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(strconv.Quote(tt.in), func(t *testing.T) {
			t.Parallel()
			got, ok := HexKeyFromDecimal(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHexKeyAgreesWithDecimalForm(t *testing.T) {
	t.Parallel()

	for _, id := range []int64{0, 1, 42, 305, 65535, 203000001, 999999999, 0xFFFFFFFF} {
		fromString, ok := HexKeyFromDecimal(strconv.FormatInt(id, 10))
		assert.True(t, ok)
		assert.Equal(t, HexKey(id), fromString, "id %d", id)
	}
}
