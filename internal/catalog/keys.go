package catalog

import (
	"fmt"
	"math/big"
	"strings"
)

var lowWord = big.NewInt(0xFFFFFFFF)

// HexKey formats id as four upper-case hex byte pairs, least significant
// byte first, separated by single spaces. Only the low 32 bits are used,
// so 203000001 (0x0C1988C1) becomes "C1 88 19 0C".
func HexKey(id int64) string {
	hex := fmt.Sprintf("%08X", uint32(id))

	pairs := make([]string, 0, 4)
	for i := len(hex) - 2; i >= 0; i -= 2 {
		pairs = append(pairs, hex[i:i+2])
	}
	return strings.Join(pairs, " ")
}

// HexKeyFromDecimal derives the hex key from a string of ASCII digits.
// It reports false when s is empty or contains anything but digits.
// Digit strings wider than 64 bits are reduced to their low 32 bits.
func HexKeyFromDecimal(s string) (string, bool) {
	if !isDecimal(s) {
		return "", false
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return "", false
	}
	n.And(n, lowWord)
	return HexKey(n.Int64()), true
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
