package codec

import (
	"fmt"
	"math/big"
	"strings"
)

// Алфавит URL-безопасен: цифры, затем строчные, затем прописные буквы.
const base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var base62Index = func() map[byte]int64 {
	m := make(map[byte]int64, len(base62Alphabet))
	for i := 0; i < len(base62Alphabet); i++ {
		m[base62Alphabet[i]] = int64(i)
	}
	return m
}()

// EncodeBase62 кодирует байты как big-endian число в base62.
// Ведущие нулевые байты сохраняются как ведущие символы '0'.
func EncodeBase62(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	zeros := 0
	for zeros < len(data) && data[zeros] == 0 {
		zeros++
	}

	var b strings.Builder
	for i := 0; i < zeros; i++ {
		b.WriteByte(base62Alphabet[0])
	}

	n := new(big.Int).SetBytes(data)
	base := big.NewInt(int64(len(base62Alphabet)))
	mod := new(big.Int)
	var digits []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		digits = append(digits, base62Alphabet[mod.Int64()])
	}
	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteByte(digits[i])
	}
	return b.String()
}

// DecodeBase62 выполняет обратное преобразование. Символ вне алфавита —
// ошибка: строка не является валидным кодом.
func DecodeBase62(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}

	zeros := 0
	for zeros < len(s) && s[zeros] == base62Alphabet[0] {
		zeros++
	}

	n := new(big.Int)
	base := big.NewInt(int64(len(base62Alphabet)))
	for i := 0; i < len(s); i++ {
		d, ok := base62Index[s[i]]
		if !ok {
			return nil, fmt.Errorf("invalid base62 character %q at position %d", s[i], i)
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(d))
	}

	out := make([]byte, zeros)
	return append(out, n.Bytes()...), nil
}
