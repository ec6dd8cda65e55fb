package crypto

import (
	"crypto/rand"
	"math"
)

const (
	// Suffixes must survive the username character whitelist, so the alphabet
	// is restricted to lowercase alphanumerics.
	suffixAlphabet string = "abcdefghijklmnopqrstuvwxyz0123456789"
	defaultSize    int    = 6
)

// NanoIDGenerator produces short random identifiers used to de-collide
// usernames derived from provider logins.
type NanoIDGenerator struct {
	alphabet string
	mask     int
}

func getMask(alphabetLen int) int {
	for i := 1; i <= 8; i++ {
		mask := (2 << uint(i)) - 1
		if mask > alphabetLen-1 {
			return mask
		}
	}
	return 255 // Max mask for 8 bits
}

func NewNanoID() *NanoIDGenerator {
	return &NanoIDGenerator{
		alphabet: suffixAlphabet,
		mask:     getMask(len(suffixAlphabet)),
	}
}

func (n *NanoIDGenerator) Generate(length ...int) (string, error) {
	size := defaultSize
	if len(length) > 0 && length[0] > 0 {
		size = length[0]
	}

	alphabetLen := len(n.alphabet)
	step := int(math.Ceil(1.6 * float64(n.mask*size) / float64(alphabetLen)))

	id := make([]byte, size)
	buffer := make([]byte, step)

	for position := 0; position < size; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		// Map random bytes to alphabet characters, rejecting masked indexes
		// that fall outside the alphabet so the distribution stays uniform.
		for i := 0; i < step && position < size; i++ {
			index := buffer[i] & byte(n.mask)
			if int(index) < alphabetLen {
				id[position] = n.alphabet[index]
				position++
			}
		}
	}

	return string(id), nil
}
