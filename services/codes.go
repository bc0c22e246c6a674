package services

import (
	"crypto/rand"
	"strings"
)

// Charset without easily confused characters (0/O, 1/I/L)
const codeCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateCode builds a random subscription code of the form
// XXXX-XXXX-XXXX.
func GenerateCode() string {
	raw := make([]byte, 12)
	rand.Read(raw)

	var b strings.Builder
	for i, r := range raw {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(codeCharset[int(r)%len(codeCharset)])
	}
	return b.String()
}
