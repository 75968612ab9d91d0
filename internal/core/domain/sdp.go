package domain

import (
	"strings"
)

const fingerprintPrefix = "a=fingerprint:"

// FilterAnswerSDP strips fingerprint attribute lines the provider cannot
// verify: only the sha-256 fingerprint is kept, sha-384/sha-512 variants are
// dropped. Every other line passes through unchanged, in its original order.
// The result uses CRLF line endings with a trailing CRLF, so filtering an
// already filtered answer yields the same string.
func FilterAnswerSDP(answer string) string {
	lines := strings.Split(strings.ReplaceAll(answer, "\r\n", "\n"), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var b strings.Builder
	for _, line := range lines {
		if strings.HasPrefix(line, fingerprintPrefix) && !strings.HasPrefix(line, fingerprintPrefix+"sha-256") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	return b.String()
}
