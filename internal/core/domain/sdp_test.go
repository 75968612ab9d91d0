package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const answerWithFingerprints = "v=0\r\n" +
	"o=- 123 2 IN IP4 127.0.0.1\r\n" +
	"s=-\r\n" +
	"t=0 0\r\n" +
	"m=audio 9 UDP/TLS/RTP/SAVPF 111\r\n" +
	"a=fingerprint:sha-256 AA:BB:CC\r\n" +
	"a=fingerprint:sha-384 DD:EE:FF\r\n" +
	"a=fingerprint:sha-512 11:22:33\r\n" +
	"a=setup:active\r\n"

func TestFilterAnswerSDPKeepsOnlySha256Fingerprint(t *testing.T) {
	got := FilterAnswerSDP(answerWithFingerprints)

	assert.Contains(t, got, "a=fingerprint:sha-256 AA:BB:CC\r\n")
	assert.NotContains(t, got, "sha-384")
	assert.NotContains(t, got, "sha-512")
}

func TestFilterAnswerSDPPreservesOrderOfOtherLines(t *testing.T) {
	got := FilterAnswerSDP(answerWithFingerprints)

	want := "v=0\r\n" +
		"o=- 123 2 IN IP4 127.0.0.1\r\n" +
		"s=-\r\n" +
		"t=0 0\r\n" +
		"m=audio 9 UDP/TLS/RTP/SAVPF 111\r\n" +
		"a=fingerprint:sha-256 AA:BB:CC\r\n" +
		"a=setup:active\r\n"
	assert.Equal(t, want, got)
}

func TestFilterAnswerSDPIsIdempotent(t *testing.T) {
	once := FilterAnswerSDP(answerWithFingerprints)
	twice := FilterAnswerSDP(once)

	assert.Equal(t, once, twice)
}

func TestFilterAnswerSDPNormalizesBareNewlines(t *testing.T) {
	got := FilterAnswerSDP("v=0\na=setup:active\n")

	assert.Equal(t, "v=0\r\na=setup:active\r\n", got)
}

func TestFilterAnswerSDPAlwaysEndsWithCRLF(t *testing.T) {
	got := FilterAnswerSDP("v=0\r\na=setup:active")

	assert.True(t, strings.HasSuffix(got, "\r\n"))
	assert.Equal(t, "v=0\r\na=setup:active\r\n", got)
}

func TestFilterAnswerSDPEmptyInput(t *testing.T) {
	assert.Equal(t, "", FilterAnswerSDP(""))
}
