package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayloadRoundTrip(t *testing.T) {
	payload := BuildPayload("3f2a9c6e-1111-2222-3333-444455556666", "c2VjcmV0LXNlY3JldA==")

	encoded, err := EncodePayload(payload)
	assert.NoError(t, err)
	assert.Contains(t, encoded, `"family"`)
	assert.Contains(t, encoded, `"s"`)

	parsed, err := ParsePayload(encoded)
	assert.NoError(t, err)
	assert.Equal(t, payload.Family, parsed.Family)
	assert.Equal(t, payload.Secret, parsed.Secret)
}

func TestParsePayloadAcceptsNumericFamily(t *testing.T) {
	// Klien lama mengirim family id tanpa tanda kutip
	parsed, err := ParsePayload(`{"family": 12345, "s": "abc"}`)
	assert.NoError(t, err)
	assert.Equal(t, FlexibleID("12345"), parsed.Family)
}

func TestParsePayloadRejectsIncomplete(t *testing.T) {
	cases := []string{
		`{"family": "x"}`,
		`{"s": "abc"}`,
		`{}`,
		`not json at all`,
		``,
	}
	for _, raw := range cases {
		_, err := ParsePayload(raw)
		assert.Error(t, err)
	}
}

func TestVerifySecret(t *testing.T) {
	assert.True(t, VerifySecret("c2VjcmV0", "c2VjcmV0"))
	// Satu byte berubah -> gagal
	assert.False(t, VerifySecret("c2VjcmV0", "c2VjcmV1"))
	assert.False(t, VerifySecret("c2VjcmV0", ""))
	assert.False(t, VerifySecret("c2VjcmV0", "c2VjcmV0x"))
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(BuildPayload("parent-id", "secret"))
	assert.NoError(t, err)
	assert.NotEmpty(t, png)
	// Header PNG
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
