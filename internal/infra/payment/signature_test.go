package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	const secret = "s3cr3t"
	v1 := Sign(secret, "123456", "req-1", "1704908010")
	header := "ts=1704908010,v1=" + v1

	assert.True(t, VerifySignature(secret, header, "req-1", "123456"))
	assert.True(t, VerifySignature(secret, " ts=1704908010 , v1="+v1, "req-1", "123456"), "spaces are tolerated")

	assert.False(t, VerifySignature(secret, header, "req-2", "123456"), "request id is signed")
	assert.False(t, VerifySignature(secret, header, "req-1", "999"), "data id is signed")
	assert.False(t, VerifySignature("other", header, "req-1", "123456"))
	assert.False(t, VerifySignature(secret, "v1="+v1, "req-1", "123456"), "missing ts")
	assert.False(t, VerifySignature("", header, "req-1", "123456"), "no secret configured")
}

func TestManifestLowercasesDataID(t *testing.T) {
	assert.Equal(t, "id:abc;request-id:r;ts:1;", manifest("ABC", "r", "1"))
	assert.Equal(t, "ts:1;", manifest("", "", "1"))
}
