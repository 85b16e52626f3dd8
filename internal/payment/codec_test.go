package payment

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey = "12345678901234567890123456789012"
	testIV  = "1234567890123456"
)

// encryptHex is the inverse of Codec.Decrypt, used to build test payloads.
func encryptHex(t *testing.T, key, iv string, plain []byte) string {
	t.Helper()

	pad := aes.BlockSize - len(plain)%aes.BlockSize
	padded := append(append([]byte{}, plain...), bytes.Repeat([]byte{byte(pad)}, pad)...)

	block, err := aes.NewCipher([]byte(key))
	require.NoError(t, err)

	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, []byte(iv)).CryptBlocks(out, padded)

	return hex.EncodeToString(out)
}

func TestNewCodec_KeyValidation(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		iv          string
		expectError bool
	}{
		{name: "AES-128 key", key: "1234567890123456", iv: testIV},
		{name: "AES-256 key", key: testKey, iv: testIV},
		{name: "Short key", key: "short", iv: testIV, expectError: true},
		{name: "Short IV", key: testKey, iv: "short", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := NewCodec(tt.key, tt.iv)
			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, codec)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, codec)
			}
		})
	}
}

func TestCodec_Decrypt_RoundTrip(t *testing.T) {
	codec, err := NewCodec(testKey, testIV)
	require.NoError(t, err)

	plain := []byte(`{"Status":"SUCCESS","Result":{"MerchantOrderNo":"abc-123"}}`)
	cipherHex := encryptHex(t, testKey, testIV, plain)

	got, err := codec.Decrypt(cipherHex)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestCodec_Decrypt_InvalidInput(t *testing.T) {
	codec, err := NewCodec(testKey, testIV)
	require.NoError(t, err)

	tests := []struct {
		name      string
		cipherHex string
	}{
		{name: "Not hex", cipherHex: "zzzz"},
		{name: "Empty", cipherHex: ""},
		{name: "Not block aligned", cipherHex: "abcdef"},
		{name: "Garbage block", cipherHex: hex.EncodeToString(bytes.Repeat([]byte{0x41}, 32))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.DecryptNotification(tt.cipherHex)
			assert.Error(t, err)
		})
	}
}

func TestCodec_Decrypt_WrongKey(t *testing.T) {
	codec, err := NewCodec(testKey, testIV)
	require.NoError(t, err)

	otherKey := "abcdefghabcdefghabcdefghabcdefgh"
	cipherHex := encryptHex(t, otherKey, testIV, []byte(`{"Status":"SUCCESS"}`))

	// Decrypting with the wrong key yields garbage; either the padding
	// check or the JSON parse must reject it.
	_, err = codec.DecryptNotification(cipherHex)
	assert.Error(t, err)
}

func TestCodec_DecryptNotification(t *testing.T) {
	codec, err := NewCodec(testKey, testIV)
	require.NoError(t, err)

	plain := []byte(`{"Status":"SUCCESS","Result":{"MerchantOrderNo":"3b31f5a8-3f0a-4f63-9c25-5b7a1a2f9f10","TradeNo":"T0001","Amt":420}}`)
	cipherHex := encryptHex(t, testKey, testIV, plain)

	n, err := codec.DecryptNotification(cipherHex)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, n.Status)
	assert.Equal(t, "3b31f5a8-3f0a-4f63-9c25-5b7a1a2f9f10", n.Result.MerchantOrderNo)
	assert.Equal(t, "T0001", n.Result.TradeNo)
	assert.Equal(t, 420, n.Result.Amt)
}

func TestCodec_DecryptNotification_NotJSON(t *testing.T) {
	codec, err := NewCodec(testKey, testIV)
	require.NoError(t, err)

	cipherHex := encryptHex(t, testKey, testIV, []byte("Status=SUCCESS&Amt=420"))

	_, err = codec.DecryptNotification(cipherHex)
	assert.Error(t, err)
}
