package payment

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Notification is the decrypted shape of a gateway callback. The gateway
// sends many notification shapes; only Status and the merchant order
// reference are interpreted.
type Notification struct {
	Status  string             `json:"Status"`
	Message string             `json:"Message,omitempty"`
	Result  NotificationResult `json:"Result"`
}

// NotificationResult carries the merchant order reference, an opaque order
// id encoded as a string.
type NotificationResult struct {
	MerchantOrderNo string `json:"MerchantOrderNo"`
	TradeNo         string `json:"TradeNo,omitempty"`
	Amt             int    `json:"Amt,omitempty"`
}

// StatusSuccess is the gateway status indicating a captured payment.
const StatusSuccess = "SUCCESS"

// Codec decrypts the hex-encoded AES-CBC/PKCS7 TradeInfo payloads the
// gateway posts to the notify endpoint, using a pre-shared key and IV.
type Codec struct {
	key []byte
	iv  []byte
}

// NewCodec creates a codec from the pre-shared key and IV.
func NewCodec(key, iv string) (*Codec, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("invalid AES key length %d", len(key))
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("invalid AES IV length %d", len(iv))
	}
	return &Codec{key: []byte(key), iv: []byte(iv)}, nil
}

// Decrypt decodes the hex ciphertext, decrypts it and strips PKCS7 padding.
func (c *Codec) Decrypt(cipherHex string) ([]byte, error) {
	cipherBytes, err := hex.DecodeString(cipherHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex payload: %w", err)
	}

	if len(cipherBytes) == 0 || len(cipherBytes)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(cipherBytes))
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise cipher: %w", err)
	}

	plain := make([]byte, len(cipherBytes))
	cipher.NewCBCDecrypter(block, c.iv).CryptBlocks(plain, cipherBytes)

	return pkcs7Unpad(plain)
}

// DecryptNotification decrypts and parses a TradeInfo payload.
func (c *Codec) DecryptNotification(cipherHex string) (*Notification, error) {
	plain, err := c.Decrypt(cipherHex)
	if err != nil {
		return nil, err
	}

	var n Notification
	if err := json.Unmarshal(plain, &n); err != nil {
		return nil, fmt.Errorf("failed to parse notification: %w", err)
	}

	return &n, nil
}

// pkcs7Unpad removes PKCS7 padding. The pad length must be between 1 and
// the block size and every pad byte must equal the pad length.
func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}

	pad := int(b[len(b)-1])
	if pad < 1 || pad > aes.BlockSize || pad > len(b) {
		return nil, fmt.Errorf("invalid padding length %d", pad)
	}

	for _, v := range b[len(b)-pad:] {
		if int(v) != pad {
			return nil, fmt.Errorf("malformed padding")
		}
	}

	return b[:len(b)-pad], nil
}
