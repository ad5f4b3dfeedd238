package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/yeremiapane/childcheck-app/utils"
)

// DecryptStatus membedakan data hasil dekripsi, data legacy yang memang
// tidak terenkripsi, dan data yang tampak terenkripsi tapi rusak.
type DecryptStatus int

const (
	StatusDecrypted DecryptStatus = iota
	StatusPlaintext
	StatusCorrupt
)

var errBadPadding = errors.New("invalid pkcs7 padding")

// Encryptor melakukan enkripsi field-level AES-256-CBC.
// Output: base64(IV || ciphertext).
type Encryptor struct {
	key []byte
}

// New membuat Encryptor dari key konfigurasi. Key dipad dengan nol atau
// dipotong supaya tepat 32 byte (AES-256).
func New(key string) *Encryptor {
	keyBytes := make([]byte, 32)
	copy(keyBytes, []byte(key))
	return &Encryptor{key: keyBytes}
}

// Encrypt mengenkripsi plaintext. String kosong dilewatkan apa adanya
// supaya field opsional tidak menghasilkan ciphertext sampah.
func (e *Encryptor) Encrypt(plainText string) (string, error) {
	if plainText == "" {
		return plainText, nil
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plainText), aes.BlockSize)
	cipherBytes := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(cipherBytes, padded)

	return base64.StdEncoding.EncodeToString(append(iv, cipherBytes...)), nil
}

// Decrypt membalik Encrypt. Input yang bukan ciphertext valid dikembalikan
// apa adanya dengan status yang menjelaskan kenapa: StatusPlaintext untuk
// data legacy yang tidak pernah dienkripsi, StatusCorrupt kalau bentuknya
// ciphertext tapi gagal didekripsi.
func (e *Encryptor) Decrypt(cipherText string) (string, DecryptStatus) {
	if cipherText == "" {
		return cipherText, StatusPlaintext
	}

	raw, err := base64.StdEncoding.DecodeString(cipherText)
	if err != nil || len(raw) < aes.BlockSize*2 || len(raw)%aes.BlockSize != 0 {
		// Bukan format IV||cipher, kemungkinan data lama yang belum dienkripsi
		return cipherText, StatusPlaintext
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return cipherText, StatusCorrupt
	}

	iv := raw[:aes.BlockSize]
	cipherBytes := raw[aes.BlockSize:]
	plainPadded := make([]byte, len(cipherBytes))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plainPadded, cipherBytes)

	plain, err := pkcs7Unpad(plainPadded, aes.BlockSize)
	if err != nil || !utf8.Valid(plain) {
		return cipherText, StatusCorrupt
	}

	return string(plain), StatusDecrypted
}

// DecryptOrRaw dipakai saat materialisasi output: data legacy lolos apa
// adanya, field korup juga dikembalikan mentah tapi dicatat di log supaya
// tidak menutupi kegagalan dekripsi secara diam-diam.
func (e *Encryptor) DecryptOrRaw(cipherText string) string {
	plain, status := e.Decrypt(cipherText)
	if status == StatusCorrupt && utils.ErrorLogger != nil {
		utils.ErrorLogger.Error("field decryption failed, returning raw value")
	}
	return plain
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errBadPadding
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, errBadPadding
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, errBadPadding
		}
	}
	return data[:len(data)-padLen], nil
}
