package qr

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"
)

// FlexibleID menerima family id sebagai string maupun angka,
// karena klien lama ada yang mengirim id tanpa tanda kutip.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*f = FlexibleID(asString)
		return nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err == nil {
		*f = FlexibleID(asNumber.String())
		return nil
	}
	return errors.New("family id must be a string or number")
}

func (f FlexibleID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(f))), nil
}

// Payload adalah wire format QR: id keluarga (non-rahasia) + secret.
// Field naming harus tetap sama persis antara penerbit dan pemindai.
type Payload struct {
	Family FlexibleID `json:"family"`
	Secret string     `json:"s"`
}

func BuildPayload(parentID, secret string) Payload {
	return Payload{Family: FlexibleID(parentID), Secret: secret}
}

func EncodePayload(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func ParsePayload(data string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Payload{}, err
	}
	if p.Family == "" || p.Secret == "" {
		return Payload{}, errors.New("incomplete qr payload")
	}
	return p, nil
}

// RenderPNG menggambar payload sebagai barcode PNG 256x256,
// error correction level Medium.
func RenderPNG(p Payload) ([]byte, error) {
	data, err := EncodePayload(p)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(data, qrcode.Medium, 256)
}

// VerifySecret membandingkan secret tersimpan dengan yang dikirim
// dalam waktu konstan.
func VerifySecret(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
