package service

import (
	"bytes"
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	totpPeriod     = 30
	totpSecretSize = 20
	qrCodeSize     = 200
)

// Tolerated clock skew, in 30 second steps, for each place a code is typed.
const (
	WindowRegistration uint = 2
	WindowSetup        uint = 1
	WindowLogin        uint = 1
	WindowDisable      uint = 1
)

var b32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Enrollment is a freshly issued shared secret and its provisioning URI.
type Enrollment struct {
	Secret string
	URI    string
}

// TOTPEngine issues secrets and checks codes: 30 second steps, six digits,
// HMAC-SHA1.
type TOTPEngine struct {
	Now func() time.Time
}

func NewTOTPEngine() *TOTPEngine {
	return &TOTPEngine{Now: time.Now}
}

// GenerateSecret returns a random 160-bit secret and an otpauth URI naming
// label as both account and issuer.
func (e *TOTPEngine) GenerateSecret(label string) (Enrollment, error) {
	raw := make([]byte, totpSecretSize)
	if _, err := rand.Read(raw); err != nil {
		return Enrollment{}, fmt.Errorf("generate totp secret: %w", err)
	}

	secret := b32NoPadding.EncodeToString(raw)
	return Enrollment{Secret: secret, URI: ProvisioningURI(label, secret)}, nil
}

// ProvisioningURI builds otpauth://totp/<label>?secret=<secret>&issuer=<label>.
func ProvisioningURI(label, secret string) string {
	return "otpauth://totp/" + url.PathEscape(label) +
		"?secret=" + secret +
		"&issuer=" + url.QueryEscape(label)
}

// QRCode renders uri as a PNG data URL for an <img> tag.
func (e *TOTPEngine) QRCode(uri string) (string, error) {
	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return "", fmt.Errorf("parse provisioning uri: %w", err)
	}

	img, err := key.Image(qrCodeSize, qrCodeSize)
	if err != nil {
		return "", fmt.Errorf("render qr code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Verify accepts code if it matches any step within ±window of now.
func (e *TOTPEngine) Verify(secret, code string, window uint) bool {
	code = strings.TrimSpace(code)
	if secret == "" || code == "" {
		return false
	}

	ok, err := totp.ValidateCustom(code, secret, e.now(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      window,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

func (e *TOTPEngine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
