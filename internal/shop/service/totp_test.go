package service

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func codeAt(t *testing.T, secret string, at time.Time) string {
	t.Helper()

	code, err := totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    totpPeriod,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)
	return code
}

func TestGenerateSecret(t *testing.T) {
	engine := NewTOTPEngine()

	e, err := engine.GenerateSecret("FluffyFriend (alice@example.com)")
	require.NoError(t, err)
	require.Len(t, e.Secret, 32)

	u, err := url.Parse(e.URI)
	require.NoError(t, err)
	require.Equal(t, "otpauth", u.Scheme)
	require.Equal(t, "totp", u.Host)
	require.Equal(t, "/FluffyFriend (alice@example.com)", u.Path)
	require.Equal(t, e.Secret, u.Query().Get("secret"))
	require.Equal(t, "FluffyFriend (alice@example.com)", u.Query().Get("issuer"))

	other, err := engine.GenerateSecret("FluffyFriend")
	require.NoError(t, err)
	require.NotEqual(t, e.Secret, other.Secret)
	require.Equal(t, "otpauth://totp/FluffyFriend?secret="+other.Secret+"&issuer=FluffyFriend", other.URI)
}

func TestQRCode(t *testing.T) {
	engine := NewTOTPEngine()
	e, err := engine.GenerateSecret("FluffyFriend")
	require.NoError(t, err)

	img, err := engine.QRCode(e.URI)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(img, "data:image/png;base64,"))

	_, err = engine.QRCode("%%%")
	require.Error(t, err)
}

func TestVerifyWindow(t *testing.T) {
	now := time.Unix(1700000010, 0)
	engine := &TOTPEngine{Now: func() time.Time { return now }}

	e, err := engine.GenerateSecret("FluffyFriend")
	require.NoError(t, err)

	step := totpPeriod * time.Second

	tests := []struct {
		name   string
		offset int
		window uint
		want   bool
	}{
		{"current step", 0, 0, true},
		{"previous step outside zero window", -1, 0, false},
		{"previous step within one", -1, 1, true},
		{"next step within one", 1, 1, true},
		{"two steps back outside one", -2, 1, false},
		{"two steps ahead outside one", 2, 1, false},
		{"two steps back within two", -2, 2, true},
		{"two steps ahead within two", 2, 2, true},
		{"three steps back outside two", -3, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := codeAt(t, e.Secret, now.Add(time.Duration(tt.offset)*step))
			require.Equal(t, tt.want, engine.Verify(e.Secret, code, tt.window))
		})
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	engine := NewTOTPEngine()
	e, err := engine.GenerateSecret("FluffyFriend")
	require.NoError(t, err)

	require.False(t, engine.Verify(e.Secret, "", 1))
	require.False(t, engine.Verify(e.Secret, "12345", 1))
	require.False(t, engine.Verify(e.Secret, "abcdef", 1))
	require.False(t, engine.Verify("", "123456", 1))

	code := codeAt(t, e.Secret, time.Now())
	require.True(t, engine.Verify(e.Secret, " "+code+" ", 1))
}
