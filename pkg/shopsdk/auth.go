package shopsdk

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
)

// RegisterRequest is the public sign up form.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Address  string
	Contact  string

	Enable2FA bool
	Code      string
	FlowID    string
}

// Challenge is the 2FA secret a form offers.
type Challenge struct {
	Secret string
	FlowID string
}

// LoginResult tells where a correct password led.
type LoginResult struct {
	// Location is the landing page, "/" or "/admin", when signed in.
	Location string
	// NeedsTOTP is set when the account still owes a code.
	NeedsTOTP bool
}

var (
	secretRe = regexp.MustCompile(`id="totp-secret">([A-Z2-7]+)<`)
	flowRe   = regexp.MustCompile(`name="flow" value="([0-9A-Za-z]+)"`)
)

func challengeFrom(body string) Challenge {
	var ch Challenge
	if m := secretRe.FindStringSubmatch(body); m != nil {
		ch.Secret = m[1]
	}
	if m := flowRe.FindStringSubmatch(body); m != nil {
		ch.FlowID = m[1]
	}
	return ch
}

// RegistrationChallenge loads the sign up form and returns its secret.
func (c *Client) RegistrationChallenge(ctx context.Context) (Challenge, error) {
	body, err := c.get(ctx, "/register")
	if err != nil {
		return Challenge{}, err
	}
	return challengeFrom(body), nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	form := url.Values{
		"username": {req.Username},
		"email":    {req.Email},
		"password": {req.Password},
		"address":  {req.Address},
		"contact":  {req.Contact},
	}
	if req.Enable2FA {
		form.Set("enable2fa", "on")
		form.Set("code", req.Code)
		form.Set("flow", req.FlowID)
	}

	_, err := c.expect(ctx, "/register", form, "/login")
	return err
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	form := url.Values{"email": {email}, "password": {password}}

	location, err := c.expect(ctx, "/login", form, "/", "/admin", "/2fa/verify")
	if err != nil {
		return LoginResult{}, err
	}
	if location == "/2fa/verify" {
		return LoginResult{NeedsTOTP: true}, nil
	}
	return LoginResult{Location: location}, nil
}

// VerifyTOTP completes a pending login and returns the landing page.
func (c *Client) VerifyTOTP(ctx context.Context, code string) (string, error) {
	body, err := c.get(ctx, "/2fa/verify")
	if err != nil {
		return "", err
	}

	form := url.Values{"code": {code}, "flow": {challengeFrom(body).FlowID}}
	return c.expect(ctx, "/2fa/verify", form, "/", "/admin")
}

// BeginTOTPSetup loads the setup page of the signed in account.
func (c *Client) BeginTOTPSetup(ctx context.Context) (Challenge, error) {
	body, err := c.get(ctx, "/2fa/setup")
	if err != nil {
		return Challenge{}, err
	}
	return challengeFrom(body), nil
}

func (c *Client) ConfirmTOTPSetup(ctx context.Context, ch Challenge, code string) error {
	_, err := c.expect(ctx, "/2fa/setup", url.Values{"code": {code}, "flow": {ch.FlowID}}, "/")
	return err
}

func (c *Client) DisableTOTP(ctx context.Context, code string) error {
	_, err := c.expect(ctx, "/2fa/disable", url.Values{"code": {code}}, "/")
	return err
}

func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/logout", nil)
	if err != nil {
		return err
	}
	if resp.status != http.StatusFound {
		return &StatusError{Status: resp.status, Body: resp.body}
	}
	return nil
}
