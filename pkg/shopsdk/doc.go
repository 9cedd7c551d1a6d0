/*
Package shopsdk is a Go client for the FluffyFriend shop.

The shop is a server rendered site, so the client speaks its HTML forms: it
keeps the session cookie in a jar, posts url-encoded forms and reads the
302 redirect that every form answers with. When a form is rejected the
client follows the redirect and returns the flash message the shop showed
as a *FormError.

	client, err := shopsdk.NewClient("http://localhost:8080")

	// Public sign up with 2FA
	challenge, err := client.RegistrationChallenge(ctx)
	err = client.Register(ctx, shopsdk.RegisterRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "secret1",
		Address:   "1 Paw Street",
		Contact:   "0400 000 000",
		Enable2FA: true,
		Code:      codeFor(challenge.Secret),
		FlowID:    challenge.FlowID,
	})

	// Login, with the TOTP step when required
	res, err := client.Login(ctx, "alice@example.com", "secret1")
	if res.NeedsTOTP {
		err = client.VerifyTOTP(ctx, codeFor(challenge.Secret))
	}

A Client holds one visitor's session and is not meant to be shared between
goroutines acting as different visitors.
*/
package shopsdk
