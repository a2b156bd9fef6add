// Package identity describes the sign-up / sign-in contract shared by the
// Cognito and local providers. Providers report failures as smithy.APIError
// values with Cognito's exception codes, so callers map both the same way.
package identity

import "context"

const (
	CodeInvalidPassword  = "InvalidPasswordException"
	CodeUsernameExists   = "UsernameExistsException"
	CodeUserNotFound     = "UserNotFoundException"
	CodeUserNotConfirmed = "UserNotConfirmedException"
	CodeNotAuthorized    = "NotAuthorizedException"
	CodeCodeMismatch     = "CodeMismatchException"
	CodeExpiredCode      = "ExpiredCodeException"
)

type User struct {
	Email    string
	Password string
}

type UserLogin struct {
	Email    string
	Password string
}

type UserConfirmation struct {
	Email string
	Code  string
}

type SignUpResult struct {
	Sub       string
	Confirmed bool
}

// AuthCreate holds provider tokens. The local provider leaves them empty.
type AuthCreate struct {
	Sub         string
	AccessToken string
	IDToken     string
}

type Provider interface {
	SignUp(ctx context.Context, user *User) (*SignUpResult, error)
	SignIn(ctx context.Context, login *UserLogin) (*AuthCreate, error)
	ConfirmAccount(ctx context.Context, confirmation *UserConfirmation) error
	AdminDeleteUser(ctx context.Context, email string) error
}
