package service

import (
	"context"
	"testing"
	"time"

	"clinicdesk/cmd/internal/domain/sqlite/repository"
	"clinicdesk/cmd/internal/integration/identity"
	"clinicdesk/cmd/internal/integration/local"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"
	"clinicdesk/cmd/internal/utils/validators"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Secr3t!pass"

func newUserService(t *testing.T) (*DefaultUserService, *utils.TokenIssuer) {
	t.Helper()
	db := newTestDB(t)
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	idp := local.New(db).WithCost(bcrypt.MinCost)
	return NewUserService(repository.NewUserRepository(db), validators.New(), idp, tokens), tokens
}

func TestUserService_SignUpAndLogin(t *testing.T) {
	svc, tokens := newUserService(t)
	ctx := context.Background()

	require.Nil(t, svc.CreateUser(ctx, &CreateUserRequest{Username: "ana", Email: "Ana@Example.com", Password: testPassword}))
	require.Nil(t, svc.CreateUser(ctx, &CreateUserRequest{Username: "bruno", Email: "bruno@example.com", Password: testPassword}))

	users, apierr := svc.GetUsers()
	require.Nil(t, apierr)
	require.Len(t, users, 2)
	assert.True(t, users[0].IsAdmin)
	assert.False(t, users[1].IsAdmin)
	assert.True(t, users[0].EmailVerified)
	assert.Equal(t, "ana@example.com", users[0].Email)

	login, apierr := svc.Login(ctx, &UserLoginRequest{Email: "ana@example.com", Password: testPassword})
	require.Nil(t, apierr)

	data, err := tokens.Parse(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana", data.Username)
	assert.True(t, data.IsAdmin)

	me, apierr := svc.GetUser("@me", data.Sub)
	require.Nil(t, apierr)
	assert.Equal(t, "ana", me.Username)
}

func TestUserService_Errors(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	require.Nil(t, svc.CreateUser(ctx, &CreateUserRequest{Username: "ana", Email: "ana@example.com", Password: testPassword}))

	assert.Equal(t, apierror.UserAlreadyExistsError,
		svc.CreateUser(ctx, &CreateUserRequest{Username: "ana2", Email: "ana@example.com", Password: testPassword}))

	apierr := svc.CreateUser(ctx, &CreateUserRequest{Username: "weak", Email: "weak@example.com", Password: "password"})
	assert.Equal(t, []string{"password"}, validationFields(t, apierr))

	_, apierr = svc.Login(ctx, &UserLoginRequest{Email: "ana@example.com", Password: "Wrong1!pass"})
	assert.Equal(t, apierror.IDPCredentialsMismatchError, apierr)

	_, apierr = svc.Login(ctx, &UserLoginRequest{Email: "nobody@example.com", Password: testPassword})
	assert.Equal(t, apierror.IDPUserNotFoundError, apierr)

	assert.Equal(t, apierror.UserAlreadyConfirmedError,
		svc.ConfirmSignup(ctx, &ConfirmSignupRequest{Email: "ana@example.com", Code: "123456"}))

	_, apierr = svc.GetUser("abc", "")
	assert.Equal(t, 400, apierr.Code())

	_, apierr = svc.GetUser("999", "")
	assert.Equal(t, apierror.NotFoundError, apierr)
}

type stubIDP struct {
	identity.Provider
	confirmErr error
}

func (s *stubIDP) SignUp(context.Context, *identity.User) (*identity.SignUpResult, error) {
	return &identity.SignUpResult{Sub: "sub-1", Confirmed: false}, nil
}

func (s *stubIDP) ConfirmAccount(context.Context, *identity.UserConfirmation) error {
	return s.confirmErr
}

func TestUserService_ConfirmSignupMapsProviderErrors(t *testing.T) {
	db := newTestDB(t)
	idp := &stubIDP{confirmErr: &smithy.GenericAPIError{Code: identity.CodeCodeMismatch}}
	svc := NewUserService(repository.NewUserRepository(db), validators.New(), idp, utils.NewTokenIssuer("s", time.Hour))
	ctx := context.Background()

	require.Nil(t, svc.CreateUser(ctx, &CreateUserRequest{Username: "ana", Email: "ana@example.com", Password: testPassword}))
	assert.Equal(t, apierror.IDPConfirmCodeMismatchError,
		svc.ConfirmSignup(ctx, &ConfirmSignupRequest{Email: "ana@example.com", Code: "000000"}))

	idp.confirmErr = nil
	require.Nil(t, svc.ConfirmSignup(ctx, &ConfirmSignupRequest{Email: "ana@example.com", Code: "123456"}))

	user, apierr := svc.GetUser("1", "")
	require.Nil(t, apierr)
	assert.True(t, user.EmailVerified)
}
