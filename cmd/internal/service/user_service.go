package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/integration/identity"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/apierror"
	"github.com/aws/smithy-go"
	"github.com/go-playground/validator/v10"

	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(id int) (*entity.User, error)
	FindBySub(sub string) (*entity.User, error)
	FindAll() ([]*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Count() (int64, error)
	Save(user *entity.User) error
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower,nospaces"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type ConfirmSignupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,min=1,max=6"`
}

type UserResponse struct {
	ID            int    `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	IsAdmin       bool   `json:"isAdmin"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

type UserLoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   string `json:"expiresAt"`
}

type DefaultUserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	IDP      identity.Provider
	Tokens   *utils.TokenIssuer
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, idp identity.Provider, tokens *utils.TokenIssuer) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, Validate: validate, IDP: idp, Tokens: tokens}
}

func (u *DefaultUserService) GetUsers() ([]*UserResponse, apierror.ErrorResponse) {
	users, err := u.UserRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch all users: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

func (u *DefaultUserService) GetUser(rawId, subId string) (*UserResponse, apierror.ErrorResponse) {
	user, apierr := u.fetchUser(rawId, subId)
	if apierr != nil {
		return nil, apierr
	}

	if user == nil {
		return nil, apierror.NotFoundError
	}
	return toUserResponse(user), nil
}

// CreateUser registers the account with the identity provider and mirrors it
// in our database. The first user ever created becomes the clinic admin.
func (u *DefaultUserService) CreateUser(ctx context.Context, req *CreateUserRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return apierror.InternalServerError
	}

	if found {
		return apierror.UserAlreadyExistsError
	}

	count, err := u.UserRepo.Count()
	if err != nil {
		log.Errorf("failed to count users: %v", err)
		return apierror.InternalServerError
	}

	idpUser := &identity.User{Email: req.Email, Password: req.Password}
	signup, apierr, revert := handleUserSignup(ctx, u.IDP, idpUser)
	if apierr != nil {
		return apierr
	}

	now := utils.NowUTC()
	user := &entity.User{
		SubUUID:       signup.Sub,
		Username:      req.Username,
		Email:         req.Email,
		EmailVerified: signup.Confirmed,
		IsAdmin:       count == 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = u.UserRepo.Save(user)
	if err != nil {
		revert()
		log.Errorf("failed to create user: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (u *DefaultUserService) Login(ctx context.Context, req *UserLoginRequest) (*UserLoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.IDPUserNotFoundError
	}

	credentials := &identity.UserLogin{
		Email:    req.Email,
		Password: req.Password,
	}

	if _, apierr := handleUserSignin(ctx, u.IDP, credentials); apierr != nil {
		return nil, apierr
	}

	token, expires, err := u.Tokens.Issue(utils.TokenData{Sub: user.SubUUID, Username: user.Username, IsAdmin: user.IsAdmin})
	if err != nil {
		log.Errorf("failed to issue session token for user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}
	return &UserLoginResponse{AccessToken: token, ExpiresAt: expires.UTC().Format(time.RFC3339)}, nil
}

func (u *DefaultUserService) ConfirmSignup(ctx context.Context, req *ConfirmSignupRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return apierror.InternalServerError
	}

	if user == nil {
		return apierror.IDPUserNotFoundError
	}

	if user.EmailVerified {
		return apierror.UserAlreadyConfirmedError
	}

	confirms := &identity.UserConfirmation{
		Email: req.Email,
		Code:  req.Code,
	}

	if apierr := handleSignupConfirmation(ctx, u.IDP, confirms); apierr != nil {
		return apierr
	}

	user.EmailVerified = true
	user.UpdatedAt = utils.NowUTC()
	if err := u.UserRepo.Save(user); err != nil {
		log.Errorf("failed to update user (%d) verified status: %v", user.ID, err)
	}
	return nil
}

func (u *DefaultUserService) fetchUser(rawId, sub string) (*entity.User, apierror.ErrorResponse) {
	if rawId == "@me" {
		return u.fetchBySub(sub)
	}
	return u.fetchByID(rawId)
}

func (u *DefaultUserService) fetchBySub(sub string) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindBySub(sub)
	if err != nil {
		log.Errorf("failed to find user (%s) by sub: %v", sub, err)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

func (u *DefaultUserService) fetchByID(rawId string) (*entity.User, apierror.ErrorResponse) {
	userId, err := strconv.Atoi(rawId)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("id", "int32")
	}
	user, err := u.UserRepo.FindByID(userId)
	if err != nil {
		log.Errorf("failed to find user (%s) by id: %v", rawId, err)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

func handleUserSignup(ctx context.Context, idp identity.Provider, req *identity.User) (*identity.SignUpResult, apierror.ErrorResponse, func()) {
	revert := func() {
		if err := idp.AdminDeleteUser(ctx, req.Email); err != nil {
			log.Errorf("failed to revert signup for user (%s): %v", req.Email, err)
		}
	}

	res, err := idp.SignUp(ctx, req)
	if err == nil {
		return res, nil, revert
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case identity.CodeInvalidPassword:
			return nil, apierror.IDPInvalidPasswordError, revert
		case identity.CodeUsernameExists:
			return nil, apierror.IDPExistingEmailError, revert
		default:
			log.Errorf("signup failed for user (%s): %s - %s", req.Email, apiErr.ErrorCode(), apiErr.ErrorMessage())
			return nil, apierror.InternalServerError, revert
		}
	}

	log.Errorf("failed to signup user (%s): %v", req.Email, err)
	return nil, apierror.InternalServerError, revert
}

func handleUserSignin(ctx context.Context, idp identity.Provider, req *identity.UserLogin) (*identity.AuthCreate, apierror.ErrorResponse) {
	auth, err := idp.SignIn(ctx, req)
	if err == nil {
		return auth, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case identity.CodeUserNotFound:
			return nil, apierror.IDPUserNotFoundError
		case identity.CodeUserNotConfirmed:
			return nil, apierror.IDPUserNotConfirmedError
		case identity.CodeNotAuthorized:
			return nil, apierror.IDPCredentialsMismatchError
		default:
			log.Errorf("signin failed for user (%s): %s - %s", req.Email, apiErr.ErrorCode(), apiErr.ErrorMessage())
			return nil, apierror.InternalServerError
		}
	}

	log.Errorf("failed to signin user (%s): %v", req.Email, err)
	return nil, apierror.InternalServerError
}

func handleSignupConfirmation(ctx context.Context, idp identity.Provider, req *identity.UserConfirmation) apierror.ErrorResponse {
	err := idp.ConfirmAccount(ctx, req)
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case identity.CodeCodeMismatch:
			return apierror.IDPConfirmCodeMismatchError
		case identity.CodeExpiredCode:
			return apierror.IDPConfirmCodeExpiredError
		case identity.CodeUserNotFound:
			return apierror.IDPUserNotFoundError
		default:
			log.Errorf("confirmation failed for user (%s): %s - %s", req.Email, apiErr.ErrorCode(), apiErr.ErrorMessage())
			return apierror.InternalServerError
		}
	}

	log.Errorf("failed to confirm user (%s): %v", req.Email, err)
	return apierror.InternalServerError
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		IsAdmin:       user.IsAdmin,
		CreatedAt:     utils.FormatEpoch(user.CreatedAt),
		UpdatedAt:     utils.FormatEpoch(user.UpdatedAt),
	}
}
