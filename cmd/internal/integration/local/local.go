// Package local is a self-contained identity provider for clinics that do not
// run Cognito: bcrypt hashes in the application database, accounts confirmed
// on sign-up.
package local

import (
	"context"
	"errors"
	"strings"

	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/integration/identity"
	"clinicdesk/cmd/internal/utils"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Provider struct {
	db   *gorm.DB
	cost int
}

func New(db *gorm.DB) *Provider {
	return &Provider{db: db, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (p *Provider) WithCost(cost int) *Provider {
	p.cost = cost
	return p
}

func apiError(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message, Fault: smithy.FaultClient}
}

func (p *Provider) SignUp(ctx context.Context, user *identity.User) (*identity.SignUpResult, error) {
	email := normalize(user.Email)
	existing, err := p.find(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apiError(identity.CodeUsernameExists, "an account with the given email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), p.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apiError(identity.CodeInvalidPassword, "password is too long")
		}
		return nil, err
	}

	cred := &entity.Credential{
		Email:        email,
		SubUUID:      uuid.NewString(),
		PasswordHash: string(hash),
		Confirmed:    true,
		CreatedAt:    utils.NowUTC(),
	}
	if err := p.db.WithContext(ctx).Create(cred).Error; err != nil {
		return nil, err
	}
	return &identity.SignUpResult{Sub: cred.SubUUID, Confirmed: cred.Confirmed}, nil
}

func (p *Provider) SignIn(ctx context.Context, login *identity.UserLogin) (*identity.AuthCreate, error) {
	cred, err := p.find(ctx, normalize(login.Email))
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, apiError(identity.CodeUserNotFound, "user does not exist")
	}
	if !cred.Confirmed {
		return nil, apiError(identity.CodeUserNotConfirmed, "user is not confirmed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(login.Password)); err != nil {
		return nil, apiError(identity.CodeNotAuthorized, "incorrect username or password")
	}
	return &identity.AuthCreate{Sub: cred.SubUUID}, nil
}

// ConfirmAccount has nothing to check locally beyond the account existing.
func (p *Provider) ConfirmAccount(ctx context.Context, confirmation *identity.UserConfirmation) error {
	cred, err := p.find(ctx, normalize(confirmation.Email))
	if err != nil {
		return err
	}
	if cred == nil {
		return apiError(identity.CodeUserNotFound, "user does not exist")
	}
	return p.db.WithContext(ctx).Model(cred).Update("confirmed", true).Error
}

func (p *Provider) AdminDeleteUser(ctx context.Context, email string) error {
	return p.db.WithContext(ctx).Where("email = ?", normalize(email)).Delete(&entity.Credential{}).Error
}

func (p *Provider) find(ctx context.Context, email string) (*entity.Credential, error) {
	var cred entity.Credential
	err := p.db.WithContext(ctx).Where("email = ?", email).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
