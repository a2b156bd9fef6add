package cognitoclient

import (
	"context"
	"errors"

	"clinicdesk/cmd/internal/integration/identity"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// API is the subset of the Cognito client used here.
type API interface {
	SignUp(ctx context.Context, in *cognitoidentityprovider.SignUpInput, opts ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	InitiateAuth(ctx context.Context, in *cognitoidentityprovider.InitiateAuthInput, opts ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	ConfirmSignUp(ctx context.Context, in *cognitoidentityprovider.ConfirmSignUpInput, opts ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error)
	AdminDeleteUser(ctx context.Context, in *cognitoidentityprovider.AdminDeleteUserInput, opts ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDeleteUserOutput, error)
	AdminGetUser(ctx context.Context, in *cognitoidentityprovider.AdminGetUserInput, opts ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminGetUserOutput, error)
}

type Client struct {
	api        API
	clientID   string
	userPoolID string
}

func New(api API, clientID, userPoolID string) *Client {
	return &Client{api: api, clientID: clientID, userPoolID: userPoolID}
}

// InitCognitoClient builds a client from the default AWS credential chain.
func InitCognitoClient(ctx context.Context, region, clientID, userPoolID string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return New(cognitoidentityprovider.NewFromConfig(cfg), clientID, userPoolID), nil
}

func (c *Client) SignUp(ctx context.Context, user *identity.User) (*identity.SignUpResult, error) {
	out, err := c.api.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(user.Email),
		Password: aws.String(user.Password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(user.Email)},
		},
	})
	if err != nil {
		return nil, err
	}
	return &identity.SignUpResult{
		Sub:       aws.ToString(out.UserSub),
		Confirmed: out.UserConfirmed,
	}, nil
}

func (c *Client) SignIn(ctx context.Context, login *identity.UserLogin) (*identity.AuthCreate, error) {
	out, err := c.api.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"USERNAME": login.Email,
			"PASSWORD": login.Password,
		},
	})
	if err != nil {
		return nil, err
	}
	if out.AuthenticationResult == nil {
		// MFA and other challenges are not configured for the clinic pool.
		return nil, errors.New("cognito returned a challenge instead of tokens")
	}

	sub, err := c.subject(ctx, login.Email)
	if err != nil {
		return nil, err
	}
	return &identity.AuthCreate{
		Sub:         sub,
		AccessToken: aws.ToString(out.AuthenticationResult.AccessToken),
		IDToken:     aws.ToString(out.AuthenticationResult.IdToken),
	}, nil
}

func (c *Client) ConfirmAccount(ctx context.Context, confirmation *identity.UserConfirmation) error {
	_, err := c.api.ConfirmSignUp(ctx, &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(c.clientID),
		Username:         aws.String(confirmation.Email),
		ConfirmationCode: aws.String(confirmation.Code),
	})
	return err
}

func (c *Client) AdminDeleteUser(ctx context.Context, email string) error {
	_, err := c.api.AdminDeleteUser(ctx, &cognitoidentityprovider.AdminDeleteUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(email),
	})
	return err
}

func (c *Client) subject(ctx context.Context, email string) (string, error) {
	out, err := c.api.AdminGetUser(ctx, &cognitoidentityprovider.AdminGetUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(email),
	})
	if err != nil {
		return "", err
	}
	for _, attr := range out.UserAttributes {
		if aws.ToString(attr.Name) == "sub" {
			return aws.ToString(attr.Value), nil
		}
	}
	return "", errors.New("cognito user has no sub attribute")
}
