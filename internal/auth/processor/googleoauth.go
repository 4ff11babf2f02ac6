package processor

import (
	"context"
	"errors"
)

var ErrFailedSignIn = errors.New("failed to sign in")

// SignInGoogleUserWithCode exchanges a Google sign-in code for a session JWT,
// creating the user on first sign-in.
func (p *AuthProcessor) SignInGoogleUserWithCode(ctx context.Context, code string) (string, error) {
	token, err := p.googleOauthClient.GetAccessToken(ctx, code)
	if err != nil {
		p.logger.InfoWithError(ctx, "failed to get access token", err)
		return "", ErrFailedSignIn
	}

	userInfo, err := p.googleOauthClient.GetUserInfo(ctx, token.AccessToken)
	if err != nil {
		p.logger.InfoWithError(ctx, "failed to get user info", err)
		return "", ErrFailedSignIn
	}

	exists, err := p.store.CheckIfEmailExists(ctx, userInfo.Email)
	if err != nil {
		p.logger.InfoWithError(ctx, "failed to check if email exists", err)
		return "", ErrFailedSignIn
	}

	if !exists {
		if _, err := p.store.CreateUserOnGoogleSignIn(
			ctx, userInfo.FirstName, userInfo.LastName, userInfo.Email, userInfo.ID); err != nil {
			p.logger.InfoWithError(ctx, "failed to create user on google sign in", err)
			return "", ErrFailedSignIn
		}
	}

	user, err := p.store.GetUserByEmail(ctx, userInfo.Email)
	if err != nil {
		p.logger.InfoWithError(ctx, "failed to get user by email", err)
		return "", ErrFailedSignIn
	}

	jwtToken, err := p.generateJWTToken(user.ID)
	if err != nil {
		p.logger.InfoWithError(ctx, "failed to generate jwt token", err)
		return "", ErrFailedSignIn
	}
	return jwtToken, nil
}
