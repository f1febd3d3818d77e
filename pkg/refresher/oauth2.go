package refresher

import (
	"context"
	"errors"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/authkit/pkg/authstate"
)

// OAuth2Refresher performs a standard OAuth2 refresh grant against the
// provider configured in the oauth2.Config.
type OAuth2Refresher struct {
	config *oauth2.Config
}

// NewOAuth2Refresher creates a refresher for the given OAuth2 provider
// configuration
func NewOAuth2Refresher(config *oauth2.Config) *OAuth2Refresher {
	return &OAuth2Refresher{config: config}
}

// Refresh exchanges the refresh token for a fresh token pair. Providers
// that rotate refresh tokens return the new one; otherwise the returned
// pair carries an empty refresh token and callers keep the current one.
func (r *OAuth2Refresher) Refresh(ctx context.Context, refreshToken string) (authstate.Tokens, error) {
	if refreshToken == "" {
		return authstate.Tokens{}, ErrNoRefreshToken
	}

	source := r.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return authstate.Tokens{}, errors.Join(ErrRefreshFailed, err)
	}

	tokens := authstate.Tokens{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.Expiry,
	}
	if token.RefreshToken != refreshToken {
		tokens.RefreshToken = token.RefreshToken
	}
	return tokens, nil
}
