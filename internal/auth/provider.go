// Package auth integrates the external identity provider and issues the
// service's own session tokens. The provider's wire protocol is treated as an
// opaque OAuth2 authorization-code flow: we redirect, exchange the code, and
// read a userinfo document. Everything else about the provider is out of scope.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"folio/internal/config"

	"golang.org/x/oauth2"
)

// UserInfo is the principal returned by the identity provider.
type UserInfo struct {
	Subject   string `json:"sub"`
	Email     string `json:"email"`
	FirstName string `json:"given_name"`
	LastName  string `json:"family_name"`
	Picture   string `json:"picture"`
}

// Provider performs the external login handshake.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error)
}

// OAuthProvider is the production Provider backed by golang.org/x/oauth2.
type OAuthProvider struct {
	oauth       oauth2.Config
	userInfoURL string
}

// NewOAuthProvider builds a provider from configuration.
func NewOAuthProvider(cfg *config.Config) *OAuthProvider {
	return &OAuthProvider{
		oauth: oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuthAuthURL,
				TokenURL: cfg.OAuthTokenURL,
			},
		},
		userInfoURL: cfg.OAuthUserInfoURL,
	}
}

// AuthCodeURL returns the provider URL to redirect the browser to.
func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for a token.
func (p *OAuthProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.oauth.Exchange(ctx, code)
}

// FetchUserInfo reads the provider's userinfo document with the token.
func (p *OAuthProvider) FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	resp, err := p.oauth.Client(ctx, token).Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.Subject == "" {
		return nil, fmt.Errorf("userinfo document has no subject")
	}
	return &info, nil
}
