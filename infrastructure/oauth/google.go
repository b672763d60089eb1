// Package oauth wraps the Google OAuth2 flows the Drive mirror depends on.
package oauth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
	pkgerrors "notemap-backend/pkg/errors"
)

// GoogleOAuth implements both ports.OAuthExchanger and ports.TokenRefresher
// against Google's token endpoints. drive.file scope only: the app touches
// the files it created, nothing else in the user's Drive.
type GoogleOAuth struct {
	config *oauth2.Config
}

// NewGoogleOAuth creates the OAuth client from app credentials
func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{drive.DriveFileScope},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the consent URL the client redirects the user to.
// offline access is required or Google never issues a refresh token.
func (g *GoogleOAuth) AuthURL(state string) string {
	return g.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange swaps an authorization code for a Drive credential
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (entities.DriveCredential, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return entities.DriveCredential{}, pkgerrors.NewExternalError("google oauth", err)
	}
	return entities.DriveCredential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}, nil
}

// Refresh exchanges the stored refresh token for a fresh access token.
// Google may omit the refresh token in the response; the stored one is kept
// in that case.
func (g *GoogleOAuth) Refresh(ctx context.Context, cred entities.DriveCredential) (entities.DriveCredential, error) {
	source := g.config.TokenSource(ctx, &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.Expiry,
	})

	token, err := source.Token()
	if err != nil {
		return entities.DriveCredential{}, pkgerrors.NewCredentialRefreshError("drive", err)
	}

	refreshToken := token.RefreshToken
	if refreshToken == "" {
		refreshToken = cred.RefreshToken
	}
	return entities.DriveCredential{
		AccessToken:  token.AccessToken,
		RefreshToken: refreshToken,
		Expiry:       token.Expiry,
	}, nil
}

var (
	_ ports.OAuthExchanger = (*GoogleOAuth)(nil)
	_ ports.TokenRefresher = (*GoogleOAuth)(nil)
)
