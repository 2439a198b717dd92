package pim

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

const tokenPath = "/api/oauth/v1/token"

// passwordTokenSource runs the OAuth2 password grant each time a new
// token is needed.
type passwordTokenSource struct {
	ctx      context.Context
	conf     *oauth2.Config
	username string
	password string
}

func (s *passwordTokenSource) Token() (*oauth2.Token, error) {
	return s.conf.PasswordCredentialsToken(s.ctx, s.username, s.password)
}

// newAuthTransport returns a round tripper that adds a bearer token to every
// request. Tokens are fetched through tokenClient and cached until expiry.
func newAuthTransport(ctx context.Context, tokenClient *http.Client, baseURL string, opts Options) http.RoundTripper {
	conf := &oauth2.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  baseURL + tokenPath,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	src := &passwordTokenSource{
		ctx:      context.WithValue(ctx, oauth2.HTTPClient, tokenClient),
		conf:     conf,
		username: opts.Username,
		password: opts.Password,
	}

	return &oauth2.Transport{
		Source: oauth2.ReuseTokenSource(nil, src),
		Base:   opts.Transport,
	}
}
