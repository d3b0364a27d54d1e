package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/melodio/melodio-go/common/gerror"
	"github.com/melodio/melodio-go/common/logger"
)

// AccessToken is a bearer token used to authenticate API requests.
type AccessToken string

// tokenExpirySkew is how long before its recorded expiry a cached OAuth2
// access token is considered stale. Refreshing early avoids presenting a
// token that expires while a request is in flight.
const tokenExpirySkew = 30 * time.Second

// Authenticator enables the API client to make authenticated API requests
// using pluggable authentication methods.
type Authenticator interface {
	AuthenticateRequest(h http.Header) (http.Header, error)
	// AuthenticateClient is called after an HTTP client is set up for the API. Allows the authenticator to set
	// properties (e.g. transports or token sources) on the underlying client.
	AuthenticateClient(client *retryablehttp.Client) (*retryablehttp.Client, error)
}

// StaticTokenAuthenticator authenticates API client requests using a fixed bearer token.
type StaticTokenAuthenticator struct {
	token string
	logger.Log
}

func NewStaticTokenAuthenticator(token AccessToken, logFactory logger.LogFactory) *StaticTokenAuthenticator {
	return &StaticTokenAuthenticator{
		token: string(token),
		Log:   logFactory("StaticTokenAuthenticator"),
	}
}

func (a *StaticTokenAuthenticator) AuthenticateClient(client *retryablehttp.Client) (*retryablehttp.Client, error) {
	return client, nil
}

func (a *StaticTokenAuthenticator) AuthenticateRequest(h http.Header) (http.Header, error) {
	h.Set("Authorization", fmt.Sprintf("Bearer %s", a.token))
	return h, nil
}

// ClientCredentialsAuthenticator authenticates API client requests using the
// OAuth2 client credentials flow. Access tokens are fetched from the token
// endpoint on first use and cached until shortly before they expire.
type ClientCredentialsAuthenticator struct {
	config *clientcredentials.Config
	clk    clock.Clock
	mu     sync.Mutex
	token  *oauth2.Token
	logger.Log
}

func NewClientCredentialsAuthenticator(clientID string, clientSecret string, tokenURL string, logFactory logger.LogFactory) *ClientCredentialsAuthenticator {
	return NewClientCredentialsAuthenticatorWithClock(clientID, clientSecret, tokenURL, clock.New(), logFactory)
}

// NewClientCredentialsAuthenticatorWithClock creates an authenticator that
// checks token expiry against the supplied clock. Tests pass a mock clock.
func NewClientCredentialsAuthenticatorWithClock(
	clientID string,
	clientSecret string,
	tokenURL string,
	clk clock.Clock,
	logFactory logger.LogFactory,
) *ClientCredentialsAuthenticator {
	return &ClientCredentialsAuthenticator{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		},
		clk: clk,
		Log: logFactory("ClientCredentialsAuthenticator"),
	}
}

func (a *ClientCredentialsAuthenticator) AuthenticateClient(client *retryablehttp.Client) (*retryablehttp.Client, error) {
	return client, nil
}

func (a *ClientCredentialsAuthenticator) AuthenticateRequest(h http.Header) (http.Header, error) {
	token, err := a.accessToken()
	if err != nil {
		return nil, gerror.NewErrUnauthorized("error obtaining access token").Wrap(err)
	}
	h.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	return h, nil
}

// accessToken returns the cached access token, fetching a new one from the
// token endpoint when no token is held or the held token is within
// tokenExpirySkew of expiry. Expiry is checked against the authenticator's
// own clock, not the wall clock the oauth2 package would use.
func (a *ClientCredentialsAuthenticator) accessToken() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token != nil && (a.token.Expiry.IsZero() || a.token.Expiry.After(a.clk.Now().Add(tokenExpirySkew))) {
		return a.token.AccessToken, nil
	}
	a.Debugf("Requesting new access token from %s", a.config.TokenURL)
	token, err := a.config.Token(context.Background())
	if err != nil {
		return "", errors.Wrap(err, "error requesting access token")
	}
	a.token = token
	return token.AccessToken, nil
}
