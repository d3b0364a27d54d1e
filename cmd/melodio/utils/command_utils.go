package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/melodio/melodio-go/client"
	"github.com/melodio/melodio-go/common/gerror"
	"github.com/melodio/melodio-go/common/logger"
)

// Config keys read from the config file and the MELODIO_* environment.
const (
	ConfigKeyEndpoint     = "endpoint"
	ConfigKeyToken        = "token"
	ConfigKeyClientID     = "client_id"
	ConfigKeyClientSecret = "client_secret"
	ConfigKeyTokenURL     = "token_url"
)

const (
	defaultEndpoint = "https://api.melodio.example.com"
	defaultTokenURL = "https://accounts.melodio.example.com/oauth/token"
)

// NewAPIClient builds an API client from the resolved configuration,
// using static token authentication when a token is configured and
// client credentials otherwise.
func NewAPIClient(debug bool) (*client.APIClient, error) {
	logRegistry, err := logger.NewLogRegistry("")
	if err != nil {
		return nil, err
	}
	if debug {
		err = logRegistry.SetDefaultLogLevel("debug")
		if err != nil {
			return nil, err
		}
	}
	logFactory := logger.MakeLogrusLogFactoryStdErr(logRegistry)

	endpoint := viper.GetString(ConfigKeyEndpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	authenticator, err := newAuthenticator(logFactory)
	if err != nil {
		return nil, err
	}
	return client.NewAPIClient([]string{endpoint}, authenticator, logFactory)
}

func newAuthenticator(logFactory logger.LogFactory) (client.Authenticator, error) {
	token := viper.GetString(ConfigKeyToken)
	if token != "" {
		return client.NewStaticTokenAuthenticator(client.AccessToken(token), logFactory), nil
	}
	clientID := viper.GetString(ConfigKeyClientID)
	clientSecret := viper.GetString(ConfigKeyClientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, gerror.NewErrInvalidConfig(fmt.Sprintf(
			"error no credentials configured: set %s, or %s and %s", ConfigKeyToken, ConfigKeyClientID, ConfigKeyClientSecret))
	}
	tokenURL := viper.GetString(ConfigKeyTokenURL)
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	return client.NewClientCredentialsAuthenticator(clientID, clientSecret, tokenURL, logFactory), nil
}

func HomeifyPath(path string) (string, error) {
	for _, prefix := range []string{"~/", "$HOME"} {
		if strings.HasPrefix(path, prefix) {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("error locating user home directory: %w", err)
			}
			return filepath.Join(home, path[len(prefix):]), nil
		}
	}
	return path, nil
}
