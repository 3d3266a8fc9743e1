package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
)

// ErrNotLoggedIn is returned when no saved token exists at the given path.
var ErrNotLoggedIn = errors.New("drive: not logged in")

// Google OAuth2 endpoints. Hardcoded rather than pulled from
// golang.org/x/oauth2/google to keep the dependency surface to the core
// oauth2 package.
var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// tokenFile is the on-disk format for saved credentials. The token is
// produced by an external consent flow; this tool only consumes it. When
// client credentials are present the token self-refreshes; without them the
// access token is used as-is until it expires.
type tokenFile struct {
	ClientID     string        `json:"client_id,omitempty"`
	ClientSecret string        `json:"client_secret,omitempty"`
	Token        *oauth2.Token `json:"token"`
}

// TokenSourceFromPath loads a saved token file and returns a token source
// for use with NewClient. Returns ErrNotLoggedIn if no file exists at path.
//
// ctx is bound to the returned source's refresh requests and must outlive
// it; callers should pass context.Background() for long-lived sessions.
func TokenSourceFromPath(ctx context.Context, path string, logger *slog.Logger) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotLoggedIn
	}

	if err != nil {
		return nil, fmt.Errorf("drive: reading token file %s: %w", path, err)
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("drive: decoding token file %s: %w", path, err)
	}

	if tf.Token == nil {
		return nil, fmt.Errorf("drive: token file %s missing token field", path)
	}

	if tf.ClientID == "" {
		logger.Debug("token file has no client credentials, refresh disabled",
			slog.String("path", path),
		)

		return oauth2.StaticTokenSource(tf.Token), nil
	}

	cfg := &oauth2.Config{
		ClientID:     tf.ClientID,
		ClientSecret: tf.ClientSecret,
		Endpoint:     googleEndpoint,
	}

	logger.Debug("token source ready",
		slog.String("path", path),
		slog.Time("expiry", tf.Token.Expiry),
	)

	return cfg.TokenSource(ctx, tf.Token), nil
}
