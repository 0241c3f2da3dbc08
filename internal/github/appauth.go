package gh

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	github "github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"

	"github.com/codefresh-contrib/pipeline-trigger/internal/token"
)

// appJWTLifetime is the validity window of the signed app JWT. GitHub caps
// app JWTs at ten minutes; one minute of clock-drift allowance is subtracted
// on the issued-at side instead.
const (
	appJWTLifetime = 9 * time.Minute
	appJWTDrift    = time.Minute
)

// AppConfig holds the GitHub App credentials used for the installation-token
// exchange. BaseURL and UploadURL target a GitHub Enterprise instance and are
// normally empty.
type AppConfig struct {
	AppID         int64
	PrivateKeyPEM []byte
	BaseURL       string
	UploadURL     string
}

// AppAuthenticator signs short-lived RS256 app JWTs and exchanges them for
// installation access tokens. It implements token.Authenticator.
type AppAuthenticator struct {
	appID     int64
	key       *rsa.PrivateKey
	baseURL   string
	uploadURL string
	now       func() time.Time
}

// NewAppAuthenticator parses the private key and returns an authenticator for
// the app.
func NewAppAuthenticator(cfg AppConfig) (*AppAuthenticator, error) {
	if cfg.AppID <= 0 {
		return nil, fmt.Errorf("github app id must be positive, got %d", cfg.AppID)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(cfg.PrivateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse github app private key: %w", err)
	}

	return &AppAuthenticator{
		appID:     cfg.AppID,
		key:       key,
		baseURL:   cfg.BaseURL,
		uploadURL: cfg.UploadURL,
		now:       time.Now,
	}, nil
}

// CreateInstallationToken performs the token exchange for the installation.
func (a *AppAuthenticator) CreateInstallationToken(ctx context.Context, installationID int64) (token.Token, error) {
	signed, err := a.signAppJWT()
	if err != nil {
		return token.Token{}, fmt.Errorf("sign app jwt: %w", err)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: signed})
	tc := oauth2.NewClient(ctx, ts)

	client := github.NewClient(tc)
	if a.baseURL != "" {
		client, err = client.WithEnterpriseURLs(a.baseURL, a.uploadURL)
		if err != nil {
			return token.Token{}, fmt.Errorf("construct enterprise github client: %w", err)
		}
	}

	inst, _, err := client.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return token.Token{}, fmt.Errorf("create installation token: %w", classifyGitHubError(err))
	}

	return token.Token{
		Value:     inst.GetToken(),
		ExpiresAt: inst.GetExpiresAt().Time,
	}, nil
}

func (a *AppAuthenticator) signAppJWT() (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Issuer:    fmt.Sprintf("%d", a.appID),
		IssuedAt:  jwt.NewNumericDate(now.Add(-appJWTDrift)),
		ExpiresAt: jwt.NewNumericDate(now.Add(appJWTLifetime)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.key)
}
