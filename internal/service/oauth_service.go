package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/kgabrunepark/suspension-api/internal/models"
	"github.com/kgabrunepark/suspension-api/pkg/config"
	appErrors "github.com/kgabrunepark/suspension-api/pkg/errors"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthService runs the Google sign-in flow: consent redirect out, code
// exchange back, then a normal token pair issued by the auth service.
type OAuthService struct {
	oauth       *oauth2.Config
	auth        *AuthService
	logger      *zap.Logger
	frontendURL string
}

// NewOAuthService constructs the Google OAuth flow.
func NewOAuthService(cfg config.OAuthConfig, auth *AuthService, logger *zap.Logger) *OAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OAuthService{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		auth:        auth,
		logger:      logger,
		frontendURL: cfg.FrontendURL,
	}
}

// AuthURL returns the Google consent URL and the state value embedded in it.
func (s *OAuthService) AuthURL() (url string, state string, err error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate state")
	}
	state = base64.RawURLEncoding.EncodeToString(buf)
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), state, nil
}

// HandleCallback exchanges the authorization code, resolves the Google
// identity, finds or creates the matching account, and issues tokens.
func (s *OAuthService) HandleCallback(ctx context.Context, code, ip, userAgent string) (*models.LoginResponse, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "failed to exchange authorization code")
	}

	identity, err := s.fetchIdentity(ctx, token)
	if err != nil {
		return nil, err
	}
	if identity.Email == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "provider returned no email address")
	}

	user, err := s.auth.FindOrCreateOAuthUser(ctx, identity.Email, identity.Name, "google")
	if err != nil {
		return nil, err
	}

	return s.auth.IssueTokens(ctx, user, ip, userAgent)
}

// DashboardRedirect is where the browser lands after a completed sign-in.
// Tokens travel in the URL fragment so they never hit server logs.
func (s *OAuthService) DashboardRedirect(res *models.LoginResponse) string {
	return fmt.Sprintf("%s/dashboard#access_token=%s&refresh_token=%s", s.frontendURL, res.AccessToken, res.RefreshToken)
}

type googleIdentity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *OAuthService) fetchIdentity(ctx context.Context, token *oauth2.Token) (*googleIdentity, error) {
	client := s.oauth.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch provider profile")
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, fmt.Sprintf("provider profile request failed with status %d", resp.StatusCode))
	}

	var identity googleIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode provider profile")
	}
	return &identity, nil
}
