package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	config "github.com/maheshrc27/contentdesk/configs"
	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/repository"
	"github.com/maheshrc27/contentdesk/internal/transfer"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type AuthService interface {
	LoginURL(state string) string
	LoginCallback(ctx context.Context, code string) (int64, error)
}

type authService struct {
	cfg    config.Config
	u      repository.UserRepository
	oauth2 *oauth2.Config
}

func NewAuthService(cfg config.Config, u repository.UserRepository) AuthService {
	return &authService{
		cfg: cfg,
		u:   u,
		oauth2: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes:       []string{googleoauth.UserinfoEmailScope, googleoauth.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
	}
}

func (s *authService) LoginURL(state string) string {
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOnline}
	if s.cfg.AllowedDomain != "" {
		opts = append(opts, oauth2.SetAuthURLParam("hd", s.cfg.AllowedDomain))
	}
	return s.oauth2.AuthCodeURL(state, opts...)
}

func (s *authService) LoginCallback(ctx context.Context, code string) (int64, error) {
	if code == "" {
		return 0, apperror.ValidationError("code is empty")
	}
	if s.oauth2.ClientID == "" || s.oauth2.ClientSecret == "" || s.oauth2.RedirectURL == "" {
		return 0, errors.New("OAuth2 configuration is incomplete")
	}

	token, err := s.oauth2.Exchange(ctx, code)
	if err != nil {
		logger.GetLogger().WithError(err).Warn("Google code exchange failed")
		return 0, apperror.UnauthorizedError("login failed")
	}

	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(s.oauth2.TokenSource(ctx, token)))
	if err != nil {
		return 0, fmt.Errorf("failed to create userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to read user info: %w", err)
	}

	userInfo := transfer.GoogleUserInfo{
		ID:           info.Id,
		Email:        info.Email,
		Name:         info.Name,
		Picture:      info.Picture,
		HostedDomain: info.Hd,
	}
	if info.VerifiedEmail != nil {
		userInfo.VerifiedEmail = *info.VerifiedEmail
	}
	if err := CheckDomain(userInfo, s.cfg.AllowedDomain); err != nil {
		logger.GetLogger().WithField("email", userInfo.Email).Warn("Rejected login outside the team domain")
		return 0, err
	}

	return s.upsert(ctx, userInfo)
}

func (s *authService) upsert(ctx context.Context, info transfer.GoogleUserInfo) (int64, error) {
	user, found, err := s.u.GetByEmail(ctx, info.Email)
	if err != nil {
		return 0, err
	}

	if !found {
		return s.u.Create(ctx, &models.User{
			GoogleID: info.ID,
			Email:    info.Email,
			Name:     info.Name,
			Picture:  info.Picture,
		})
	}

	if user.GoogleID != info.ID || user.Name != info.Name || user.Picture != info.Picture {
		user.GoogleID = info.ID
		user.Name = info.Name
		user.Picture = info.Picture
		if err := s.u.UpdateProfile(ctx, user); err != nil {
			return 0, err
		}
	}
	if err := s.u.TouchLogin(ctx, user.ID); err != nil {
		return 0, err
	}
	return user.ID, nil
}

// CheckDomain admits verified accounts of the allowed domain. An empty
// domain admits every verified account.
func CheckDomain(info transfer.GoogleUserInfo, domain string) error {
	if !info.VerifiedEmail {
		return apperror.UnauthorizedError("email is not verified")
	}
	if domain == "" {
		return nil
	}
	domain = strings.ToLower(strings.TrimPrefix(domain, "@"))
	if strings.EqualFold(info.HostedDomain, domain) || strings.HasSuffix(strings.ToLower(info.Email), "@"+domain) {
		return nil
	}
	return apperror.UnauthorizedError(fmt.Sprintf("only %s accounts may sign in", domain))
}
