package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/storage"
)

type authServiceImpl struct {
	logger            zerolog.Logger
	store             storage.Store
	provider          IdentityProvider
	jwtIssuer         string
	jwtSigningKey     []byte
	jwtAccessTokenTTL time.Duration
	opts              options
}

func NewAuthService(
	logger zerolog.Logger,
	store storage.Store,
	provider IdentityProvider,
	jwtIssuer string,
	jwtSigningKey []byte,
	jwtAccessTokenTTL time.Duration,
	opts ...Option,
) AuthService {
	return &authServiceImpl{
		logger:            logger,
		store:             store,
		provider:          provider,
		jwtIssuer:         jwtIssuer,
		jwtSigningKey:     jwtSigningKey,
		jwtAccessTokenTTL: jwtAccessTokenTTL,
		opts:              newOptions(opts),
	}
}

func (s *authServiceImpl) AuthCodeURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

func (s *authServiceImpl) Authenticate(ctx context.Context, code string) (*LoginResult, error) {
	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to exchange authorization code")
		return nil, fmt.Errorf("%w: %w", ErrIdentityExchange, err)
	}
	s.logger.Debug().
		Str("google_id", profile.Subject).
		Msg("exchanged authorization code")

	user, err := s.ResolveUser(ctx, *profile)
	if err != nil {
		return nil, err
	}

	accessToken, expiresAt, err := s.IssueAccessToken(user)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to generate access token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("logged in")
	return &LoginResult{
		User:                 user,
		AccessToken:          accessToken,
		AccessTokenExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) ResolveUser(ctx context.Context, profile models.Profile) (*models.User, error) {
	if profile.Subject == "" {
		s.logger.Error().Msg("identity provider returned an empty subject")
		return nil, fmt.Errorf("%w: empty subject", ErrIdentityExchange)
	}

	user, err := s.store.Users().GetByGoogleID(ctx, profile.Subject)
	switch {
	case err == nil:
		return s.refreshProfile(ctx, user, profile)
	case !errors.Is(err, storage.ErrNotFound):
		s.logger.Error().
			Err(err).
			Str("google_id", profile.Subject).
			Msg("failed to select user by google id")
		return nil, err
	}

	now := s.opts.timestamp()
	user = &models.User{
		GoogleID:  profile.Subject,
		Email:     profile.Email,
		Name:      profile.Name,
		Picture:   profile.Picture,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.store.Users().Create(ctx, user)
	if errors.Is(err, storage.ErrAlreadyExists) {
		// A concurrent first login won the race; use its record.
		s.logger.Debug().
			Str("google_id", profile.Subject).
			Msg("user created concurrently")
		user, err = s.store.Users().GetByGoogleID(ctx, profile.Subject)
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("google_id", profile.Subject).
			Msg("failed to insert user")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("registered user")
	return user, nil
}

func (s *authServiceImpl) refreshProfile(ctx context.Context, user *models.User, profile models.Profile) (*models.User, error) {
	if !profile.Differs(user) {
		return user, nil
	}

	user.Email = profile.Email
	user.Name = profile.Name
	user.Picture = profile.Picture
	user.UpdatedAt = s.opts.timestamp()

	err := s.store.Users().UpdateProfile(ctx, user)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user profile")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("updated user profile")
	return user, nil
}

func (s *authServiceImpl) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select user by id")
		return nil, err
	}
	return user, nil
}

func (s *authServiceImpl) ParseAccessToken(token string) (*AccessClaims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&AccessClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.opts.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := t.Claims.(*AccessClaims)
	if !ok || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

func (s *authServiceImpl) IssueAccessToken(user *models.User) (string, time.Time, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate id: %w", err)
	}

	now := s.opts.now()
	expiresAt := now.Add(s.jwtAccessTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID.String(),
			Issuer:    s.jwtIssuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: user.Email,
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}
