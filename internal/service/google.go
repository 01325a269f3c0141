package service

import (
	"context"
	"fmt"
	"time"

	"webchat/internal/nlog"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
	googleIssuer  = "https://accounts.google.com"
)

// GoogleClaims are the identity attributes extracted from a verified Google
// ID token.
type GoogleClaims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleVerifier runs the OAuth code exchange and validates the returned ID
// token against Google's published JWKS.
type GoogleVerifier struct {
	oauth  *oauth2.Config
	jwks   *keyfunc.JWKS
	logger nlog.Logger
}

func NewGoogleVerifier(clientID, clientSecret, redirectURL string, logger nlog.Logger) (*GoogleVerifier, error) {
	jwks, err := keyfunc.Get(googleJWKSURL, keyfunc.Options{
		Ctx:               context.Background(),
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Logf("JWKS refresh error: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not fetch Google JWKS: %w", err)
	}

	return &GoogleVerifier{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		jwks:   jwks,
		logger: logger,
	}, nil
}

func (g *GoogleVerifier) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// Exchange trades the callback code for tokens and returns the verified
// identity claims from the ID token.
func (g *GoogleVerifier) Exchange(ctx context.Context, code string) (*GoogleClaims, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("token response carried no id_token")
	}

	claims := &idTokenClaims{}
	parsed, err := jwt.ParseWithClaims(rawIDToken, claims, g.jwks.Keyfunc,
		jwt.WithIssuer(googleIssuer),
		jwt.WithAudience(g.oauth.ClientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("id_token validation failed: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("id_token is not valid")
	}

	return &GoogleClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
