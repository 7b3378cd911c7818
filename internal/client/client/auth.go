package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hkjobs/internal/client/models"
	"golang.org/x/oauth2"
)

// AuthSession is the part of the session manager the REST client needs.
type AuthSession interface {
	Session
	Token() *oauth2.Token
	Set(ctx context.Context, tok *oauth2.Token) error
	Logout(ctx context.Context) error
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (c *RESTClient) authenticate(ctx context.Context, path string, in any) (*models.User, error) {
	if c.session == nil {
		return nil, errors.New("client has no session")
	}

	var resp models.AuthResponse
	if err := c.PostJSON(WithoutRefresh(ctx), path, in, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%s: response carried no access token", path)
	}

	prev := c.session.Token()
	tok := resp.Token(c.now())
	if err := c.session.Set(ctx, tok); err != nil {
		c.logger.Warn(ctx, "session not persisted", "error", err)
	}
	// The replaced session is abandoned, so its refresh token is revoked.
	if prev != nil && prev.RefreshToken != "" && prev.RefreshToken != tok.RefreshToken {
		c.revoke(ctx, prev.RefreshToken)
	}
	if resp.User == nil {
		return &models.User{}, nil
	}
	return resp.User, nil
}

func (c *RESTClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	return c.authenticate(ctx, "/auth/login", models.Credentials{Email: email, Password: password})
}

func (c *RESTClient) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return c.authenticate(ctx, "/auth/register", models.Registration{Name: name, Email: email, Password: password})
}

// Logout revokes the refresh token on the server when possible and always
// ends the local session.
func (c *RESTClient) Logout(ctx context.Context) error {
	if c.session == nil {
		return nil
	}
	if tok := c.session.Token(); tok != nil && tok.RefreshToken != "" {
		c.revoke(ctx, tok.RefreshToken)
	}
	return c.session.Logout(ctx)
}

func (c *RESTClient) revoke(ctx context.Context, refreshToken string) {
	err := c.PostJSON(WithoutRefresh(ctx), "/auth/logout", refreshRequest{RefreshToken: refreshToken}, nil)
	if err != nil {
		c.logger.Warn(ctx, "server logout failed", "error", err)
	}
}

func (c *RESTClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.GetJSON(ctx, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// TokenRefresher calls POST /auth/refresh on a client with no session, so
// the refresh request never carries a bearer token and is never refreshed
// itself.
type TokenRefresher struct {
	rest *RESTClient
}

func NewTokenRefresher(baseURL string, opts Options) (*TokenRefresher, error) {
	opts.Retry = RetryPolicy{Attempts: 1}
	rest, err := NewRESTClient(baseURL, nil, opts)
	if err != nil {
		return nil, err
	}
	return &TokenRefresher{rest: rest}, nil
}

func (r *TokenRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	var resp models.AuthResponse
	err := r.rest.PostJSON(WithoutRefresh(ctx), "/auth/refresh", refreshRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, errors.New("refresh response carried no access token")
	}
	return resp.Token(r.rest.now()), nil
}
