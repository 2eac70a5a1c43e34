// Package api wraps the backend endpoints the session layer calls.
package api

import (
	"context"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/request"
)

type Client struct {
	request *request.Client
}

// New wraps rc and installs RefreshToken as its token refresh call.
func New(rc *request.Client) *Client {
	c := &Client{request: rc}
	rc.UseRefresh(c.refresh)
	return c
}

func (c *Client) Request() *request.Client {
	return c.request
}

// Login exchanges a username and password for a token pair.
func (c *Client) Login(ctx context.Context, params apimodel.LoginParams) (apimodel.TokenPair, error) {
	var pair apimodel.TokenPair
	err := c.request.Post(ctx, apimodel.RouteAuthLogin, params, &pair, request.SkipAuthRecovery())
	return pair, err
}

// RefreshToken rotates the pair. It never triggers another refresh.
func (c *Client) RefreshToken(ctx context.Context, params apimodel.RefreshTokenParams) (apimodel.TokenPair, error) {
	var pair apimodel.TokenPair
	err := c.request.Post(ctx, apimodel.RouteAuthRefresh, params, &pair, request.SkipAuthRecovery())
	return pair, err
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (apimodel.TokenPair, error) {
	return c.RefreshToken(ctx, apimodel.RefreshTokenParams{RefreshToken: refreshToken})
}
