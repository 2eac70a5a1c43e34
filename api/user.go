package api

import (
	"context"

	"github.com/jrsteele09/go-admin-session/apimodel"
)

// GetUserInfo fetches the profile, menus and permissions of the logged in user.
func (c *Client) GetUserInfo(ctx context.Context) (*apimodel.UserInfo, error) {
	var info apimodel.UserInfo
	if err := c.request.Get(ctx, apimodel.RouteUserInfo, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
