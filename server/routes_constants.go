package server

import "github.com/jrsteele09/go-admin-session/apimodel"

// Route path constants, relative to the configured API prefix.
const (
	// Auth Routes
	RouteAuthLogin   = apimodel.RouteAuthLogin
	RouteAuthRefresh = apimodel.RouteAuthRefresh

	// User Routes
	RouteUserInfo = apimodel.RouteUserInfo
)
