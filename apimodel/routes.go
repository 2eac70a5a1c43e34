package apimodel

// Endpoint paths relative to the API prefix (default "/api").
const (
	RouteAuthLogin   = "/auth/login"
	RouteAuthRefresh = "/auth/refresh"
	RouteUserInfo    = "/user/info"
)

// HeaderAuthorization carries the raw access token, without a scheme.
const HeaderAuthorization = "Authorization"

// HeaderRequestID correlates client and server logs for one call.
const HeaderRequestID = "X-Request-ID"
