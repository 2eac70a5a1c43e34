package server

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteFunc("POST "+RouteAuthLogin, s.LoginHandler())
	s.RegisterRouteFunc("POST "+RouteAuthRefresh, s.RefreshHandler())

	// USER (require a valid access token)
	s.RegisterRouteFunc("GET "+RouteUserInfo, ChainMiddleware(s.UserInfoHandler(), s.RequireAccessToken))
}
