package server

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.APIMiddleware()...))

	// Accounts and sessions
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteSessions, ChainMiddleware(s.SessionsHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteLogoutOtherSessions, ChainMiddleware(s.LogoutOtherSessionsHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Signals
	s.RegisterRouteHandler("POST "+RouteReceiveSignal, ChainMiddleware(s.ReceiveSignalHandler(s.postIngress, signalFromBody), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteReceiveSignal, ChainMiddleware(s.ReceiveSignalHandler(s.getIngress, signalFromQuery), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteGetSignals, ChainMiddleware(s.GetSignalsHandler(), s.APIMiddleware(s.RequireSubscription())...))
	s.RegisterRouteHandler("GET "+RouteStats, ChainMiddleware(s.StatsHandler(), s.APIMiddleware()...))

	// Subscriptions
	s.RegisterRouteHandler("GET "+RouteSubscriptionStatus, ChainMiddleware(s.SubscriptionStatusHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteCheckSubscriptionByEmail, ChainMiddleware(s.CheckSubscriptionByEmailHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAutoActivate, ChainMiddleware(s.AutoActivateHandler(), s.APIMiddleware(s.RequireWebhookSecret())...))

	// Admin
	s.RegisterRouteHandler("GET "+RouteAdminUsers, ChainMiddleware(s.AdminUsersHandler(), s.APIMiddleware(s.RequireAdmin())...))
	s.RegisterRouteHandler("GET "+RouteAdminStats, ChainMiddleware(s.AdminStatsHandler(), s.APIMiddleware(s.RequireAdmin())...))
	s.RegisterRouteHandler("GET "+RouteAdminSearch, ChainMiddleware(s.AdminSearchHandler(), s.APIMiddleware(s.RequireAdmin())...))
	s.RegisterRouteHandler("POST "+RouteAdminSubscription, ChainMiddleware(s.AdminSubscriptionHandler(), s.APIMiddleware(s.RequireAdmin())...))

	// Registered last and kept out of the route list. Also answers CORS preflight.
	s.mux.Handle("/", ChainMiddleware(s.NotFoundHandler(), s.APIMiddleware()...))
}
