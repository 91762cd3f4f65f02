package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/{$}"

	// Account Routes
	RouteRegister            = "/api/register"
	RouteLogin               = "/api/login"
	RouteLogout              = "/api/logout"
	RouteSessions            = "/api/sessions"
	RouteLogoutOtherSessions = "/api/logout-other-sessions"

	// Signal Routes
	RouteReceiveSignal = "/api/receive_signal"
	RouteGetSignals    = "/api/get_signals"
	RouteStats         = "/api/stats"

	// Subscription Routes
	RouteSubscriptionStatus       = "/api/subscription_status"
	RouteCheckSubscriptionByEmail = "/api/check-subscription-by-email"
	RouteAutoActivate             = "/api/auto-activate"

	// Admin Routes
	RouteAdminUsers        = "/admin/users"
	RouteAdminStats        = "/admin/stats"
	RouteAdminSearch       = "/admin/search"
	RouteAdminSubscription = "/admin/subscription"
)

// Shared secret headers
const (
	HeaderWebhookSecret = "X-Webhook-Secret"
	HeaderAdminSecret   = "X-Admin-Secret"
)
