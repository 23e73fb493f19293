package httpx

// Page identifiers used in templates and navigation.
const (
	PageLanding        = "landing"
	PageGetStarted     = "get-started"
	PageForgotPassword = "forgot-password"
	PageOTP            = "otp"
	PageAdaptiveTest   = "adaptive-test"
	PageLearn          = "learn"
	PageTopics         = "topics"
	PageVocabulary     = "vocabulary"
	PageProfile        = "profile"
	PageDashboard      = "dashboard"
	PageSettings       = "settings"

	// Admin pages.
	PageAdminDashboard   = "admin-dashboard"
	PageAdminExams       = "admin-exams"
	PageAdminExam        = "admin-exam"
	PageAdminAttempts    = "admin-attempts"
	PageAdminWithdrawals = "admin-withdrawals"

	// PageError renders failures in place of the requested page.
	PageError = "error"

	adminPrefix = "/admin"
)

// Cookie names owned by the web tier. The refresh token cookie name lives in routes.
const (
	DefaultSessionCookieName = "sid"
	FlashCookieName          = "lingua_flash"
	sessionCookieMaxAge      = 30 * 24 * 3600
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
)

// ToastEvent is the client event name carried in Hx-Trigger for toasts.
const ToastEvent = "toast"
