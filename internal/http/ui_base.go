package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/domain/model"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
	"github.com/lingua-labs/lingua-web/internal/ports"
	"github.com/lingua-labs/lingua-web/internal/service"
)

const (
	errMsgFixBelow = "Please fix the errors below."
	maxImportBytes = 4 << 20
)

// AccountsService runs the credential flows.
type AccountsService interface {
	Login(ctx context.Context, sess *service.Session, in ports.LoginInput) (service.LoginResult, error)
	VerifyOTP(ctx context.Context, sess *service.Session, in service.VerifyOTPInput) (domainauth.State, error)
	Logout(ctx context.Context, sid string) error
}

// CatalogService is a minimal interface for the learn pages.
type CatalogService interface {
	Categories(ctx context.Context, token string) ([]model.Category, error)
	Topics(ctx context.Context, token, categoryID string) ([]model.Topic, error)
}

// ExamsService is a minimal interface for learner and admin exam pages.
type ExamsService interface {
	List(ctx context.Context, token string, opts model.ListOptions) (model.Page[model.Exam], error)
	AdminList(ctx context.Context, token string, opts model.ListOptions) (model.Page[model.Exam], error)
	Get(ctx context.Context, token, id string) (model.Exam, error)
	Create(ctx context.Context, token string, req model.CreateExamRequest) (model.Exam, error)
	Update(ctx context.Context, token string, in ports.UpdateExamInput) (model.Exam, error)
	Delete(ctx context.Context, token, id string) error
	Import(ctx context.Context, token string, req model.ImportExamRequest) (model.ImportResult, error)
	Attempts(ctx context.Context, token string, opts model.ListOptions) (model.Page[model.ExamAttempt], error)
}

// WithdrawalsService is a minimal interface for the payout review page.
type WithdrawalsService interface {
	List(ctx context.Context, token string, opts model.ListOptions) (model.Page[model.Withdrawal], error)
	Apply(ctx context.Context, token string, in ports.WithdrawalActionInput) (model.Withdrawal, error)
}

// DashboardService provides the admin counters.
type DashboardService interface {
	Summary(ctx context.Context, token string) (service.DashboardSummary, error)
}

var (
	_ AccountsService    = (*service.AccountService)(nil)
	_ CatalogService     = (*service.CatalogService)(nil)
	_ ExamsService       = (*service.ExamService)(nil)
	_ WithdrawalsService = (*service.WithdrawalService)(nil)
	_ DashboardService   = (*service.DashboardService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T           *TemplateRenderer
	Accounts    AccountsService
	Catalog     CatalogService
	Exams       ExamsService
	Withdrawals WithdrawalsService
	Dashboard   DashboardService
	Cookies     CookieConfig
	Logger      *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// page builds PageData from the snapshot checked by the guard, or the
// session's current snapshot on pages outside the guard.
func (h *UIHandlers) page(r *http.Request, meta PageMeta) PageData {
	st, ok := AuthStateFromContext(r.Context())
	if !ok {
		if sess, found := SessionFromContext(r.Context()); found {
			st = sess.Auth.Snapshot()
		}
	}
	return newPageData(r, meta, st)
}

// accessToken returns the bearer for backend calls made on behalf of the page.
func accessToken(r *http.Request) string {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		return ""
	}
	return sess.Tokens.AccessToken(r.Context())
}

// render writes the page as a fragment for htmx navigation or as a full document.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	if h.T == nil {
		http.Error(w, "templates unavailable", http.StatusInternalServerError)
		return
	}
	var err error
	if WantsPartial(r) {
		err = h.T.RenderPartial(w, status, data)
	} else {
		err = h.T.RenderFull(w, status, data)
	}
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// fail renders a backend or validation failure for a page request.
func (h *UIHandlers) fail(w http.ResponseWriter, r *http.Request, meta PageMeta, err error) {
	if apperrors.IsUnauthenticated(err) {
		h.expire(w, r)
		return
	}

	status := apperrors.HTTPStatus(err)
	h.logger().WarnContext(r.Context(), "page request failed",
		"page", meta.Page,
		"status", status,
		"error", err)

	data := h.page(r, meta)
	data.Page = PageError
	data.Error = userMessage(err)
	data.Data = map[string]any{"Code": status}
	if h.T == nil || !isBrowserRequest(r) {
		WriteAppError(w, err)
		return
	}
	if WantsPartial(r) {
		_ = h.T.RenderPartial(w, status, data)
		return
	}
	_ = h.T.RenderError(w, status, data)
}

// expire handles a backend rejection of the session's token: the token and
// snapshot are dropped and the browser is sent to sign in again.
func (h *UIHandlers) expire(w http.ResponseWriter, r *http.Request) {
	if sess, ok := SessionFromContext(r.Context()); ok {
		if err := sess.Tokens.Clear(r.Context()); err != nil {
			h.logger().WarnContext(r.Context(), "clear rejected token failed", "session_id", sess.ID, "error", err)
		}
		sess.Auth.Reset()
		sess.Guard.Reset()
	}
	h.Cookies.clear(w, r, routes.RefreshTokenCookie)
	notifierFor(w, r).Notify(r.Context(), ports.Notice{
		Level:   ports.NoticeInfo,
		Title:   "Session expired",
		Message: "Please sign in again.",
	})
	persistToasts(w, r, h.Cookies)
	redirect(w, r, routes.LoginURL())
}

func userMessage(err error) string {
	switch {
	case apperrors.IsNotFound(err):
		return "The page you're looking for doesn't exist."
	case apperrors.IsValidation(err):
		var ae *apperrors.AppError
		if errors.As(err, &ae) {
			return ae.Error()
		}
		return errMsgFixBelow
	case apperrors.IsForbidden(err):
		return "You don't have access to this page."
	case apperrors.IsUnavailable(err), apperrors.IsTimeout(err):
		return "The service is temporarily unavailable. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

// fieldErrors turns a field validation error into a form error map.
func fieldErrors(err error) map[string]string {
	field := apperrors.GetField(err)
	if field == "" {
		return nil
	}
	var ae *apperrors.AppError
	msg := errMsgFixBelow
	if errors.As(err, &ae) && ae.Message != "" {
		msg = ae.Message
	}
	return map[string]string{field: msg}
}

// NotFound renders the 404 page for browsers and a JSON error otherwise.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, PageMeta{Title: "Not found"}, apperrors.NotFound("page not found"))
}
