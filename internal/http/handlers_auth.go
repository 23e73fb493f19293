package httpx

import (
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/domain/edge"
	"github.com/lingua-labs/lingua-web/internal/domain/guard"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
	"github.com/lingua-labs/lingua-web/internal/ports"
	"github.com/lingua-labs/lingua-web/internal/service"
)

// Landing renders the marketing page, or sends a signed-in user to the page
// the guard settles on for their role.
func (h *UIHandlers) Landing(w http.ResponseWriter, r *http.Request) {
	if sess, ok := SessionFromContext(r.Context()); ok {
		if st := sess.Auth.Ensure(r.Context()); st.IsAuthenticated {
			redirect(w, r, landingTarget(st))
			return
		}
	}
	h.render(w, r, http.StatusOK, h.page(r, PageMeta{Title: "Lingua", Page: PageLanding}))
}

// landingTarget is the role landing page, or wherever the guard would send
// the user from there.
func landingTarget(st domainauth.State) string {
	landing := routes.LandingFor(st.ActiveRole)
	if d := guard.Evaluate(guard.Input{State: st, Path: landing}); d.ShouldRedirect() {
		return d.Redirect
	}
	return landing
}

type loginForm struct {
	Email    string
	Password string
}

func (f loginForm) validate() map[string]string {
	errs := map[string]string{}
	if f.Email == "" {
		errs["email"] = "Email is required"
	} else if !strings.Contains(f.Email, "@") {
		errs["email"] = "Enter a valid email address"
	}
	if f.Password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h *UIHandlers) getStartedPage(r *http.Request) PageData {
	data := h.page(r, PageMeta{Title: "Get started", Page: PageGetStarted})
	q := r.URL.Query()
	view := q.Get(routes.ParamView)
	if view == "" {
		view = "login"
	}
	data.Data = map[string]any{
		"View":           view,
		"SessionExpired": edge.SessionExpiredFlag(q.Get(routes.ParamSessionExpired)),
	}
	return data
}

// GetStarted renders the sign-in form.
func (h *UIHandlers) GetStarted(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.getStartedPage(r))
}

// Login handles POST /get-started. On success the refresh cookie is set so the
// edge filter treats the browser as signed in, and the user goes to their
// landing page or the step the guard requires first.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	data := h.getStartedPage(r)
	data.Form = url.Values{"email": {form.Email}}
	if errs := form.validate(); errs != nil {
		data.Error = errMsgFixBelow
		data.FieldErrors = errs
		h.render(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	sess, ok := SessionFromContext(r.Context())
	if !ok {
		redirect(w, r, routes.LoginURL())
		return
	}
	res, err := h.Accounts.Login(r.Context(), sess, ports.LoginInput{Email: form.Email, Password: form.Password})
	if err != nil {
		switch {
		case apperrors.IsUnauthenticated(err), apperrors.IsValidation(err):
			data.Error = "Invalid email or password."
			h.render(w, r, http.StatusUnauthorized, data)
		default:
			h.fail(w, r, PageMeta{Title: "Get started", Page: PageGetStarted}, err)
		}
		return
	}

	h.Cookies.setRefresh(w, r, res.Tokens)
	notifierFor(w, r).Notify(r.Context(), ports.Notice{Level: ports.NoticeSuccess, Title: "Welcome back"})
	persistToasts(w, r, h.Cookies)
	redirect(w, r, landingTarget(res.State))
}

// ForgotPassword renders the reset request form. The form posts to the
// backend through the /api proxy.
func (h *UIHandlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.page(r, PageMeta{Title: "Reset your password", Page: PageForgotPassword}))
}

func (h *UIHandlers) otpPage(r *http.Request, email string) PageData {
	data := h.page(r, PageMeta{Title: "Verify your account", Page: PageOTP})
	if email == "" && data.User != nil {
		email = data.User.Email
	}
	data.Form = url.Values{"email": {email}}
	return data
}

// OTP renders the verification form for an inactive account.
func (h *UIHandlers) OTP(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.otpPage(r, r.URL.Query().Get(routes.ParamEmail)))
}

// VerifyOTP handles POST /otp.
func (h *UIHandlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	code := strings.TrimSpace(r.PostFormValue("code"))
	data := h.otpPage(r, email)
	if code == "" {
		data.Error = errMsgFixBelow
		data.FieldErrors = map[string]string{"code": "Enter the code from your email"}
		h.render(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	sess, ok := SessionFromContext(r.Context())
	if !ok {
		redirect(w, r, routes.LoginURL())
		return
	}
	st, err := h.Accounts.VerifyOTP(r.Context(), sess, service.VerifyOTPInput{Email: email, Code: code})
	if err != nil {
		if apperrors.IsValidation(err) {
			data.Error = "That code is not valid. Check your email and try again."
			data.FieldErrors = map[string]string{"code": "Invalid code"}
			h.render(w, r, http.StatusUnprocessableEntity, data)
			return
		}
		h.fail(w, r, PageMeta{Title: "Verify your account", Page: PageOTP}, err)
		return
	}

	if tokens, found, terr := sess.Tokens.Get(r.Context()); terr == nil && found {
		h.Cookies.setRefresh(w, r, tokens)
	}
	notifierFor(w, r).Notify(r.Context(), ports.Notice{Level: ports.NoticeSuccess, Title: "Account verified"})
	persistToasts(w, r, h.Cookies)
	redirect(w, r, landingTarget(st))
}

// Logout ends the session and clears every cookie the edge filter and the
// session binding read.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := SessionFromContext(r.Context()); ok {
		if err := h.Accounts.Logout(r.Context(), sess.ID); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "session_id", sess.ID, "error", err)
		}
	}
	h.Cookies.clear(w, r, routes.RefreshTokenCookie)
	h.Cookies.clear(w, r, h.Cookies.sessionName())
	notifierFor(w, r).Notify(r.Context(), ports.Notice{Level: ports.NoticeInfo, Title: "Signed out"})
	persistToasts(w, r, h.Cookies)
	redirect(w, r, routes.LoginURL())
}

// AdaptiveTest hosts the onboarding test. It runs behind the guard, which
// lets a user who still needs a proficiency level through and sends an
// inactive account to OTP first.
func (h *UIHandlers) AdaptiveTest(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, PageMeta{Title: "Adaptive test", Page: PageAdaptiveTest})
	role := domainauth.RoleUser
	if st, ok := AuthStateFromContext(r.Context()); ok {
		role = st.ActiveRole
	}
	data.Data = map[string]any{"Landing": routes.LandingFor(role)}
	h.render(w, r, http.StatusOK, data)
}
