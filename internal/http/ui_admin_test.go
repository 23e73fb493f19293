package httpx

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/domain/model"
	"github.com/lingua-labs/lingua-web/internal/ports"
	"github.com/lingua-labs/lingua-web/internal/testutil"
)

const adminToken = "tok-admin-1"

func newAdminEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.signIn(testutil.NewUser().WithID("admin-1").WithEmail("admin@example.com").WithRoles(domainauth.RoleAdmin).Build())
	return env
}

func TestAdminDashboard_Counters(t *testing.T) {
	env := newAdminEnv(t)
	env.exams.EXPECT().
		ListAdminExams(gomock.Any(), adminToken, gomock.Any()).
		Times(2).
		DoAndReturn(func(_ context.Context, _ string, opts model.ListOptions) (model.Page[model.Exam], error) {
			if opts.Status == string(model.ExamStatusPublished) {
				return model.Page[model.Exam]{Total: 3}, nil
			}
			return model.Page[model.Exam]{Total: 7}, nil
		})
	env.exams.EXPECT().
		ListExamAttempts(gomock.Any(), adminToken, gomock.Any()).
		Return(model.Page[model.ExamAttempt]{Total: 11}, nil)
	env.withdrawals.EXPECT().
		ListWithdrawals(gomock.Any(), adminToken, gomock.Any()).
		Return(model.Page[model.Withdrawal]{Total: 2}, nil)

	rec := env.serve(browserGet("/admin/dashboard", withSession, withRefreshCookie))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		`<span class="stat-value">7</span>`,
		`<span class="stat-value">3</span>`,
		`<span class="stat-value">11</span>`,
		`<span class="stat-value">2</span>`,
	} {
		assert.Contains(t, body, want)
	}
}

func TestAdmin_RootRedirectsToDashboard(t *testing.T) {
	env := newAdminEnv(t)

	rec := env.serve(browserGet("/admin", withSession, withRefreshCookie))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
}

func TestAdminCreateExam_Validation(t *testing.T) {
	env := newAdminEnv(t)
	env.exams.EXPECT().
		ListAdminExams(gomock.Any(), adminToken, gomock.Any()).
		Return(model.Page[model.Exam]{}, nil)

	form := url.Values{"title": {"  "}, "durationMinutes": {"30"}}
	rec := env.serve(formPost("/admin/exams", form, withSession, withRefreshCookie))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
}

func TestAdminCreateExam_BadDuration(t *testing.T) {
	env := newAdminEnv(t)
	env.exams.EXPECT().
		ListAdminExams(gomock.Any(), adminToken, gomock.Any()).
		Return(model.Page[model.Exam]{}, nil)

	form := url.Values{"title": {"Basics"}, "durationMinutes": {"soon"}}
	rec := env.serve(formPost("/admin/exams", form, withSession, withRefreshCookie))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "whole number of minutes")
}

func TestAdminCreateExam_Success(t *testing.T) {
	env := newAdminEnv(t)
	env.exams.EXPECT().
		CreateExam(gomock.Any(), adminToken, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, req model.CreateExamRequest) (model.Exam, error) {
			assert.Equal(t, "Basics", req.Title)
			assert.Equal(t, 30, req.DurationMinutes)
			return model.Exam{ID: "e1", Title: req.Title}, nil
		})

	form := url.Values{"title": {"Basics"}, "durationMinutes": {"30"}, "status": {"draft"}}
	rec := env.serve(formPost("/admin/exams", form, withSession, withRefreshCookie))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/exams", rec.Header().Get("Location"))
	assert.NotNil(t, findCookie(rec, FlashCookieName))
}

func TestAdminUpdateExam_OnlySubmittedFields(t *testing.T) {
	env := newAdminEnv(t)
	env.exams.EXPECT().
		UpdateExam(gomock.Any(), adminToken, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, in ports.UpdateExamInput) (model.Exam, error) {
			assert.Equal(t, "e1", in.ID)
			require.NotNil(t, in.Request.Title)
			assert.Equal(t, "Renamed", *in.Request.Title)
			assert.Nil(t, in.Request.Description)
			assert.Nil(t, in.Request.DurationMinutes)
			return model.Exam{ID: "e1"}, nil
		})

	rec := env.serve(formPost("/admin/exams/e1", url.Values{"title": {"Renamed"}}, withSession, withRefreshCookie))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/exams/e1", rec.Header().Get("Location"))
}

func TestAdminDeleteExam(t *testing.T) {
	env := newAdminEnv(t)
	env.exams.EXPECT().DeleteExam(gomock.Any(), adminToken, "e1").Return(nil)

	rec := env.serve(formPost("/admin/exams/e1/delete", url.Values{}, withSession, withRefreshCookie))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/exams", rec.Header().Get("Location"))
}

func TestAdminImportExam(t *testing.T) {
	env := newAdminEnv(t)
	env.exams.EXPECT().
		ImportExam(gomock.Any(), adminToken, model.ImportExamRequest{FileName: "exam.json", Content: []byte(`{"q":[]}`)}).
		Return(model.ImportResult{ExamID: "e9", QuestionCount: 12}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("csrf_token", testCSRF))
	fw, err := mw.CreateFormFile("file", "exam.json")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`{"q":[]}`))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/admin/exams/import", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r.Header.Set("Accept", "text/html")
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRF})
	withSession(r)
	withRefreshCookie(r)
	rec := env.serve(r)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/exams/e9", rec.Header().Get("Location"))
}

func TestAdminWithdrawalAction(t *testing.T) {
	t.Run("reject needs a note", func(t *testing.T) {
		env := newAdminEnv(t)

		rec := env.serve(formPost("/admin/withdrawals/w1/reject", url.Values{}, withSession, withRefreshCookie))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/withdrawals", rec.Header().Get("Location"))
		assert.NotNil(t, findCookie(rec, FlashCookieName))
	})

	t.Run("approve", func(t *testing.T) {
		env := newAdminEnv(t)
		env.withdrawals.EXPECT().
			ApplyWithdrawalAction(gomock.Any(), adminToken, ports.WithdrawalActionInput{
				ID:     "w1",
				Action: model.WithdrawalApprove,
			}).
			Return(model.Withdrawal{ID: "w1", Status: model.WithdrawalApproved}, nil)

		rec := env.serve(formPost("/admin/withdrawals/w1/approve", url.Values{}, withSession, withRefreshCookie))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/withdrawals", rec.Header().Get("Location"))
	})
}

func TestAdminWithdrawals_StatusFilter(t *testing.T) {
	env := newAdminEnv(t)
	env.withdrawals.EXPECT().
		ListWithdrawals(gomock.Any(), adminToken, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, opts model.ListOptions) (model.Page[model.Withdrawal], error) {
			assert.Equal(t, "PENDING", opts.Status)
			return model.Page[model.Withdrawal]{
				Items: []model.Withdrawal{{ID: "w1", UserEmail: "payee@example.com", Status: model.WithdrawalPending}},
				Total: 1,
			}, nil
		})

	rec := env.serve(browserGet("/admin/withdrawals?status=pending", withSession, withRefreshCookie))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "payee@example.com")
}
