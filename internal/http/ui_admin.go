package httpx

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lingua-labs/lingua-web/internal/domain/model"
	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

const adminExamsPath = "/admin/exams"

// AdminDashboard renders the admin counters.
func (h *UIHandlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Admin dashboard", Page: PageAdminDashboard}
	sum, err := h.Dashboard.Summary(r.Context(), accessToken(r))
	if err != nil {
		h.fail(w, r, meta, err)
		return
	}
	data := h.page(r, meta)
	data.Data = sum
	h.render(w, r, http.StatusOK, data)
}

func (h *UIHandlers) renderExamList(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	meta := PageMeta{Title: data.Title, Page: data.Page}
	opts := listOptionsFrom(r)
	exams, err := h.Exams.AdminList(r.Context(), accessToken(r), opts)
	if err != nil {
		h.fail(w, r, meta, err)
		return
	}
	data.Data = map[string]any{
		"Exams":    exams.Items,
		"Search":   opts.Search,
		"Status":   opts.Status,
		"Statuses": []model.ExamStatus{model.ExamStatusDraft, model.ExamStatusPublished, model.ExamStatusArchived},
	}
	data.Pagination = paginationFor(r, exams)
	h.render(w, r, status, data)
}

func examsMeta() PageMeta { return PageMeta{Title: "Exams", Page: PageAdminExams} }

// AdminExams lists exams with search and status filters.
func (h *UIHandlers) AdminExams(w http.ResponseWriter, r *http.Request) {
	h.renderExamList(w, r, http.StatusOK, h.page(r, examsMeta()))
}

func parseDuration(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.ValidationField("durationMinutes", "duration must be a whole number of minutes")
	}
	return n, nil
}

// AdminCreateExam handles POST /admin/exams.
func (h *UIHandlers) AdminCreateExam(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, examsMeta())
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, examsMeta(), apperrors.Validation("invalid form"))
		return
	}
	data.Form = r.PostForm

	duration, err := parseDuration(r.PostFormValue("durationMinutes"))
	if err == nil {
		_, err = h.Exams.Create(r.Context(), accessToken(r), model.CreateExamRequest{
			Title:           r.PostFormValue("title"),
			Description:     strings.TrimSpace(r.PostFormValue("description")),
			Level:           strings.TrimSpace(r.PostFormValue("level")),
			Status:          model.ExamStatus(r.PostFormValue("status")),
			DurationMinutes: duration,
		})
	}
	if err != nil {
		if apperrors.IsValidation(err) {
			data.Error = userMessage(err)
			data.FieldErrors = fieldErrors(err)
			h.renderExamList(w, r, http.StatusUnprocessableEntity, data)
			return
		}
		h.fail(w, r, examsMeta(), err)
		return
	}

	h.notice(w, r, ports.Notice{Level: ports.NoticeSuccess, Title: "Exam created"})
	redirect(w, r, adminExamsPath)
}

// AdminExam renders the edit form for one exam.
func (h *UIHandlers) AdminExam(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Edit exam", Page: PageAdminExam}
	exam, err := h.Exams.Get(r.Context(), accessToken(r), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, meta, err)
		return
	}
	data := h.page(r, meta)
	data.Data = exam
	data.Form = examForm(exam)
	h.render(w, r, http.StatusOK, data)
}

func examForm(e model.Exam) url.Values {
	return url.Values{
		"title":           {e.Title},
		"description":     {e.Description},
		"level":           {e.Level},
		"status":          {string(e.Status)},
		"durationMinutes": {strconv.Itoa(e.DurationMinutes)},
	}
}

// updateFromForm sets only the fields present in the submitted form.
func updateFromForm(form url.Values) (model.UpdateExamRequest, error) {
	var req model.UpdateExamRequest
	str := func(key string) *string {
		if !form.Has(key) {
			return nil
		}
		v := strings.TrimSpace(form.Get(key))
		return &v
	}
	req.Title = str("title")
	req.Description = str("description")
	req.Level = str("level")
	if s := str("status"); s != nil && *s != "" {
		st := model.ExamStatus(*s)
		req.Status = &st
	}
	if form.Has("durationMinutes") {
		n, err := parseDuration(form.Get("durationMinutes"))
		if err != nil {
			return req, err
		}
		req.DurationMinutes = &n
	}
	return req, nil
}

// AdminUpdateExam handles POST /admin/exams/{id}.
func (h *UIHandlers) AdminUpdateExam(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Edit exam", Page: PageAdminExam}
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, meta, apperrors.Validation("invalid form"))
		return
	}

	req, err := updateFromForm(r.PostForm)
	if err == nil {
		_, err = h.Exams.Update(r.Context(), accessToken(r), ports.UpdateExamInput{ID: id, Request: req})
	}
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.fail(w, r, meta, err)
			return
		}
		data := h.page(r, meta)
		data.Form = r.PostForm
		data.Error = userMessage(err)
		data.FieldErrors = fieldErrors(err)
		data.Data = model.Exam{ID: id}
		h.render(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	h.notice(w, r, ports.Notice{Level: ports.NoticeSuccess, Title: "Exam updated"})
	redirect(w, r, adminExamsPath+"/"+url.PathEscape(id))
}

// AdminDeleteExam handles POST /admin/exams/{id}/delete.
func (h *UIHandlers) AdminDeleteExam(w http.ResponseWriter, r *http.Request) {
	if err := h.Exams.Delete(r.Context(), accessToken(r), r.PathValue("id")); err != nil {
		h.fail(w, r, examsMeta(), err)
		return
	}
	h.notice(w, r, ports.Notice{Level: ports.NoticeSuccess, Title: "Exam deleted"})
	redirect(w, r, adminExamsPath)
}

// AdminImportExam handles the multipart upload at POST /admin/exams/import.
func (h *UIHandlers) AdminImportExam(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		data := h.page(r, examsMeta())
		data.Error = errMsgFixBelow
		data.FieldErrors = map[string]string{"file": "Choose an exam file to import"}
		h.renderExamList(w, r, http.StatusUnprocessableEntity, data)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, r, examsMeta(), apperrors.Wrap(err, apperrors.ErrCodeValidation, "could not read upload"))
		return
	}
	res, err := h.Exams.Import(r.Context(), accessToken(r), model.ImportExamRequest{
		FileName: header.Filename,
		Content:  content,
	})
	if err != nil {
		h.fail(w, r, examsMeta(), err)
		return
	}

	msg := fmt.Sprintf("%d questions imported", res.QuestionCount)
	if len(res.Warnings) > 0 {
		msg += fmt.Sprintf(" with %d warnings", len(res.Warnings))
	}
	h.notice(w, r, ports.Notice{Level: ports.NoticeSuccess, Title: "Exam imported", Message: msg})
	redirect(w, r, adminExamsPath+"/"+url.PathEscape(res.ExamID))
}

// AdminAttempts lists exam attempts.
func (h *UIHandlers) AdminAttempts(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Exam attempts", Page: PageAdminAttempts}
	attempts, err := h.Exams.Attempts(r.Context(), accessToken(r), listOptionsFrom(r))
	if err != nil {
		h.fail(w, r, meta, err)
		return
	}
	data := h.page(r, meta)
	data.Data = map[string]any{"Attempts": attempts.Items}
	data.Pagination = paginationFor(r, attempts)
	h.render(w, r, http.StatusOK, data)
}

func withdrawalsMeta() PageMeta { return PageMeta{Title: "Withdrawals", Page: PageAdminWithdrawals} }

// AdminWithdrawals lists payout requests, filtered by ?status=.
func (h *UIHandlers) AdminWithdrawals(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFrom(r)
	list, err := h.Withdrawals.List(r.Context(), accessToken(r), opts)
	if err != nil {
		h.fail(w, r, withdrawalsMeta(), err)
		return
	}
	data := h.page(r, withdrawalsMeta())
	data.Data = map[string]any{
		"Withdrawals": list.Items,
		"Status":      strings.ToUpper(opts.Status),
		"Statuses": []model.WithdrawalStatus{
			model.WithdrawalPending,
			model.WithdrawalApproved,
			model.WithdrawalRejected,
			model.WithdrawalCompleted,
			model.WithdrawalFailed,
		},
	}
	data.Pagination = paginationFor(r, list)
	h.render(w, r, http.StatusOK, data)
}

// AdminWithdrawalAction handles POST /admin/withdrawals/{id}/{action}.
func (h *UIHandlers) AdminWithdrawalAction(w http.ResponseWriter, r *http.Request) {
	in := ports.WithdrawalActionInput{
		ID:     r.PathValue("id"),
		Action: model.WithdrawalAction(r.PathValue("action")),
		Note:   r.PostFormValue("note"),
	}
	wd, err := h.Withdrawals.Apply(r.Context(), accessToken(r), in)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.fail(w, r, withdrawalsMeta(), err)
			return
		}
		h.notice(w, r, ports.Notice{Level: ports.NoticeError, Title: "Action not applied", Message: userMessage(err)})
		redirect(w, r, "/admin/withdrawals")
		return
	}
	h.notice(w, r, ports.Notice{
		Level:   ports.NoticeSuccess,
		Title:   "Withdrawal updated",
		Message: "Status is now " + strings.ToLower(string(wd.Status)),
	})
	redirect(w, r, "/admin/withdrawals")
}

// notice records a toast and carries it across the redirect that follows.
func (h *UIHandlers) notice(w http.ResponseWriter, r *http.Request, n ports.Notice) {
	notifierFor(w, r).Notify(r.Context(), n)
	persistToasts(w, r, h.Cookies)
}
