package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/lingua-labs/lingua-web/internal/domain/model"
	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

const (
	pathExams        = "/exams"
	pathAdminExams   = "/admin/exams"
	pathExamAttempts = "/admin/exam-attempts"
)

func requireID(id string) error {
	if id == "" {
		return apperrors.ValidationField("id", "id is required")
	}
	return nil
}

// ListExams lists exams visible to learners.
func (c *Client) ListExams(ctx context.Context, token string, opts model.ListOptions) (model.Page[model.Exam], error) {
	return listPage[model.Exam](ctx, c, call{op: "list exams", path: pathExams, token: token}, opts)
}

// ListAdminExams lists every exam for administrators.
func (c *Client) ListAdminExams(
	ctx context.Context,
	token string,
	opts model.ListOptions,
) (model.Page[model.Exam], error) {
	return listPage[model.Exam](ctx, c, call{op: "list admin exams", path: pathAdminExams, token: token}, opts)
}

// GetAdminExam fetches one exam.
func (c *Client) GetAdminExam(ctx context.Context, token, id string) (model.Exam, error) {
	if err := requireID(id); err != nil {
		return model.Exam{}, err
	}
	var out model.Exam
	err := c.do(ctx, call{
		op:     "get exam",
		method: http.MethodGet,
		path:   pathAdminExams + "/" + url.PathEscape(id),
		token:  token,
	}, &out)
	return out, err
}

// CreateExam creates an exam.
func (c *Client) CreateExam(ctx context.Context, token string, req model.CreateExamRequest) (model.Exam, error) {
	var out model.Exam
	err := c.do(ctx, call{op: "create exam", method: http.MethodPost, path: pathAdminExams, token: token, body: req}, &out)
	return out, err
}

// UpdateExam patches an exam.
func (c *Client) UpdateExam(ctx context.Context, token string, in ports.UpdateExamInput) (model.Exam, error) {
	if err := requireID(in.ID); err != nil {
		return model.Exam{}, err
	}
	var out model.Exam
	err := c.do(ctx, call{
		op:     "update exam",
		method: http.MethodPatch,
		path:   pathAdminExams + "/" + url.PathEscape(in.ID),
		token:  token,
		body:   in.Request,
	}, &out)
	return out, err
}

// DeleteExam removes an exam.
func (c *Client) DeleteExam(ctx context.Context, token, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.do(ctx, call{
		op:     "delete exam",
		method: http.MethodDelete,
		path:   pathAdminExams + "/" + url.PathEscape(id),
		token:  token,
	}, nil)
}

// ImportExam uploads an exam definition as multipart form data.
func (c *Client) ImportExam(
	ctx context.Context,
	token string,
	req model.ImportExamRequest,
) (model.ImportResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", req.FileName)
	if err != nil {
		return model.ImportResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "import exam: build form")
	}
	if _, err = part.Write(req.Content); err != nil {
		return model.ImportResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "import exam: write form")
	}
	if err = mw.Close(); err != nil {
		return model.ImportResult{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "import exam: close form")
	}

	var out model.ImportResult
	err = c.do(ctx, call{
		op:          "import exam",
		method:      http.MethodPost,
		path:        pathAdminExams + "/import",
		token:       token,
		raw:         &buf,
		contentType: mw.FormDataContentType(),
	}, &out)
	return out, err
}

// ListExamAttempts lists learner attempts across exams.
func (c *Client) ListExamAttempts(
	ctx context.Context,
	token string,
	opts model.ListOptions,
) (model.Page[model.ExamAttempt], error) {
	return listPage[model.ExamAttempt](
		ctx, c, call{op: "list exam attempts", path: pathExamAttempts, token: token}, opts,
	)
}

// GetExamAttempt fetches one attempt.
func (c *Client) GetExamAttempt(ctx context.Context, token, id string) (model.ExamAttempt, error) {
	if err := requireID(id); err != nil {
		return model.ExamAttempt{}, err
	}
	var out model.ExamAttempt
	err := c.do(ctx, call{
		op:     fmt.Sprintf("get exam attempt %s", id),
		method: http.MethodGet,
		path:   pathExamAttempts + "/" + url.PathEscape(id),
		token:  token,
	}, &out)
	return out, err
}
