package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lingua-labs/lingua-web/internal/domain/model"
	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

// CatalogService reads vocabulary categories and topics.
type CatalogService struct {
	backend ports.CatalogBackend
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(backend ports.CatalogBackend) *CatalogService {
	return &CatalogService{backend: backend}
}

// Categories lists every category.
func (s *CatalogService) Categories(ctx context.Context, token string) ([]model.Category, error) {
	return s.backend.ListCategories(ctx, token)
}

// Topics lists the topics of one category.
func (s *CatalogService) Topics(ctx context.Context, token, categoryID string) ([]model.Topic, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, apperrors.ValidationField("categoryId", "category id is required")
	}
	return s.backend.ListTopics(ctx, token, categoryID)
}

// ExamServiceOptions groups dependencies for ExamService.
type ExamServiceOptions struct {
	Backend ports.ExamBackend
	Logger  *slog.Logger
}

// ExamService validates exam requests before forwarding them to the backend.
type ExamService struct {
	backend ports.ExamBackend
	logger  *slog.Logger
}

// NewExamService constructs an ExamService.
func NewExamService(opts ExamServiceOptions) *ExamService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ExamService{backend: opts.Backend, logger: logger}
}

// List lists exams visible to learners.
func (s *ExamService) List(ctx context.Context, token string, opts model.ListOptions) (model.Page[model.Exam], error) {
	return s.backend.ListExams(ctx, token, opts.Normalize())
}

// AdminList lists every exam.
func (s *ExamService) AdminList(
	ctx context.Context,
	token string,
	opts model.ListOptions,
) (model.Page[model.Exam], error) {
	return s.backend.ListAdminExams(ctx, token, opts.Normalize())
}

// Get fetches one exam.
func (s *ExamService) Get(ctx context.Context, token, id string) (model.Exam, error) {
	return s.backend.GetAdminExam(ctx, token, id)
}

// Create validates and creates an exam.
func (s *ExamService) Create(ctx context.Context, token string, req model.CreateExamRequest) (model.Exam, error) {
	if err := req.Validate(); err != nil {
		return model.Exam{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid exam")
	}
	exam, err := s.backend.CreateExam(ctx, token, req)
	if err != nil {
		return model.Exam{}, err
	}
	s.logger.InfoContext(ctx, "exam created", "exam_id", exam.ID)
	return exam, nil
}

// Update validates and applies a partial update.
func (s *ExamService) Update(ctx context.Context, token string, in ports.UpdateExamInput) (model.Exam, error) {
	if err := in.Request.Validate(); err != nil {
		return model.Exam{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid exam update")
	}
	return s.backend.UpdateExam(ctx, token, in)
}

// Delete removes an exam.
func (s *ExamService) Delete(ctx context.Context, token, id string) error {
	if err := s.backend.DeleteExam(ctx, token, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "exam deleted", "exam_id", id)
	return nil
}

// Import validates and uploads an exam definition.
func (s *ExamService) Import(
	ctx context.Context,
	token string,
	req model.ImportExamRequest,
) (model.ImportResult, error) {
	if err := req.Validate(); err != nil {
		return model.ImportResult{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid import")
	}
	return s.backend.ImportExam(ctx, token, req)
}

// Attempts lists exam attempts.
func (s *ExamService) Attempts(
	ctx context.Context,
	token string,
	opts model.ListOptions,
) (model.Page[model.ExamAttempt], error) {
	return s.backend.ListExamAttempts(ctx, token, opts.Normalize())
}

// Attempt fetches one attempt.
func (s *ExamService) Attempt(ctx context.Context, token, id string) (model.ExamAttempt, error) {
	return s.backend.GetExamAttempt(ctx, token, id)
}

// WithdrawalService reviews payout requests.
type WithdrawalService struct {
	backend ports.WithdrawalBackend
}

// NewWithdrawalService constructs a WithdrawalService.
func NewWithdrawalService(backend ports.WithdrawalBackend) *WithdrawalService {
	return &WithdrawalService{backend: backend}
}

// List lists withdrawals, optionally filtered by status.
func (s *WithdrawalService) List(
	ctx context.Context,
	token string,
	opts model.ListOptions,
) (model.Page[model.Withdrawal], error) {
	opts.Status = strings.ToUpper(strings.TrimSpace(opts.Status))
	return s.backend.ListWithdrawals(ctx, token, opts.Normalize())
}

// Apply runs an admin action. Rejections and failures need a note for the user.
func (s *WithdrawalService) Apply(
	ctx context.Context,
	token string,
	in ports.WithdrawalActionInput,
) (model.Withdrawal, error) {
	action, ok := model.ParseWithdrawalAction(string(in.Action))
	if !ok {
		return model.Withdrawal{}, apperrors.ValidationField("action", "unsupported withdrawal action")
	}
	in.Action = action
	in.Note = strings.TrimSpace(in.Note)
	if (action == model.WithdrawalReject || action == model.WithdrawalFail) && in.Note == "" {
		return model.Withdrawal{}, apperrors.ValidationField("note", "a note is required to "+string(action))
	}
	return s.backend.ApplyWithdrawalAction(ctx, token, in)
}

// DashboardSummary holds the admin dashboard counters.
type DashboardSummary struct {
	Exams              int
	PublishedExams     int
	Attempts           int
	PendingWithdrawals int
}

// DashboardService aggregates admin counters.
type DashboardService struct {
	exams       ports.ExamBackend
	withdrawals ports.WithdrawalBackend
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(exams ports.ExamBackend, withdrawals ports.WithdrawalBackend) *DashboardService {
	return &DashboardService{exams: exams, withdrawals: withdrawals}
}

// Summary fetches the counters concurrently. Any failure fails the summary.
func (s *DashboardService) Summary(ctx context.Context, token string) (DashboardSummary, error) {
	var out DashboardSummary
	one := model.ListOptions{Page: 1, Limit: 1}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.exams.ListAdminExams(gctx, token, one)
		out.Exams = p.Total
		return err
	})
	g.Go(func() error {
		opts := one
		opts.Status = string(model.ExamStatusPublished)
		p, err := s.exams.ListAdminExams(gctx, token, opts)
		out.PublishedExams = p.Total
		return err
	})
	g.Go(func() error {
		p, err := s.exams.ListExamAttempts(gctx, token, one)
		out.Attempts = p.Total
		return err
	})
	g.Go(func() error {
		opts := one
		opts.Status = string(model.WithdrawalPending)
		p, err := s.withdrawals.ListWithdrawals(gctx, token, opts)
		out.PendingWithdrawals = p.Total
		return err
	})

	if err := g.Wait(); err != nil {
		return DashboardSummary{}, err
	}
	return out, nil
}
