package ports

import (
	"context"

	"github.com/lingua-labs/lingua-web/internal/domain/model"
)

// CatalogBackend reads vocabulary categories and topics.
type CatalogBackend interface {
	ListCategories(ctx context.Context, token string) ([]model.Category, error)
	ListTopics(ctx context.Context, token, categoryID string) ([]model.Topic, error)
}

// UpdateExamInput groups parameters for a partial exam update.
type UpdateExamInput struct {
	ID      string
	Request model.UpdateExamRequest
}

// ExamBackend covers learner and admin exam endpoints.
type ExamBackend interface {
	ListExams(ctx context.Context, token string, opts model.ListOptions) (model.Page[model.Exam], error)
	ListAdminExams(ctx context.Context, token string, opts model.ListOptions) (model.Page[model.Exam], error)
	GetAdminExam(ctx context.Context, token, id string) (model.Exam, error)
	CreateExam(ctx context.Context, token string, req model.CreateExamRequest) (model.Exam, error)
	UpdateExam(ctx context.Context, token string, in UpdateExamInput) (model.Exam, error)
	DeleteExam(ctx context.Context, token, id string) error
	ImportExam(ctx context.Context, token string, req model.ImportExamRequest) (model.ImportResult, error)
	ListExamAttempts(
		ctx context.Context,
		token string,
		opts model.ListOptions,
	) (model.Page[model.ExamAttempt], error)
	GetExamAttempt(ctx context.Context, token, id string) (model.ExamAttempt, error)
}

// WithdrawalActionInput groups parameters for an admin withdrawal transition.
type WithdrawalActionInput struct {
	ID     string
	Action model.WithdrawalAction
	Note   string
}

// WithdrawalBackend covers admin payout review endpoints.
type WithdrawalBackend interface {
	ListWithdrawals(
		ctx context.Context,
		token string,
		opts model.ListOptions,
	) (model.Page[model.Withdrawal], error)
	ApplyWithdrawalAction(ctx context.Context, token string, in WithdrawalActionInput) (model.Withdrawal, error)
}
