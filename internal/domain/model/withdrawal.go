//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

// WithdrawalStatus is the lifecycle state of a payout request.
type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "PENDING"
	WithdrawalApproved  WithdrawalStatus = "APPROVED"
	WithdrawalRejected  WithdrawalStatus = "REJECTED"
	WithdrawalCompleted WithdrawalStatus = "COMPLETED"
	WithdrawalFailed    WithdrawalStatus = "FAILED"
)

// Withdrawal is a payout request reviewed by an admin.
type Withdrawal struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	UserEmail string           `json:"userEmail,omitempty"`
	Amount    float64          `json:"amount"`
	Currency  string           `json:"currency"`
	Status    WithdrawalStatus `json:"status"`
	Note      string           `json:"note,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// WithdrawalAction is an admin transition applied to a withdrawal.
type WithdrawalAction string

const (
	WithdrawalApprove  WithdrawalAction = "approve"
	WithdrawalReject   WithdrawalAction = "reject"
	WithdrawalComplete WithdrawalAction = "complete"
	WithdrawalFail     WithdrawalAction = "fail"
)

// ParseWithdrawalAction normalizes an action string and reports whether it is supported.
func ParseWithdrawalAction(value string) (WithdrawalAction, bool) {
	a := WithdrawalAction(strings.ToLower(strings.TrimSpace(value)))
	switch a {
	case WithdrawalApprove, WithdrawalReject, WithdrawalComplete, WithdrawalFail:
		return a, true
	default:
		return "", false
	}
}

// AllowedFrom reports whether the action may be applied to a withdrawal in status s.
func (a WithdrawalAction) AllowedFrom(s WithdrawalStatus) bool {
	switch a {
	case WithdrawalApprove, WithdrawalReject:
		return s == WithdrawalPending
	case WithdrawalComplete, WithdrawalFail:
		return s == WithdrawalApproved
	default:
		return false
	}
}

// WithdrawalActionRequest carries an optional admin note.
type WithdrawalActionRequest struct {
	Note string `json:"note,omitempty"`
}
