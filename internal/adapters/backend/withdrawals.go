package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/lingua-labs/lingua-web/internal/domain/model"
	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

const pathWithdrawalsAdmin = "/withdrawals/admin"

// ListWithdrawals lists payout requests for review.
func (c *Client) ListWithdrawals(
	ctx context.Context,
	token string,
	opts model.ListOptions,
) (model.Page[model.Withdrawal], error) {
	return listPage[model.Withdrawal](
		ctx, c, call{op: "list withdrawals", path: pathWithdrawalsAdmin + "/all", token: token}, opts,
	)
}

// ApplyWithdrawalAction approves, rejects, completes or fails a withdrawal.
func (c *Client) ApplyWithdrawalAction(
	ctx context.Context,
	token string,
	in ports.WithdrawalActionInput,
) (model.Withdrawal, error) {
	if err := requireID(in.ID); err != nil {
		return model.Withdrawal{}, err
	}
	action, ok := model.ParseWithdrawalAction(string(in.Action))
	if !ok {
		return model.Withdrawal{}, apperrors.ValidationField("action", "unsupported withdrawal action")
	}

	var out model.Withdrawal
	err := c.do(ctx, call{
		op:     "withdrawal " + string(action),
		method: http.MethodPatch,
		path:   pathWithdrawalsAdmin + "/" + url.PathEscape(in.ID) + "/" + string(action),
		token:  token,
		body:   model.WithdrawalActionRequest{Note: in.Note},
	}, &out)
	return out, err
}
