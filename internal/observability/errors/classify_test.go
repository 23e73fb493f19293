package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
)

type customErr struct{}

func (customErr) Error() string { return "custom" }

func TestClassify(t *testing.T) {
	assert.Empty(t, Classify(nil))
	assert.Equal(t, "unauthenticated", Classify(fmt.Errorf("wrap: %w", apperrors.Unauthenticated("x"))))
	assert.Equal(t, "timeout", Classify(fmt.Errorf("fetch: %w", context.DeadlineExceeded)))
	assert.Equal(t, "errors_customerr", Classify(fmt.Errorf("outer: %w", customErr{})))
	assert.Equal(t, "errors_errorstring", Classify(goerrors.New("plain")))
}
