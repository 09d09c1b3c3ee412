package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	errAlready := Conflict("already done")

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"sentinel", errAlready, KindConflict},
		{"wrapped sentinel", fmt.Errorf("check in: %w", errAlready), KindConflict},
		{"not found", NotFound("missing"), KindNotFound},
		{"forbidden", Forbidden("nope"), KindForbidden},
		{"validation sentinel", Validation("bad"), KindValidation},
		{"field errors", validator.ValidationErrors{{Field: "latitude", Message: "out of range"}}, KindValidation},
		{"plain error", errors.New("boom"), KindInternal},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, KindOf(c.err))
		})
	}
}

func TestSentinelIdentity(t *testing.T) {
	errA := Conflict("same message")
	errB := Conflict("same message")

	wrapped := fmt.Errorf("outer: %w", errA)
	assert.True(t, errors.Is(wrapped, errA))
	assert.False(t, errors.Is(wrapped, errB))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "missing", Message(fmt.Errorf("x: %w", NotFound("missing")), "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("raw"), "fallback"))
}
