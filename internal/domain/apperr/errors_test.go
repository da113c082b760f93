package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	cause := errors.New("connection reset")

	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrBusy, "busy"},
		{fmt.Errorf("submit: %w", ErrBusy), "busy"},
		{Validation("title", "Service Title is required"), "validation"},
		{Policy("cannot delete required column"), "policy"},
		{NotFound("plan", "p1"), "not_found"},
		{Remote("create plan", cause), "remote"},
		{cause, "internal"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Kind(tc.err), "%v", tc.err)
	}
}

func TestRemoteErrorUnwraps(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := Remote("delete plan", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "delete plan: deadline exceeded", err.Error())
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "title: required", Validation("title", "required").Error())
	assert.Equal(t, "schema not loaded", Validation("", "schema not loaded").Error())
	assert.Equal(t, "column c1 not found", NotFound("column", "c1").Error())
}
