package veridoc_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/veridoc"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := veridoc.Errorf(veridoc.ENOTFOUND, "document %q not found", "test")

	assert.Equal(t, veridoc.ENOTFOUND, veridoc.ErrorCode(err))
	assert.Equal(t, "document \"test\" not found", veridoc.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, veridoc.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, veridoc.EINTERNAL, veridoc.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, veridoc.ErrorMessage(nil))
}

func TestErrorMessage_NonApplicationError(t *testing.T) {
	t.Parallel()

	msg := veridoc.ErrorMessage(errors.New("boom"))
	assert.Contains(t, msg, "Internal error")
}
