package httpclient

import (
	"testing"

	// Packages
	pg "github.com/onelson/fizzbuzz-scheduler"
	assert "github.com/stretchr/testify/assert"
)

func Test_WithOffsetLimit(t *testing.T) {
	assert := assert.New(t)

	t.Run("ZeroOffsetNoLimit", func(t *testing.T) {
		opt, err := applyOpts(WithOffsetLimit(0, nil))
		assert.NoError(err)
		assert.Empty(opt.Values)
	})

	t.Run("WithOffset", func(t *testing.T) {
		opt, err := applyOpts(WithOffsetLimit(10, nil))
		assert.NoError(err)
		assert.Equal("10", opt.Get("offset"))
		assert.Empty(opt.Get("limit"))
	})

	t.Run("WithOffsetAndLimit", func(t *testing.T) {
		limit := uint64(50)
		opt, err := applyOpts(WithOffsetLimit(100, &limit))
		assert.NoError(err)
		assert.Equal("100", opt.Get("offset"))
		assert.Equal("50", opt.Get("limit"))
	})

	t.Run("ZeroLimit", func(t *testing.T) {
		limit := uint64(0)
		opt, err := applyOpts(WithOffsetLimit(0, &limit))
		assert.NoError(err)
		assert.Equal("0", opt.Get("limit"))
	})
}

func Test_WithFilters(t *testing.T) {
	assert := assert.New(t)

	t.Run("Empty", func(t *testing.T) {
		opt, err := applyOpts(WithState(""), WithKind(""))
		assert.NoError(err)
		assert.Empty(opt.Values)
	})

	t.Run("Valid", func(t *testing.T) {
		opt, err := applyOpts(WithState("Completed"), WithKind("FizzBuzz"))
		assert.NoError(err)
		assert.Equal("Completed", opt.Get("state"))
		assert.Equal("FizzBuzz", opt.Get("type"))
	})

	t.Run("InvalidState", func(t *testing.T) {
		_, err := applyOpts(WithState("Running"))
		assert.ErrorIs(err, pg.ErrDecode)
	})

	t.Run("InvalidKind", func(t *testing.T) {
		_, err := applyOpts(WithKind("Bang"))
		assert.ErrorIs(err, pg.ErrDecode)
	})
}
