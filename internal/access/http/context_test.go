package http

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionContext(t *testing.T) {
	t.Run("Success_RoundTrip", func(t *testing.T) {
		session := newTestSession("alice")

		got, ok := GetSession(WithSession(context.Background(), session))

		assert.True(t, ok)
		assert.Same(t, session, got)
	})

	t.Run("Error_Missing", func(t *testing.T) {
		got, ok := GetSession(context.Background())

		assert.False(t, ok)
		assert.Nil(t, got)
	})
}
