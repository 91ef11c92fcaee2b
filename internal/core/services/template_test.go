package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	"github.com/lorrc/home-services-backend/internal/core/services"
)

func TestInterpolate(t *testing.T) {
	trigCtx := domain.TriggerContext{
		"contactName": "Maria Diaz",
		"jobId":       int64(42),
		"contact": map[string]any{
			"phone": "+15550100",
		},
	}

	t.Run("replaces simple placeholders", func(t *testing.T) {
		got := services.Interpolate("Hi {{contactName}}, job {{jobId}} is done", trigCtx)
		assert.Equal(t, "Hi Maria Diaz, job 42 is done", got)
	})

	t.Run("tolerates whitespace inside braces", func(t *testing.T) {
		got := services.Interpolate("Hi {{ contactName }}", trigCtx)
		assert.Equal(t, "Hi Maria Diaz", got)
	})

	t.Run("walks dotted paths", func(t *testing.T) {
		got := services.Interpolate("Call {{contact.phone}}", trigCtx)
		assert.Equal(t, "Call +15550100", got)
	})

	t.Run("leaves unresolved placeholders intact", func(t *testing.T) {
		got := services.Interpolate("Hi {{missing}} and {{contact.email}}", trigCtx)
		assert.Equal(t, "Hi {{missing}} and {{contact.email}}", got)
	})

	t.Run("no placeholders is a passthrough", func(t *testing.T) {
		got := services.Interpolate("plain text", trigCtx)
		assert.Equal(t, "plain text", got)
	})
}
