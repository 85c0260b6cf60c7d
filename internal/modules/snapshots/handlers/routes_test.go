package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	// Should not panic
	assert.NotPanics(t, func() {
		setupTestRouter(t)
	}, "route registration should not panic")
}
