package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransition(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPendingPayment, StatusNew},
		{StatusPendingPayment, StatusCanceled},
		{StatusNew, StatusPreparing},
		{StatusNew, StatusCanceled},
		{StatusPreparing, StatusReady},
		{StatusPreparing, StatusCanceled},
		{StatusReady, StatusCompleted},
		{StatusReady, StatusCanceled},
	}

	for _, tr := range legal {
		t.Run(string(tr.from)+"_to_"+string(tr.to), func(t *testing.T) {
			assert.NoError(t, ValidateTransition(tr.from, tr.to))
		})
	}

	all := []Status{StatusPendingPayment, StatusNew, StatusPreparing, StatusReady, StatusCompleted, StatusCanceled}

	isLegal := func(from, to Status) bool {
		for _, tr := range legal {
			if tr.from == from && tr.to == to {
				return true
			}
		}
		return false
	}

	// every edge absent from the table is rejected
	for _, from := range all {
		for _, to := range all {
			if isLegal(from, to) {
				continue
			}
			t.Run(string(from)+"_to_"+string(to)+"_rejected", func(t *testing.T) {
				assert.ErrorIs(t, ValidateTransition(from, to), ErrInvalidTransition)
			})
		}
	}

	t.Run("unknown_status_rejected", func(t *testing.T) {
		assert.ErrorIs(t, ValidateTransition(Status("SHIPPED"), StatusNew), ErrInvalidTransition)
	})
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCanceled))
	assert.False(t, IsTerminal(StatusReady))
	assert.False(t, IsTerminal(StatusPendingPayment))
	assert.False(t, IsTerminal(Status("SHIPPED")))
}
