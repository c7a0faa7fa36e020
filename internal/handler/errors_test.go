package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/heatmap-backend-go/internal/heatmap"
	"github.com/jengzang/heatmap-backend-go/internal/repository"
	"github.com/jengzang/heatmap-backend-go/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("dataset 3: %w", repository.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("job 1 is completed: %w", service.ErrJobNotActive), http.StatusConflict},
		{service.ErrResultNotReady, http.StatusConflict},
		{service.ErrShuttingDown, http.StatusServiceUnavailable},
		{heatmap.ConfigError("degenerate extent"), http.StatusBadRequest},
		{heatmap.ParseError("line 2", errors.New("missing y")), http.StatusBadRequest},
		{heatmap.IOError("write cell", errors.New("disk full")), http.StatusInternalServerError},
		{fmt.Errorf("failed to load dataset 1: %w", context.Canceled), 499},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
