package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/neighborly/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrTaskNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrInvalidCategory, http.StatusBadRequest, "INVALID"},
		{domain.ErrInvalidRating, http.StatusBadRequest, "INVALID_RATING"},
		{domain.ErrSelfApplication, http.StatusBadRequest, "SELF_APPLICATION"},
		{domain.ErrNotAnApplicant, http.StatusBadRequest, "NOT_AN_APPLICANT"},
		{domain.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
		{domain.ErrDuplicateApplication, http.StatusConflict, "DUPLICATE_APPLICATION"},
		{domain.ErrAlreadyReviewed, http.StatusConflict, "ALREADY_REVIEWED"},
		{domain.ErrNoRecipient, http.StatusConflict, "NO_RECIPIENT"},
		{domain.ErrProfileExists, http.StatusConflict, "CONFLICT"},
		{fmt.Errorf("apply: %w", domain.ErrInvalidState), http.StatusConflict, "INVALID_STATE"},
		{errors.New("disk full"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code := mapError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestQueryFloat(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		required bool
		want     float64
		wantOK   bool
	}{
		{"present", "v=52.5", true, 52.5, true},
		{"missing optional", "", false, 7, true},
		{"missing required", "", true, 0, false},
		{"malformed", "v=north", false, 0, false},
		{"nan", "v=NaN", false, 0, false},
		{"infinity", "v=Inf", false, 0, false},
		{"negative infinity", "v=-Inf", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctx fasthttp.RequestCtx
			ctx.Request.SetRequestURI("/search?" + tt.query)
			got, ok := queryFloat(&ctx, "v", 7, tt.required)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
