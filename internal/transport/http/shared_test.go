package httptransport

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "openbadges/pkg/domain-errors"
	"openbadges/pkg/testutil"
)

func TestStatusFor(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeConflict:         http.StatusConflict,
		dErrors.CodeNotFound:         http.StatusNotFound,
		dErrors.CodeUnauthorized:     http.StatusUnauthorized,
		dErrors.CodeForbidden:        http.StatusForbidden,
		dErrors.CodeInvalidReference: http.StatusUnprocessableEntity,
		dErrors.CodeValidation:       http.StatusBadRequest,
		dErrors.CodeBadRequest:       http.StatusBadRequest,
		dErrors.CodeInvalidInput:     http.StatusBadRequest,
		dErrors.CodeInternal:         http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, statusFor(code), "code %s", code)
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, dErrors.New(dErrors.CodeNotFound, "Profile does not exist"))

	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	assert.Contains(t, rr.Body.String(), "Profile does not exist")
}

func TestWriteErrorCollapsesUnknownErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("pq: connection refused"))

	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal")
	assert.NotContains(t, rr.Body.String(), "pq:")
}
