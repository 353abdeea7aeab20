package integrationtests

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// httptestRecorder adds fluent expect/decode helpers on top of the recorder.
type httptestRecorder struct {
	*httptest.ResponseRecorder
}

func (rr *httptestRecorder) expect(t *testing.T, status int) *httptestRecorder {
	t.Helper()
	require.Equal(t, status, rr.Code, "unexpected status, body: %s", rr.Body.String())
	return rr
}

func (rr *httptestRecorder) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst), "body: %s", rr.Body.String())
}

func newWorkerContext(t *testing.T) (context.Context, func()) {
	t.Helper()
	return context.WithCancel(context.Background())
}
