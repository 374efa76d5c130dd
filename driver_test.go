package seam_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamhttp/seam"
	"github.com/seamhttp/seam/event"
	"github.com/seamhttp/seam/httperror"
)

var testJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type errorBody struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Message       string `json:"message"`
	Cause         string `json:"cause"`
	Unhandled     bool   `json:"unhandled"`
}

func serve(t *testing.T, app *seam.App) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	seam.ToListener(app)(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var b errorBody
	require.NoError(t, testJSON.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func TestToListener_SuccessSendsNothing(t *testing.T) {
	rec := serve(t, &seam.App{
		Handler: func(ctx context.Context, ev *event.Event) (any, error) {
			return "fine", nil
		},
	})

	// Scenario: the handler succeeds without touching the response. The
	// driver performs no dispatch and writes nothing.
	assert.Equal(t, 0, rec.Body.Len())
}

func TestToListener_UnhandledFailure(t *testing.T) {
	rec := serve(t, &seam.App{
		Handler: func(ctx context.Context, ev *event.Event) (any, error) {
			return nil, errors.New("boom")
		},
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	b := decodeError(t, rec)
	assert.Equal(t, http.StatusInternalServerError, b.StatusCode)
	assert.Equal(t, "boom", b.Message)
	assert.False(t, b.Unhandled, "unhandled flag is internal unless debug is set")
}

func TestToListener_PanicNormalized(t *testing.T) {
	rec := serve(t, &seam.App{
		Handler: func(ctx context.Context, ev *event.Event) (any, error) {
			panic("boom")
		},
		Options: seam.Options{Debug: true},
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	b := decodeError(t, rec)
	assert.Equal(t, "boom", b.Message)
	assert.True(t, b.Unhandled)
}

func TestToListener_RecognizedErrorPreserved(t *testing.T) {
	rec := serve(t, &seam.App{
		Handler: func(ctx context.Context, ev *event.Event) (any, error) {
			return nil, httperror.New(http.StatusNotFound, "no such thing")
		},
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	b := decodeError(t, rec)
	assert.Equal(t, http.StatusNotFound, b.StatusCode)
	assert.Equal(t, "Not Found", b.StatusMessage)
	assert.Equal(t, "no such thing", b.Message)
}

func TestToListener_DebugExposesCause(t *testing.T) {
	cause := errors.New("root cause")
	rec := serve(t, &seam.App{
		Handler: func(ctx context.Context, ev *event.Event) (any, error) {
			return nil, cause
		},
		Options: seam.Options{Debug: true},
	})

	b := decodeError(t, rec)
	assert.Equal(t, "root cause", b.Cause)
	assert.True(t, b.Unhandled)
}

func TestToListener_CustomOnError(t *testing.T) {
	var gotErr *httperror.Error
	var gotEv *event.Event

	rec := serve(t, &seam.App{
		Handler: func(ctx context.Context, ev *event.Event) (any, error) {
			return nil, errors.New("handed off")
		},
		Options: seam.Options{
			OnError: func(ctx context.Context, err *httperror.Error, ev *event.Event) error {
				gotErr = err
				gotEv = ev
				return nil
			},
		},
	})

	require.NotNil(t, gotErr)
	assert.Equal(t, "handed off", gotErr.Message)
	assert.True(t, gotErr.Unhandled)
	require.NotNil(t, gotEv)
	assert.NotEmpty(t, gotEv.ID)

	// The callback chose not to send; the driver must not either.
	assert.Equal(t, 0, rec.Body.Len())
}

func TestToListener_OnErrorFailureFallsBack(t *testing.T) {
	rec := serve(t, &seam.App{
		Handler: func(ctx context.Context, ev *event.Event) (any, error) {
			return nil, httperror.New(http.StatusBadGateway, "upstream down")
		},
		Options: seam.Options{
			OnError: func(ctx context.Context, err *httperror.Error, ev *event.Event) error {
				return errors.New("sink is broken too")
			},
		},
	})

	// Callback failed, so the client still gets the original error.
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	b := decodeError(t, rec)
	assert.Equal(t, "upstream down", b.Message)
}

func TestToListener_NeverPanics(t *testing.T) {
	app := &seam.App{
		Handler: func(ctx context.Context, ev *event.Event) (any, error) {
			panic(errors.New("root handler exploded"))
		},
	}

	require.NotPanics(t, func() {
		serve(t, app)
	})
}
