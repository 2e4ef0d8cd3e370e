package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quisipp/onboard/internal/logging"
)

func newClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, logging.Nop(), opts...)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true}`))
	}, WithTokenSource(func(ctx context.Context) (string, error) {
		return "tok-123", nil
	}))

	_, err := c.Get(context.Background(), "/auth/me")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_NoTokenMeansNoHeader(t *testing.T) {
	var gotAuth string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true}`))
	}, WithTokenSource(func(ctx context.Context) (string, error) {
		return "", nil
	}))

	_, err := c.Get(context.Background(), "/auth/me")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_SetsRequestID(t *testing.T) {
	var gotID string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-Id")
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	_, err := c.Get(context.Background(), "/auth/me")
	require.NoError(t, err)
	assert.NotEmpty(t, gotID)
}

func TestClient_UnauthorizedFiresHookOnce(t *testing.T) {
	var invalidated atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"token expired"}`))
	}, WithUnauthorizedHook(func(ctx context.Context) {
		invalidated.Add(1)
	}))

	_, err := c.Get(context.Background(), "/delivery-partners/profile")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), invalidated.Load())

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "token expired", ae.Message)
}

func TestClient_SoftFailureOn2xx(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"invalid OTP"}`))
	})

	env, err := c.PostJSON(context.Background(), "/auth/verify-otp", map[string]string{"otp": "000000"})
	require.Error(t, err)
	assert.True(t, IsSoft(err))
	require.NotNil(t, env, "envelope is still returned for soft failures")
	assert.Equal(t, "invalid OTP", env.Message)
}

func TestClient_NotFoundSentinel(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"user not found"}`))
	})

	_, err := c.PostJSON(context.Background(), "/auth/login", map[string]string{"phoneNumber": "+911234567890"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_TransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refusing connections from here on

	c := New(srv.URL, logging.Nop())
	_, err := c.Get(context.Background(), "/auth/me")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Zero(t, ae.Status)
}

func TestClient_UploadFile_MultipartShape(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aadhar.jpg")
	require.NoError(t, os.WriteFile(path, []byte("fake-image-bytes"), 0o600))

	var (
		gotFields map[string]string
		gotFile   string
	)
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		require.Len(t, r.MultipartForm.File["file"], 1)
		gotFile = r.MultipartForm.File["file"][0].Filename
		_, _ = w.Write([]byte(`{"success":true,"data":{"url":"https://cdn/x.jpg"}}`))
	})

	env, err := c.UploadFile(context.Background(), "/media/upload-document/delivery-partner/aadhar", map[string]string{
		"phoneNumber": "+919876543210",
		"email":       "a@b.com",
		"userId":      "", // empty fields are omitted
	}, path)
	require.NoError(t, err)

	assert.Equal(t, "aadhar.jpg", gotFile)
	assert.Equal(t, "+919876543210", gotFields["phoneNumber"])
	assert.Equal(t, "a@b.com", gotFields["email"])
	_, hasUserID := gotFields["userId"]
	assert.False(t, hasUserID)

	var payload struct {
		URL string `json:"url"`
	}
	require.NoError(t, env.Decode(&payload))
	assert.Equal(t, "https://cdn/x.jpg", payload.URL)
}

func TestClient_UploadFile_MissingLocalFile(t *testing.T) {
	c := New("http://unused", logging.Nop())
	_, err := c.UploadFile(context.Background(), "/media/upload-document/delivery-partner/aadhar", nil, "/does/not/exist.jpg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
