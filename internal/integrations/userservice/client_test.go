package userservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestClient_GetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/users/7":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":7,"role":"professional","name":"Анна"}`))
		case "/internal/users/8":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nopLogger{})

	user, err := c.GetUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.True(t, user.IsProfessional())

	_, err = c.GetUser(context.Background(), 1)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = c.GetUser(context.Background(), 8)
	require.ErrorIs(t, err, ErrInvalidResponse)
}
