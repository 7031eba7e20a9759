package mojang_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"verifybot/internal/adapters/mojang"
	"verifybot/internal/domain"
)

func newServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/users/profiles/minecraft/Notch" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestResolve_Success(t *testing.T) {
	// Arrange
	srv, _ := newServer(t, http.StatusOK, `{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch"}`)
	client := mojang.NewClient(srv.URL, time.Second, srv.Client())

	// Act
	acc, err := client.Resolve(context.Background(), "Notch")

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.ID != "069a79f444e94726a5befca90e38aaf5" || acc.Name != "Notch" {
		t.Errorf("account = %+v", acc)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"no content", http.StatusNoContent, "", domain.ErrAccountNotFound},
		{"not found", http.StatusNotFound, `{"path":"/users/profiles/minecraft/Notch","errorMessage":"Couldn't find any profile with name Notch"}`, domain.ErrAccountNotFound},
		{"error body", http.StatusOK, `{"error":"IllegalArgumentException","errorMessage":"Invalid name"}`, domain.ErrAccountNotFound},
		{"server error", http.StatusInternalServerError, "oops", domain.ErrLookupFailed},
		{"rate limited", http.StatusTooManyRequests, "", domain.ErrLookupFailed},
		{"garbage", http.StatusOK, "<html>", domain.ErrLookupFailed},
		{"missing id", http.StatusOK, `{"name":"Notch"}`, domain.ErrLookupFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := newServer(t, tt.status, tt.body)
			client := mojang.NewClient(srv.URL, time.Second, srv.Client())

			_, err := client.Resolve(context.Background(), "Notch")

			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if hits.Load() != 1 {
				t.Errorf("requests = %d, want exactly one attempt", hits.Load())
			}
		})
	}
}

func TestResolve_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := mojang.NewClient(srv.URL, 20*time.Millisecond, srv.Client())

	_, err := client.Resolve(context.Background(), "Notch")

	if !errors.Is(err, domain.ErrLookupFailed) {
		t.Errorf("err = %v, want ErrLookupFailed", err)
	}
}

func TestResolve_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := mojang.NewClient(url, time.Second, nil).Resolve(context.Background(), "Notch")

	if !errors.Is(err, domain.ErrLookupFailed) {
		t.Errorf("err = %v, want ErrLookupFailed", err)
	}
}
