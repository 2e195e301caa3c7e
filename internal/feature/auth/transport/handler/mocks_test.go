package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"nexusauth/internal/feature/auth/domain/entity"
	"nexusauth/internal/feature/auth/usecase"
	"nexusauth/internal/platform/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockAuthUsecase is a mock implementation of AuthUsecase.
type mockAuthUsecase struct {
	RegisterFunc func(ctx context.Context, name, email, password string) (*usecase.AuthResult, error)
	LoginFunc    func(ctx context.Context, email, password string) (*usecase.AuthResult, error)
}

func (m *mockAuthUsecase) Register(ctx context.Context, name, email, password string) (*usecase.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password)
	}
	panic("Register should not be called")
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	panic("Login should not be called")
}

type mockProfileUsecase struct {
	UpdateProfileFunc func(ctx context.Context, callerID, targetID string, changes usecase.ProfileChanges) (*entity.Profile, error)
}

func (m *mockProfileUsecase) UpdateProfile(ctx context.Context, callerID, targetID string, changes usecase.ProfileChanges) (*entity.Profile, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, callerID, targetID, changes)
	}
	panic("UpdateProfile should not be called")
}

type mockSecurityUsecase struct {
	ReportFunc func(ctx context.Context, callerID, email string) (*entity.SecurityReport, error)
}

func (m *mockSecurityUsecase) Report(ctx context.Context, callerID, email string) (*entity.SecurityReport, error) {
	if m.ReportFunc != nil {
		return m.ReportFunc(ctx, callerID, email)
	}
	panic("Report should not be called")
}

// fakeRecorder captures recorded auth attempts.
type fakeRecorder struct {
	mu       sync.Mutex
	attempts []string
}

func (r *fakeRecorder) RecordAuthAttempt(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, operation+":"+outcome)
}

// asUser simulates jwtmw.AuthRequired having authenticated callerID.
func asUser(callerID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if callerID != "" {
			c.Set(jwtmw.ContextUserID, callerID)
		}
		c.Next()
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, gin.H) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp gin.H
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}
