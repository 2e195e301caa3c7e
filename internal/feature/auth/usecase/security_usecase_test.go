package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusauth/internal/feature/auth/domain/entity"
)

type mockReportSource struct {
	ReportFunc func(ctx context.Context, identity *entity.Identity) (*entity.SecurityReport, error)
	calls      int
}

func (m *mockReportSource) Report(ctx context.Context, identity *entity.Identity) (*entity.SecurityReport, error) {
	m.calls++
	if m.ReportFunc != nil {
		return m.ReportFunc(ctx, identity)
	}
	return StaticReportSource{}.Report(ctx, identity)
}

func TestSecurityUsecase_Report(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		callerID  string
		email     string
		wantErr   error
		wantCalls int
	}{
		{name: "owner gets report", callerID: "a", email: "a@x.com", wantCalls: 1},
		{name: "other account is forbidden", callerID: "b", email: "a@x.com", wantErr: ErrForbidden},
		{name: "unknown email is indistinguishable from another account", callerID: "a", email: "ghost@x.com", wantErr: ErrForbidden},
		{name: "anonymous caller", callerID: "", email: "a@x.com", wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newMemStore()
			seedIdentity(t, store, "a", "a@x.com")
			seedIdentity(t, store, "b", "b@x.com")
			reports := &mockReportSource{}
			uc := NewSecurityUsecase(store, reports)

			got, err := uc.Report(context.Background(), tt.callerID, tt.email)

			assert.Equal(t, tt.wantCalls, reports.calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entity.DefaultSecurityScore, got.Score)
			assert.Contains(t, got.Summary, "a@x.com")
		})
	}
}

func TestSecurityUsecase_Report_StoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	store := &mockCredentialStore{
		FindByEmailFunc: func(context.Context, string) (*entity.Identity, error) { return nil, boom },
	}
	uc := NewSecurityUsecase(store, StaticReportSource{})

	_, err := uc.Report(context.Background(), "a", "a@x.com")

	assert.ErrorIs(t, err, boom)
}
