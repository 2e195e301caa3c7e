package usecase

import (
	"context"
	"errors"

	"nexusauth/internal/feature/auth/domain/entity"
)

// ReportSource produces the security report for an identity.
// The Redis cache in platform/cache decorates it.
type ReportSource interface {
	Report(ctx context.Context, identity *entity.Identity) (*entity.SecurityReport, error)
}

// StaticReportSource builds reports from the identity alone.
type StaticReportSource struct{}

// Report implements ReportSource.
func (StaticReportSource) Report(_ context.Context, identity *entity.Identity) (*entity.SecurityReport, error) {
	return entity.NewSecurityReport(identity), nil
}

// SecurityUsecase serves security reports to the owner of an account.
type SecurityUsecase struct {
	store   CredentialStore
	reports ReportSource
}

// NewSecurityUsecase creates a new SecurityUsecase.
func NewSecurityUsecase(store CredentialStore, reports ReportSource) *SecurityUsecase {
	return &SecurityUsecase{store: store, reports: reports}
}

// Report returns the report for the account registered under email.
// Only the owner of that account may read it. An unknown email is
// reported as ErrForbidden so callers cannot probe which emails exist.
func (u *SecurityUsecase) Report(ctx context.Context, callerID, email string) (*entity.SecurityReport, error) {
	if callerID == "" {
		return nil, ErrForbidden
	}
	identity, err := u.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrIdentityNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if identity.ID != callerID {
		return nil, ErrForbidden
	}
	return u.reports.Report(ctx, identity)
}
