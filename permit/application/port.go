package application

import (
	"context"

	"github.com/kabalen/permitdocs/pkg/kernel"
)

// Repository persists permit applications
type Repository interface {
	Create(ctx context.Context, app *PermitApplication) error
	Update(ctx context.Context, app *PermitApplication) error
	GetByID(ctx context.Context, id kernel.ApplicationID) (*PermitApplication, error)
	GetByReferenceNo(ctx context.Context, ref kernel.ReferenceNo) (*PermitApplication, error)
	List(ctx context.Context, req ListApplicationsRequest) (*kernel.Paginated[PermitApplication], error)
}
