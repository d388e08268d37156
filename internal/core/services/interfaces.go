package services

import (
	"context"
	"time"

	"prestamax/internal/adapters/persistence/models"
	"prestamax/internal/adapters/persistence/repositories"
	"prestamax/internal/core/domain"
)

// Note: AuthService implementation is in auth_service.go
// Note: ApplicationService implementation is in application_service.go

// ApplicationStore defines the application persistence the services need.
// Satisfied by repositories.ApplicationRepository; tests supply fakes.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, tenantID, id uint) (*models.Application, error)
	GetByFolio(ctx context.Context, tenantID uint, folio string) (*models.Application, error)
	List(ctx context.Context, tenantID uint, filter repositories.ApplicationFilter, offset, limit int) ([]*models.Application, int64, error)
	ListByStatus(ctx context.Context, tenantID uint, statuses []string) ([]*models.Application, error)
	RecordOfferResponse(ctx context.Context, app *models.Application, respondedAt time.Time, accepted bool) error
	UpdateStatusWithHistory(ctx context.Context, app *models.Application, fromStatus domain.ApplicationStatus, updates map[string]interface{}, history *models.ApplicationStatusHistory) error
	GetHistory(ctx context.Context, applicationID uint) ([]*models.ApplicationStatusHistory, error)
	CountByStatus(ctx context.Context, tenantID uint) (map[string]int64, error)
}

// ProductStore defines the product persistence the services need
type ProductStore interface {
	GetByID(ctx context.Context, tenantID, id uint) (*models.Product, error)
	ListActive(ctx context.Context, tenantID uint) ([]*models.Product, error)
}

// ApplicantStore defines the applicant persistence the services need
type ApplicantStore interface {
	GetByID(ctx context.Context, tenantID, id uint) (*models.Applicant, error)
	Create(ctx context.Context, applicant *models.Applicant) error
}

// EventPublisher delivers domain events to the outside world. Delivery is
// best effort: a failed publish never rolls back the state change it reports.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event)
}
