package services

import (
	"context"
	"time"

	"prestamax/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService handles tenant dashboard operations
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardData represents tenant dashboard data
type DashboardData struct {
	// Pipeline
	TotalApplications int64            `json:"total_applications"`
	ByStatus          map[string]int64 `json:"by_status"`
	InPipeline        int64            `json:"in_pipeline"`
	Approved          int64            `json:"approved"`
	Rejected          int64            `json:"rejected"`

	// Amounts
	RequestedAmount float64 `json:"requested_amount"`
	ApprovedAmount  float64 `json:"approved_amount"`
	DisbursedAmount float64 `json:"disbursed_amount"`

	// This month
	ApplicationsThisMonth int64   `json:"applications_this_month"`
	AmountThisMonth       float64 `json:"amount_this_month"`

	// Recent activity
	RecentApplications []ApplicationSummary `json:"recent_applications"`
}

// ApplicationSummary represents a dashboard row
type ApplicationSummary struct {
	ID              uint      `json:"id"`
	Folio           string    `json:"folio"`
	ApplicantName   string    `json:"applicant_name"`
	ProductName     string    `json:"product_name"`
	RequestedAmount float64   `json:"requested_amount"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// GetDashboard returns dashboard data for one tenant
func (s *DashboardService) GetDashboard(ctx context.Context, tenantID uint) (*DashboardData, error) {
	data := &DashboardData{ByStatus: map[string]int64{}}

	s.db.WithContext(ctx).Table("applications").
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID).
		Count(&data.TotalApplications)

	// Counts by status
	type statusRow struct {
		Status string
		Count  int64
	}
	var rows []statusRow
	s.db.WithContext(ctx).Table("applications").
		Select("status, COUNT(*) as count").
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID).
		Group("status").
		Scan(&rows)
	for _, r := range rows {
		data.ByStatus[r.Status] = r.Count
		switch domain.ApplicationStatus(r.Status) {
		case domain.StatusApproved:
			data.Approved = r.Count
		case domain.StatusRejected:
			data.Rejected = r.Count
		}
		if !domain.ApplicationStatus(r.Status).IsTerminal() &&
			domain.ApplicationStatus(r.Status) != domain.StatusApproved {
			data.InPipeline += r.Count
		}
	}

	// Amounts
	s.db.WithContext(ctx).Table("applications").
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID).
		Select("COALESCE(SUM(requested_amount), 0)").
		Scan(&data.RequestedAmount)

	s.db.WithContext(ctx).Table("applications").
		Where("tenant_id = ? AND approved_amount IS NOT NULL AND deleted_at IS NULL", tenantID).
		Select("COALESCE(SUM(approved_amount), 0)").
		Scan(&data.ApprovedAmount)

	s.db.WithContext(ctx).Table("applications").
		Where("tenant_id = ? AND status = ? AND deleted_at IS NULL", tenantID, string(domain.StatusDisbursed)).
		Select("COALESCE(SUM(approved_amount), 0)").
		Scan(&data.DisbursedAmount)

	// This month statistics
	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("applications").
		Where("tenant_id = ? AND created_at >= ? AND deleted_at IS NULL", tenantID, startOfMonth).
		Count(&data.ApplicationsThisMonth)

	s.db.WithContext(ctx).Table("applications").
		Where("tenant_id = ? AND created_at >= ? AND deleted_at IS NULL", tenantID, startOfMonth).
		Select("COALESCE(SUM(requested_amount), 0)").
		Scan(&data.AmountThisMonth)

	// Recent applications
	s.db.WithContext(ctx).Table("applications").
		Select(`applications.id, applications.folio, applications.requested_amount,
			applications.status, applications.created_at,
			CONCAT(applicants.first_name, ' ', applicants.last_name) as applicant_name,
			products.name as product_name`).
		Joins("LEFT JOIN applicants ON applications.applicant_id = applicants.id").
		Joins("LEFT JOIN products ON applications.product_id = products.id").
		Where("applications.tenant_id = ? AND applications.deleted_at IS NULL", tenantID).
		Order("applications.created_at DESC").
		Limit(10).
		Scan(&data.RecentApplications)

	return data, nil
}

// AnalystWorkload represents per-analyst decision counts
type AnalystWorkload struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Decisions int64  `json:"decisions"`
	Approved  int64  `json:"approved"`
	Rejected  int64  `json:"rejected"`
}

// GetAnalystWorkload returns decision counts per staff user for one tenant
func (s *DashboardService) GetAnalystWorkload(ctx context.Context, tenantID uint) ([]AnalystWorkload, error) {
	var workload []AnalystWorkload
	err := s.db.WithContext(ctx).Table("application_status_histories").
		Select(`users.id as user_id, users.username,
			COUNT(*) as decisions,
			SUM(CASE WHEN application_status_histories.to_status = 'APPROVED' THEN 1 ELSE 0 END) as approved,
			SUM(CASE WHEN application_status_histories.to_status = 'REJECTED' THEN 1 ELSE 0 END) as rejected`).
		Joins("JOIN users ON application_status_histories.changed_by = users.id").
		Where("application_status_histories.changed_by_type = ? AND users.tenant_id = ?", string(domain.ActorStaff), tenantID).
		Where("application_status_histories.to_status IN ?", []string{
			string(domain.StatusApproved), string(domain.StatusRejected), string(domain.StatusCounterOffered),
		}).
		Group("users.id, users.username").
		Order("decisions DESC").
		Scan(&workload).Error
	return workload, err
}
