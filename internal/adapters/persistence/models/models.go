package models

import (
	"strings"
	"time"

	"prestamax/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Tenancy & Staff Tables
// ============================================================

// Tenant represents a lender operating on the platform
type Tenant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Code      string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// Staff roles
const (
	RoleAnalyst    = "ANALYST"
	RoleSupervisor = "SUPERVISOR"
	RoleAdmin      = "ADMIN"
)

// User represents a staff user (analyst, supervisor or admin)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TenantID  uint           `gorm:"index;not null" json:"tenant_id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'ANALYST'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	TenantID  uint      `json:"tenant_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog Tables
// ============================================================

// Product defines a loan product's bounds and pricing
type Product struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	TenantID              uint           `gorm:"index;not null" json:"tenant_id"`
	Code                  string         `gorm:"size:20;not null;index" json:"code"`
	Name                  string         `gorm:"size:100;not null" json:"name"`
	Description           string         `gorm:"type:text" json:"description"`
	MinAmount             float64        `gorm:"type:decimal(15,2);not null" json:"min_amount"`
	MaxAmount             float64        `gorm:"type:decimal(15,2);not null" json:"max_amount"`
	MinTermMonths         int            `gorm:"not null" json:"min_term_months"`
	MaxTermMonths         int            `gorm:"not null" json:"max_term_months"`
	AnnualRate            float64        `gorm:"type:decimal(7,4);not null" json:"annual_rate"`
	OpeningCommissionRate float64        `gorm:"type:decimal(7,4);not null" json:"opening_commission_rate"`
	AllowedFrequencies    string         `gorm:"size:60;default:'WEEKLY,BIWEEKLY,MONTHLY'" json:"allowed_frequencies"`
	IsActive              bool           `gorm:"default:true" json:"is_active"`
	CreatedAt             time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// AllowsFrequency checks whether the product can be repaid at frequency f
func (p *Product) AllowsFrequency(f domain.PaymentFrequency) bool {
	for _, item := range strings.Split(p.AllowedFrequencies, ",") {
		if strings.TrimSpace(item) == string(f) {
			return true
		}
	}
	return false
}

// Applicant represents an individual loan applicant
type Applicant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TenantID  uint           `gorm:"index;not null" json:"tenant_id"`
	FirstName string         `gorm:"size:100;not null" json:"first_name"`
	LastName  string         `gorm:"size:100;not null" json:"last_name"`
	Email     string         `gorm:"size:100;index" json:"email"`
	Phone     string         `gorm:"size:20" json:"phone"`
	CURP      string         `gorm:"size:18;index" json:"curp"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Applicant) TableName() string {
	return "applicants"
}

// FullName returns the applicant's display name
func (a *Applicant) FullName() string {
	return a.FirstName + " " + a.LastName
}

// ============================================================
// Application Tables
// ============================================================

// CounterOffer holds staff-proposed alternate terms embedded in an
// application. Accepted stays nil until the applicant responds.
type CounterOffer struct {
	Amount           *float64   `gorm:"type:decimal(15,2)" json:"amount"`
	TermMonths       *int       `json:"term_months"`
	InterestRate     *float64   `gorm:"type:decimal(7,4)" json:"interest_rate"`
	PaymentFrequency string     `gorm:"size:10" json:"payment_frequency"`
	Reason           string     `gorm:"type:text" json:"reason"`
	OfferedBy        *uint      `json:"offered_by"`
	OfferedAt        *time.Time `json:"offered_at"`
	RespondedAt      *time.Time `json:"responded_at"`
	Accepted         *bool      `json:"accepted"`
}

// Exists reports whether a counter offer has been recorded
func (o *CounterOffer) Exists() bool {
	return o.OfferedAt != nil
}

// IsPending reports whether an offer awaits the applicant's response
func (o *CounterOffer) IsPending() bool {
	return o.Exists() && o.Accepted == nil
}

// IsAccepted reports whether the applicant accepted the offer
func (o *CounterOffer) IsAccepted() bool {
	return o.Accepted != nil && *o.Accepted
}

// Application is the core credit application entity. Status is only mutated
// through the application service's transition path, and rows are soft
// deleted to preserve the audit trail.
type Application struct {
	ID                  uint    `gorm:"primaryKey" json:"id"`
	TenantID            uint    `gorm:"index;not null" json:"tenant_id"`
	Folio               string  `gorm:"size:40;uniqueIndex;not null" json:"folio"`
	ProductID           uint    `gorm:"not null" json:"product_id"`
	ApplicantID         uint    `gorm:"index;not null" json:"applicant_id"`
	ApplicantType       string  `gorm:"size:20;default:'INDIVIDUAL'" json:"applicant_type"`
	Status              string  `gorm:"size:30;not null;index" json:"status"`
	RequestedAmount     float64 `gorm:"type:decimal(15,2);not null" json:"requested_amount"`
	RequestedTermMonths int     `gorm:"not null" json:"requested_term_months"`
	InterestRate        float64 `gorm:"type:decimal(7,4);not null" json:"interest_rate"`
	PaymentFrequency    string  `gorm:"size:10;not null" json:"payment_frequency"`

	// Terms fixed at approval (differ from requested after a counter offer)
	ApprovedAmount     *float64 `gorm:"type:decimal(15,2)" json:"approved_amount"`
	ApprovedTermMonths *int     `json:"approved_term_months"`
	ApprovedRate       *float64 `gorm:"type:decimal(7,4)" json:"approved_rate"`

	// Derived by the calculation engine at approval
	PeriodicPayment *float64 `gorm:"type:decimal(15,2)" json:"periodic_payment"`
	TotalInterest   *float64 `gorm:"type:decimal(15,2)" json:"total_interest"`
	CAT             *float64 `gorm:"type:decimal(9,4);column:cat" json:"cat"`

	CounterOffer CounterOffer `gorm:"embedded;embeddedPrefix:offer_" json:"counter_offer"`

	RiskLevel      string `gorm:"size:20" json:"risk_level"`
	RiskData       string `gorm:"type:json" json:"risk_data,omitempty"`
	SnapshotData   string `gorm:"type:json" json:"snapshot_data,omitempty"`
	DecisionReason string `gorm:"type:text" json:"decision_reason"`

	SubmittedAt *time.Time `json:"submitted_at"`
	ApprovedAt  *time.Time `json:"approved_at"`
	RejectedAt  *time.Time `json:"rejected_at"`
	DisbursedAt *time.Time `json:"disbursed_at"`
	ClosedAt    *time.Time `json:"closed_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tenant    *Tenant                    `gorm:"foreignKey:TenantID" json:"-"`
	Product   *Product                   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Applicant *Applicant                 `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	History   []ApplicationStatusHistory `gorm:"foreignKey:ApplicationID" json:"history,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// CurrentStatus returns the status as a domain value
func (a *Application) CurrentStatus() domain.ApplicationStatus {
	return domain.ApplicationStatus(a.Status)
}

// EffectiveTerms returns the terms an approval should use: the accepted
// counter offer when present, otherwise the requested terms.
func (a *Application) EffectiveTerms() (amount float64, termMonths int, rate float64, frequency domain.PaymentFrequency) {
	amount = a.RequestedAmount
	termMonths = a.RequestedTermMonths
	rate = a.InterestRate
	frequency = domain.PaymentFrequency(a.PaymentFrequency)

	if a.CounterOffer.IsAccepted() {
		o := a.CounterOffer
		if o.Amount != nil {
			amount = *o.Amount
		}
		if o.TermMonths != nil {
			termMonths = *o.TermMonths
		}
		if o.InterestRate != nil {
			rate = *o.InterestRate
		}
		if o.PaymentFrequency != "" {
			frequency = domain.PaymentFrequency(o.PaymentFrequency)
		}
	}
	return amount, termMonths, rate, frequency
}

// ApplicationResponse DTO
type ApplicationResponse struct {
	ID                  uint          `json:"id"`
	Folio               string        `json:"folio"`
	ProductID           uint          `json:"product_id"`
	ProductName         string        `json:"product_name,omitempty"`
	ApplicantID         uint          `json:"applicant_id"`
	ApplicantName       string        `json:"applicant_name,omitempty"`
	ApplicantType       string        `json:"applicant_type"`
	Status              string        `json:"status"`
	StaffOnlyStatus     bool          `json:"staff_only_status"`
	RequestedAmount     float64       `json:"requested_amount"`
	RequestedTermMonths int           `json:"requested_term_months"`
	InterestRate        float64       `json:"interest_rate"`
	PaymentFrequency    string        `json:"payment_frequency"`
	ApprovedAmount      *float64      `json:"approved_amount,omitempty"`
	ApprovedTermMonths  *int          `json:"approved_term_months,omitempty"`
	ApprovedRate        *float64      `json:"approved_rate,omitempty"`
	PeriodicPayment     *float64      `json:"periodic_payment,omitempty"`
	TotalInterest       *float64      `json:"total_interest,omitempty"`
	CAT                 *float64      `json:"cat,omitempty"`
	CounterOffer        *CounterOffer `json:"counter_offer,omitempty"`
	RiskLevel           string        `json:"risk_level,omitempty"`
	DecisionReason      string        `json:"decision_reason,omitempty"`
	SubmittedAt         *time.Time    `json:"submitted_at"`
	ApprovedAt          *time.Time    `json:"approved_at"`
	DisbursedAt         *time.Time    `json:"disbursed_at"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

func (a *Application) ToResponse() *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:                  a.ID,
		Folio:               a.Folio,
		ProductID:           a.ProductID,
		ApplicantID:         a.ApplicantID,
		ApplicantType:       a.ApplicantType,
		Status:              a.Status,
		StaffOnlyStatus:     a.CurrentStatus().IsStaffOnly(),
		RequestedAmount:     a.RequestedAmount,
		RequestedTermMonths: a.RequestedTermMonths,
		InterestRate:        a.InterestRate,
		PaymentFrequency:    a.PaymentFrequency,
		ApprovedAmount:      a.ApprovedAmount,
		ApprovedTermMonths:  a.ApprovedTermMonths,
		ApprovedRate:        a.ApprovedRate,
		PeriodicPayment:     a.PeriodicPayment,
		TotalInterest:       a.TotalInterest,
		CAT:                 a.CAT,
		RiskLevel:           a.RiskLevel,
		DecisionReason:      a.DecisionReason,
		SubmittedAt:         a.SubmittedAt,
		ApprovedAt:          a.ApprovedAt,
		DisbursedAt:         a.DisbursedAt,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}

	if a.CounterOffer.Exists() {
		offer := a.CounterOffer
		resp.CounterOffer = &offer
	}
	if a.Product != nil {
		resp.ProductName = a.Product.Name
	}
	if a.Applicant != nil {
		resp.ApplicantName = a.Applicant.FullName()
	}

	return resp
}

// ApplicationStatusHistory is the append-only audit trail: exactly one row
// per successful transition, never mutated afterwards.
type ApplicationStatusHistory struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	FromStatus    string    `gorm:"size:30;not null" json:"from_status"`
	ToStatus      string    `gorm:"size:30;not null" json:"to_status"`
	ChangedBy     uint      `gorm:"not null" json:"changed_by"`
	ChangedByType string    `gorm:"size:20;not null" json:"changed_by_type"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	Application *Application `gorm:"foreignKey:ApplicationID" json:"-"`
}

func (ApplicationStatusHistory) TableName() string {
	return "application_status_histories"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Tenant{},
		&User{},
		&RefreshToken{},
		&Product{},
		&Applicant{},
		&Application{},
		&ApplicationStatusHistory{},
	)
}
