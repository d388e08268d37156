package config

import (
	"log"

	"prestamax/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SeedMasterData seeds the demo tenant and its loan products
func SeedMasterData(db *gorm.DB) error {
	tenant, err := seedDemoTenant(db)
	if err != nil {
		return err
	}

	if err := seedProducts(db, tenant.ID); err != nil {
		return err
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

func seedDemoTenant(db *gorm.DB) (*models.Tenant, error) {
	var tenant models.Tenant
	err := db.Where("code = ?", "DEMO").First(&tenant).Error
	if err == nil {
		return &tenant, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	tenant = models.Tenant{
		Code:     "DEMO",
		Name:     "Financiera Demo",
		IsActive: true,
	}
	if err := db.Create(&tenant).Error; err != nil {
		return nil, err
	}
	log.Printf("   Created tenant: %s", tenant.Name)
	return &tenant, nil
}

func seedProducts(db *gorm.DB, tenantID uint) error {
	products := []models.Product{
		{
			TenantID:              tenantID,
			Code:                  "PERSONAL",
			Name:                  "Crédito Personal",
			Description:           "Crédito de libre destino para gastos personales",
			MinAmount:             5000,
			MaxAmount:             300000,
			MinTermMonths:         3,
			MaxTermMonths:         48,
			AnnualRate:            45.0,
			OpeningCommissionRate: 3.0,
			AllowedFrequencies:    "WEEKLY,BIWEEKLY,MONTHLY",
			IsActive:              true,
		},
		{
			TenantID:              tenantID,
			Code:                  "NOMINA",
			Name:                  "Crédito de Nómina",
			Description:           "Crédito con descuento vía nómina para empleados",
			MinAmount:             10000,
			MaxAmount:             500000,
			MinTermMonths:         6,
			MaxTermMonths:         60,
			AnnualRate:            32.0,
			OpeningCommissionRate: 2.0,
			AllowedFrequencies:    "BIWEEKLY,MONTHLY",
			IsActive:              true,
		},
		{
			TenantID:              tenantID,
			Code:                  "MICRO",
			Name:                  "Microcrédito",
			Description:           "Crédito de montos pequeños y plazos cortos",
			MinAmount:             1000,
			MaxAmount:             30000,
			MinTermMonths:         1,
			MaxTermMonths:         12,
			AnnualRate:            60.0,
			OpeningCommissionRate: 4.0,
			AllowedFrequencies:    "WEEKLY,BIWEEKLY",
			IsActive:              true,
		},
	}

	for _, p := range products {
		var existing models.Product
		err := db.Where("tenant_id = ? AND code = ?", tenantID, p.Code).First(&existing).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&p).Error; err != nil {
					return err
				}
				log.Printf("   Created product: %s", p.Name)
			} else {
				return err
			}
		}
	}
	return nil
}
