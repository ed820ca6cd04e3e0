package handlers

import (
	"rms/internal/config"
	"rms/internal/repos"
	"rms/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	DB              *sqlx.DB
	ProductHandler  *ProductHandler
	SupplierHandler *SupplierHandler
	CustomerHandler *CustomerHandler
	SaleHandler     *SaleHandler
	ReportHandler   *ReportHandler
	AuthHandler     *AuthHandler
	PageHandler     *PageHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	custRepo := repos.NewCustomerRepo(db)
	reportRepo := repos.NewReportRepo(db)

	catalogSvc := services.NewCatalogService(db)
	supplierSvc := services.NewSupplierService(db)
	customerSvc := services.NewCustomerService(custRepo)
	saleSvc := services.NewSaleService(db, cfg.TaxRate)
	reportSvc := services.NewReportService(reportRepo, prodRepo)

	return &Deps{
		DB:              db,
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		SupplierHandler: &SupplierHandler{Suppliers: supplierSvc},
		CustomerHandler: &CustomerHandler{Customers: customerSvc},
		SaleHandler:     &SaleHandler{Sales: saleSvc},
		ReportHandler:   &ReportHandler{Reports: reportSvc},
		AuthHandler:     &AuthHandler{Auth: auth},
		PageHandler:     &PageHandler{TaxRate: cfg.TaxRate},
	}
}
