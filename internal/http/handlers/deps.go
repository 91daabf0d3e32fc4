package handlers

import (
	"qrcatalog/internal/artifacts"
	"qrcatalog/internal/config"
	"qrcatalog/internal/repos"
	"qrcatalog/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ProductHandler *ProductHandler
	QRCodeHandler  *QRCodeHandler
	AdminHandler   *AdminHandler
	AuthHandler    *AuthHandler
	AdminService   *services.AdminService
}

func NewDeps(db *sqlx.DB, cfg config.Config) (*Deps, error) {
	store, err := artifacts.NewFileStore(cfg.QRDir)
	if err != nil {
		return nil, err
	}

	prodRepo := repos.NewProductRepo(db)
	qrRepo := repos.NewQRCodeRepo(db)
	adminRepo := repos.NewAdminRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	qrSvc := services.NewQRCodeService(qrRepo)
	adminSvc := services.NewAdminService(adminRepo, cfg.SessionTTL)
	creator := services.NewProductCreator(repos.NewSQLPool(db), store, cfg.QRBaseURL, cfg.QRSize)

	return &Deps{
		ProductHandler: &ProductHandler{
			Catalog:       catalogSvc,
			Creator:       creator,
			Artifacts:     store,
			PublicBaseURL: cfg.PublicBaseURL,
			QRSize:        cfg.QRSize,
			Timeout:       cfg.RequestTimeout,
		},
		QRCodeHandler: &QRCodeHandler{QRs: qrSvc},
		AdminHandler:  &AdminHandler{Admins: adminSvc, UploadDir: cfg.UploadDir},
		AuthHandler:   &AuthHandler{Admins: adminSvc, UploadDir: cfg.UploadDir},
		AdminService:  adminSvc,
	}, nil
}
