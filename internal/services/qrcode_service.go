package services

import (
	"context"

	"qrcatalog/internal/domain"
	"qrcatalog/internal/repos"
)

type QRCodeService struct {
	Repo *repos.QRCodeRepo
}

func NewQRCodeService(r *repos.QRCodeRepo) *QRCodeService { return &QRCodeService{Repo: r} }

func (s *QRCodeService) List(ctx context.Context) ([]domain.QRCode, error) {
	return s.Repo.List(ctx)
}

func (s *QRCodeService) Get(ctx context.Context, id int64) (domain.QRCode, error) {
	return s.Repo.Get(ctx, id)
}

func (s *QRCodeService) Create(ctx context.Context, productID int64) (int64, error) {
	return s.Repo.Create(ctx, productID)
}

func (s *QRCodeService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.Repo.Delete(ctx, id)
}
