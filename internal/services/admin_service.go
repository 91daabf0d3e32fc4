package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"qrcatalog/internal/domain"
	applog "qrcatalog/internal/log"
	"qrcatalog/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid username or password")

const passwordCost = 10

type AdminService struct {
	Admins *repos.AdminRepo
	TTL    time.Duration
	Now    func() time.Time
}

func NewAdminService(admins *repos.AdminRepo, ttl time.Duration) *AdminService {
	return &AdminService{Admins: admins, TTL: ttl, Now: time.Now}
}

func (s *AdminService) Register(ctx context.Context, username, password string, p domain.AdminProfile) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return 0, err
	}
	return s.Admins.Create(ctx, username, string(hash), p)
}

// Login checks credentials and issues a bearer token valid for TTL.
func (s *AdminService) Login(ctx context.Context, username, password string) (string, *domain.Admin, error) {
	a, err := s.Admins.ByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, ErrBadCreds
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}
	now := s.Now()
	if err := s.Admins.DeleteExpiredSessions(ctx, now); err != nil {
		applog.Error(nil, "auth.session.prune.fail", err, map[string]any{"admin_id": a.ID})
	}

	token := uuid.NewString()
	if err := s.Admins.BindSession(ctx, token, a.ID, now.Add(s.TTL)); err != nil {
		return "", nil, err
	}
	return token, a, nil
}

func (s *AdminService) CurrentAdmin(ctx context.Context, token string) (*domain.Admin, error) {
	return s.Admins.SessionAdmin(ctx, token, s.Now())
}

// UpdateProfile reports whether the admin existed.
func (s *AdminService) UpdateProfile(ctx context.Context, id int64, p domain.AdminProfile) (bool, error) {
	return s.Admins.UpdateProfile(ctx, id, p)
}
