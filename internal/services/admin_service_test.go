package services_test

import (
	"context"
	"testing"
	"time"

	"qrcatalog/internal/domain"
	"qrcatalog/internal/repos"
	"qrcatalog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginDistinguishesBadCredsFromStoreErrors(t *testing.T) {
	db := openSQLite(t)
	svc := services.NewAdminService(repos.NewAdminRepo(db), time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "admin1", "S3cretPass!", domain.AdminProfile{})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ghost", "S3cretPass!")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, _, err = svc.Login(ctx, "admin1", "wrong-pass")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	token, a, err := svc.Login(ctx, "admin1", "S3cretPass!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	current, err := svc.CurrentAdmin(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, a.ID, current.ID)

	require.NoError(t, db.Close())
	_, _, err = svc.Login(ctx, "admin1", "S3cretPass!")
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrBadCreds)
}
