package brand

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohib357/mamstar-plan/internal/repo/repotest"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/logger"
)

func TestBrandLifecycle(t *testing.T) {
	svc, err := NewService(NewRepository(repotest.Open(t)), nil, logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()
	inactive := false

	nova, err := svc.Create(ctx, CreateInput{Name: "Nova Wear", Website: "https://nova.example"})
	require.NoError(t, err)
	assert.Equal(t, "nova-wear", nova.Slug)

	_, err = svc.Create(ctx, CreateInput{Name: "Atlas"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "Retired", IsActive: &inactive})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Atlas", list[0].Name)
	assert.Equal(t, "Nova Wear", list[1].Name)

	got, err := svc.Get(ctx, nova.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://nova.example", got.Website)

	_, err = svc.Get(ctx, uuid.New())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateBrandRejections(t *testing.T) {
	svc, err := NewService(NewRepository(repotest.Open(t)), nil, logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Create(ctx, CreateInput{Website: "not a url"})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"name": "required", "website": "must be an absolute URL"}, pkgerrors.FieldDetails(err))

	_, err = svc.Create(ctx, CreateInput{Name: "Relative", Website: "/brands/relative"})
	assert.Equal(t, map[string]string{"website": "must be an absolute URL"}, pkgerrors.FieldDetails(err))

	_, err = svc.Create(ctx, CreateInput{Name: "Atlas"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "Atlas"})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"name": "already in use"}, pkgerrors.FieldDetails(err))
}
