package service_test

import (
	"context"
	"testing"

	"github.com/fridgechef/backend/internal/apperr"
	"github.com/fridgechef/backend/internal/service"
	"github.com/fridgechef/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPantryService(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	testhelpers.CreateUser(t, db, "chef")
	svc := service.NewPantryService(db)
	ctx := context.Background()

	names, err := svc.GetIngredients(ctx, "chef")
	require.NoError(t, err)
	assert.Empty(t, names)

	stored, err := svc.ReplaceIngredients(ctx, "chef", []string{" 김치 ", "밥", "", "김치", "대파"})
	require.NoError(t, err)
	assert.Equal(t, []string{"김치", "밥", "대파"}, stored)

	names, err = svc.GetIngredients(ctx, "chef")
	require.NoError(t, err)
	assert.Equal(t, []string{"김치", "밥", "대파"}, names)

	_, err = svc.ReplaceIngredients(ctx, "chef", []string{"두부"})
	require.NoError(t, err)
	names, err = svc.GetIngredients(ctx, "chef")
	require.NoError(t, err)
	assert.Equal(t, []string{"두부"}, names)
}

func TestPantryServiceRemove(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	testhelpers.CreateUser(t, db, "chef")
	svc := service.NewPantryService(db)
	ctx := context.Background()

	_, err := svc.ReplaceIngredients(ctx, "chef", []string{"김치", "밥", "대파"})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveIngredient(ctx, "chef", "밥"))
	names, err := svc.GetIngredients(ctx, "chef")
	require.NoError(t, err)
	assert.Equal(t, []string{"김치", "대파"}, names)

	require.NoError(t, svc.RemoveIngredient(ctx, "chef", ""))
	names, err = svc.GetIngredients(ctx, "chef")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestPantryServiceUnknownUser(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := service.NewPantryService(db)

	_, err := svc.GetIngredients(context.Background(), "ghost")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.ReplaceIngredients(context.Background(), "", []string{"김치"})
	assert.True(t, apperr.Is(err, apperr.KindInput))
}
