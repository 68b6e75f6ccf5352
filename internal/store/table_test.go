package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"building-registry/internal/model"
	"building-registry/internal/store"
	"building-registry/internal/store/storetest"
)

func ptr(s string) *string { return &s }

func TestTable_AddStampsTimestamps(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	stored, err := db.Buildings().Add(ctx, model.Building{Name: "가나빌", Location: "마곡"})
	require.NoError(t, err)

	assert.NotEmpty(t, stored.ID)
	assert.NotEmpty(t, stored.CreatedAt)
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)

	got, ok, err := db.Buildings().GetByID(ctx, stored.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stored, got)
}

func TestTable_AddKeepsSuppliedIdentity(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	in := model.Building{Record: model.Record{ID: "b-1", CreatedAt: "2023-01-01T00:00:00.000Z"}, Name: "나루빌"}
	stored, err := db.Buildings().Add(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, "b-1", stored.ID)
	assert.Equal(t, "2023-01-01T00:00:00.000Z", stored.CreatedAt)
	assert.NotEqual(t, stored.CreatedAt, stored.UpdatedAt)
}

func TestTable_AddDuplicateKey(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	_, err := db.Buildings().Add(ctx, model.Building{Record: model.Record{ID: "b-1"}, Name: "A"})
	require.NoError(t, err)

	_, err = db.Buildings().Add(ctx, model.Building{Record: model.Record{ID: "b-1"}, Name: "B"})
	assert.ErrorIs(t, err, store.ErrDuplicateKey)

	all, err := db.Buildings().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "A", all[0].Name)
}

func TestTable_GetByIDMissing(t *testing.T) {
	db := storetest.Open(t)

	_, ok, err := db.Buildings().GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTable_UpdateRefreshesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	stored, err := db.Buildings().Add(ctx, model.Building{Name: "가나빌"})
	require.NoError(t, err)

	stored.Floors = 5
	first, err := db.Buildings().Update(ctx, stored)
	require.NoError(t, err)
	second, err := db.Buildings().Update(ctx, first)
	require.NoError(t, err)

	assert.Greater(t, first.UpdatedAt, stored.UpdatedAt)
	assert.Greater(t, second.UpdatedAt, first.UpdatedAt)
	assert.Equal(t, stored.CreatedAt, second.CreatedAt)

	got, ok, err := db.Buildings().GetByID(ctx, stored.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, got.Floors)
	assert.Equal(t, second.UpdatedAt, got.UpdatedAt)
}

func TestTable_UpdateKeepsStoredCreatedAt(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	stored, err := db.Buildings().Add(ctx, model.Building{Name: "가나빌"})
	require.NoError(t, err)

	stored.CreatedAt = ""
	updated, err := db.Buildings().Update(ctx, stored)
	require.NoError(t, err)

	got, _, err := db.Buildings().GetByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, updated.CreatedAt)
	assert.Equal(t, updated.CreatedAt, got.CreatedAt)
}

func TestTable_UpdateIgnoresForgedCreatedAt(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	stored, err := db.Buildings().Add(ctx, model.Building{Name: "가나빌"})
	require.NoError(t, err)

	forged := stored
	forged.CreatedAt = "1999-01-01T00:00:00.000Z"
	updated, err := db.Buildings().Update(ctx, forged)
	require.NoError(t, err)
	assert.Equal(t, stored.CreatedAt, updated.CreatedAt)

	got, _, err := db.Buildings().GetByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.CreatedAt, got.CreatedAt)
}

func TestTable_UpdateUpsertKeepsGivenCreatedAt(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	in := model.Property{Record: model.Record{ID: "p-1", CreatedAt: "2023-01-01T00:00:00.000Z"}, PropertyName: "가나빌 101"}
	_, err := db.Properties().Update(ctx, in)
	require.NoError(t, err)

	got, ok, err := db.Properties().GetByID(ctx, "p-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2023-01-01T00:00:00.000Z", got.CreatedAt)
}

func TestTable_UpdateUpserts(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	_, err := db.Buildings().Update(ctx, model.Building{Record: model.Record{ID: "b-9"}, Name: "다나빌"})
	require.NoError(t, err)

	got, ok, err := db.Buildings().GetByID(ctx, "b-9")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "다나빌", got.Name)
	assert.NotEmpty(t, got.CreatedAt)
}

func TestTable_UpdateRequiresID(t *testing.T) {
	db := storetest.Open(t)

	_, err := db.Buildings().Update(context.Background(), model.Building{Name: "x"})
	assert.ErrorIs(t, err, store.ErrOperationFailed)
}

func TestTable_RemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	stored, err := db.Buildings().Add(ctx, model.Building{Name: "가나빌"})
	require.NoError(t, err)

	require.NoError(t, db.Buildings().Remove(ctx, stored.ID))
	require.NoError(t, db.Buildings().Remove(ctx, stored.ID))
	require.NoError(t, db.Buildings().Remove(ctx, "never-existed"))

	all, err := db.Buildings().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTable_AddMultiple(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	stored, err := db.Buildings().AddMultiple(ctx, []model.Building{{Name: "A"}, {Name: "B"}, {Name: "C"}})
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, b := range stored {
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, b.CreatedAt, b.UpdatedAt)
	}

	all, err := db.Buildings().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTable_AddMultipleIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	batch := []model.Building{
		{Record: model.Record{ID: "dup"}, Name: "A"},
		{Name: "B"},
		{Record: model.Record{ID: "dup"}, Name: "C"},
	}
	_, err := db.Buildings().AddMultiple(ctx, batch)
	assert.ErrorIs(t, err, store.ErrTransactionFailed)

	all, err := db.Buildings().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTable_AddMultipleEmpty(t *testing.T) {
	db := storetest.Open(t)

	stored, err := db.Buildings().AddMultiple(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestTable_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	_, err := db.Buildings().AddMultiple(ctx, []model.Building{{Name: "old-1"}, {Name: "old-2"}})
	require.NoError(t, err)

	stored, err := db.Buildings().ReplaceAll(ctx, []model.Building{{Name: "new"}})
	require.NoError(t, err)
	require.Len(t, stored, 1)

	all, err := db.Buildings().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "new", all[0].Name)
}

func TestTable_ReplaceAllRollsBack(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	_, err := db.Buildings().AddMultiple(ctx, []model.Building{{Name: "old-1"}, {Name: "old-2"}})
	require.NoError(t, err)

	_, err = db.Buildings().ReplaceAll(ctx, []model.Building{
		{Record: model.Record{ID: "dup"}, Name: "A"},
		{Record: model.Record{ID: "dup"}, Name: "B"},
	})
	assert.ErrorIs(t, err, store.ErrTransactionFailed)

	all, err := db.Buildings().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTable_ClearAll(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	_, err := db.Buildings().AddMultiple(ctx, []model.Building{{Name: "A"}, {Name: "B"}})
	require.NoError(t, err)

	require.NoError(t, db.Buildings().ClearAll(ctx))
	require.NoError(t, db.Buildings().ClearAll(ctx))

	all, err := db.Buildings().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTable_PropertyRentalStatus(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	leased, err := db.Properties().Add(ctx, model.Property{
		PropertyName: "가나빌 101",
		Price:        30000,
		RentalStatus: &model.RentalStatus{Name: "카페", Rent: 150, Premium: 2000, OperatorPhone: "010-1234-5678"},
	})
	require.NoError(t, err)
	vacant, err := db.Properties().Add(ctx, model.Property{PropertyName: "가나빌 102"})
	require.NoError(t, err)

	got, _, err := db.Properties().GetByID(ctx, leased.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RentalStatus)
	assert.Equal(t, *leased.RentalStatus, *got.RentalStatus)
	assert.True(t, got.Leased())

	got, _, err = db.Properties().GetByID(ctx, vacant.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RentalStatus)
	assert.False(t, got.Leased())
}

func TestTable_Query(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	_, err := db.Properties().AddMultiple(ctx, []model.Property{
		{PropertyName: "p1", BuildingID: ptr("b-1"), Category: "매매", ReceivedDate: "2024-01-01"},
		{PropertyName: "p2", BuildingID: ptr("b-1"), Category: "임대", ReceivedDate: "2024-03-01"},
		{PropertyName: "p3", BuildingID: ptr("b-2"), Category: "매매", ReceivedDate: "2024-02-01"},
		{PropertyName: "p4", BuildingID: ptr("b-1"), Category: "매매"},
	})
	require.NoError(t, err)

	got, err := db.Properties().Query(ctx, map[string]any{"building_id": "b-1"})
	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.PropertyName)
	}
	assert.Equal(t, []string{"p2", "p1", "p4"}, names)

	got, err = db.Properties().Query(ctx, map[string]any{"building_id": "b-1", "category": "매매"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = db.Properties().Query(ctx, map[string]any{"owner": "x"})
	assert.ErrorIs(t, err, store.ErrOperationFailed)
}

func TestTable_QueryBuildingsByLocation(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	_, err := db.Buildings().AddMultiple(ctx, []model.Building{
		{Name: "B", Location: "마곡", Type: "오피스텔"},
		{Name: "A", Location: "마곡", Type: "상업용"},
		{Name: "C", Location: "발산", Type: "오피스텔"},
	})
	require.NoError(t, err)

	got, err := db.Buildings().Query(ctx, map[string]any{"location": "마곡"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "B", got[1].Name)
}

func TestTable_WriteRejected(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)

	sqlDB, err := db.Gorm().DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = db.Buildings().Add(ctx, model.Building{Name: "A"})
	assert.ErrorIs(t, err, store.ErrOperationFailed)

	_, err = db.Buildings().AddMultiple(ctx, []model.Building{{Name: "A"}})
	assert.ErrorIs(t, err, store.ErrTransactionFailed)

	_, err = db.Buildings().GetAll(ctx)
	assert.ErrorIs(t, err, store.ErrOperationFailed)
}
