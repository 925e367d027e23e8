package models

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupStore(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	store := NewStore(db, zap.NewNop())
	require.NoError(t, store.AutoMigrate())
	return store
}

func TestGetOrCreateLayer(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	layer, created, err := store.GetOrCreateLayer(ctx, "rivers", Layer{
		Workspace: "geo",
		Store:     "postgis",
		StoreType: "dataStore",
		TypeName:  "geo:rivers",
		Title:     "Rivers",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "rivers", layer.Name)
	assert.Equal(t, "geo:rivers", layer.TypeName)

	// Second run finds the same record and must not reset fields.
	layer.Title = "Rivers of Europe"
	require.NoError(t, store.SaveLayer(ctx, layer))

	again, created, err := store.GetOrCreateLayer(ctx, "rivers", Layer{Title: "Rivers"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, layer.ID, again.ID)
	assert.Equal(t, "Rivers of Europe", again.Title)
}

func TestGetLayerNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetLayer(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrLayerNotFound)
}

func TestSetDefaultPermissions(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	layer, _, err := store.GetOrCreateLayer(ctx, "roads", Layer{})
	require.NoError(t, err)
	require.NoError(t, store.SetDefaultPermissions(ctx, layer))

	var perms []Permission
	require.NoError(t, store.DB().Where("layer_id = ?", layer.ID).Find(&perms).Error)
	require.Len(t, perms, 2)
	assert.Equal(t, RoleAnonymous, perms[0].Role)
	assert.Equal(t, LevelView, perms[0].Level)
	assert.Equal(t, RoleAdmin, perms[1].Role)
}

func TestLayersMatching(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	seed := []Layer{
		{Name: "rivers", Workspace: "geo", Store: "postgis"},
		{Name: "roads", Workspace: "geo", Store: "shapefiles"},
		{Name: "dem", Workspace: "raster", Store: "geotiff"},
	}
	for i := range seed {
		require.NoError(t, store.DB().Create(&seed[i]).Error)
	}

	all, err := store.LayersMatching(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	geo, err := store.LayersMatching(ctx, "geo", "")
	require.NoError(t, err)
	assert.Len(t, geo, 2)

	scoped, err := store.LayersMatching(ctx, "geo", "postgis")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "rivers", scoped[0].Name)
}

func TestDeleteLayerRemovesDependents(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	layer, _, err := store.GetOrCreateLayer(ctx, "rivers", Layer{Workspace: "geo"})
	require.NoError(t, err)

	style, _, err := store.GetOrCreateStyle(ctx, "rivers_style")
	require.NoError(t, err)
	require.NoError(t, store.SetLayerStyles(ctx, layer, style, []*Style{style}))

	require.NoError(t, store.DB().Create(&Rating{LayerID: layer.ID, User: "alice", Score: 4}).Error)
	require.NoError(t, store.DB().Create(&Comment{LayerID: layer.ID, Author: "bob", Body: "nice"}).Error)
	require.NoError(t, store.DB().Create(&Keyword{LayerID: layer.ID, Keyword: "hydrology"}).Error)
	_, _, err = store.GetOrCreateAttribute(ctx, layer.ID, "name", "xsd:string")
	require.NoError(t, err)

	require.NoError(t, store.DeleteLayer(ctx, layer, true))

	_, err = store.GetLayer(ctx, "rivers")
	assert.ErrorIs(t, err, ErrLayerNotFound)

	for _, dependent := range []any{&Rating{}, &Comment{}, &Keyword{}, &Attribute{}} {
		var n int64
		require.NoError(t, store.DB().Model(dependent).Where("layer_id = ?", layer.ID).Count(&n).Error)
		assert.Zero(t, n)
	}

	// Style records are shared and survive layer deletion.
	var styles int64
	require.NoError(t, store.DB().Model(&Style{}).Count(&styles).Error)
	assert.EqualValues(t, 1, styles)
}

func TestDeleteLayerCascadeHook(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	layer, _, err := store.GetOrCreateLayer(ctx, "rivers", Layer{})
	require.NoError(t, err)

	var hooked []string
	store.PreDelete = func(ctx context.Context, l *Layer) error {
		hooked = append(hooked, l.Name)
		return nil
	}

	require.NoError(t, store.DeleteLayer(ctx, layer, false))
	assert.Equal(t, []string{"rivers"}, hooked)

	layer, _, err = store.GetOrCreateLayer(ctx, "roads", Layer{})
	require.NoError(t, err)

	// A local-only delete must not touch the hook.
	require.NoError(t, store.DeleteLayer(ctx, layer, true))
	assert.Equal(t, []string{"rivers"}, hooked)
}

func TestDeleteLayerHookFailureKeepsRecord(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	layer, _, err := store.GetOrCreateLayer(ctx, "rivers", Layer{})
	require.NoError(t, err)

	store.PreDelete = func(ctx context.Context, l *Layer) error {
		return errors.New("catalog unreachable")
	}

	err = store.DeleteLayer(ctx, layer, false)
	require.Error(t, err)

	_, err = store.GetLayer(ctx, "rivers")
	assert.NoError(t, err)
}

func TestTransactionRollsBack(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx *Store) error {
		if _, _, err := tx.GetOrCreateLayer(ctx, "rivers", Layer{}); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	_, err = store.GetLayer(ctx, "rivers")
	assert.ErrorIs(t, err, ErrLayerNotFound)
}

func TestAttributeRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	layer, _, err := store.GetOrCreateLayer(ctx, "rivers", Layer{})
	require.NoError(t, err)

	attr, created, err := store.GetOrCreateAttribute(ctx, layer.ID, "elevation", "xsd:double")
	require.NoError(t, err)
	assert.True(t, created)

	attr.Label = "Elevation"
	attr.Visible = true
	attr.DisplayOrder = 1
	require.NoError(t, store.SaveAttribute(ctx, attr))

	_, created, err = store.GetOrCreateAttribute(ctx, layer.ID, "elevation", "xsd:double")
	require.NoError(t, err)
	assert.False(t, created)

	n, err := store.CountAttributes(ctx, layer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, store.DeleteAttribute(ctx, attr))
	n, err = store.CountAttributes(ctx, layer.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewStore(gormDB, zap.NewNop()), mock
}

func TestLayersMatchingQuery(t *testing.T) {
	store, mock := setupMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "workspace", "store"}).
		AddRow(1, "rivers", "geo", "postgis")
	mock.ExpectQuery("SELECT \\* FROM `layers` WHERE workspace = \\? AND store = \\?").
		WithArgs("geo", "postgis").
		WillReturnRows(rows)

	layers, err := store.LayersMatching(context.Background(), "geo", "postgis")
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.Equal(t, "rivers", layers[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
