package catalog

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/astrokit/regions/internal/region"
	"github.com/astrokit/regions/pkg/core"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s := NewService(db, nopLogger{})
	require.NoError(t, s.Migrate())
	return s
}

func skyEntry(t *testing.T, name string, s *region.SkyCircle) *Entry {
	t.Helper()
	e, err := EntryFromSky(name, s)
	require.NoError(t, err)
	return e
}

func pixelEntry(t *testing.T, name string, c *region.PixelCircle) *Entry {
	t.Helper()
	e, err := EntryFromPixel(name, c)
	require.NoError(t, err)
	return e
}

func TestSaveAndGetByName_Sky(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	sky := region.NewSkyCircle(
		core.SkyCoord{Lon: 202.47, Lat: 47.19, Frame: core.FrameFK5},
		core.Angle{Value: 30, Unit: core.UnitArcsec},
	)
	sky.Meta["text"] = "M51"
	sky.Visual["color"] = "cyan"

	require.NoError(t, s.Save(ctx, skyEntry(t, "m51", sky)))

	e, err := s.GetByName(ctx, "m51")
	require.NoError(t, err)
	assert.Equal(t, "fk5", e.Frame)

	back, err := e.SkyCircle()
	require.NoError(t, err)
	assert.Equal(t, 202.47, back.Center.Lon)
	assert.Equal(t, 47.19, back.Center.Lat)
	assert.Equal(t, core.FrameFK5, back.Center.Frame)
	assert.Equal(t, 30.0, back.Radius.Value)
	assert.Equal(t, core.UnitArcsec, back.Radius.Unit)
	assert.Equal(t, "M51", back.Meta["text"])
	assert.Equal(t, "cyan", back.Visual["color"])
}

func TestSaveAndGetByName_Pixel(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	pix := region.NewPixelCircle(core.PixCoord{X: 100, Y: 200}, 25)
	require.NoError(t, s.Save(ctx, pixelEntry(t, "knot", pix)))

	e, err := s.GetByName(ctx, "knot")
	require.NoError(t, err)
	assert.Equal(t, FramePixel, e.Frame)

	back, err := e.PixelCircle()
	require.NoError(t, err)
	assert.Equal(t, 100.0, back.Center.X)
	assert.Equal(t, 200.0, back.Center.Y)
	assert.Equal(t, 25.0, back.Radius)

	_, err = e.SkyCircle()
	assert.Error(t, err, "pixel entry must not convert to a sky circle")
}

func TestSave_UpdatesExisting(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	first := region.NewPixelCircle(core.PixCoord{X: 1, Y: 1}, 5)
	require.NoError(t, s.Save(ctx, pixelEntry(t, "target", first)))

	original, err := s.GetByName(ctx, "target")
	require.NoError(t, err)
	require.False(t, original.CreatedAt.IsZero())

	// second save of the same name goes through the name cache
	second := region.NewPixelCircle(core.PixCoord{X: 2, Y: 2}, 9)
	require.NoError(t, s.Save(ctx, pixelEntry(t, "target", second)))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "save by the same name must not duplicate")

	e, err := s.GetByName(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, 9.0, e.RadiusValue)
	assert.WithinDuration(t, original.CreatedAt, e.CreatedAt, time.Second,
		"update must keep the row's creation timestamp")
}

func TestEntryFromPixel_NonFiniteCenterRejected(t *testing.T) {
	c := region.NewPixelCircle(core.PixCoord{X: math.NaN(), Y: 0}, 1)

	_, err := EntryFromPixel("bad", c)
	assert.Error(t, err, "point constructor must reject a NaN coordinate")
}

func TestGetByName_NotFound(t *testing.T) {
	s := newTestService(t)

	_, err := s.GetByName(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestList_OrderedByName(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, s.Save(ctx, pixelEntry(t, name, region.NewPixelCircle(core.PixCoord{}, 1))))
	}

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "mid", entries[1].Name)
	assert.Equal(t, "zeta", entries[2].Name)
}

func TestDelete(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, pixelEntry(t, "gone", region.NewPixelCircle(core.PixCoord{}, 1))))
	require.NoError(t, s.Delete(ctx, "gone"))

	_, err := s.GetByName(ctx, "gone")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.Delete(ctx, "gone")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNameCache_TracksSaves(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, pixelEntry(t, "cached", region.NewPixelCircle(core.PixCoord{}, 1))))

	id, ok := s.names.Get("cached")
	assert.True(t, ok)
	assert.NotZero(t, id)

	require.NoError(t, s.Delete(ctx, "cached"))
	_, ok = s.names.Get("cached")
	assert.False(t, ok)
}

func TestMigrate_SeedsCatalogInfo(t *testing.T) {
	s := newTestService(t)

	var info CatalogInfo
	require.NoError(t, s.db.First(&info).Error)
	assert.Equal(t, "regions", info.Name)

	// second migrate must not add another info row
	require.NoError(t, s.Migrate())
	var n int64
	require.NoError(t, s.db.Model(&CatalogInfo{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
