package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	m := NewManager(zerolog.Nop(), "/tmp/backup.gz")

	assert.False(t, m.IsValid)
	assert.Equal(t, DefaultBucketNames, m.BucketNames)
	assert.Equal(t, "/tmp/backup.gz", m.BackupPath)
	assert.NotNil(t, m.Writers)
}

func TestConnect_Disabled(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("influx.enabled", false)

	m := NewManager(zerolog.Nop(), "")
	err := m.Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "influx.enabled is false")
}

func TestWritePoint_NoClientNoBackup(t *testing.T) {
	m := NewManager(zerolog.Nop(), "")

	p := IOPoint("read", "ds9", 3, time.Millisecond)
	err := m.WritePoint(context.Background(), BucketRegionIO, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestIOPoint(t *testing.T) {
	p := IOPoint("write", "ds9", 7, 250*time.Millisecond)

	line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
	assert.True(t, strings.HasPrefix(line, "region_io,"))
	assert.Contains(t, line, "op=write")
	assert.Contains(t, line, "format=ds9")
	assert.Contains(t, line, "regions=7i")
	assert.Contains(t, line, "durationMs=250")
}

func TestConversionPoint(t *testing.T) {
	p := ConversionPoint("fk5", 42.5, 10*time.Millisecond)

	line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
	assert.True(t, strings.HasPrefix(line, "region_conversion,"))
	assert.Contains(t, line, "frame=fk5")
	assert.Contains(t, line, "radiusPixels=42.5")
}

func TestRenderPoint(t *testing.T) {
	p := RenderPoint(12, 5*time.Millisecond)

	line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
	assert.True(t, strings.HasPrefix(line, "region_render"))
	assert.Contains(t, line, "patches=12i")
}
