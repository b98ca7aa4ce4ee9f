package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rzbill/interticle/pkg/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, snowflake.Epoch, cfg.EpochMs)
	assert.Equal(t, "origin", cfg.Layout)
	assert.Equal(t, 100, cfg.ListLimit)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "interticle.json")
	data := []byte(`{"originId":12,"httpAddr":":9090","log":{"level":"debug"}}`)
	require.NoError(t, os.WriteFile(file, data, 0644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, uint16(12), cfg.OriginID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":50051", cfg.GRPCAddr, "unset keys keep defaults")
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "interticle.yaml")
	data := []byte("layout: datacenter\ndatacenterId: 3\nworkerId: 9\nfsync: never\n")
	require.NoError(t, os.WriteFile(file, data, 0644))

	cfg, err := Load(file)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "datacenter", cfg.Layout)
	assert.Equal(t, uint8(3), cfg.DatacenterID)
	assert.Equal(t, uint8(9), cfg.WorkerID)

	g, err := cfg.NewGenerator()
	require.NoError(t, err)
	assert.Equal(t, snowflake.LayoutDatacenter, g.Layout())
	assert.Equal(t, uint16(3<<5|9), g.Origin())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.OriginID = 1024
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Layout = "datacenter"
	cfg.WorkerID = 40
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Layout = "zone"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Fsync = "sometimes"
	assert.Error(t, cfg.Validate())

	_, err := cfg.NewGenerator()
	assert.Error(t, err)
}
