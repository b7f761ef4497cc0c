package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/gather/pkg/util"
)

func writeCsv(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "orders.csv")
	data := "1,first order with a long comment,10.25\n" +
		"2,second,3.50\n" +
		"3,third order with a long comment,\n" +
		"4,fourth,7.00\n" +
		"5,fifth order with a long comment,1.00\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func testConfig(path string) *util.Config {
	cfg := util.DefaultConfig()
	cfg.Input.Path = path
	cfg.Input.Format = "csv"
	cfg.Input.ChunkRows = 2
	cfg.Input.Columns = []util.ColumnOptions{
		{Name: "id", Type: "integer"},
		{Name: "comment", Type: "varchar"},
		{Name: "total", Type: "decimal", Width: 8, Scale: 2},
	}
	return cfg
}

func TestRun(t *testing.T) {
	path := writeCsv(t)
	for _, bits := range []int{16, 24, 32} {
		for _, pattern := range []string{"identity", "reverse", "stride", "random"} {
			cfg := testConfig(path)
			cfg.Gather.ChunkBits = bits
			cfg.Address.Pattern = pattern
			cfg.Address.Stride = 2
			cfg.Gather.Parallel = bits == 24
			cfg.Gather.CompactViews = bits == 32
			cfg.Debug.PrintResult = true
			assert.NoError(t, Run(cfg), "%d %s", bits, pattern)
		}
	}

	cfg := testConfig(path)
	cfg.Address.NullEvery = 2
	cfg.Gather.Checked = true
	cfg.Debug.PrintSchema = true
	assert.NoError(t, Run(cfg))

	cfg.Gather.ChunkBits = 20
	assert.Error(t, Run(cfg))
}

func TestConfigCmd(t *testing.T) {
	buf := &bytes.Buffer{}
	configCmd.SetOut(buf)
	require.NoError(t, configCmd.RunE(configCmd, nil))
	assert.Contains(t, buf.String(), "[gather]")
	assert.Contains(t, buf.String(), "chunkBits = 24")
}
