package cli

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaliamov/ergo-balance/genetic"
	"github.com/sgaliamov/ergo-balance/storage"
)

type line string

func (l line) String() string { return string(l) }

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigDefaults(t *testing.T) {
	c := New("test")
	require.NoError(t, c.Parse(nil))

	config, err := c.Config()
	require.NoError(t, err)
	assert.Equal(t, genetic.DefaultContext(), config.Genetic)
}

func TestConfigFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
[Genetic]
mutations_count = 3
population_size = 50
seed = 7
`)
	c := New("test")
	require.NoError(t, c.Parse([]string{"--config", path, "-p", "20", "--repeats-count=0", "--report-interval", "1s"}))

	config, err := c.Config()
	require.NoError(t, err)
	assert.Equal(t, 3, config.Genetic.MutationsCount, "from the file")
	assert.Equal(t, uint64(7), config.Genetic.Seed, "from the file")
	assert.Equal(t, 20, config.Genetic.PopulationSize, "from the flags")
	assert.Equal(t, 0, config.Genetic.RepeatsCount)
	assert.Equal(t, time.Second, config.Genetic.ReportInterval)
	assert.Equal(t, genetic.DefaultContext().ChildrenCount, config.Genetic.ChildrenCount)
}

func TestConfigErrors(t *testing.T) {
	c := New("test")
	require.NoError(t, c.Parse([]string{"-m", "0"}))
	_, err := c.Config()
	assert.ErrorContains(t, err, "mutations_count")

	c = New("test")
	require.NoError(t, c.Parse([]string{"--config", filepath.Join(t.TempDir(), "missing.ini")}))
	_, err = c.Config()
	assert.Error(t, err)

	assert.Error(t, New("test").Parse([]string{"--unknown"}))
}

func TestParseKlogFlags(t *testing.T) {
	c := New("test")
	require.NoError(t, c.Parse([]string{"-v", "2"}))
	assert.Equal(t, "2", c.Flags.Lookup("v").Value.String())
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := writeConfig(t, "[Storage]\nkind = file\npath = "+filepath.Join(dir, "results")+"\n")

	c := New("test")
	require.NoError(t, c.Parse([]string{"--config", path}))
	config, err := c.Config()
	require.NoError(t, err)

	store, err := c.Store(ctx, config)
	require.NoError(t, err)
	require.IsType(t, &storage.FileStore{}, store)
	require.NoError(t, store.SaveResults(ctx, "letters", []string{"a"}))
	assert.FileExists(t, filepath.Join(dir, "results", "letters.csv"))

	c = New("test")
	require.NoError(t, c.Parse([]string{"--config", path, "--store", "memory"}))
	config, err = c.Config()
	require.NoError(t, err)
	store, err = c.Store(ctx, config)
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, store)

	c = New("test")
	require.NoError(t, c.Parse([]string{"--store", "tape"}))
	config, err = c.Config()
	require.NoError(t, err)
	_, err = c.Store(ctx, config)
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	ctx := context.Background()

	c := New("test")
	require.NoError(t, c.Parse([]string{"--checkpoint", "run.ckpt"}))
	options, stop, err := Options[line](ctx, c)
	require.NoError(t, err)
	defer stop()
	assert.Equal(t, "run.ckpt", options.Checkpoint)
	assert.Len(t, options.Reporters, 1)
	assert.Empty(t, options.Observers)

	c = New("test")
	require.NoError(t, c.Parse([]string{"-q"}))
	options, stop, err = Options[line](ctx, c)
	require.NoError(t, err)
	defer stop()
	assert.Empty(t, options.Reporters)
}

func TestServeMetricsBadAddress(t *testing.T) {
	_, err := serveMetrics(context.Background(), "bad address", prometheus.NewRegistry())
	assert.Error(t, err)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func TestMetricsEndpoint(t *testing.T) {
	ctx := context.Background()
	addr := freeAddr(t)
	c := New("test")
	require.NoError(t, c.Parse([]string{"-q", "--metrics-addr", addr}))

	options, stop, err := Options[line](ctx, c)
	require.NoError(t, err)
	defer stop()
	options.Observers[0].ObserveGeneration(ctx, genetic.GenerationStats{PopulationSize: 4})

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ergo_balance_population_size 4")
}
