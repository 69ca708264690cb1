package cmd

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/olivierh59500/particle-life-field/internal/config"
	"github.com/olivierh59500/particle-life-field/internal/mood"
	"github.com/olivierh59500/particle-life-field/internal/observability"
)

func resetLogger(t *testing.T) {
	t.Helper()
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "particlefield.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInitializeMergesFileAndFlags(t *testing.T) {
	resetLogger(t)
	path := writeConfig(t, `
[simulation]
particles = 900

[cursor]
shape = "square"
`)
	a := &app{v: viper.New(), cfgFile: path}
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	addRunFlags(fs)
	require.NoError(t, fs.Parse([]string{"--particles", "42", "--mood-source", "synth"}))

	require.NoError(t, a.initialize(fs))
	assert.Equal(t, 42, a.cfg.Simulation.Particles, "explicit flag wins over the file")
	assert.Equal(t, "square", a.cfg.Cursor.Shape)
	assert.Equal(t, config.SourceSynth, a.cfg.Mood.Source)
	assert.Equal(t, 6, a.cfg.Simulation.NumTypes, "unset flag keeps the default")
}

func TestInitializeRejectsInvalidConfig(t *testing.T) {
	resetLogger(t)
	path := writeConfig(t, "[cursor]\nshape = \"hexagon\"\n")
	a := &app{v: viper.New(), cfgFile: path}

	err := a.initialize(pflag.NewFlagSet("x", pflag.ContinueOnError))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestInitializeMissingExplicitFile(t *testing.T) {
	resetLogger(t)
	a := &app{v: viper.New(), cfgFile: filepath.Join(t.TempDir(), "absent.toml")}
	assert.Error(t, a.initialize(pflag.NewFlagSet("x", pflag.ContinueOnError)))
}

func TestMoodSource(t *testing.T) {
	cfg := config.NewDefaultConfig()

	src, err := moodSource(cfg)
	require.NoError(t, err)
	assert.IsType(t, &mood.BridgeClient{}, src)

	cfg.Mood.Source = config.SourceSynth
	src, err = moodSource(cfg)
	require.NoError(t, err)
	assert.IsType(t, &mood.Synth{}, src)

	cfg.Mood.Source = config.SourceDefault
	src, err = moodSource(cfg)
	require.NoError(t, err)
	assert.Nil(t, src)

	cfg.Mood.Source = "carrier-pigeon"
	_, err = moodSource(cfg)
	assert.Error(t, err)
}

func TestStartFeedPublishesAndStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := config.NewDefaultConfig()
	cfg.Mood.Source = config.SourceSynth
	cfg.Mood.ModelsURL = ""
	cfg.Mood.Interval = 5 * time.Millisecond
	store := mood.NewStore()

	stop, err := startFeed(context.Background(), cfg, store, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return store.Snapshot().Connected }, time.Second, 5*time.Millisecond)
	stop()
}

func TestServeBridge(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	synth := mood.NewSynth(mood.Layered, time.Now(), 1, nil)
	logger := zaptest.NewLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, mood.NewBridgeHandler(synth, logger), time.Second, logger) }()

	client := &http.Client{Timeout: time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + mood.StatePath)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	st, err := mood.Decode(body)
	require.NoError(t, err)
	assert.NotEmpty(t, st.Mood)

	client.CloseIdleConnections()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bridge did not shut down")
	}
}

func TestModelsCommand(t *testing.T) {
	resetLogger(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"llama-3.2-3b-instruct","owned_by":"meta"},{"id":"phi-3-mini"}]}`))
	}))
	defer srv.Close()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"models", "--models-url", srv.URL, "--use-case", "speed", "--log-level", "error"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "llama-3.2-3b-instruct")
	assert.Contains(t, out.String(), "Llama")
	assert.Contains(t, out.String(), "recommended for speed: phi-3-mini")
}

func TestModelsCommandFailure(t *testing.T) {
	resetLogger(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"models", "--models-url", srv.URL, "--log-level", "error"})
	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing models")
}

func TestVersionFlag(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, Version+"\n", out.String())
}
