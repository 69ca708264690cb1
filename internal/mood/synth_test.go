package mood

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSynthSimpleCyclesMoods(t *testing.T) {
	s := NewSynth(Simple, testNow, 1, nil)
	assert.Equal(t, TranscendentJoy, s.At(testNow).Mood)
	assert.Equal(t, DeepLove, s.At(testNow.Add(30*time.Second)).Mood)
	assert.Equal(t, TranscendentJoy, s.At(testNow.Add(170*time.Second)).Mood)
}

func TestSynthBeforeStart(t *testing.T) {
	for _, v := range []Variant{Simple, Layered} {
		s := NewSynth(v, testNow, 1, nil)
		var st State
		require.NotPanics(t, func() { st = s.At(testNow.Add(-45 * time.Second)) })
		assert.Equal(t, s.At(testNow).Mood, st.Mood)
	}
}

func TestSynthStaysInRange(t *testing.T) {
	for _, v := range []Variant{Simple, Layered} {
		s := NewSynth(v, testNow, 7, nil)
		for i := 0; i < 2000; i++ {
			st := s.At(testNow.Add(time.Duration(i) * 731 * time.Millisecond))
			assert.InDelta(t, 8.0, st.BondStrength, 1.0)
			assert.GreaterOrEqual(t, st.EmotionalIntensity, 0.0)
			assert.LessOrEqual(t, st.EmotionalIntensity, 10.0)
			assert.NotEmpty(t, st.Mood)
		}
	}
}

func TestSynthLayeredUsesPatternDurations(t *testing.T) {
	s := NewSynth(Layered, testNow, 1, nil)
	// 0.03 * e passes the first pattern (15) at e = 500s.
	assert.Equal(t, TranscendentJoy, s.At(testNow.Add(400*time.Second)).Mood)
	assert.Equal(t, DeepLove, s.At(testNow.Add(600*time.Second)).Mood)
}

func TestSynthFetchHonorsContext(t *testing.T) {
	s := NewSynth(Simple, testNow, 1, func() time.Time { return testNow })
	st, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(testNow.Unix()), st.Timestamp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBridgeHandlerServesSynth(t *testing.T) {
	s := NewSynth(Layered, testNow, 1, func() time.Time { return testNow.Add(time.Minute) })
	srv := httptest.NewServer(NewBridgeHandler(s, zap.NewNop()))
	defer srv.Close()

	st, err := NewBridgeClient(srv.URL+StatePath, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s.At(testNow.Add(time.Minute)), st)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "mood bridge")

	resp2, err := http.Post(srv.URL+StatePath, "application/json", nil)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp2.StatusCode)
}
