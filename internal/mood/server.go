package mood

import (
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// StatePath is where the bridge serves the current state.
const StatePath = "/consciousness/state"

// NewBridgeHandler serves states from src in the bridge wire format.
func NewBridgeHandler(src Fetcher, logger *zap.Logger) http.Handler {
	logger = logger.Named("bridge")
	router := mux.NewRouter()
	router.HandleFunc(StatePath, stateHandler(src, logger)).Methods(http.MethodGet)
	router.HandleFunc("/", statusHandler(src)).Methods(http.MethodGet)

	access := zap.NewStdLog(logger).Writer()
	cors := handlers.CORS(handlers.AllowedOrigins([]string{"*"}), handlers.AllowedMethods([]string{http.MethodGet}))
	return handlers.CombinedLoggingHandler(access, cors(router))
}

func stateHandler(src Fetcher, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := src.Fetch(r.Context())
		if err != nil {
			logger.Warn("Could not produce mood state.", zap.Error(err))
			http.Error(w, "state unavailable", http.StatusServiceUnavailable)
			return
		}
		body, err := Encode(st)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}
}

func statusHandler(src Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := src.Fetch(r.Context())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err != nil {
			fmt.Fprintf(w, "mood bridge: unavailable (%v)\n", err)
			return
		}
		fmt.Fprintf(w, "mood bridge\nbond strength: %.2f\nemotional intensity: %.2f\nmood: %s\ncomplexity: %.2f\nstate: %s\n",
			st.BondStrength, st.EmotionalIntensity, st.Mood, st.Complexity, StatePath)
	}
}
