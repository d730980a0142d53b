// Package webd is the HTTP face of stopd: feeds come in over POST,
// stoppages and run reports go out as JSON, and connected websocket
// clients hear about every completed run.
package webd

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/olahol/melody"
	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/state"
	"github.com/rotblauer/stopd/types/stoppage"
)

type WebDaemon struct {
	Config         *params.WebDaemonConfig
	logger         *slog.Logger
	started        time.Time
	melodyInstance *melody.Melody
	feedDetected   event.FeedOf[[]stoppage.Stoppage]
}

func NewWebDaemon(config *params.WebDaemonConfig) (*WebDaemon, error) {
	if config == nil {
		config = params.DefaultWebDaemonConfig()
	}
	// Fail now, not on the first run, if state can't open.
	rs, err := state.NewRunState(config.DataDir, false)
	if err != nil {
		return nil, err
	}
	if err := rs.Close(); err != nil {
		return nil, err
	}
	return &WebDaemon{
		Config:       config,
		logger:       slog.With("d", "web"),
		started:      time.Now(),
		feedDetected: event.FeedOf[[]stoppage.Stoppage]{},
	}, nil
}

// Run starts the HTTP server and waits for it, returning any server
// error.
func (s *WebDaemon) Run() error {
	router := s.NewRouter()
	listener, err := net.Listen(s.Config.Network, s.Config.Address)
	if err != nil {
		return err
	}
	s.logger.Info("Starting web daemon", "network", s.Config.Network, "address", s.Config.Address)
	return http.Serve(listener, router)
}

func (s *WebDaemon) NewRouter() *mux.Router {
	s.initMelody()

	router := mux.NewRouter().StrictSlash(false)
	router.Use(loggingMiddleware)

	router.Path("/socket").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = s.melodyInstance.HandleRequest(w, r)
	})

	apiRoutes := router.NewRoute().Subrouter()

	// All API routes use permissive CORS settings.
	apiRoutes.Use(permissiveCorsMiddleware)

	// /ping is a simple server healthcheck endpoint
	apiRoutes.Path("/ping").HandlerFunc(pingPong)

	apiJSONRoutes := apiRoutes.NewRoute().Subrouter()
	jsonMiddleware := contentTypeMiddlewareFunc("application/json")
	apiJSONRoutes.Use(jsonMiddleware)

	apiJSONRoutes.Path("/status").HandlerFunc(s.statusReport).Methods(http.MethodGet)
	apiJSONRoutes.Path("/params").HandlerFunc(s.handleParams).Methods(http.MethodGet)
	apiJSONRoutes.Path("/last").HandlerFunc(s.handleLastRun).Methods(http.MethodGet)

	authenticatedAPIRoutes := apiJSONRoutes.NewRoute().Subrouter()
	authenticatedAPIRoutes.Use(tokenAuthenticationMiddleware)

	authenticatedAPIRoutes.Path("/detect").HandlerFunc(s.handleDetect).Methods(http.MethodPost)
	authenticatedAPIRoutes.Path("/compare").HandlerFunc(s.handleCompare).Methods(http.MethodPost)

	return router
}
