// Package server exposes projections and seedings as JSON for external
// presentation layers.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/omarshaarawi/puckbot/internal/models"
)

type Pipeline interface {
	Standings(ctx context.Context) (*models.Snapshot, error)
	DefaultScenario(ctx context.Context) (models.SimulationScenario, error)
	ResolveTeam(ctx context.Context, query string) (string, error)
	Project(ctx context.Context, scenario models.SimulationScenario) ([]models.ProjectedRecord, error)
	Brackets(ctx context.Context, scenario models.SimulationScenario) ([]models.ConferenceBracket, error)
	Bubble(ctx context.Context, scenario models.SimulationScenario, conference string) ([]models.BubbleEntry, error)
}

type Server struct {
	pipeline Pipeline
	router   *mux.Router
}

func New(pipeline Pipeline) *Server {
	s := &Server{pipeline: pipeline, router: mux.NewRouter()}

	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/standings", s.standings).Methods(http.MethodGet)
	api.HandleFunc("/projection", s.projection).Methods(http.MethodGet)
	api.HandleFunc("/bracket", s.bracket).Methods(http.MethodGet)
	api.HandleFunc("/bubble/{conference}", s.bubble).Methods(http.MethodGet)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handler wraps the router with access logging, panic recovery and CORS
// for browser front ends.
func (s *Server) handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet}),
	)
	return handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler()(cors(s)))
}

// ListenAndServe serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) standings(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.pipeline.Standings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lastUpdated": snapshot.LastUpdated,
		"teams":       snapshot.Teams,
	})
}

func (s *Server) projection(w http.ResponseWriter, r *http.Request) {
	scenario, err := s.scenario(r)
	if err != nil {
		writeError(w, err)
		return
	}
	projected, err := s.pipeline.Project(r.Context(), scenario)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scenario": scenario,
		"teams":    projected,
	})
}

func (s *Server) bracket(w http.ResponseWriter, r *http.Request) {
	scenario, err := s.scenario(r)
	if err != nil {
		writeError(w, err)
		return
	}
	brackets, err := s.pipeline.Brackets(r.Context(), scenario)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scenario":    scenario,
		"conferences": brackets,
	})
}

func (s *Server) bubble(w http.ResponseWriter, r *http.Request) {
	scenario, err := s.scenario(r)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := s.pipeline.Bubble(r.Context(), scenario, mux.Vars(r)["conference"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scenario": scenario,
		"bubble":   entries,
	})
}

// scenario reads games, focus, wins, otl, sos and clamp from the query string.
// Without a focus parameter the default focus team applies; focus= clears it.
func (s *Server) scenario(r *http.Request) (models.SimulationScenario, error) {
	q := r.URL.Query()

	scenario, err := s.pipeline.DefaultScenario(r.Context())
	if err != nil {
		return scenario, err
	}

	if scenario.GamesToSimulate, err = queryInt(q.Get("games")); err != nil {
		return scenario, models.ScenarioInconsistency("games: %v", err)
	}
	if scenario.FocusWins, err = queryInt(q.Get("wins")); err != nil {
		return scenario, models.ScenarioInconsistency("wins: %v", err)
	}
	if scenario.FocusOTLosses, err = queryInt(q.Get("otl")); err != nil {
		return scenario, models.ScenarioInconsistency("otl: %v", err)
	}
	if v := q.Get("sos"); v != "" {
		if scenario.ScheduleStrength, err = strconv.ParseFloat(v, 64); err != nil {
			return scenario, models.ScenarioInconsistency("sos: %v", err)
		}
	}
	if v := q.Get("clamp"); v != "" {
		if scenario.ClampFocus, err = strconv.ParseBool(v); err != nil {
			return scenario, models.ScenarioInconsistency("clamp: %v", err)
		}
	}

	if q.Has("focus") {
		scenario.FocusTeam = ""
		if v := q.Get("focus"); v != "" {
			if scenario.FocusTeam, err = s.pipeline.ResolveTeam(r.Context(), v); err != nil {
				return scenario, err
			}
		}
	}
	return scenario, nil
}

func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	code := "UPSTREAM"

	var merr *models.Error
	if errors.As(err, &merr) {
		code = string(merr.Code)
		switch merr.Code {
		case models.CodeScenarioInconsistency:
			status = http.StatusUnprocessableEntity
		case models.CodeNotFound:
			status = http.StatusNotFound
		}
	}
	if status == http.StatusBadGateway {
		slog.Error("Error serving request", "error", err)
	}

	writeJSON(w, status, map[string]string{
		"code":  code,
		"error": err.Error(),
	})
}
