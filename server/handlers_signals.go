package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-signal-server/signals"
	"github.com/rs/zerolog/log"
)

// recentStatsCount is how many signals the stats endpoints return.
const recentStatsCount = 10

type signalRequest struct {
	Asset  string `json:"asset"`
	Signal string `json:"signal"`
}

type receiveSignalResponse struct {
	Message string         `json:"message"`
	Signal  signals.Signal `json:"signal"`
}

type signalsResponse struct {
	Total   int              `json:"total"`
	Signals []signals.Signal `json:"signals"`
}

type statsResponse struct {
	TotalSignals int              `json:"total_signals"`
	BuySignals   int              `json:"buy_signals"`
	SellSignals  int              `json:"sell_signals"`
	ByDirection  map[string]int   `json:"by_direction"`
	LastSignals  []signals.Signal `json:"last_signals"`
}

type indexResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
	Stats     indexStats        `json:"stats"`
}

type indexStats struct {
	TotalSignals int             `json:"total_signals"`
	LastSignal   *signals.Signal `json:"last_signal"`
}

// signalReader extracts asset and direction from a request.
type signalReader func(w http.ResponseWriter, r *http.Request) (signalRequest, error)

// signalFromBody accepts a JSON or url-encoded body.
func signalFromBody(w http.ResponseWriter, r *http.Request) (signalRequest, error) {
	if isFormRequest(r) {
		if err := decodeForm(w, r); err != nil {
			return signalRequest{}, err
		}
		return signalRequest{Asset: r.PostForm.Get("asset"), Signal: r.PostForm.Get("signal")}, nil
	}
	var req signalRequest
	err := decodeJSON(w, r, &req)
	return req, err
}

func signalFromQuery(_ http.ResponseWriter, r *http.Request) (signalRequest, error) {
	q := r.URL.Query()
	return signalRequest{Asset: q.Get("asset"), Signal: q.Get("signal")}, nil
}

// ReceiveSignalHandler appends a signal using the ingress policy of the path
// and hands it to the broadcaster.
func (s *Server) ReceiveSignalHandler(ingress signals.Ingress, read signalReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := read(w, r)
		if err != nil {
			writeError(w, err)
			return
		}

		signal, err := s.ledger.Append(req.Asset, req.Signal, ingress)
		if err != nil {
			writeError(w, err)
			return
		}
		s.broadcaster.Enqueue(signal)

		log.Info().
			Int64("id", signal.ID).
			Str("asset", signal.Asset).
			Str("signal", signal.Signal).
			Str("source", signal.Source).
			Msg("signal received")
		writeJSON(w, http.StatusOK, receiveSignalResponse{Message: "Signal received successfully", Signal: signal})
	}
}

// GetSignalsHandler returns the full ledger, newest first.
func (s *Server) GetSignalsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := s.ledger.ListAll()
		writeJSON(w, http.StatusOK, signalsResponse{Total: len(list), Signals: list})
	}
}

func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := s.ledger.Stats(recentStatsCount)
		writeJSON(w, http.StatusOK, statsResponse{
			TotalSignals: stats.Total,
			BuySignals:   stats.ByDirection["buy"],
			SellSignals:  stats.ByDirection["sell"],
			ByDirection:  stats.ByDirection,
			LastSignals:  stats.Recent,
		})
	}
}

// IndexHandler summarises the service and its public endpoints.
func (s *Server) IndexHandler() http.HandlerFunc {
	endpoints := map[string]string{
		"receive_signal": "POST " + RouteReceiveSignal,
		"get_signals":    "GET " + RouteGetSignals,
		"stats":          "GET " + RouteStats,
		"register":       "POST " + RouteRegister,
		"login":          "POST " + RouteLogin,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		resp := indexResponse{
			Message:   s.config.GetAppName() + " is running",
			Endpoints: endpoints,
			Stats:     indexStats{TotalSignals: s.ledger.Len()},
		}
		if last, ok := s.ledger.Latest(); ok {
			resp.Stats.LastSignal = &last
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type notFoundResponse struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Routes []string `json:"routes"`
}

// NotFoundHandler lists the known routes for any unmatched request.
func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routes := make([]string, 0, len(s.routes))
		for _, route := range s.routes {
			routes = append(routes, strings.Replace(route, "{$}", "", 1))
		}
		writeJSON(w, http.StatusNotFound, notFoundResponse{Error: "route not found", Code: "NOT_FOUND", Routes: routes})
	}
}
