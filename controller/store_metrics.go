package controller

import (
	"context"

	"github.com/battlesnakeio/pit/rules"
	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentStore wraps all store methods to instrument the underlying calls.
func InstrumentStore(s Store) Store { return &metrics{s} }

var (
	storeCalls = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pit",
			Subsystem: "store",
			Name:      "calls",
			Help:      "Calls processed by the store.",
		},
		[]string{"method"},
	)
	storeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pit",
			Subsystem: "store",
			Name:      "errors",
			Help:      "Store calls that returned an error.",
		},
		[]string{"method"},
	)
)

func instrument(method string) func() {
	t := prometheus.NewTimer(storeCalls.WithLabelValues(method))
	return t.ObserveDuration
}

func countError(method string, err error) error {
	if err != nil {
		storeErrors.WithLabelValues(method).Inc()
	}
	return err
}

func init() {
	prometheus.MustRegister(storeCalls, storeErrors)
}

type metrics struct{ s Store }

func (m *metrics) CreateGame(c context.Context, g *rules.GameInfo, frames []*rules.Frame) error {
	defer instrument("CreateGame")()
	return countError("CreateGame", m.s.CreateGame(c, g, frames))
}

func (m *metrics) PushGameFrame(c context.Context, id string, f *rules.Frame) error {
	defer instrument("PushGameFrame")()
	return countError("PushGameFrame", m.s.PushGameFrame(c, id, f))
}

func (m *metrics) ListGameFrames(c context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	defer instrument("ListGameFrames")()
	frames, err := m.s.ListGameFrames(c, id, limit, offset)
	return frames, countError("ListGameFrames", err)
}

func (m *metrics) GetGame(c context.Context, id string) (*rules.GameInfo, error) {
	defer instrument("GetGame")()
	g, err := m.s.GetGame(c, id)
	return g, countError("GetGame", err)
}

func (m *metrics) SetGameStatus(c context.Context, id string, status rules.GameStatus) error {
	defer instrument("SetGameStatus")()
	return countError("SetGameStatus", m.s.SetGameStatus(c, id, status))
}

// Close closes the wrapped store if it holds resources.
func (m *metrics) Close() error {
	if c, ok := m.s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
