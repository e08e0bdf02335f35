package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	judgeLabel    = "judge"
	outcomeLabel  = "outcome"
	reporterLabel = "reporter"
)

// Result outcomes
const (
	ResultAccepted  = "accepted"
	ResultStale     = "stale"
	ResultDuplicate = "duplicate"
)

type Collector struct {
	Registry *prometheus.Registry

	CheckingClaims         *prometheus.CounterVec
	CheckingEmptyPolls     *prometheus.CounterVec
	CheckingResults        *prometheus.CounterVec
	CheckingReclaims       prometheus.Counter
	CheckingActiveSessions prometheus.Gauge
	CheckingFinishedSuites *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		Registry: prometheus.NewRegistry(),
	}
	c.setupCheckingMetrics()
	return c
}
