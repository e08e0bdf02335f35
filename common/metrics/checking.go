package metrics

import "github.com/prometheus/client_golang/prometheus"

func (c *Collector) setupCheckingMetrics() {
	c.CheckingClaims = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "satori",
		Subsystem: "checking",
		Name:      "claims_count",
		Help:      "Number of test results given to judges",
	}, []string{judgeLabel})
	c.Registry.MustRegister(c.CheckingClaims)

	c.CheckingEmptyPolls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "satori",
		Subsystem: "checking",
		Name:      "empty_polls_count",
		Help:      "Number of judge requests which found no work",
	}, []string{judgeLabel})
	c.Registry.MustRegister(c.CheckingEmptyPolls)

	c.CheckingResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "satori",
		Subsystem: "checking",
		Name:      "results_count",
		Help:      "Number of results posted by judges by outcome",
	}, []string{outcomeLabel})
	c.Registry.MustRegister(c.CheckingResults)

	c.CheckingReclaims = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "satori",
		Subsystem: "checking",
		Name:      "reclaims_count",
		Help:      "Number of claims released because their lease expired",
	})
	c.Registry.MustRegister(c.CheckingReclaims)

	c.CheckingActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "satori",
		Subsystem: "checking",
		Name:      "active_sessions",
		Help:      "Number of test suite results currently accumulating",
	})
	c.Registry.MustRegister(c.CheckingActiveSessions)

	c.CheckingFinishedSuites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "satori",
		Subsystem: "checking",
		Name:      "finished_suites_count",
		Help:      "Number of finalized test suite results by reporter",
	}, []string{reporterLabel})
	c.Registry.MustRegister(c.CheckingFinishedSuites)
}

func (c *Collector) Claimed(judge string) {
	c.CheckingClaims.With(prometheus.Labels{judgeLabel: judge}).Inc()
}

func (c *Collector) EmptyPoll(judge string) {
	c.CheckingEmptyPolls.With(prometheus.Labels{judgeLabel: judge}).Inc()
}

func (c *Collector) Result(outcome string) {
	c.CheckingResults.With(prometheus.Labels{outcomeLabel: outcome}).Inc()
}

func (c *Collector) SuiteFinished(reporter string) {
	c.CheckingFinishedSuites.With(prometheus.Labels{reporterLabel: reporter}).Inc()
}
