package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	schemas   prometheus.Gauge
	collapsed prometheus.Counter
	rows      prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alsdata",
			Name:      "documents_total",
			Help:      "Documents submitted, by result.",
		}, []string{"result"}),
		schemas: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "alsdata",
			Name:      "schemas",
			Help:      "Distinct schemas seen so far.",
		}),
		collapsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "alsdata",
			Name:      "collapsed_array_elements_total",
			Help:      "Array elements dropped because an equal shape was already seen in the same array.",
		}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "alsdata",
			Name:      "schema_rows",
			Help:      "Rows per finalized schema.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	m.registry.MustRegister(
		m.documents,
		m.schemas,
		m.collapsed,
		m.rows,
		collectors.NewGoCollector(),
	)
	return m
}
