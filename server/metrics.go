package server

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mothgrams_http_requests_total",
			Help: "Total HTTP requests served by the gallery server",
		},
		[]string{"kind"},
	)
	audioBytesServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mothgrams_audio_bytes_served_total",
			Help: "Total audio bytes served",
		},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(audioBytesServed)
}
