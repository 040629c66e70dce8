// SPDX-License-Identifier: MIT

package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forgebridge_auth_resolutions_total",
		Help: "Number of successful token resolutions by source",
	}, []string{"source"})

	authFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forgebridge_auth_failures_total",
		Help: "Number of requests rejected because no token was available",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "forgebridge_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2.0, 10), // 5ms .. ~2.5s
	}, []string{"method", "status"})
)

func recordAuthResolution(source string) {
	authResolutionsTotal.WithLabelValues(source).Inc()
}

func recordAuthFailure() {
	authFailuresTotal.Inc()
}

func recordRequest(method string, status int, duration time.Duration) {
	requestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(duration.Seconds())
}
