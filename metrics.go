/*
Copyright 2024 The Flowgen Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package flowgen

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the counters the scheduler updates as it runs. All
// metrics are registered under the "flowgen" namespace.
type Metrics struct {
	PacketsSent        prometheus.Counter
	BytesSent          prometheus.Counter
	EncodingErrors     prometheus.Counter
	TransmissionErrors prometheus.Counter
	IterationDuration  prometheus.Histogram
}

// NewMetrics constructs a fresh Metrics and registers it with reg. Passing
// a dedicated prometheus.Registry (rather than the global default) keeps
// repeated construction in tests from panicking on duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PacketsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowgen",
			Name:      "packets_sent_total",
			Help:      "Total number of packets successfully handed to a sink.",
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowgen",
			Name:      "bytes_sent_total",
			Help:      "Total number of payload bytes successfully handed to a sink.",
		}),
		EncodingErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowgen",
			Name:      "encoding_errors_total",
			Help:      "Total number of flow groups that failed to encode and were skipped.",
		}),
		TransmissionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flowgen",
			Name:      "transmission_errors_total",
			Help:      "Total number of sink send failures.",
		}),
		IterationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flowgen",
			Name:      "iteration_duration_seconds",
			Help:      "Wall-clock duration of one scheduler iteration.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.PacketsSent, m.BytesSent, m.EncodingErrors, m.TransmissionErrors, m.IterationDuration)
	return m
}
