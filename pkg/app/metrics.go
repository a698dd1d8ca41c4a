// Copyright (c) 2017 The Kegbot Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kegbot/kegbot.go/pkg/worker"
)

type metrics struct {
	registry *prometheus.Registry

	uptime            prometheus.Gauge
	workersRegistered prometheus.Gauge
	workersAlive      prometheus.GaugeFunc
}

func newMetrics(a *App) *metrics {
	constLabels := prometheus.Labels{"app": a.name}
	m := &metrics{
		registry: prometheus.NewRegistry(),
		uptime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "kegbot",
			Subsystem:   "app",
			Name:        "uptime_seconds",
			Help:        "Seconds since the application entered the Running state.",
			ConstLabels: constLabels,
		}),
		workersRegistered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "kegbot",
			Subsystem:   "app",
			Name:        "workers_registered",
			Help:        "Number of workers registered with the application.",
			ConstLabels: constLabels,
		}),
		workersAlive: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "kegbot",
			Subsystem:   "app",
			Name:        "workers_alive",
			Help:        "Number of registered workers that are currently alive.",
			ConstLabels: constLabels,
		}, a.aliveWorkerCount),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.uptime,
		m.workersRegistered,
		m.workersAlive,
	)
	return m
}

// MetricsRegistry returns the application-owned Prometheus registry.
// Workers are free to register their own collectors on it before Run.
func (a *App) MetricsRegistry() *prometheus.Registry {
	return a.metrics.registry
}

func (a *App) aliveWorkerCount() float64 {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	alive := 0
	for _, w := range a.workers {
		if w.Alive() {
			alive++
		}
	}
	return float64(alive)
}

// metricsReporter serves the application registry over HTTP until quit.
func (a *App) metricsReporter(addr string) *worker.Worker {
	return worker.New("metrics-reporter", func(ctx *worker.Context) error {
		server := &http.Server{
			Addr:    addr,
			Handler: promhttp.HandlerFor(a.metrics.registry, promhttp.HandlerOpts{}),
		}
		errs := make(chan error, 1)
		go func() { errs <- server.ListenAndServe() }()
		logger := ctx.Logger()
		logger.Info().Str("addr", addr).Msg("metrics reporter listening")
		select {
		case <-ctx.Dying():
			return server.Close()
		case err := <-errs:
			return err
		}
	})
}
