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

package main

import (
	"math/rand"
	"time"

	"github.com/kegbot/kegbot.go/pkg/app"
	"github.com/kegbot/kegbot.go/pkg/commons"
	"github.com/kegbot/kegbot.go/pkg/commons/net"
	"github.com/kegbot/kegbot.go/pkg/enum"
	"github.com/kegbot/kegbot.go/pkg/kbjson"
	"github.com/kegbot/kegbot.go/pkg/msg"
	"github.com/kegbot/kegbot.go/pkg/version"
	"github.com/kegbot/kegbot.go/pkg/worker"
)

// ./appdemo --metrics_addr :9091 --verbose
// ./appdemo --daemon --pidfile /var/run/appdemo.pid --log_to_file --logfile /var/log/appdemo.log

var (
	// sampler health, derived from how far the reading drifts from nominal
	healthStates = enum.New(enum.C("OK"), enum.C("WARNING"), enum.C("CRITICAL"))

	healthOK, _       = healthStates.ByName("OK")
	healthWarning, _  = healthStates.ByName("WARNING")
	healthCritical, _ = healthStates.ByName("CRITICAL")

	thermoEvent = msg.MustNewType("ThermoEvent",
		msg.NewField("sensor_name"),
		msg.NewField("temp_c"),
		msg.NewField("temp_f"),
		msg.NewField("health"),
		msg.NewField("record_date"),
	)
)

func health(tempC float64) *enum.Value {
	drift := tempC - 4.5
	if drift < 0 {
		drift = -drift
	}
	switch {
	case drift < 1.5:
		return healthOK
	case drift < 3:
		return healthWarning
	default:
		return healthCritical
	}
}

// thermoSampler emits a ThermoEvent JSON document every few seconds,
// simulating a keg fridge temperature sensor with a random walk.
func thermoSampler(ctx *worker.Context) error {
	tempC := 4.5
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Dying():
			return nil
		case <-ticker.C:
			tempC += rand.Float64() - 0.5
			event, err := thermoEvent.New(map[string]interface{}{
				"sensor_name": "kegerator",
				"temp_c":      tempC,
				"temp_f":      commons.CToF(tempC),
				"health":      health(tempC).Name(),
				"record_date": time.Now().Format(time.RFC3339),
			})
			if err != nil {
				return err
			}
			doc, err := kbjson.MarshalString(event.AsDict())
			if err != nil {
				return err
			}
			logger := ctx.Logger()
			logger.Info().Str("sensor", "kegerator").Msg(doc)
		}
	}
}

func heartbeat(ctx *worker.Context) error {
	startedOn := time.Now()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Dying():
			return nil
		case <-ticker.C:
			logger := ctx.Logger()
			logger.Info().Dur("uptime", time.Since(startedOn)).Msg("heartbeat")
		}
	}
}

func main() {
	app.Main("appdemo", func(a *app.App) error {
		logger := a.Logger()
		logger.Info().Str("version", version.String()).Msg("appdemo")
		if cfg := a.Config(); cfg.MetricsAddr != "" {
			host := "0.0.0.0"
			if ip := net.LocalIP(); ip != nil {
				host = ip.String()
			}
			addr, err := net.ParseAddr(cfg.MetricsAddr, host, 9091)
			if err != nil {
				return err
			}
			logger.Info().Str("metrics", addr.String()).Msg("metrics endpoint")
		}
		if err := a.AddWorker(worker.New("thermo-sampler", thermoSampler)); err != nil {
			return err
		}
		return a.AddWorker(worker.New("heartbeat", heartbeat))
	})
}
