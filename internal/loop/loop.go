// Package loop runs the poll cycle for one monitor instance: read the
// sensor, step the decision engine, fan committed events out to the
// actuators, MQTT, the status tracker, and the history recorder.
package loop

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gambit-robotics/cm5-sentinel/internal/actuator"
	"github.com/gambit-robotics/cm5-sentinel/internal/history"
	"github.com/gambit-robotics/cm5-sentinel/internal/logic"
	"github.com/gambit-robotics/cm5-sentinel/internal/mqtt"
	"github.com/gambit-robotics/cm5-sentinel/internal/sensor"
	"github.com/gambit-robotics/cm5-sentinel/internal/status"
)

// Config is the per-instance loop configuration.
type Config struct {
	Instance    string
	Unit        string
	Heartbeat   time.Duration
	MaxFailures int
}

// Loop ties one sensor to one engine and its outputs.
// Publisher and Tracker must be set (use mqtt.Nop and a fresh tracker when
// unused); MQTTStatus, History, and Actuator may be nil.
type Loop struct {
	Config     Config
	Sensor     sensor.Sensor
	Engine     logic.Engine
	Actuator   actuator.Actuator
	Publisher  mqtt.Publisher
	MQTTStatus mqtt.ConnectionStatus
	Tracker    *status.Tracker
	History    *history.Recorder
}

// Run polls until a signal arrives. now supplies timestamps, tick paces the
// polling. On signal it publishes a retained SHUTDOWN status event and
// returns nil.
func (l *Loop) Run(now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	failures := logic.NewFailureTracker(l.Config.MaxFailures)
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Info().Str("signal", s.String()).Msg("shutting down")
			l.publishShutdown(now(), signalName(s))
			return nil

		case <-tick:
			t := now()
			reading, err := l.Sensor.Read()
			if err != nil {
				log.Error().Err(err).Str("instance", l.Config.Instance).Msg("sensor read failed")
				if failures.Fail() {
					l.dispatch(logic.Event{
						Timestamp: t,
						Type:      logic.EventDegraded,
						State:     l.Engine.Current(),
						Reason:    err.Error(),
					})
				}
				l.Tracker.SetHealth(failures.Degraded(), failures.Count())
				l.syncMQTT()
				continue
			}

			if failures.Success() {
				l.dispatch(logic.Event{
					Timestamp: t,
					Type:      logic.EventRecovered,
					State:     l.Engine.Current(),
					Value:     reading.Value,
				})
			}
			l.Tracker.SetHealth(false, 0)

			if l.History != nil {
				if err := l.History.Record(context.Background(), reading.Value, reading.Inhibit, t); err != nil {
					log.Warn().Err(err).Msg("history record failed")
				}
			}

			events := l.Engine.Step(logic.Sample{
				Value:   reading.Value,
				Inhibit: reading.Inhibit,
				Time:    t,
			})
			for _, e := range events {
				l.dispatch(e)
			}

			l.Tracker.Update(l.Engine.Current(), reading.Value, t)
			l.syncMQTT()

			if l.Config.Heartbeat > 0 && t.Sub(lastHeartbeat) >= l.Config.Heartbeat {
				lastHeartbeat = t
				l.publishHeartbeat(t)
			}
		}
	}
}

// dispatch fans one committed event out to the log, the status tracker, MQTT,
// and the actuators. Failures are logged and never roll back engine state.
func (l *Loop) dispatch(e logic.Event) {
	log.Info().
		Str("instance", l.Config.Instance).
		Str("event", string(e.Type)).
		Str("state", string(e.State)).
		Float64("value", e.Value).
		Str("reason", e.Reason).
		Msg("event")

	l.Tracker.RecordEvent(e.Type)

	if err := l.Publisher.Publish(e); err != nil {
		log.Error().Err(err).Str("event", string(e.Type)).Msg("publish failed")
	}
	if l.Actuator != nil {
		if err := l.Actuator.Apply(e); err != nil {
			log.Error().Err(err).Str("event", string(e.Type)).Msg("actuator failed")
		}
	}
}

func (l *Loop) publishHeartbeat(t time.Time) {
	l.syncMQTT()
	snap := l.Tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  t,
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
	}
	if err := l.Publisher.PublishSystem(event); err != nil {
		log.Error().Err(err).Msg("heartbeat publish failed")
	}
}

func (l *Loop) publishShutdown(t time.Time, reason string) {
	l.syncMQTT()
	snap := l.Tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  t,
		Event:      "SHUTDOWN",
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", reason),
	}
	if err := l.Publisher.PublishSystem(event); err != nil {
		log.Error().Err(err).Msg("shutdown publish failed")
	}
}

func (l *Loop) syncMQTT() {
	if l.MQTTStatus != nil {
		l.Tracker.SetMQTTConnected(l.MQTTStatus.IsConnected())
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return s.String()
}
