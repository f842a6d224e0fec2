package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Instance      string     `json:"instance"`
	State         string     `json:"state"`
	LastValue     float64    `json:"last_value"`
	LastSample    string     `json:"last_sample,omitempty"`
	Degraded      bool       `json:"degraded"`
	Failures      int        `json:"consecutive_failures"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Transitions int `json:"transitions"`
	Warnings    int `json:"warnings"`
	Shutdowns   int `json:"shutdowns"`
	Degraded    int `json:"degraded"`
}

// ConfigJSON is the JSON representation of monitor config.
type ConfigJSON struct {
	Instance  string `json:"instance"`
	Unit      string `json:"unit,omitempty"`
	PollMs    int64  `json:"poll_ms"`
	HoldCount int    `json:"hold_count"`
	Broker    string `json:"broker,omitempty"`
	HTTPAddr  string `json:"http_addr,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}

	inner := StatusInner{
		Instance:      snap.Config.Instance,
		State:         state,
		LastValue:     snap.LastValue,
		Degraded:      snap.Degraded,
		Failures:      snap.Failures,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Transitions: snap.Counts.Transitions,
			Warnings:    snap.Counts.Warnings,
			Shutdowns:   snap.Counts.Shutdowns,
			Degraded:    snap.Counts.Degraded,
		},
		Config: ConfigJSON{
			Instance:  snap.Config.Instance,
			Unit:      snap.Config.Unit,
			PollMs:    snap.Config.PollMs,
			HoldCount: snap.Config.HoldCount,
			Broker:    snap.Config.Broker,
			HTTPAddr:  snap.Config.HTTPAddr,
		},
	}
	if !snap.LastSample.IsZero() {
		inner.LastSample = snap.LastSample.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
