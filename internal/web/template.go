package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/gambit-robotics/cm5-sentinel/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="5">
<title>cm5-sentinel — {{.Config.Instance}}</title>
<style>
body { font-family: monospace; margin: 2em; background: #111; color: #ddd; }
table { border-collapse: collapse; }
td, th { border: 1px solid #444; padding: 0.4em 0.8em; text-align: left; }
.NORMAL, .NEUTRAL, .POSITIVE, .NEGATIVE { color: #7c7; }
.WARNING { color: #fc6; }
.SHUTDOWN, .UNKNOWN { color: #f66; }
.degraded { color: #f66; font-weight: bold; }
</style>
</head>
<body>
<h1>{{.Config.Instance}}</h1>
<table>
<tr><th>State</th><td class="{{stateOrUnknown (printf "%s" .State)}}">{{stateOrUnknown (printf "%s" .State)}}</td></tr>
<tr><th>Last reading</th><td>{{printf "%.2f" .LastValue}} {{.Config.Unit}}</td></tr>
<tr><th>Sensor health</th><td>{{if .Degraded}}<span class="degraded">DEGRADED ({{.Failures}} failures)</span>{{else}}OK{{end}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>MQTT</th><td>{{if .MQTTConnected}}connected{{else}}disconnected{{end}} ({{.Config.Broker}})</td></tr>
<tr><th>Transitions</th><td>{{.Counts.Transitions}}</td></tr>
<tr><th>Warnings</th><td>{{.Counts.Warnings}}</td></tr>
<tr><th>Shutdown requests</th><td>{{.Counts.Shutdowns}}</td></tr>
<tr><th>Degraded runs</th><td>{{.Counts.Degraded}}</td></tr>
<tr><th>Poll interval</th><td>{{.Config.PollMs}} ms</td></tr>
<tr><th>Hold count</th><td>{{.Config.HoldCount}}</td></tr>
</table>
<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Render errors surface as truncated pages; nothing useful to do here.
	_ = indexTmpl.Execute(w, snap)
}
