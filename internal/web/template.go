package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sleepaiz/sleep-client/internal/status"
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
	"celsius": func(v float64) string {
		return fmt.Sprintf("%.1f °C", v)
	},
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f %%", v)
	},
	"decibel": func(v float64) string {
		return fmt.Sprintf("%.1f dB", v)
	},
	"utc": func(t time.Time) string {
		return t.UTC().Format("2006-01-02T15:04:05Z")
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sleep Client</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ok { color: green; font-weight: bold; }
.off { color: #888; }
.alert { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Sleep Client</h1>

{{if .Ringing}}
<h2>Alarm</h2>
<table>
<tr><th>Ringing</th><td class="alert">{{.Ringing.Label}}</td></tr>
<tr><th>Since</th><td>{{utc .Ringing.Since}}</td></tr>
</table>
{{end}}

<h2>Environment</h2>
<table>
{{if .Environment}}<tr><th>Temperature</th><td>{{celsius .Environment.Temperature}}</td></tr>
<tr><th>Humidity</th><td>{{percent .Environment.Humidity}}</td></tr>
<tr><th>Read at</th><td>{{utc .Environment.Time}}</td></tr>
{{else}}<tr><th>Reading</th><td class="off">none yet</td></tr>{{end}}
</table>

<h2>Posture</h2>
<table>
{{if .Capture}}<tr><th>Last photo</th><td>{{.Capture.Filename}}</td></tr>
{{if .Capture.PostureType}}<tr><th>Posture</th><td>{{.Capture.PostureType}}</td></tr>{{end}}
<tr><th>Taken at</th><td>{{utc .Capture.Time}}</td></tr>
{{else}}<tr><th>Last photo</th><td class="off">none yet</td></tr>{{end}}
</table>

<h2>Noise</h2>
<table>
{{if .Noise}}<tr><th>Average</th><td>{{decibel .Noise.AvgDB}}</td></tr>
<tr><th>Peak</th><td>{{decibel .Noise.MaxDB}}</td></tr>
<tr><th>Snoring</th><td class="{{if .Noise.Snoring}}alert{{else}}ok{{end}}">{{if .Noise.Snoring}}yes{{else}}no{{end}}</td></tr>
<tr><th>Sampled at</th><td>{{utc .Noise.Time}}</td></tr>
{{else}}<tr><th>Sample</th><td class="off">none yet</td></tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>Server</th><td class="{{if .ServerHealthy}}connected{{else}}disconnected{{end}}">{{if .ServerHealthy}}healthy{{else}}unreachable{{end}}</td></tr>
<tr><th>Server URL</th><td>{{.Config.ServerURL}}</td></tr>
{{if .Config.Broker}}<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Environment uploads</th><td>{{.Counts.EnvUploads}}</td></tr>
<tr><th>Environment failures</th><td>{{.Counts.EnvFailures}}</td></tr>
<tr><th>Posture uploads</th><td>{{.Counts.PostureUploads}}</td></tr>
<tr><th>Posture failures</th><td>{{.Counts.PostureFailures}}</td></tr>
<tr><th>Alarms triggered</th><td>{{.Counts.AlarmsTriggered}}</td></tr>
<tr><th>Alarms dismissed</th><td>{{.Counts.AlarmsDismissed}}</td></tr>
<tr><th>Snore events</th><td>{{.Counts.SnoreEvents}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{utc .StartTime}}</td></tr>
<tr><th>Capture interval</th><td>{{.Config.CaptureIntervalMin}}min</td></tr>
<tr><th>Alarm check</th><td>{{.Config.AlarmCheckSec}}s</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
