package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/water-sampler/internal/status"
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
	"hm": func(minutes int) string {
		return fmt.Sprintf("%dh %02dmin", minutes/60, minutes%60)
	},
	"pumpNum": func(i int) int { return i + 1 },
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Water Sampler</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.warn { color: orange; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Water Sampler</h1>

<h2>Rig</h2>
<table>
<tr><th>Water</th><td class="{{if .WaterPresent}}on{{else}}off{{end}}">{{if .WaterPresent}}PRESENT{{else}}ABSENT{{end}}</td></tr>
<tr><th>Sequence</th><td>{{if .Armed}}armed{{else}}idle{{end}}</td></tr>
<tr><th>Settings</th><td class="{{if .SettingsLoaded}}on{{else}}warn{{end}}">{{if .SettingsLoaded}}loaded{{else}}NOT LOADED{{end}}</td></tr>
</table>

<h2>Pumps</h2>
<table>
{{range $i, $on := .Pumps}}<tr><th>Pump {{pumpNum $i}}</th><td class="{{if $on}}on{{else}}off{{end}}">{{if $on}}ON{{else}}OFF{{end}}</td><td>offset {{hm (index $.Offsets $i)}}</td><td>{{index $.Counts.Starts $i}} runs</td></tr>
{{end}}<tr><th>Runtime</th><td colspan="3">{{hm .RuntimeMin}}</td></tr>
</table>

<h2>Editor</h2>
<table>
<tr><th>Cursor</th><td>{{.Cursor}}</td></tr>
<tr><th>Pending edits</th><td>{{if .PendingEdits}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Sequences run</th><td>{{.Counts.Sequences}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Water-loss cutoff</th><td>{{if .Config.StopOnWaterLoss}}enabled{{else}}disabled{{end}}</td></tr>
<tr><th>Settings DB</th><td>{{.Config.DBPath}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/metrics">Metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
