package health

import (
	"encoding/json"
	"fmt"
	"html"
)

// RenderDashboardHTML returns the status page for GET /.
func RenderDashboardHTML(result CollectResult) string {
	depRows := ""
	for _, name := range []string{"database", "redis", "audius", "stripe"} {
		dep, ok := result.Dependencies[name]
		if !ok {
			continue
		}
		ping := "-"
		if v, ok := dep.PingMs.(*int64); ok && v != nil {
			ping = fmt.Sprintf("%d ms", *v)
		}
		cls := "bad"
		if dep.Status == "connected" || dep.Status == "reachable" {
			cls = "ok"
		}
		depRows += fmt.Sprintf(`<div class="row"><span>%s</span><span class="pill %s">%s</span><span class="muted">%s</span></div>`,
			html.EscapeString(name), cls, html.EscapeString(dep.Status), ping)
	}

	payload, _ := json.Marshal(result)

	headline := "All Systems Operational"
	if result.Status != "ok" {
		headline = "Service Degraded"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>WaveMint · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    :root { --violet: #7C3AED; --dark: #1F2937; --bg: #F8F9FA; --muted: #64748b; }
    body { background: var(--bg); color: var(--dark); font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; margin: 0; display: flex; align-items: center; justify-content: center; min-height: 100vh; }
    .card { background: #fff; border-radius: 24px; box-shadow: 0 30px 100px -20px rgba(124, 58, 237, 0.15); padding: 40px; max-width: 640px; width: 100%%; }
    h1 { font-size: 32px; margin: 0 0 6px; letter-spacing: -1px; background: linear-gradient(to left, var(--violet), var(--dark)); -webkit-background-clip: text; -webkit-text-fill-color: transparent; }
    .sub { color: var(--muted); font-weight: 600; margin-bottom: 28px; }
    .row { display: flex; justify-content: space-between; align-items: center; padding: 10px 0; border-bottom: 1px solid rgba(0,0,0,0.05); font-size: 14px; font-weight: 600; }
    .row:last-child { border-bottom: none; }
    .pill { padding: 4px 12px; border-radius: 10px; font-size: 11px; font-weight: 800; }
    .pill.ok { background: #DCFCE7; color: #166534; }
    .pill.bad { background: #FEE2E2; color: #991B1B; }
    .muted { color: var(--muted); font-size: 12px; }
    .stats { display: flex; gap: 24px; margin-top: 24px; }
    .stat b { display: block; font-size: 22px; }
  </style>
</head>
<body>
  <div class="card">
    <h1>%s</h1>
    <div class="sub">wavemint-api · %s · Go %s</div>
    %s
    <div class="stats">
      <div class="stat"><b>%d</b><span class="muted">requests</span></div>
      <div class="stat"><b>%s%%</b><span class="muted">success rate</span></div>
      <div class="stat"><b>%ds</b><span class="muted">uptime</span></div>
    </div>
  </div>
  <script>window.__health = %s;</script>
</body>
</html>`,
		headline,
		html.EscapeString(result.Runtime.Platform),
		html.EscapeString(result.Runtime.GoVersion),
		depRows,
		result.Traffic.TotalRequests,
		result.Traffic.SuccessRate,
		result.Runtime.UptimeSeconds,
		string(payload))
}
