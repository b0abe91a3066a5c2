package server

// docsHTML is the static documentation page served on "/".
const docsHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>piStat System Monitor API</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 0 auto; padding: 20px; color: #333; }
        h1 { color: #e74c3c; border-bottom: 2px solid #eee; padding-bottom: 10px; }
        h2 { color: #3498db; margin-top: 30px; }
        code { background-color: #f8f8f8; padding: 2px 5px; border-radius: 3px; font-family: monospace; border: 1px solid #ddd; }
        .endpoint { margin-bottom: 20px; padding: 15px; background-color: #f9f9f9; border-left: 4px solid #3498db; }
    </style>
</head>
<body>
    <h1>piStat System Monitor API</h1>
    <p>Real-time system statistics for this host, served as JSON
    (or CBOR with <code>Accept: application/cbor</code>).</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <h3><code>GET /stats</code></h3>
        <p>Full system snapshot: CPU temperature/frequency/usage, memory, swap,
        disk, disk I/O, uptime, load averages, GPU, power, clocks, network and
        hardware identity.</p>
        <p>Query parameters:
        <code>block=true</code> for an accurate 1-second CPU measurement,
        <code>cache=false</code> to bypass the snapshot cache,
        <code>fields=cpu_usage,memory</code> to restrict the response.</p>
    </div>

    <div class="endpoint">
        <h3><code>GET /health</code></h3>
        <p>Liveness check: <code>{"status": "healthy", "uptime": 86400.5}</code>.</p>
    </div>

    <div class="endpoint">
        <h3><code>GET /temp</code></h3>
        <p>CPU temperature only.</p>
    </div>

    <div class="endpoint">
        <h3><code>GET /processes?sort=cpu&amp;limit=10</code></h3>
        <p>Running processes sorted descending by
        <code>cpu</code>, <code>memory</code>, <code>name</code>,
        <code>pid</code> or <code>time</code>.</p>
    </div>

    <div class="endpoint">
        <h3><code>GET /network/interfaces</code> and <code>GET /storage/devices</code></h3>
        <p>Per-interface and per-device detail listings.</p>
    </div>

    <div class="endpoint">
        <h3><code>GET /metrics</code></h3>
        <p>Prometheus metrics about this service itself.</p>
    </div>

    <h2>Notes</h2>
    <ul>
        <li>Temperatures are in Celsius, memory and disk values in bytes,
        CPU frequency in MHz, clocks in Hz, uptime in seconds.</li>
        <li>Requests beyond the per-client rate limit get HTTP 429 with a
        <code>Retry-After</code> header.</li>
        <li>A metric category that cannot be read on this hardware is
        <code>null</code>, with the reason under <code>errors</code>.</li>
    </ul>
</body>
</html>
`
