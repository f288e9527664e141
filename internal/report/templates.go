package report

// htmlTemplate is the report page. Every chart uses a 0 0 100 100 viewBox.
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - {{.Period}}</title>
    <style>
        :root {
            --bg: #f8fafc;
            --card: #ffffff;
            --text: #1e293b;
            --muted: #64748b;
            --border: #e2e8f0;
            --accent: #3b82f6;
            --ok: #22c55e;
            --warn: #f59e0b;
            --bad: #ef4444;
        }
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background: var(--bg); color: var(--text); }
        .container { max-width: 1300px; margin: 0 auto; padding: 2rem; }
        header { display: flex; justify-content: space-between; align-items: baseline; margin-bottom: 1.5rem; }
        header .meta { color: var(--muted); font-size: 0.9rem; }
        .cards { display: grid; grid-template-columns: repeat(auto-fill, minmax(180px, 1fr)); gap: 1rem; margin-bottom: 1.5rem; }
        .card, .panel { background: var(--card); border: 1px solid var(--border); border-radius: 8px; padding: 1rem; }
        .card .label { color: var(--muted); font-size: 0.8rem; text-transform: uppercase; }
        .card .value { font-size: 1.5rem; font-weight: 600; }
        .card .note { color: var(--muted); font-size: 0.8rem; }
        .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(380px, 1fr)); gap: 1rem; margin-bottom: 1.5rem; }
        .panel h2 { font-size: 1rem; margin-bottom: 0.75rem; display: flex; justify-content: space-between; }
        svg.chart { width: 100%; height: 200px; }
        .empty { color: var(--muted); padding: 3rem 0; text-align: center; }
        .legend span { display: inline-block; margin-right: 1rem; font-size: 0.85rem; }
        .swatch { display: inline-block; width: 10px; height: 10px; border-radius: 2px; margin-right: 4px; }
        table { width: 100%; border-collapse: collapse; font-size: 0.85rem; }
        th, td { text-align: left; padding: 0.4rem 0.5rem; border-bottom: 1px solid var(--border); }
        th { color: var(--muted); font-weight: 500; }
        .status-confirmed { color: var(--ok); }
        .status-failed { color: var(--bad); }
        .status-pending { color: var(--warn); }
        .congestion-low { color: var(--ok); }
        .congestion-medium { color: var(--warn); }
        .congestion-high { color: var(--bad); }
    </style>
</head>
<body>
<div class="container">
    <header>
        <h1>{{.Title}}</h1>
        <div class="meta">
            {{.Period}} &middot; {{stamp .Range.Start}} &ndash; {{stamp .Range.End}} &middot; generated {{stamp .GeneratedAt}}<br>
            {{.Network}} &middot; congestion <span class="congestion-{{.Congestion}}">{{.Congestion}}</span>
        </div>
    </header>

    <section class="cards">
        {{range .Cards}}
        <div class="card">
            <div class="label">{{.Label}}</div>
            <div class="value">{{.Value}}</div>
            {{if .Note}}<div class="note">{{.Note}}</div>{{end}}
        </div>
        {{end}}
    </section>

    <section class="grid">
        <div class="panel" id="success-rate">
            <h2>Success Rate <span>{{.SuccessRate.Trend.Arrow}}</span></h2>
            {{template "line" .SuccessRate}}
        </div>
        <div class="panel" id="gas-price">
            <h2>Gas Price <span>{{.GasPrice.Trend.Arrow}}</span></h2>
            {{template "line" .GasPrice}}
        </div>
        <div class="panel" id="bundle-types">
            <h2>Bundle Types</h2>
            {{if .Types}}
            <svg class="chart" viewBox="0 0 100 100">
                {{$g := .Geometry}}
                {{range .Types}}
                {{if .Full}}<circle cx="{{coord $g.CenterX}}" cy="{{coord $g.CenterY}}" r="{{coord $g.Radius}}" fill="{{.Color}}"/>
                {{else}}<path d="{{.Path}}" fill="{{.Color}}"/>{{end}}
                {{end}}
            </svg>
            <div class="legend">
                {{range .Types}}<span><i class="swatch" style="background: {{.Color}}"></i>{{.Label}} {{percent .Percentage}}</span>{{end}}
            </div>
            {{else}}<div class="empty">No bundles in range</div>{{end}}
        </div>
        <div class="panel" id="gas-efficiency">
            <h2>Estimated vs Actual Gas</h2>
            {{if .GasBars}}
            <svg class="chart" viewBox="0 0 100 100" preserveAspectRatio="none">
                {{range .GasBars}}
                <rect x="{{coord .Left.X}}" y="{{coord (flip .Left.Height)}}" width="{{coord .Left.Width}}" height="{{coord .Left.Height}}" fill="#94a3b8"><title>estimated {{gwei .Left.Value}}</title></rect>
                <rect x="{{coord .Right.X}}" y="{{coord (flip .Right.Height)}}" width="{{coord .Right.Width}}" height="{{coord .Right.Height}}" fill="#3b82f6"><title>actual {{gwei .Right.Value}}</title></rect>
                {{end}}
            </svg>
            {{else}}<div class="empty">No gas samples in range</div>{{end}}
        </div>
    </section>

    <section class="panel" id="wallets" style="margin-bottom: 1.5rem">
        <h2>Wallets <span>{{.Wallets.Filtered}} active</span></h2>
        <table>
            <thead><tr><th>Address</th><th>Label</th><th>Role</th><th>Txs</th><th>Success</th><th>Volume</th><th>Gas</th><th>Balance</th><th>Last Active</th></tr></thead>
            <tbody>
            {{range .Wallets.Records}}
            <tr><td title="{{.Address}}">{{short .Address}}</td><td>{{.Label}}</td><td>{{.Role}}</td><td>{{.Transactions}}</td><td>{{percent .SuccessRate}}</td><td>{{currency .Volume}}</td><td>{{currency .GasSpentBNB}}</td><td>{{currency .BalanceBNB}}</td><td>{{ago .LastActive}}</td></tr>
            {{else}}
            <tr><td colspan="9" class="empty">No wallet activity</td></tr>
            {{end}}
            </tbody>
        </table>
    </section>

    <section class="panel" id="transactions">
        <h2>Transactions <span>{{.Transactions.Filtered}} total, showing {{len .Transactions.Records}}</span></h2>
        <table>
            <thead><tr><th>Time</th><th>Bundle</th><th>Type</th><th>Wallet</th><th>Status</th><th>Amount</th><th>Gas Price</th><th>Execution</th></tr></thead>
            <tbody>
            {{range .Transactions.Records}}
            <tr><td>{{stamp .Timestamp}}</td><td>{{short .BundleID}}</td><td>{{.BundleType}}</td><td>{{short .Wallet}}</td><td class="status-{{.Status}}">{{.Status}}</td><td>{{currency .AmountBNB}}</td><td>{{gwei .GasPriceGwei}}</td><td>{{ms .ExecutionTimeMs}}</td></tr>
            {{else}}
            <tr><td colspan="8" class="empty">No transactions</td></tr>
            {{end}}
            </tbody>
        </table>
    </section>
</div>
</body>
</html>
{{define "line"}}
{{if .Empty}}<div class="empty">No data in range</div>
{{else}}<svg class="chart" viewBox="0 0 100 100" preserveAspectRatio="none">
    {{if .Point}}<circle cx="{{coord .Point.X}}" cy="{{coord .Point.Y}}" r="1.5" fill="#3b82f6"/>
    {{else}}<path d="{{.Area}}" fill="rgba(59,130,246,0.15)"/>
    <path d="{{.Line}}" fill="none" stroke="#3b82f6" stroke-width="0.8" vector-effect="non-scaling-stroke"/>{{end}}
</svg>{{end}}
{{end}}`
