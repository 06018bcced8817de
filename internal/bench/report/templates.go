package report

// htmlTemplate is the main HTML template for the report
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        :root {
            --bg-page: #f4f6fa; --bg-card: #ffffff;
            --fg: #1f2937; --fg-dim: #6b7280; --fg-faint: #9ca3af;
            --rule: #e5e7eb; --accent: #2563eb; --good: #16a34a;
            --shadow: 0 2px 6px rgba(15, 23, 42, 0.08);
        }
        [data-theme="dark"] {
            --bg-page: #111827; --bg-card: #1f2937;
            --fg: #f3f4f6; --fg-dim: #9ca3af; --fg-faint: #6b7280;
            --rule: #374151; --shadow: 0 2px 6px rgba(0, 0, 0, 0.4);
        }

        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: system-ui, sans-serif; background: var(--bg-page); color: var(--fg); line-height: 1.5; }
        .container { max-width: 1400px; margin: 0 auto; padding: 2rem; }

        .header, .card { background: var(--bg-card); border-radius: 10px; box-shadow: var(--shadow); }
        .header { padding: 1.75rem 2rem; margin-bottom: 2rem; display: flex; justify-content: space-between; align-items: center; }
        .header h1 { font-size: 1.75rem; font-weight: 700; }
        .header .description { color: var(--fg-dim); }
        .header .meta { margin-top: 0.5rem; font-size: 0.875rem; color: var(--fg-faint); }
        .theme-toggle { background: var(--bg-page); border: 1px solid var(--rule); border-radius: 6px; padding: 0.4rem 0.6rem; cursor: pointer; font-size: 1.2rem; }

        .panels { display: grid; grid-template-columns: repeat(2, minmax(0, 1fr)); gap: 1.5rem; margin-bottom: 2rem; }
        .card { padding: 1.5rem; }

        .card h2 { font-size: 1.1rem; margin-bottom: 1rem; }

        table { width: 100%; border-collapse: collapse; font-size: 0.9rem; }
        th, td { padding: 0.5rem; text-align: right; border-bottom: 1px solid var(--rule); }
        th:first-child, td:first-child { text-align: left; }
        th { color: var(--fg-dim); font-weight: 600; }
        td.na { color: var(--fg-faint); }

        .variants {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(400px, 1fr));
            gap: 1.5rem;
        }

        .best { color: var(--good); font-weight: 600; margin-bottom: 0.75rem; }

        .footer { text-align: center; color: var(--fg-faint); font-size: 0.8rem; margin-top: 2rem; }

        @media (max-width: 900px) {
            .panels { grid-template-columns: 1fr; }
        }
    </style>
</head>
<body>
    <div class="container">
        <header class="header">
            <div>
                <h1>{{.Title}}</h1>
                {{if .Description}}<p class="description">{{.Description}}</p>{{end}}
                <p class="meta">{{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>
            </div>
            <button class="theme-toggle" onclick="toggleTheme()" title="Toggle dark mode">◐</button>
        </header>

        <section class="panels">
            <div class="card">
                <h2>Execution Time Comparison</h2>
                <canvas id="timeChart"></canvas>
            </div>
            <div class="card">
                <h2>Speedup Comparison</h2>
                <canvas id="speedupChart"></canvas>
            </div>
            <div class="card">
                <h2>Parallel Efficiency</h2>
                <canvas id="efficiencyChart"></canvas>
            </div>
            <div class="card">
                <h2>Performance Summary</h2>
                {{if .Rows}}
                <table id="summaryTable">
                    <thead>
                        <tr>
                            <th>Workers</th>
                            <th>{{.LabelA}} time</th>
                            <th>{{.LabelA}} speedup</th>
                            <th>{{.LabelA}} efficiency</th>
                            <th>{{.LabelB}} time</th>
                            <th>{{.LabelB}} speedup</th>
                            <th>{{.LabelB}} efficiency</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Rows}}
                        <tr>
                            <td>{{.WorkerCount}}</td>
                            <td{{if not .A.Present}} class="na"{{end}}>{{formatSeconds .A}}</td>
                            <td>{{formatSpeedup .A}}</td>
                            <td>{{formatEfficiency .A}}</td>
                            <td{{if not .B.Present}} class="na"{{end}}>{{formatSeconds .B}}</td>
                            <td>{{formatSpeedup .B}}</td>
                            <td>{{formatEfficiency .B}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
                {{else}}
                <p>No results to analyze.</p>
                {{end}}
            </div>
        </section>

        <section class="variants">
            {{range .Variants}}
            <div class="card">
                <h2>{{.Name}}</h2>
                {{if .BestWorkers}}<p class="best">Best speedup {{printf "%.2fx" .BestSpeedup}} at {{.BestWorkers}} workers</p>{{end}}
                <table>
                    <thead>
                        <tr>
                            <th>Workers</th>
                            <th>Items</th>
                            <th>Failed</th>
                            <th>Avg / item</th>
                            <th>P50</th>
                            <th>P95</th>
                            <th>Max</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Summaries}}
                        <tr>
                            <td>{{.WorkerCount}}</td>
                            <td>{{formatNumber .NumItems}}</td>
                            <td>{{formatNumber .Failures}}</td>
                            <td>{{formatLatency .AverageItem}}</td>
                            <td>{{formatLatency .Items.P50}}</td>
                            <td>{{formatLatency .Items.P95}}</td>
                            <td>{{formatLatency .Items.Max}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
                {{if .RunID}}<p class="footer">run {{.RunID}}</p>{{end}}
            </div>
            {{end}}
        </section>

        <footer class="footer">
            <p>Generated by scaleup • {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>
        </footer>
    </div>

    <script>
        function toggleTheme() {
            const html = document.documentElement;
            const newTheme = html.getAttribute('data-theme') === 'dark' ? 'light' : 'dark';
            html.setAttribute('data-theme', newTheme);
            localStorage.setItem('theme', newTheme);
            location.reload();
        }

        document.documentElement.setAttribute('data-theme', localStorage.getItem('theme') || 'light');

        function getChartColors() {
            const isDark = document.documentElement.getAttribute('data-theme') === 'dark';
            return {
                text: isDark ? '#f3f4f6' : '#1f2937',
                grid: isDark ? '#374151' : '#e5e7eb',
                a: '#2563eb',
                b: '#f59e0b',
                ideal: '#9ca3af',
            };
        }

        const chartData = {{.ChartJSON}};
        const colors = getChartColors();
        const labels = chartData.labels.map(String);

        const scales = (yTitle) => ({
            x: { title: { display: true, text: 'Workers', color: colors.text }, ticks: { color: colors.text }, grid: { color: colors.grid } },
            y: { beginAtZero: true, title: { display: true, text: yTitle, color: colors.text }, ticks: { color: colors.text }, grid: { color: colors.grid } },
        });
        const legend = { labels: { color: colors.text } };

        new Chart(document.getElementById('timeChart'), {
            type: 'bar',
            data: {
                labels: labels,
                datasets: [
                    { label: chartData.a.name, data: chartData.a.time, backgroundColor: colors.a },
                    { label: chartData.b.name, data: chartData.b.time, backgroundColor: colors.b },
                ],
            },
            options: { plugins: { legend: legend }, scales: scales('Wall-clock time (s)') },
        });

        new Chart(document.getElementById('speedupChart'), {
            type: 'line',
            data: {
                labels: labels,
                datasets: [
                    { label: chartData.a.name, data: chartData.a.speedup, borderColor: colors.a, spanGaps: true },
                    { label: chartData.b.name, data: chartData.b.speedup, borderColor: colors.b, spanGaps: true },
                    { label: 'Ideal', data: chartData.labels, borderColor: colors.ideal, borderDash: [6, 4], pointRadius: 0 },
                ],
            },
            options: { plugins: { legend: legend }, scales: scales('Speedup') },
        });

        new Chart(document.getElementById('efficiencyChart'), {
            type: 'line',
            data: {
                labels: labels,
                datasets: [
                    { label: chartData.a.name, data: chartData.a.efficiency, borderColor: colors.a, spanGaps: true },
                    { label: chartData.b.name, data: chartData.b.efficiency, borderColor: colors.b, spanGaps: true },
                    { label: 'Ideal', data: chartData.labels.map(() => 1), borderColor: colors.ideal, borderDash: [6, 4], pointRadius: 0 },
                ],
            },
            options: { plugins: { legend: legend }, scales: scales('Efficiency') },
        });
    </script>
</body>
</html>
`
