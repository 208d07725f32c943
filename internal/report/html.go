package report

import (
	"html/template"
	"io"

	"github.com/fortiaudit/fortiaudit/internal/compliance"
	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"label":   func(s compliance.Status) string { return s.Label() },
	"class":   statusClass,
	"ratio":   RatioString,
	"title":   dialectTitle,
	"section": func(k fortiparse.SectionKind) string { return compliance.SectionTitle(k) },
	"inc":     func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html lang="pt-br">
<head>
<meta charset="UTF-8">
<title>Relatório Fortinet {{title .Dialect}}</title>
<style>
body { font-family: Arial, sans-serif; background: #f8f8f8; }
h2 { color: #2d4a73; }
table { border-collapse: collapse; width: 100%; background: #fff; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 8px; }
th { background: #eaeaea; }
.ok { color: green; font-weight: bold; }
.fail { color: red; font-weight: bold; }
.chart { display: flex; align-items: flex-end; gap: 8px; height: 180px; background: #fff; padding: 10px; }
.bar { flex: 1; display: flex; flex-direction: column; justify-content: flex-end; text-align: center; font-size: 11px; }
.bar span { display: block; }
.bar .fill-ok { background: green; height: 150px; }
.bar .fill-fail { background: red; height: 15px; }
pre { background: #f0f0f0; padding: 10px; border-radius: 5px; }
@media print { .chart { break-inside: avoid; } }
</style>
</head>
<body>
<h1>Relatório de Compliance Fortinet {{title .Dialect}}</h1>
<p>Fonte: {{.Source}}</p>
<p>Data de análise: {{.Timestamp}}</p>

<h2>Resumo das Validações</h2>
<table id="summary">
<tr><th>Validação</th><th>Status</th></tr>
{{- range .Items}}
<tr data-check="{{.ID}}"><td>{{.Name}}</td><td class="{{class .Status}}">{{label .Status}}</td></tr>
{{- end}}
</table>

<h2>Gráfico de Compliance</h2>
<div class="chart" id="chart">
{{- range .Items}}
<div class="bar"><span class="fill-{{class .Status}}"></span><span>{{.Name}}</span></div>
{{- end}}
</div>
<h3>Percentual de Compliance: <span id="ratio" style="color:{{if eq .Summary.Failed 0}}green{{else}}orange{{end}}">{{ratio .Summary}}</span></h3>

<h2>Detalhes das Validações</h2>
{{- range .Items}}
<h3>{{.Name}}</h3>
{{- if .Findings}}
<ul class="findings">
{{- range .Findings}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- else}}
<p class="ok">Nenhum problema encontrado.</p>
{{- end}}
{{- end}}

<h2>Blocos Principais de Configuração</h2>
{{- range .Blocks}}
<h3>{{section .Kind}}</h3>
{{- range $i, $b := .Blocks}}
<pre>Bloco #{{inc $i}}
{{$b}}</pre>
{{- end}}
{{- end}}
</body>
</html>
`))

type htmlView struct {
	*compliance.ComplianceReport
	Items []compliance.ChecklistItem
}

func statusClass(s compliance.Status) string {
	if s == compliance.StatusPass {
		return "ok"
	}
	return "fail"
}

// WriteHTML renders the self-contained HTML report. It references no
// external scripts or stylesheets, so it prints and archives as-is.
func WriteHTML(w io.Writer, report *compliance.ComplianceReport) error {
	return htmlTemplate.Execute(w, htmlView{ComplianceReport: report, Items: report.Items()})
}
