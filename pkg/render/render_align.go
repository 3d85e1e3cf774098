package render

import (
	"html/template"
	"io"

	"go.uber.org/zap"

	"github.com/yumyai/pangtable/logger"
	"github.com/yumyai/pangtable/pkg/index"
)

var alignPageTemplate *template.Template

// AlignPageData describes the state of an align job for rendering.
type AlignPageData struct {
	JobID                  string
	Mode                   string
	Status                 string
	ErrorMessage           string
	Annotations            []index.Annotation
	Unmapped               []string
	LaidOut                []string
	ShouldRefresh          bool
	RefreshIntervalSeconds int
}

func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Pangenome alignment</title>
		{{ if .ShouldRefresh }}
		<script>
			setTimeout(function () { window.location.reload(); }, {{ mul .RefreshIntervalSeconds 1000 }});
		</script>
		{{ end }}
	</head>
	<body>
		<h1>Pangenome alignment</h1>
		<p><strong>Job ID:</strong> {{ .JobID }}</p>
		<p><strong>Mode:</strong> {{ .Mode }}</p>
		<p><strong>Status:</strong> {{ .Status }}</p>
		{{ if .ErrorMessage }}
			<p style="color: red;">{{ .ErrorMessage }}</p>
		{{ else if .ShouldRefresh }}
			<p>Your alignment is still running. This page refreshes every {{ .RefreshIntervalSeconds }} seconds.</p>
		{{ else }}
			{{ template "annotations" . }}
		{{ end }}
	</body>
	</html>`

	annotationsTmpl := `
	{{ define "annotations" }}
		<table border="1">
			<tr><th>Input</th><th>Family</th><th>Partition</th><th>Spots (member)</th><th>Spots (border)</th><th>RGPs</th></tr>
			{{ range .Annotations }}
				<tr>
					<td>{{ .Input }}</td>
					<td>{{ .Family }}</td>
					<td>{{ .Partition }}</td>
					<td>{{ range .SpotsAsMember }}<a href="/spot/{{ . }}">{{ . }}</a> {{ end }}</td>
					<td>{{ range .SpotsAsBorder }}<a href="/spot/{{ . }}">{{ . }}</a> {{ end }}</td>
					<td>{{ join .RGPs }}</td>
				</tr>
			{{ end }}
		</table>
		{{ if .LaidOut }}
			<p><strong>Related spots laid out:</strong>
			{{ range .LaidOut }}<a href="/spot/{{ . }}">{{ . }}</a> {{ end }}</p>
		{{ end }}
		{{ if .Unmapped }}
			<p>{{ len .Unmapped }} sequence(s) matched no gene family and are counted as cloud.</p>
		{{ end }}
	{{ end }}`

	alignPageTemplate = template.New("align_page").Funcs(template.FuncMap{
		"mul":  func(a, b int) int { return a * b },
		"join": list,
	})
	alignPageTemplate = template.Must(alignPageTemplate.Parse(mainTmpl))
	alignPageTemplate = template.Must(alignPageTemplate.Parse(annotationsTmpl))
}

func RenderAlignPage(w io.Writer, data AlignPageData) error {
	logger.Info("Rendering align page", zap.String("job_id", data.JobID), zap.String("status", data.Status))
	return alignPageTemplate.Execute(w, data)
}
