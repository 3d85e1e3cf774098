// Render HTML for viewing the layout of one spot

package render

import (
	"fmt"
	"html/template"
	"io"
	"math"

	"go.uber.org/zap"

	"github.com/yumyai/pangtable/logger"
	"github.com/yumyai/pangtable/pkg/synteny"
)

var spotPageTemplate *template.Template

// colorByPartition gives genes the usual partition colours, RNAs in grey.
func colorByPartition(partition string) string {
	switch partition {
	case "persistent":
		return "#F7A507"
	case "shell":
		return "#00D860"
	case "cloud":
		return "#79DEFF"
	default:
		return "#CCCCCC"
	}
}

// calculateByOccurrences maps how many regions share an organisation to warm colors.
// 1..5 use distinct YlOrRd-like buckets, more goes from deep orange to dark red up to a cap.
func calculateByOccurrences(val int) string {
	value := float64(val)
	if value <= 0 {
		return "#CCCCCC"
	}

	v := int(math.Floor(value + 1e-9))
	switch v {
	case 1:
		return "#FFFFB2"
	case 2:
		return "#FECC5C"
	case 3:
		return "#FD8D3C"
	case 4:
		return "#F03B20"
	case 5:
		return "#BD0026"
	}

	const capVal = 30.0
	if value > capVal {
		value = capVal
	}
	sr, sg, sb := 189.0, 0.0, 38.0 // #BD0026
	er, eg, eb := 128.0, 0.0, 0.0  // #800000
	t := (value - 5.0) / (capVal - 5.0)
	r := int(math.Round(lerp(sr, er, t)))
	g := int(math.Round(lerp(sg, eg, t)))
	b := int(math.Round(lerp(sb, eb, t)))
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// geneArrow is the shape of a gene drawn on its strand, after orientation.
func geneArrow(strand string, reversed bool) string {
	forward := strand != "-"
	if reversed {
		forward = !forward
	}
	if forward {
		return "&#9654;"
	}
	return "&#9664;"
}

func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Spot layout: {{ .Spot }}</title>
		<style>
		table.spot { border-collapse: collapse; }
		table.spot td { padding: 2px 4px; font-size: 0.8rem; }
		.gene { display: inline-block; min-width: 3em; text-align: center; margin: 1px; border-radius: 3px; }
		.unclassified { opacity: 0.5; }
		</style>
	</head>
	<body>
		<h1>{{ .Spot }}</h1>
		<p>set size {{ .Tolerance.SetSize }}, overlapping match {{ .Tolerance.OverlappingMatch }}, exact match {{ .Tolerance.ExactMatch }}</p>
		{{ if .Unclassified }}
			<p style="color: red;">Could not orient: {{ range .Unclassified }}{{ . }} {{ end }}</p>
		{{ end }}
		{{ template "layout" . }}
		{{ template "identical" . }}
	</body>
	</html>`

	layoutTmpl := `
	{{ define "layout" }}
		<table class="spot" border="1">
			<tr><th>RGP</th><th>Organism</th><th>Occurrences</th><th>Genes</th></tr>
			{{ range .Regions }}
				<tr {{ if .Unclassified }}class="unclassified"{{ end }}>
					<td>{{ .RGP }}</td>
					<td>{{ .Organism }}</td>
					<td bgcolor="{{ occurrenceColor .Occurrences }}">{{ .Occurrences }}</td>
					<td>
						{{ $reversed := .Reversed }}
						{{ range .Genes }}
							<span class="gene" style="background: {{ partitionColor .Partition }}" title="{{ .ID }} {{ .Product }}">{{ arrow .Strand $reversed }} {{ .Family }}</span>
						{{ end }}
					</td>
				</tr>
			{{ end }}
		</table>
	{{ end }}`

	identicalTmpl := `
	{{ define "identical" }}
		<h2>Identical gene organisations</h2>
		<table border="1">
			<tr><th>Representative</th><th>Organism</th><th>Identical RGP</th><th>Organism</th></tr>
			{{ range .Identical }}
				<tr><td>{{ .Representative }}</td><td>{{ .RepresentativeOrganism }}</td><td>{{ .Identical }}</td><td>{{ .IdenticalOrganism }}</td></tr>
			{{ end }}
		</table>
	{{ end }}`

	funcMap := template.FuncMap{
		"partitionColor":  func(p string) template.CSS { return template.CSS(colorByPartition(p)) },
		"occurrenceColor": calculateByOccurrences,
		"arrow": func(strand string, reversed bool) template.HTML {
			return template.HTML(geneArrow(strand, reversed))
		},
	}

	spotPageTemplate = template.New("spot").Funcs(funcMap)
	spotPageTemplate = template.Must(spotPageTemplate.Parse(mainTmpl))
	spotPageTemplate = template.Must(spotPageTemplate.Parse(layoutTmpl))
	spotPageTemplate = template.Must(spotPageTemplate.Parse(identicalTmpl))
}

// RenderSpotPage draws the representative regions of a spot, one row each.
func RenderSpotPage(w io.Writer, layout synteny.LayoutView) error {
	logger.Debug("Rendering spot page", zap.String("spot", layout.Spot), zap.Int("rows", len(layout.Regions)))
	return spotPageTemplate.Execute(w, layout)
}
