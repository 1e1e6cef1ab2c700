package receipt

import (
	"html/template"
	"io"
	"strings"
)

var page = template.Must(template.New("receipt").Funcs(template.FuncMap{"classes": classes}).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: 58mm 80mm; margin: 0; }
body { margin: 0; }
.receipt { width: 58mm; padding: 1mm; box-sizing: border-box; font-family: 'Courier New', monospace; font-size: 8px; line-height: 1.1; color: #000; background: #fff; }
.logo { display: block; margin: 0 auto; width: 12mm; height: auto; max-height: 6mm; }
.sep { border-top: 1px dashed #000; width: 100%; height: 1px; margin-top: 1mm; margin-bottom: 1mm; }
.line { font-size: 7px; }
.row { display: flex; justify-content: space-between; }
.center { text-align: center; }
.bold { font-weight: bold; font-size: 8px; }
.small { font-size: 6px; }
</style>
</head>
<body>
<div class="receipt">
{{- if .Logo}}
<img class="logo" src="{{.Logo}}" alt="Logo">
{{- end}}
{{- range $i, $s := .Sections}}
{{- if $i}}
<div class="sep"></div>
{{- end}}
<div class="section">
{{- range $s.Lines}}
{{- if .Value}}
<div class="{{classes .}} row"><span>{{.Text}}</span><span>{{.Value}}</span></div>
{{- else}}
<div class="{{classes .}}">{{.Text}}</div>
{{- end}}
{{- end}}
</div>
{{- end}}
</div>
</body>
</html>
`))

func classes(l Line) string {
	c := []string{"line"}

	if l.Align == AlignCenter {
		c = append(c, "center")
	}

	if l.Bold {
		c = append(c, "bold")
	}

	if l.Small {
		c = append(c, "small")
	}

	return strings.Join(c, " ")
}

type htmlDocument struct {
	Title    string
	Logo     template.URL
	Sections []Section
}

// WriteHTML renders d as a standalone page sized for the thermal printer.
func WriteHTML(w io.Writer, d Document) error {
	return page.Execute(w, htmlDocument{
		Title:    d.Title,
		Logo:     template.URL(d.Logo),
		Sections: d.Sections,
	})
}
