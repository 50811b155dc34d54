package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

// DigestSubject is the subject line of the daily digest for day
func DigestSubject(day time.Time) string {
	return "Pendencias dos postos - " + day.Format("02/01/2006")
}

// DigestText lists open faltas and alteracoes as plain text
func DigestText(faltas []models.Falta, alteracoes []models.AlteracaoPosto) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Faltas abertas: %d\n", len(faltas))
	for _, f := range faltas {
		d := f.Details
		fmt.Fprintf(&b, "- Posto %d: %s (%s) desde %s", d.Posto, d.Material, d.Categoria, d.DataFalta.Time().Format("02/01 15:04"))
		if d.Observacao != "" {
			fmt.Fprintf(&b, " - %s", d.Observacao)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nAlteracoes abertas: %d\n", len(alteracoes))
	for _, a := range alteracoes {
		d := a.Details
		fmt.Fprintf(&b, "- Posto %d: %s desde %s", d.Posto, d.Descricao, d.DataCriacao.Time().Format("02/01 15:04"))
		if n := len(d.Observacoes); n > 0 {
			fmt.Fprintf(&b, " (ultima nota: %s)", d.Observacoes[n-1].Texto)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// postoPendencias groups the open tickets of one posto
type postoPendencias struct {
	Posto      int
	Faltas     []string
	Alteracoes []string
}

type digestView struct {
	Subject         string
	TotalFaltas     int
	TotalAlteracoes int
	Postos          []postoPendencias
}

var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:0;background:#e0f2fe;font-family:Arial,Helvetica,sans-serif;color:#0f172a;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr><td align="center" style="padding:24px 12px;">
      <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;">
        <tr><td style="background:#0369a1;color:#ffffff;padding:20px 24px;border-radius:8px 8px 0 0;">
          <div style="font-size:12px;letter-spacing:1px;text-transform:uppercase;">Ultimate Praia</div>
          <div style="font-size:20px;font-weight:bold;">{{.Subject}}</div>
        </td></tr>
        <tr><td style="padding:16px 24px;">
          <table role="presentation" width="100%" cellpadding="8" cellspacing="0" style="border-collapse:collapse;text-align:center;">
            <tr>
              <td style="background:#fef3c7;"><strong style="font-size:22px;">{{.TotalFaltas}}</strong><br>faltas abertas</td>
              <td style="background:#fee2e2;"><strong style="font-size:22px;">{{.TotalAlteracoes}}</strong><br>alteracoes abertas</td>
            </tr>
          </table>
        </td></tr>
        <tr><td style="padding:0 24px 24px;">
          <table role="presentation" width="100%" cellpadding="6" cellspacing="0" style="border-collapse:collapse;font-size:14px;">
            <tr style="background:#f1f5f9;text-align:left;">
              <th>Posto</th><th>Faltas</th><th>Alteracoes</th>
            </tr>
            {{- range .Postos}}
            <tr style="border-top:1px solid #e2e8f0;vertical-align:top;">
              <td><strong>{{.Posto}}</strong></td>
              <td>{{range .Faltas}}{{.}}<br>{{else}}-{{end}}</td>
              <td>{{range .Alteracoes}}{{.}}<br>{{else}}-{{end}}</td>
            </tr>
            {{- end}}
          </table>
        </td></tr>
        <tr><td style="padding:12px 24px;font-size:12px;color:#64748b;border-top:1px solid #e2e8f0;">
          Resumo diario enviado pela central de guarda-vidas.
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>
`))

// RenderDigestEmail renders the digest as an HTML page with a count summary
// and one row per posto with open tickets
func RenderDigestEmail(subject string, faltas []models.Falta, alteracoes []models.AlteracaoPosto) (string, error) {
	byPosto := map[int]*postoPendencias{}
	get := func(posto int) *postoPendencias {
		p, ok := byPosto[posto]
		if !ok {
			p = &postoPendencias{Posto: posto}
			byPosto[posto] = p
		}
		return p
	}
	for _, f := range faltas {
		p := get(f.Details.Posto)
		p.Faltas = append(p.Faltas, f.Details.Material+" ("+f.Details.Categoria+")")
	}
	for _, a := range alteracoes {
		p := get(a.Details.Posto)
		p.Alteracoes = append(p.Alteracoes, a.Details.Descricao)
	}

	view := digestView{Subject: subject, TotalFaltas: len(faltas), TotalAlteracoes: len(alteracoes)}
	for _, p := range byPosto {
		view.Postos = append(view.Postos, *p)
	}
	sort.Slice(view.Postos, func(i, j int) bool { return view.Postos[i].Posto < view.Postos[j].Posto })

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
