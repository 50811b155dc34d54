// Package status folds the event log and the open tickets of each post into
// a per-post summary.
package status

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

// Unit is the current state of a single equipment unit at a post
type Unit struct {
	Posto    int                `json:"posto"`
	Material string             `json:"material"`
	Unidade  string             `json:"unidade"`
	Status   string             `json:"status"`
	Data     primitive.DateTime `json:"data"`
}

// PostSummary is the status of one post
type PostSummary struct {
	Posto             int               `json:"posto"`
	Equipamentos      map[string]string `json:"equipamentos"`
	Status            string            `json:"status"`
	TemFalta          bool              `json:"temFalta"`
	FaltasAbertas     int               `json:"faltasAbertas"`
	TemAlteracao      bool              `json:"temAlteracao"`
	AlteracoesAbertas int               `json:"alteracoesAbertas"`
}

// severity orders statuses: quebrado > avaria > ok > ausente
func severity(s string) int {
	switch s {
	case models.StatusQuebrado:
		return 3
	case models.StatusAvaria:
		return 2
	case models.StatusOK:
		return 1
	default:
		return 0
	}
}

// Worst returns the most severe status. No statuses means ausente.
func Worst(statuses ...string) string {
	worst := models.StatusAusente
	for _, s := range statuses {
		if severity(s) > severity(worst) {
			worst = s
		}
	}
	return worst
}

type unitKey struct {
	posto    int
	material string
	unidade  string
}

// ActiveUnits replays equipment events and returns the units still present.
// The latest event of a unit wins; equal timestamps resolve to the later
// event in the slice. A retirada removes the unit.
func ActiveUnits(events []models.Historico) []Unit {
	latest := map[unitKey]models.HistoricoDetails{}
	for _, e := range events {
		d := e.Details
		if !models.IsEquipmentEvent(d.Tipo) {
			continue
		}
		k := unitKey{posto: d.Posto, material: d.Material, unidade: d.Unidade}
		if prev, ok := latest[k]; ok && prev.Data > d.Data {
			continue
		}
		latest[k] = d
	}

	units := make([]Unit, 0, len(latest))
	for k, d := range latest {
		if d.Tipo == models.EventoRetirada {
			continue
		}
		units = append(units, Unit{Posto: k.posto, Material: k.material, Unidade: k.unidade, Status: d.Status, Data: d.Data})
	}
	sort.Slice(units, func(i, j int) bool {
		a, b := units[i], units[j]
		if a.Posto != b.Posto {
			return a.Posto < b.Posto
		}
		if a.Material != b.Material {
			return a.Material < b.Material
		}
		return a.Unidade < b.Unidade
	})
	return units
}

// Equipment returns the worst status per tracked material at posto. Materials
// without active units are ausente.
func Equipment(units []Unit, posto int, equipamentos []string) map[string]string {
	byMaterial := map[string][]string{}
	for _, u := range units {
		if u.Posto == posto {
			byMaterial[u.Material] = append(byMaterial[u.Material], u.Status)
		}
	}
	out := make(map[string]string, len(equipamentos))
	for _, m := range equipamentos {
		out[m] = Worst(byMaterial[m]...)
	}
	return out
}

// Summarize builds one summary per post, in the order of postos
func Summarize(postos []int, equipamentos []string, events []models.Historico, faltas []models.Falta, alteracoes []models.AlteracaoPosto) []PostSummary {
	units := ActiveUnits(events)

	openFaltas := map[int]int{}
	for _, f := range faltas {
		if !f.Details.Resolvida {
			openFaltas[f.Details.Posto]++
		}
	}
	openAlteracoes := map[int]int{}
	for _, a := range alteracoes {
		if !a.Details.Resolvida {
			openAlteracoes[a.Details.Posto]++
		}
	}

	summaries := make([]PostSummary, 0, len(postos))
	for _, p := range postos {
		eq := Equipment(units, p, equipamentos)
		statuses := make([]string, 0, len(eq))
		for _, s := range eq {
			statuses = append(statuses, s)
		}
		summaries = append(summaries, PostSummary{
			Posto:             p,
			Equipamentos:      eq,
			Status:            Worst(statuses...),
			TemFalta:          openFaltas[p] > 0,
			FaltasAbertas:     openFaltas[p],
			TemAlteracao:      openAlteracoes[p] > 0,
			AlteracoesAbertas: openAlteracoes[p],
		})
	}
	return summaries
}
