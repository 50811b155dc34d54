package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

func TestGVCDetails_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      models.GVCDetails
		wantErr bool
		status  string
	}{
		{name: "defaults status", in: models.GVCDetails{Nome: " Ana ", Posicao: 3}, status: models.GVCAtivo},
		{name: "inactive", in: models.GVCDetails{Nome: "Rui", Status: models.GVCInativo}, status: models.GVCInativo},
		{name: "missing name", in: models.GVCDetails{Nome: "  "}, wantErr: true},
		{name: "negative rank", in: models.GVCDetails{Nome: "Ana", Posicao: -1}, wantErr: true},
		{name: "bad status", in: models.GVCDetails{Nome: "Ana", Status: "ferias"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.status, tt.in.Status)
		})
	}
}

func TestCondutaDetails_Validate(t *testing.T) {
	ok := models.CondutaDetails{GVCID: "1", Tipo: models.CondutaElogio, Descricao: "resgate"}
	assert.NoError(t, ok.Validate())

	badTipo := models.CondutaDetails{GVCID: "1", Tipo: "multa", Descricao: "x"}
	assert.Error(t, badTipo.Validate())

	noDesc := models.CondutaDetails{GVCID: "1", Tipo: models.CondutaAdvertencia}
	assert.Error(t, noDesc.Validate())
}
