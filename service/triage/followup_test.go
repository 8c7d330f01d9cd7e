package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wexintel-service/service/models"
)

func chamadoFollowup(status, criticidade string, idade time.Duration, agora time.Time) *models.Chamado {
	return &models.Chamado{
		ID:                 "ch-1",
		NumeroWex:          "WEX000040",
		ClienteSolicitante: "Empresa Alfa",
		Titulo:             "Erro ao emitir nota fiscal",
		Descricao:          "Erro ao emitir nota fiscal no módulo de faturamento",
		Status:             status,
		Criticidade:        criticidade,
		DataCriacao:        agora.Add(-idade),
	}
}

func TestSugerirFollowups_ProximoTipoPorStatus(t *testing.T) {
	agora := time.Now()

	casos := []struct {
		status   string
		tipo     string
	}{
		{models.StatusAberto, models.FollowUpAnaliseInicial},
		{models.StatusEmAnalise, models.FollowUpAnaliseTecnica},
		{models.StatusPendente, models.FollowUpContatoCliente},
		{models.StatusDesenvolvimento, models.FollowUpDesenvolvimento},
		{models.StatusTeste, models.FollowUpTeste},
		{models.StatusResolvido, models.FollowUpPublicacao},
		{models.StatusFechado, models.FollowUpOutros},
	}

	for _, caso := range casos {
		t.Run(caso.status, func(t *testing.T) {
			ch := chamadoFollowup(caso.status, models.CriticidadeMedia, time.Hour, agora)
			sugestoes := SugerirFollowups(ch, nil, agora)

			assert.Equal(t, caso.tipo, sugestoes.ProximoTipo)
			require.NotEmpty(t, sugestoes.Sugestoes)
		})
	}
}

func TestSugerirFollowups_CriticoEstagnado(t *testing.T) {
	agora := time.Now()
	ch := chamadoFollowup(models.StatusEmAnalise, models.CriticidadeCritica, 5*time.Hour, agora)

	sugestoes := SugerirFollowups(ch, nil, agora)

	assert.Equal(t, "alta", sugestoes.Prioridade)
	encontrou := false
	for _, s := range sugestoes.Sugestoes {
		if len(s) >= 7 && s[:7] == "URGENTE" {
			encontrou = true
		}
	}
	assert.True(t, encontrou, "sugestões: %v", sugestoes.Sugestoes)
}

func TestSugerirFollowups_CriticoRecenteNaoAlerta(t *testing.T) {
	agora := time.Now()
	ch := chamadoFollowup(models.StatusAberto, models.CriticidadeCritica, time.Hour, agora)

	sugestoes := SugerirFollowups(ch, nil, agora)
	assert.Equal(t, "media", sugestoes.Prioridade)
}

func TestSugerirFollowups_FollowupRecenteZeraEstagnacao(t *testing.T) {
	agora := time.Now()
	ch := chamadoFollowup(models.StatusEmAnalise, models.CriticidadeCritica, 48*time.Hour, agora)
	ch.Followups = []models.FollowUp{{
		Tipo:        models.FollowUpAnaliseInicial,
		Descricao:   "Investigação iniciada",
		Autor:       "analista",
		DataCriacao: agora.Add(-30 * time.Minute),
	}}

	sugestoes := SugerirFollowups(ch, nil, agora)

	// Atividade recente: sem alerta de estagnação crítica.
	for _, s := range sugestoes.Sugestoes {
		assert.NotContains(t, s, "URGENTE")
	}
	require.NotNil(t, sugestoes.Contexto.TempoDesdeUltimoFollowupHoras)
	assert.InDelta(t, 0.5, *sugestoes.Contexto.TempoDesdeUltimoFollowupHoras, 0.01)
}

func TestSugerirFollowups_ChamadoAntigoEscalona(t *testing.T) {
	agora := time.Now()
	ch := chamadoFollowup(models.StatusEmAnalise, models.CriticidadeMedia, 100*time.Hour, agora)
	ch.Followups = []models.FollowUp{{
		Tipo:        models.FollowUpAnaliseInicial,
		Descricao:   "Investigação iniciada",
		Autor:       "analista",
		DataCriacao: agora.Add(-time.Hour),
	}}

	sugestoes := SugerirFollowups(ch, nil, agora)

	assert.Equal(t, "alta", sugestoes.Prioridade)
	encontrou := false
	for _, s := range sugestoes.Sugestoes {
		if s == "Chamado aberto há mais de 3 dias; avaliar escalonamento" {
			encontrou = true
		}
	}
	assert.True(t, encontrou)
}

func TestSugerirFollowups_LimiteDeCinco(t *testing.T) {
	agora := time.Now()
	ch := chamadoFollowup(models.StatusEmAnalise, models.CriticidadeCritica, 100*time.Hour, agora)
	ch.Descricao = "Aguardando retorno do cliente sobre o erro no módulo de faturamento"

	sugestoes := SugerirFollowups(ch, nil, agora)
	assert.LessOrEqual(t, len(sugestoes.Sugestoes), 5)
}

func TestSugerirFollowups_ExemplosDoHistorico(t *testing.T) {
	agora := time.Now()
	ch := chamadoFollowup(models.StatusAberto, models.CriticidadeMedia, time.Hour, agora)

	resolvidos := []models.Chamado{
		{
			ID:          "res-1",
			NumeroWex:   "WEX000050",
			Titulo:      "Erro ao emitir nota fiscal",
			Descricao:   "Erro ao emitir nota fiscal no módulo de faturamento após atualização",
			Status:      models.StatusResolvido,
			Followups: []models.FollowUp{{
				Tipo:      models.FollowUpAnaliseTecnica,
				Descricao: "Corrigido certificado digital expirado",
				Autor:     "analista",
			}},
		},
		{
			ID:        "res-2",
			NumeroWex: "WEX000051",
			Titulo:    "Dúvida sobre cadastro",
			Descricao: "Dúvida simples de cadastro de usuários",
			Status:    models.StatusResolvido,
			Followups: []models.FollowUp{{
				Tipo:      models.FollowUpContatoCliente,
				Descricao: "Orientação enviada",
				Autor:     "analista",
			}},
		},
		{
			ID:        "res-3",
			NumeroWex: "WEX000052",
			Titulo:    "Erro ao emitir nota fiscal",
			Descricao: "Erro ao emitir nota fiscal em produção",
			Status:    models.StatusResolvido,
			// Sem follow-ups: não serve de exemplo.
		},
	}

	sugestoes := SugerirFollowups(ch, resolvidos, agora)

	require.Len(t, sugestoes.ExemplosHistorico, 1)
	exemplo := sugestoes.ExemplosHistorico[0]
	assert.Equal(t, "res-1", exemplo.ChamadoSimilarID)
	assert.GreaterOrEqual(t, len(exemplo.PalavrasComuns), 2)
	require.Len(t, exemplo.Followups, 1)
	assert.Contains(t, exemplo.Followups[0], "Análise Técnica")
}

func TestPalavrasComuns(t *testing.T) {
	comuns, score := PalavrasComuns(
		"Erro ao emitir nota fiscal no faturamento",
		"Erro ao emitir nota fiscal em produção",
	)

	assert.Contains(t, comuns, "erro")
	assert.Contains(t, comuns, "emitir")
	assert.Contains(t, comuns, "nota")
	assert.Contains(t, comuns, "fiscal")
	assert.Greater(t, score, 0.0)
}
