package triage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wexintel-service/service/models"
)

func populacaoComGrupo() []models.Chamado {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	chamados := make([]models.Chamado, 0, 5)

	// Três chamados quase idênticos do mesmo cliente.
	for i := 0; i < 3; i++ {
		chamados = append(chamados, models.Chamado{
			ID:                 fmt.Sprintf("grupo-%d", i),
			NumeroWex:          fmt.Sprintf("WEX00002%d", i),
			ClienteSolicitante: "Empresa Alfa",
			Titulo:             "Erro 500 no relatório financeiro",
			Descricao:          "Erro 500 ao gerar relatório financeiro mensal no sistema",
			Criticidade:        models.CriticidadeAlta,
			Status:             models.StatusAberto,
			DataCriacao:        base.Add(time.Duration(i) * 24 * time.Hour),
		})
	}

	// Dois chamados sem relação entre si nem com o grupo.
	chamados = append(chamados, models.Chamado{
		ID:                 "solo-1",
		NumeroWex:          "WEX000031",
		ClienteSolicitante: "Empresa Beta",
		Titulo:             "Dúvida sobre cadastro",
		Descricao:          "Dúvida sobre cadastro de novos fornecedores no portal de compras",
		Criticidade:        models.CriticidadeBaixa,
		Status:             models.StatusResolvido,
		DataCriacao:        base.Add(10 * 24 * time.Hour),
	})
	chamados = append(chamados, models.Chamado{
		ID:                 "solo-2",
		NumeroWex:          "WEX000032",
		ClienteSolicitante: "Empresa Gama",
		Titulo:             "Lentidão na tela inicial",
		Descricao:          "Tela inicial demora vários minutos para carregar pela manhã",
		Criticidade:        models.CriticidadeMedia,
		Status:             models.StatusAberto,
		DataCriacao:        base.Add(12 * 24 * time.Hour),
	})

	return chamados
}

func TestGerarRelatorioPadroes_AgrupaSimilares(t *testing.T) {
	rs := DefaultRuleset()
	chamados := populacaoComGrupo()

	relatorio := GerarRelatorioPadroes(chamados, 30, rs)

	assert.Equal(t, 5, relatorio.TotalChamados)
	require.Equal(t, 1, relatorio.TotalGruposSimilares)

	grupo := relatorio.GruposSimilares[0]
	assert.Equal(t, 3, grupo.Tamanho)
	assert.Greater(t, grupo.SimilaridadeMedia, rs.ThresholdAgrupamento())
	assert.Len(t, grupo.Chamados, 3)
	assert.NotEmpty(t, grupo.PadroesIdentificados)

	// Cliente dominante e janela temporal aparecem nos padrões do grupo.
	encontrouCliente := false
	encontrouJanela := false
	for _, p := range grupo.PadroesIdentificados {
		if p == "Cliente Empresa Alfa concentra 3 dos 3 chamados" {
			encontrouCliente = true
		}
		if p == "Ocorrências concentradas em uma semana" {
			encontrouJanela = true
		}
	}
	assert.True(t, encontrouCliente, "padrões: %v", grupo.PadroesIdentificados)
	assert.True(t, encontrouJanela, "padrões: %v", grupo.PadroesIdentificados)
}

func TestGerarRelatorioPadroes_ClienteComumNaoAgrupaAssuntosDistintos(t *testing.T) {
	rs := DefaultRuleset()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	// Mesmo cliente, mesma criticidade e mesmo código de erro, mas assuntos
	// diferentes: só o texto decide o agrupamento.
	chamados := []models.Chamado{
		{
			ID:                 "compras",
			NumeroWex:          "WEX000041",
			ClienteSolicitante: "Empresa Alfa",
			Titulo:             "Erro 500 no portal de compras",
			Descricao:          "Erro 500 no portal de compras ao aprovar pedidos de material",
			Criticidade:        models.CriticidadeAlta,
			Status:             models.StatusAberto,
			DataCriacao:        base,
		},
		{
			ID:                 "faturamento",
			NumeroWex:          "WEX000042",
			ClienteSolicitante: "Empresa Alfa",
			Titulo:             "Erro 500 na tela de faturamento",
			Descricao:          "Erro 500 na tela de faturamento ao emitir notas do mês",
			Criticidade:        models.CriticidadeAlta,
			Status:             models.StatusAberto,
			DataCriacao:        base.Add(24 * time.Hour),
		},
	}

	relatorio := GerarRelatorioPadroes(chamados, 30, rs)
	assert.Empty(t, relatorio.GruposSimilares)
}

func TestGerarRelatorioPadroes_SemGruposUnitarios(t *testing.T) {
	rs := DefaultRuleset()
	relatorio := GerarRelatorioPadroes(populacaoComGrupo(), 30, rs)

	for _, grupo := range relatorio.GruposSimilares {
		assert.Greater(t, grupo.Tamanho, 1)
	}
}

func TestGerarRelatorioPadroes_PopulacaoInsuficiente(t *testing.T) {
	rs := DefaultRuleset()

	relatorio := GerarRelatorioPadroes(nil, 30, rs)
	assert.Equal(t, 0, relatorio.TotalChamados)
	assert.Empty(t, relatorio.GruposSimilares)
	assert.Contains(t, relatorio.Resumo, "insuficiente")

	// Descrições curtas demais não entram no agrupamento.
	curtos := []models.Chamado{
		{ID: "1", Descricao: "não abre"},
		{ID: "2", Descricao: "não abre"},
	}
	relatorio = GerarRelatorioPadroes(curtos, 30, rs)
	assert.Empty(t, relatorio.GruposSimilares)
	assert.Contains(t, relatorio.Resumo, "insuficiente")
}

func TestGerarRelatorioPadroes_ConfiancaCresceComPopulacao(t *testing.T) {
	rs := DefaultRuleset()

	relatorio := GerarRelatorioPadroes(populacaoComGrupo(), 30, rs)
	assert.InDelta(t, 0.1, relatorio.ConfiancaAnalise, 0.001)

	assert.InDelta(t, 1.0, confiancaAnalise(50), 0.001)
	assert.InDelta(t, 1.0, confiancaAnalise(500), 0.001)
	assert.InDelta(t, 0.5, confiancaAnalise(25), 0.001)
}

func TestGerarRelatorioPadroes_ResumoERecomendacoes(t *testing.T) {
	rs := DefaultRuleset()
	relatorio := GerarRelatorioPadroes(populacaoComGrupo(), 30, rs)

	assert.Contains(t, relatorio.Resumo, "5 chamados")
	assert.Contains(t, relatorio.Resumo, "1 grupos")
	assert.NotEmpty(t, relatorio.Insights)
	assert.NotEmpty(t, relatorio.Recomendacoes)
	assert.NotEmpty(t, relatorio.Tendencias)
	assert.GreaterOrEqual(t, relatorio.TempoProcessamento, 0.0)
}

func TestAgruparGuloso_OrdemDeEntradaDefineSementes(t *testing.T) {
	rs := DefaultRuleset()
	chamados := populacaoComGrupo()

	relatorio := GerarRelatorioPadroes(chamados, 30, rs)
	require.Equal(t, 1, relatorio.TotalGruposSimilares)

	// A semente é o chamado mais antigo do grupo.
	assert.Equal(t, "grupo-0", relatorio.GruposSimilares[0].Chamados[0].ID)
}
