package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wexintel-service/service/models"
)

func chamadoSimilaridade(id, numero, cliente, descricao string) models.Chamado {
	return models.Chamado{
		ID:                 id,
		NumeroWex:          numero,
		ClienteSolicitante: cliente,
		Titulo:             "Falha no relatório",
		Descricao:          descricao,
		Criticidade:        models.CriticidadeAlta,
		DataCriacao:        time.Now(),
	}
}

func TestFindRelated_RanqueiaPorSimilaridade(t *testing.T) {
	rs := DefaultRuleset()

	alvo := chamadoSimilaridade("a", "WEX000010", "Empresa Alfa",
		"Erro 500 ao gerar relatório financeiro mensal no sistema")
	candidatos := []models.Chamado{
		chamadoSimilaridade("b", "WEX000011", "Empresa Alfa",
			"Erro 500 ao gerar relatório financeiro consolidado no sistema"),
		chamadoSimilaridade("c", "WEX000012", "Empresa Beta",
			"Dúvida sobre cadastro de novos fornecedores no portal de compras"),
	}

	similares, _, err := FindRelated(&alvo, candidatos, 5, 0.3, rs)
	require.NoError(t, err)

	require.Len(t, similares, 1)
	assert.Equal(t, "b", similares[0].ID)
	assert.GreaterOrEqual(t, similares[0].ScoreSimilaridade, 0.3)
	assert.Contains(t, similares[0].Motivos, "Mesmo cliente")
	assert.Contains(t, similares[0].Motivos, "Mesma criticidade")
	assert.Contains(t, similares[0].Motivos, "Mesmo código de erro")
}

func TestFindRelated_ExcluiOProprioChamado(t *testing.T) {
	rs := DefaultRuleset()

	alvo := chamadoSimilaridade("a", "WEX000010", "Empresa Alfa",
		"Erro 500 ao gerar relatório financeiro mensal no sistema")
	candidatos := []models.Chamado{
		alvo,
		chamadoSimilaridade("z", "WEX000010", "Empresa Alfa",
			"Erro 500 ao gerar relatório financeiro mensal no sistema"),
	}

	similares, _, err := FindRelated(&alvo, candidatos, 5, 0.1, rs)
	require.NoError(t, err)

	// Mesmo ID e mesmo número WEX ficam de fora.
	assert.Empty(t, similares)
}

func TestFindRelated_OrdenacaoELimite(t *testing.T) {
	rs := DefaultRuleset()

	alvo := chamadoSimilaridade("a", "WEX000010", "Empresa Alfa",
		"Erro 500 ao gerar relatório financeiro mensal no sistema")
	candidatos := []models.Chamado{
		chamadoSimilaridade("fraco", "WEX000013", "Empresa Alfa",
			"Tela de cadastro apresenta lentidão ao salvar novos registros"),
		chamadoSimilaridade("forte", "WEX000011", "Empresa Alfa",
			"Erro 500 ao gerar relatório financeiro mensal no sistema"),
		chamadoSimilaridade("medio", "WEX000012", "Empresa Alfa",
			"Erro ao gerar relatório de vendas no sistema"),
	}

	similares, _, err := FindRelated(&alvo, candidatos, 2, 0.1, rs)
	require.NoError(t, err)

	require.Len(t, similares, 2)
	assert.Equal(t, "forte", similares[0].ID)
	assert.GreaterOrEqual(t, similares[0].ScoreSimilaridade, similares[1].ScoreSimilaridade)
}

func TestFindRelated_Simetrica(t *testing.T) {
	rs := DefaultRuleset()

	a := chamadoSimilaridade("a", "WEX000010", "Empresa Alfa",
		"Erro 500 ao gerar relatório financeiro mensal no sistema")
	b := chamadoSimilaridade("b", "WEX000011", "Empresa Alfa",
		"Erro 500 ao gerar relatório financeiro consolidado no sistema")

	deAParaB, _, err := FindRelated(&a, []models.Chamado{b}, 5, 0.1, rs)
	require.NoError(t, err)
	deBParaA, _, err := FindRelated(&b, []models.Chamado{a}, 5, 0.1, rs)
	require.NoError(t, err)

	require.Len(t, deAParaB, 1)
	require.Len(t, deBParaA, 1)
	assert.InDelta(t, deAParaB[0].ScoreSimilaridade, deBParaA[0].ScoreSimilaridade, 0.001)
}

func TestFindRelated_AlvoNulo(t *testing.T) {
	_, _, err := FindRelated(nil, nil, 5, 0.3, DefaultRuleset())
	assert.Error(t, err)
}

func TestFindRelated_PadroesDeRecorrencia(t *testing.T) {
	rs := DefaultRuleset()

	alvo := chamadoSimilaridade("a", "WEX000010", "Empresa Alfa",
		"Erro 500 ao gerar relatório financeiro mensal no sistema")
	candidatos := []models.Chamado{
		chamadoSimilaridade("b", "WEX000011", "Empresa Alfa",
			"Erro 500 ao gerar relatório financeiro consolidado no sistema"),
		chamadoSimilaridade("c", "WEX000012", "Empresa Alfa",
			"Erro 500 ao gerar relatório financeiro anual no sistema"),
		chamadoSimilaridade("d", "WEX000013", "Empresa Alfa",
			"Erro 500 ao gerar relatório financeiro semanal no sistema"),
	}

	_, padroes, err := FindRelated(&alvo, candidatos, 5, 0.3, rs)
	require.NoError(t, err)

	require.NotEmpty(t, padroes)
	assert.Contains(t, padroes[0], "Empresa Alfa")
}

func TestFindRelated_SinaisDeErroSaoBinarios(t *testing.T) {
	rs := DefaultRuleset()

	// Cada lado carrega códigos e mensagens próprios além dos compartilhados:
	// basta uma coincidência para o sinal valer 1.0.
	alvo := chamadoSimilaridade("a", "WEX000010", "Empresa Alfa",
		`Erro 500 e erro 404 ao gerar relatório: aparece "falha ao processar" e "timeout interno"`)
	candidatos := []models.Chamado{
		chamadoSimilaridade("b", "WEX000011", "Empresa Beta",
			`Erro 500 e erro 123 ao gerar relatório: aparece "falha ao processar" e "conexão recusada"`),
	}

	similares, _, err := FindRelated(&alvo, candidatos, 5, 0.1, rs)
	require.NoError(t, err)

	require.Len(t, similares, 1)
	assert.InDelta(t, 1.0, similares[0].DetalhesScores["codigos_erro"], 0.001)
	assert.InDelta(t, 1.0, similares[0].DetalhesScores["mensagens_erro"], 0.001)
	assert.Contains(t, similares[0].Motivos, "Mesmo código de erro")
	assert.Contains(t, similares[0].Motivos, "Mesma mensagem de erro")
}

func TestFindRelated_MotivosPorFaixaDoScoreComposto(t *testing.T) {
	rs := DefaultRuleset()

	alvo := chamadoSimilaridade("a", "WEX000010", "Empresa Alfa",
		"Erro 500 ao gerar relatório financeiro mensal no sistema")

	t.Run("score alto", func(t *testing.T) {
		candidatos := []models.Chamado{
			chamadoSimilaridade("b", "WEX000011", "Empresa Alfa",
				"Erro 500 ao gerar relatório financeiro mensal no sistema"),
		}
		similares, _, err := FindRelated(&alvo, candidatos, 5, 0.1, rs)
		require.NoError(t, err)

		require.Len(t, similares, 1)
		assert.Greater(t, similares[0].ScoreSimilaridade, 0.7)
		assert.Contains(t, similares[0].Motivos, "Descrição muito similar")
		assert.Contains(t, similares[0].Motivos, "Vocabulário em comum")
	})

	t.Run("score moderado", func(t *testing.T) {
		candidatos := []models.Chamado{
			chamadoSimilaridade("c", "WEX000012", "Empresa Beta",
				"Erro ao gerar boleto bancario mensal no portal"),
		}
		similares, _, err := FindRelated(&alvo, candidatos, 5, 0.1, rs)
		require.NoError(t, err)

		require.Len(t, similares, 1)
		assert.LessOrEqual(t, similares[0].ScoreSimilaridade, 0.5)
		assert.Contains(t, similares[0].Motivos, "Similaridade moderada")
	})
}

func TestFindRelated_MetricaTFIDF(t *testing.T) {
	rs := DefaultRuleset()
	rs.ConfiguracoesAvancadas.Similaridade.Metrica = MetricaTFIDF

	alvo := chamadoSimilaridade("a", "WEX000010", "Empresa Alfa",
		"Erro 500 ao gerar relatório financeiro mensal no sistema")
	candidatos := []models.Chamado{
		chamadoSimilaridade("b", "WEX000011", "Empresa Alfa",
			"Erro 500 ao gerar relatório financeiro mensal no sistema"),
	}

	similares, _, err := FindRelated(&alvo, candidatos, 5, 0.3, rs)
	require.NoError(t, err)

	require.Len(t, similares, 1)
	// Documentos idênticos têm cosseno 1.0 no componente léxico.
	assert.InDelta(t, 1.0, similares[0].DetalhesScores["palavras"], 0.001)
}

func TestCosseno(t *testing.T) {
	assert.InDelta(t, 1.0, cosseno([]float64{1, 2, 3}, []float64{1, 2, 3}), 0.001)
	assert.InDelta(t, 0.0, cosseno([]float64{1, 0}, []float64{0, 1}), 0.001)
	assert.Equal(t, 0.0, cosseno([]float64{0, 0}, []float64{1, 1}))
}

func TestTFIDFModel_DocumentosIdenticosEDistintos(t *testing.T) {
	docs := [][]string{
		{"erro", "relatorio", "financeiro"},
		{"erro", "relatorio", "financeiro"},
		{"cadastro", "fornecedores", "portal"},
	}
	m := newTFIDFModel(docs)

	assert.InDelta(t, 1.0, m.similaridade(0, 1), 0.001)
	assert.InDelta(t, 0.0, m.similaridade(0, 2), 0.001)
}

func TestJaccard(t *testing.T) {
	a := map[string]struct{}{"x": {}, "y": {}}
	b := map[string]struct{}{"y": {}, "z": {}}

	assert.InDelta(t, 1.0/3.0, jaccard(a, b), 0.001)
	assert.Equal(t, 0.0, jaccard(nil, nil))
	assert.InDelta(t, 1.0, jaccard(a, a), 0.001)
}
