package triage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wexintel-service/service/models"
)

func novoEngineDeTeste(t *testing.T, oracle TextQualityOracle) *Engine {
	t.Helper()
	return NewEngine(novoStoreTemporario(t), oracle)
}

func TestAggregate_BreakdownMaximoVale100(t *testing.T) {
	rs := DefaultRuleset()
	breakdown := map[string]int{
		CategoriaAnexos:       30,
		CategoriaDescricao:    25,
		CategoriaInfoTecnicas: 25,
		CategoriaContexto:     20,
	}

	assert.Equal(t, 100, Aggregate(breakdown, rs))
}

func TestAggregate_NormalizaPeloTetoDaCategoria(t *testing.T) {
	rs := DefaultRuleset()

	// Metade de cada teto deve resultar em exatamente metade do score.
	breakdown := map[string]int{
		CategoriaAnexos:       15,
		CategoriaDescricao:    12,
		CategoriaInfoTecnicas: 13,
		CategoriaContexto:     10,
	}
	// 15 + 12 + 13 + 10 = 50 com os pesos de referência
	assert.Equal(t, 50, Aggregate(breakdown, rs))
}

func TestAggregate_TruncaParaBaixo(t *testing.T) {
	rs := &Ruleset{
		PesosCategorias: map[string]float64{CategoriaAnexos: 1.0},
		PontuacaoCriterios: map[string]CategoriaCriterios{
			CategoriaAnexos:       {TotalMaximo: 3},
			CategoriaDescricao:    {TotalMaximo: 1},
			CategoriaInfoTecnicas: {TotalMaximo: 1},
			CategoriaContexto:     {TotalMaximo: 1},
		},
	}

	// 2/3 * 100 = 66.66... -> 66, nunca 67.
	assert.Equal(t, 66, Aggregate(map[string]int{CategoriaAnexos: 2}, rs))
}

func TestAggregate_CategoriaVaziaNaoDividePorZero(t *testing.T) {
	rs := &Ruleset{
		PesosCategorias: map[string]float64{CategoriaAnexos: 1.0},
		PontuacaoCriterios: map[string]CategoriaCriterios{
			CategoriaAnexos: {TotalMaximo: 10},
		},
	}

	assert.Equal(t, 100, Aggregate(map[string]int{CategoriaAnexos: 10}, rs))
}

func TestDecidir_FronteirasInclusivas(t *testing.T) {
	rs := DefaultRuleset()

	casos := []struct {
		score    int
		esperado string
	}{
		{0, models.DecisaoRecusado},
		{49, models.DecisaoRecusado},
		{50, models.DecisaoRevisao},
		{69, models.DecisaoRevisao},
		{70, models.DecisaoAprovado},
		{100, models.DecisaoAprovado},
	}

	for _, caso := range casos {
		assert.Equal(t, caso.esperado, Decidir(caso.score, rs), "score %d", caso.score)
	}
}

func chamadoCompleto() *models.Chamado {
	return &models.Chamado{
		ID:                 "ch-1",
		NumeroWex:          "WEX123456",
		ClienteSolicitante: "Empresa Alfa",
		Titulo:             "Erro 500 ao gerar relatório financeiro",
		Descricao: "O sistema apresenta erro 500 ao gerar o relatório financeiro mensal. " +
			"O problema é urgente, afeta todos os usuários do setor e já tentei limpar o cache sem sucesso.",
		Criticidade:  models.CriticidadeAlta,
		DataCriacao:  time.Now(),
		PossuiAnexos: true,
		AnexosCount:  2,
	}
}

func TestRealizarTriagem_ChamadoCompletoAprovado(t *testing.T) {
	engine := novoEngineDeTeste(t, nil)

	result, err := engine.RealizarTriagem(context.Background(), chamadoCompleto())
	require.NoError(t, err)

	// anexos 30 + descricao 23 + info 25 + contexto 20 = 98
	assert.Equal(t, 98, result.ScoreTotal)
	assert.Equal(t, models.DecisaoAprovado, result.Decisao)
	assert.Equal(t, 30, result.ScoreBreakdown[CategoriaAnexos])
	assert.Equal(t, 23, result.ScoreBreakdown[CategoriaDescricao])
	assert.Equal(t, 25, result.ScoreBreakdown[CategoriaInfoTecnicas])
	assert.Equal(t, 20, result.ScoreBreakdown[CategoriaContexto])
	assert.InDelta(t, 0.98, result.Confianca, 0.001)
	assert.NotEmpty(t, result.Motivos)
	assert.Contains(t, result.Observacoes, "98/100")
}

func TestRealizarTriagem_ChamadoPobreRecusado(t *testing.T) {
	engine := novoEngineDeTeste(t, nil)

	ch := &models.Chamado{
		ID:                 "ch-2",
		NumeroWex:          "WEX654321",
		ClienteSolicitante: "Empresa Beta",
		Titulo:             "Ajuda",
		Descricao:          "Sistema não funciona",
		Criticidade:        models.CriticidadeMedia,
		DataCriacao:        time.Now(),
	}

	result, err := engine.RealizarTriagem(context.Background(), ch)
	require.NoError(t, err)

	// anexos 0 + descricao 5 + info 20 + contexto 10 = 35
	assert.Equal(t, 35, result.ScoreTotal)
	assert.Equal(t, models.DecisaoRecusado, result.Decisao)
	assert.Contains(t, result.Motivos, "Sem anexos")
	assert.Contains(t, result.Motivos, "Descrição muito curta")
	assert.Len(t, result.Sugestoes, 3)
}

func TestRealizarTriagem_Deterministica(t *testing.T) {
	engine := novoEngineDeTeste(t, nil)
	ch := chamadoCompleto()

	primeira, err := engine.RealizarTriagem(context.Background(), ch)
	require.NoError(t, err)
	segunda, err := engine.RealizarTriagem(context.Background(), ch)
	require.NoError(t, err)

	assert.Equal(t, primeira.ScoreTotal, segunda.ScoreTotal)
	assert.Equal(t, primeira.ScoreBreakdown, segunda.ScoreBreakdown)
	assert.Equal(t, primeira.Decisao, segunda.Decisao)
	assert.Equal(t, primeira.Motivos, segunda.Motivos)
}

func TestRealizarTriagem_SemConfiguracao(t *testing.T) {
	engine := NewEngine(NewRulesetStore(t.TempDir()+"/nada.json"), nil)

	_, err := engine.RealizarTriagem(context.Background(), chamadoCompleto())
	assert.ErrorIs(t, err, ErrNaoConfigurado)
}

// oracleExplosivo simula uma falha interna do motor.
type oracleExplosivo struct{}

func (oracleExplosivo) AnalisarQualidade(context.Context, string) float64 {
	panic("falha simulada")
}

func TestRealizarTriagem_PanicoViraDecisaoErro(t *testing.T) {
	engine := novoEngineDeTeste(t, oracleExplosivo{})

	result, err := engine.RealizarTriagem(context.Background(), chamadoCompleto())
	require.NoError(t, err)

	assert.Equal(t, models.DecisaoErro, result.Decisao)
	assert.Equal(t, 0, result.ScoreTotal)
	assert.Equal(t, models.CriticidadeMedia, result.CriticidadeSugerida)
	require.Len(t, result.Motivos, 1)
	assert.Contains(t, result.Motivos[0], "Erro na análise")
	assert.Equal(t, "Erro durante processamento", result.Observacoes)
}
