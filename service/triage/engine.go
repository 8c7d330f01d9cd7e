/*
 * @module service/triage/engine
 * @description Motor de triagem: agrega os scores de categoria com
 * normalização e pesos, decide a banda e monta o resultado completo
 * @architecture Arquitetura em camadas - núcleo do motor de triagem
 * @documentReference docs/triagem.md
 * @stateFlow scorers -> agregação normalizada -> decisão -> sugestões
 * @rules Score em [0,100], truncado; fronteiras de banda pertencem à banda
 * superior; pânico interno vira resultado com decisão "erro"
 * @dependencies wexintel-service/service/models
 * @refs service/triage/scorers.go, service/triage/suggest.go
 */

package triage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wexintel-service/service/models"
)

// Engine executa as operações de triagem sobre um ruleset injetado.
// É stateless fora do cache do RulesetStore e seguro para uso concorrente.
type Engine struct {
	store  *RulesetStore
	oracle TextQualityOracle
}

// NewEngine cria o motor com o store de configuração e o oráculo informados.
// Um oráculo nil desabilita o bônus de qualidade de texto.
func NewEngine(store *RulesetStore, oracle TextQualityOracle) *Engine {
	return &Engine{store: store, oracle: oracle}
}

// Aggregate normaliza cada score de categoria pelo teto configurado, aplica o
// peso e soma as contribuições em um total 0-100, truncado.
//
// A normalização é obrigatória: os tetos de categoria diferem (30/25/25/20 no
// ruleset de referência) e somar os scores brutos ponderados contaria em dobro
// as categorias de teto maior.
func Aggregate(breakdown map[string]int, rs *Ruleset) int {
	total := 0.0
	for _, cat := range Categorias {
		maximo := rs.TotalMaximo(cat)
		if maximo <= 0 {
			continue
		}
		normalizado := float64(breakdown[cat]) / float64(maximo)
		total += normalizado * rs.Peso(cat) * 100
	}

	truncado := int(total)
	if truncado > 100 {
		truncado = 100
	}
	if truncado < 0 {
		truncado = 0
	}
	return truncado
}

// Decidir mapeia um score total para a banda de decisão. Fronteiras usam
// limite inferior inclusivo: um score exatamente no threshold pertence à
// banda superior.
func Decidir(scoreTotal int, rs *Ruleset) string {
	switch {
	case scoreTotal >= rs.Thresholds.AprovacaoAutomatica:
		return models.DecisaoAprovado
	case scoreTotal >= rs.Thresholds.RevisaoHumana:
		return models.DecisaoRevisao
	default:
		return models.DecisaoRecusado
	}
}

// RealizarTriagem executa a triagem completa de um chamado. Falhas de domínio
// viram um resultado com decisão "erro"; apenas a ausência de configuração
// válida é devolvida como erro.
func (e *Engine) RealizarTriagem(ctx context.Context, ch *models.Chamado) (result models.TriagemResult, err error) {
	rs, err := e.store.Get()
	if err != nil {
		return models.TriagemResult{}, err
	}

	inicio := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("pânico durante triagem", "chamado_id", ch.ID, "panic", r)
			result = models.TriagemResult{
				ChamadoID:           ch.ID,
				ScoreTotal:          0,
				ScoreBreakdown:      map[string]int{},
				Decisao:             models.DecisaoErro,
				Motivos:             []string{fmt.Sprintf("Erro na análise: %v", r)},
				Sugestoes:           []string{},
				TagsSugeridas:       []string{},
				CriticidadeSugerida: models.CriticidadeMedia,
				Confianca:           0,
				Observacoes:         "Erro durante processamento",
			}
			err = nil
		}
	}()

	scoreAnexos, motivosAnexos := ScoreAnexos(ch, rs)
	scoreDescricao, motivosDescricao := ScoreDescricao(ctx, ch.Descricao, rs, e.oracle)
	scoreInfo, motivosInfo := ScoreInfoTecnicas(ch, rs)
	scoreContexto, motivosContexto := ScoreContexto(ch.Descricao, rs)

	breakdown := map[string]int{
		CategoriaAnexos:       scoreAnexos,
		CategoriaDescricao:    scoreDescricao,
		CategoriaInfoTecnicas: scoreInfo,
		CategoriaContexto:     scoreContexto,
	}

	scoreTotal := Aggregate(breakdown, rs)
	decisao := Decidir(scoreTotal, rs)

	motivos := make([]string, 0, len(motivosAnexos)+len(motivosDescricao)+len(motivosInfo)+len(motivosContexto))
	motivos = append(motivos, motivosAnexos...)
	motivos = append(motivos, motivosDescricao...)
	motivos = append(motivos, motivosInfo...)
	motivos = append(motivos, motivosContexto...)

	confianca := float64(scoreTotal) / 100.0
	if confianca > 1.0 {
		confianca = 1.0
	}

	return models.TriagemResult{
		ChamadoID:            ch.ID,
		ScoreTotal:           scoreTotal,
		ScoreBreakdown:       breakdown,
		Decisao:              decisao,
		Motivos:              motivos,
		Sugestoes:            SugestoesMelhoria(scoreTotal, rs),
		TagsSugeridas:        SugerirTags(ch, rs),
		CriticidadeSugerida:  SugerirCriticidade(ch.Descricao, scoreTotal, rs),
		Confianca:            confianca,
		TempoProcessamentoMs: time.Since(inicio).Milliseconds(),
		Observacoes:          fmt.Sprintf("Análise completa - Score: %d/100", scoreTotal),
	}, nil
}

// BuscarRelacionados encontra chamados similares ao alvo dentro do pool de
// candidatos, ranqueados pelo score composto.
func (e *Engine) BuscarRelacionados(alvo *models.Chamado, candidatos []models.Chamado, limite int, scoreMinimo float64) ([]models.SimilarChamado, []string, error) {
	rs, err := e.store.Get()
	if err != nil {
		return nil, nil, err
	}
	return FindRelated(alvo, candidatos, limite, scoreMinimo, rs)
}

// GerarRelatorio agrupa uma população de chamados por similaridade e resume
// os padrões encontrados.
func (e *Engine) GerarRelatorio(chamados []models.Chamado, periodoDias int) (models.RelatorioPadroes, error) {
	rs, err := e.store.Get()
	if err != nil {
		return models.RelatorioPadroes{}, err
	}
	return GerarRelatorioPadroes(chamados, periodoDias, rs), nil
}
