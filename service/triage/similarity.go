/*
 * @module service/triage/similarity
 * @description Motor de similaridade entre chamados: score composto por sinais
 * léxicos (Jaccard ou TF-IDF), técnicos e de metadados, com motivos legíveis
 * @architecture Arquitetura em camadas - núcleo do motor de similaridade
 * @documentReference docs/triagem.md
 * @stateFlow corpus -> contexto de similaridade -> pares ranqueados -> padrões
 * @rules Score composto em [0,1]; o alvo nunca aparece na própria lista;
 * empates preservam a ordem dos candidatos
 * @dependencies sort, fmt
 * @refs service/triage/cluster.go, service/triage/tfidf.go
 */

package triage

import (
	"fmt"
	"sort"
	"strings"

	"wexintel-service/service/models"
)

// Métricas léxicas suportadas para o componente de palavras.
const (
	MetricaJaccard = "jaccard"
	MetricaTFIDF   = "tfidf"
)

// Pesos dos sinais do score composto.
const (
	pesoPalavras      = 0.30
	pesoTermosTecnicos = 0.20
	pesoCodigosErro   = 0.20
	pesoMensagensErro = 0.15
	pesoCliente       = 0.10
	pesoCriticidade   = 0.05
)

// similarityContext pré-processa os textos de um lote de chamados para que
// cada par custe apenas as comparações de conjuntos.
type similarityContext struct {
	metrica  string
	features []textFeatures
	tfidf    *tfidfModel
}

func newSimilarityContext(chamados []*models.Chamado, metrica string) *similarityContext {
	ctx := &similarityContext{
		metrica:  metrica,
		features: make([]textFeatures, len(chamados)),
	}
	for i, ch := range chamados {
		ctx.features[i] = extrairFeatures(ch.Titulo + " " + ch.Descricao)
	}
	if metrica == MetricaTFIDF {
		docs := make([][]string, len(chamados))
		for i, ch := range chamados {
			docs[i] = tokensSignificativos(ch.Titulo + " " + ch.Descricao)
		}
		ctx.tfidf = newTFIDFModel(docs)
	}
	return ctx
}

// scorePalavras calcula o componente léxico do par (i, j) pela métrica ativa.
func (c *similarityContext) scorePalavras(i, j int) float64 {
	if c.metrica == MetricaTFIDF {
		return c.tfidf.similaridade(i, j)
	}
	return jaccard(c.features[i].palavras, c.features[j].palavras)
}

// comparar calcula o score composto do par (i, j) com o detalhamento por
// sinal e os motivos legíveis correspondentes.
func (c *similarityContext) comparar(i, j int, a, b *models.Chamado) (float64, map[string]float64, []string) {
	fa, fb := c.features[i], c.features[j]

	detalhes := map[string]float64{
		"palavras":        c.scorePalavras(i, j),
		"termos_tecnicos": jaccard(fa.termosTecnicos, fb.termosTecnicos),
		"codigos_erro":    sinalBinario(fa.codigosErro, fb.codigosErro),
		"mensagens_erro":  sinalBinario(fa.mensagensErro, fb.mensagensErro),
	}
	if a.ClienteSolicitante != "" && normalizar(a.ClienteSolicitante) == normalizar(b.ClienteSolicitante) {
		detalhes["cliente"] = 1.0
	} else {
		detalhes["cliente"] = 0.0
	}
	if a.Criticidade != "" && a.Criticidade == b.Criticidade {
		detalhes["criticidade"] = 1.0
	} else {
		detalhes["criticidade"] = 0.0
	}

	score := detalhes["palavras"]*pesoPalavras +
		detalhes["termos_tecnicos"]*pesoTermosTecnicos +
		detalhes["codigos_erro"]*pesoCodigosErro +
		detalhes["mensagens_erro"]*pesoMensagensErro +
		detalhes["cliente"]*pesoCliente +
		detalhes["criticidade"]*pesoCriticidade

	// As faixas de motivo seguem o score composto; os sinais individuais
	// entram como motivos itemizados.
	var motivos []string
	switch {
	case score > 0.7:
		motivos = append(motivos, "Descrição muito similar")
	case score > 0.5:
		motivos = append(motivos, "Descrição similar")
	default:
		motivos = append(motivos, "Similaridade moderada")
	}
	if detalhes["palavras"] > 0.3 {
		motivos = append(motivos, "Vocabulário em comum")
	}
	if comuns := intersecao(fa.termosTecnicos, fb.termosTecnicos); len(comuns) > 0 {
		motivos = append(motivos, fmt.Sprintf("Termos técnicos em comum (%d)", len(comuns)))
	}
	if len(intersecao(fa.codigosErro, fb.codigosErro)) > 0 {
		motivos = append(motivos, "Mesmo código de erro")
	}
	if len(intersecao(fa.mensagensErro, fb.mensagensErro)) > 0 {
		motivos = append(motivos, "Mesma mensagem de erro")
	}
	if detalhes["cliente"] == 1.0 {
		motivos = append(motivos, "Mesmo cliente")
	}
	if detalhes["criticidade"] == 1.0 {
		motivos = append(motivos, "Mesma criticidade")
	}

	return score, detalhes, motivos
}

// FindRelated ranqueia os candidatos por similaridade com o alvo. O alvo é
// excluído do pool pela identidade (ID ou número WEX), candidatos abaixo do
// score mínimo são descartados e o resultado vem ordenado do mais similar ao
// menos, limitado a `limite`.
func FindRelated(alvo *models.Chamado, candidatos []models.Chamado, limite int, scoreMinimo float64, rs *Ruleset) ([]models.SimilarChamado, []string, error) {
	if alvo == nil {
		return nil, nil, fmt.Errorf("chamado alvo não informado")
	}
	if scoreMinimo <= 0 {
		scoreMinimo = rs.ConfiguracoesAvancadas.Similaridade.ScoreMinimo
	}
	if scoreMinimo <= 0 {
		scoreMinimo = 0.3
	}
	if limite <= 0 {
		limite = 5
	}

	pool := make([]*models.Chamado, 0, len(candidatos)+1)
	pool = append(pool, alvo)
	for idx := range candidatos {
		cand := &candidatos[idx]
		if cand.ID == alvo.ID || (cand.NumeroWex != "" && cand.NumeroWex == alvo.NumeroWex) {
			continue
		}
		pool = append(pool, cand)
	}

	ctx := newSimilarityContext(pool, rs.MetricaSimilaridade())

	similares := make([]models.SimilarChamado, 0, len(pool)-1)
	for i := 1; i < len(pool); i++ {
		cand := pool[i]
		score, detalhes, motivos := ctx.comparar(0, i, alvo, cand)
		if score < scoreMinimo {
			continue
		}
		similares = append(similares, models.SimilarChamado{
			ID:                cand.ID,
			NumeroWex:         cand.NumeroWex,
			Cliente:           cand.ClienteSolicitante,
			Descricao:         resumirDescricao(cand.Descricao),
			Status:            cand.Status,
			Criticidade:       cand.Criticidade,
			DataCriacao:       cand.DataCriacao,
			ScoreSimilaridade: truncar3(score),
			Motivos:           motivos,
			DetalhesScores:    arredondarDetalhes(detalhes),
		})
	}

	sort.SliceStable(similares, func(a, b int) bool {
		return similares[a].ScoreSimilaridade > similares[b].ScoreSimilaridade
	})
	if len(similares) > limite {
		similares = similares[:limite]
	}

	return similares, padroesRelacionados(alvo, similares), nil
}

// padroesRelacionados resume os sinais repetidos entre o alvo e os similares.
func padroesRelacionados(alvo *models.Chamado, similares []models.SimilarChamado) []string {
	padroes := []string{}
	if len(similares) == 0 {
		return padroes
	}

	mesmoCliente := 0
	mesmaCriticidade := 0
	for _, s := range similares {
		if normalizar(s.Cliente) == normalizar(alvo.ClienteSolicitante) && alvo.ClienteSolicitante != "" {
			mesmoCliente++
		}
		if s.Criticidade == alvo.Criticidade && alvo.Criticidade != "" {
			mesmaCriticidade++
		}
	}

	if mesmoCliente >= 2 {
		padroes = append(padroes, fmt.Sprintf("Recorrência do cliente %s (%d chamados similares)", alvo.ClienteSolicitante, mesmoCliente))
	}
	if mesmaCriticidade >= 2 {
		padroes = append(padroes, fmt.Sprintf("Concentração de criticidade %s", strings.ToLower(alvo.Criticidade)))
	}
	if len(similares) >= 3 {
		padroes = append(padroes, fmt.Sprintf("Possível problema recorrente: %d chamados relacionados", len(similares)))
	}
	return padroes
}

// resumirDescricao corta a descrição para exibição em listas, sem quebrar
// caracteres acentuados no meio.
func resumirDescricao(descricao string) string {
	const max = 150
	caracteres := []rune(descricao)
	if len(caracteres) <= max {
		return descricao
	}
	return string(caracteres[:max]) + "..."
}

func truncar3(v float64) float64 {
	return float64(int(v*1000)) / 1000
}

func arredondarDetalhes(detalhes map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(detalhes))
	for k, v := range detalhes {
		out[k] = truncar3(v)
	}
	return out
}
