/*
 * @module service/triage/cluster
 * @description Agrupamento guloso de chamados por similaridade e geração do
 * relatório de padrões: grupos, padrões globais, tendências e recomendações
 * @architecture Arquitetura em camadas - núcleo do motor de similaridade
 * @documentReference docs/triagem.md
 * @stateFlow população -> filtro de elegíveis -> agrupamento guloso -> padrões
 * @rules Cada chamado pertence a no máximo um grupo; grupos unitários são
 * descartados; a ordem de entrada (criação ascendente) determina as sementes
 * @dependencies sort, fmt, time
 * @refs service/triage/similarity.go
 */

package triage

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"wexintel-service/service/models"
)

// Descrições mais curtas que isso não carregam sinal léxico suficiente para
// agrupar.
const minDescricaoAgrupavel = 20

// GerarRelatorioPadroes agrupa a população por similaridade léxica e resume
// os padrões por grupo e globais. O período em dias contextualiza as
// tendências; a confiança cresce com o tamanho da população.
func GerarRelatorioPadroes(chamados []models.Chamado, periodoDias int, rs *Ruleset) models.RelatorioPadroes {
	inicio := time.Now()

	elegiveis := make([]*models.Chamado, 0, len(chamados))
	for idx := range chamados {
		if len(chamados[idx].Descricao) > minDescricaoAgrupavel {
			elegiveis = append(elegiveis, &chamados[idx])
		}
	}

	relatorio := models.RelatorioPadroes{
		TotalChamados:   len(chamados),
		GruposSimilares: []models.GrupoSimilar{},
		PadroesGlobais:  []string{},
		Tendencias:      []string{},
		Insights:        []string{},
		Recomendacoes:   []string{},
	}

	if len(elegiveis) < 2 {
		relatorio.Resumo = "População insuficiente para análise de padrões"
		relatorio.TempoProcessamento = time.Since(inicio).Seconds()
		return relatorio
	}

	ctx := newSimilarityContext(elegiveis, rs.MetricaSimilaridade())
	threshold := rs.ThresholdAgrupamento()

	grupos := agruparGuloso(ctx, elegiveis, threshold)

	for _, g := range grupos {
		relatorio.GruposSimilares = append(relatorio.GruposSimilares, montarGrupo(ctx, elegiveis, g))
	}
	relatorio.TotalGruposSimilares = len(relatorio.GruposSimilares)

	relatorio.PadroesGlobais = padroesGlobais(chamados, relatorio.GruposSimilares)
	relatorio.Tendencias = tendencias(chamados, periodoDias)
	relatorio.Insights = insights(chamados, relatorio.GruposSimilares)
	relatorio.Recomendacoes = recomendacoes(relatorio.GruposSimilares, chamados)
	relatorio.Resumo = fmt.Sprintf(
		"Análise de %d chamados nos últimos %d dias: %d grupos de chamados similares identificados",
		len(chamados), periodoDias, len(relatorio.GruposSimilares))

	relatorio.ConfiancaAnalise = confiancaAnalise(len(chamados))
	relatorio.TempoProcessamento = time.Since(inicio).Seconds()
	return relatorio
}

// agruparGuloso percorre a população em ordem; cada chamado ainda livre vira
// semente de um grupo e absorve todos os posteriores cuja similaridade léxica
// alcança o threshold. A comparação usa apenas o componente de texto:
// coincidências de cliente ou criticidade não aproximam chamados de assuntos
// distintos. Grupos de um único membro são descartados.
func agruparGuloso(ctx *similarityContext, pool []*models.Chamado, threshold float64) [][]int {
	usado := make([]bool, len(pool))
	var grupos [][]int

	for i := range pool {
		if usado[i] {
			continue
		}
		grupo := []int{i}
		usado[i] = true
		for j := i + 1; j < len(pool); j++ {
			if usado[j] {
				continue
			}
			if ctx.scorePalavras(i, j) >= threshold {
				grupo = append(grupo, j)
				usado[j] = true
			}
		}
		if len(grupo) > 1 {
			grupos = append(grupos, grupo)
		}
	}
	return grupos
}

// montarGrupo calcula a similaridade léxica média com a semente e os padrões
// internos de um grupo.
func montarGrupo(ctx *similarityContext, pool []*models.Chamado, indices []int) models.GrupoSimilar {
	semente := indices[0]
	somaScores := 0.0
	membros := make([]*models.Chamado, 0, len(indices))
	resumos := make([]models.ResumoChamado, 0, len(indices))

	for _, idx := range indices {
		ch := pool[idx]
		membros = append(membros, ch)
		resumos = append(resumos, models.ResumoChamado{
			ID:              ch.ID,
			NumeroWex:       ch.NumeroWex,
			DescricaoResumo: resumirDescricao(ch.Descricao),
		})
		if idx != semente {
			somaScores += ctx.scorePalavras(semente, idx)
		}
	}

	media := somaScores / float64(len(indices)-1)
	return models.GrupoSimilar{
		Tamanho:              len(indices),
		SimilaridadeMedia:    truncar3(media),
		Chamados:             resumos,
		PadroesIdentificados: padroesDoGrupo(membros),
	}
}

// padroesDoGrupo identifica os sinais repetidos dentro de um grupo: cliente
// dominante, concentração de criticidade, janela temporal e termos recorrentes.
func padroesDoGrupo(membros []*models.Chamado) []string {
	padroes := []string{}

	clientes := map[string]int{}
	criticidades := map[string]int{}
	var datas []time.Time
	termos := map[string]int{}
	codigos := map[string]int{}

	for _, ch := range membros {
		if ch.ClienteSolicitante != "" {
			clientes[ch.ClienteSolicitante]++
		}
		if ch.Criticidade != "" {
			criticidades[ch.Criticidade]++
		}
		if !ch.DataCriacao.IsZero() {
			datas = append(datas, ch.DataCriacao)
		}
		f := extrairFeatures(ch.Titulo + " " + ch.Descricao)
		for t := range f.termosTecnicos {
			termos[t]++
		}
		for c := range f.codigosErro {
			codigos[c]++
		}
	}

	if cliente, qtd := maisFrequente(clientes); qtd > 1 {
		padroes = append(padroes, fmt.Sprintf("Cliente %s concentra %d dos %d chamados", cliente, qtd, len(membros)))
	}

	if crit, qtd := maisFrequente(criticidades); qtd*100 > len(membros)*60 {
		padroes = append(padroes, fmt.Sprintf("Predominância de criticidade %s", strings.ToLower(crit)))
	}

	if len(datas) >= 3 {
		sort.Slice(datas, func(i, j int) bool { return datas[i].Before(datas[j]) })
		janela := datas[len(datas)-1].Sub(datas[0])
		switch {
		case janela <= 7*24*time.Hour:
			padroes = append(padroes, "Ocorrências concentradas em uma semana")
		case janela <= 30*24*time.Hour:
			padroes = append(padroes, "Ocorrências concentradas em um mês")
		}
	}

	if recorrentes := termosRecorrentes(termos, len(membros), 3); len(recorrentes) > 0 {
		padroes = append(padroes, "Termos recorrentes: "+strings.Join(recorrentes, ", "))
	}
	if recorrentes := termosRecorrentes(codigos, len(membros), 2); len(recorrentes) > 0 {
		padroes = append(padroes, "Códigos de erro recorrentes: "+strings.Join(recorrentes, ", "))
	}

	return padroes
}

// maisFrequente devolve a chave com maior contagem; empates resolvem pela
// ordem alfabética para manter a saída determinística.
func maisFrequente(contagens map[string]int) (string, int) {
	chaves := make([]string, 0, len(contagens))
	for k := range contagens {
		chaves = append(chaves, k)
	}
	sort.Strings(chaves)

	melhor, qtd := "", 0
	for _, k := range chaves {
		if contagens[k] > qtd {
			melhor, qtd = k, contagens[k]
		}
	}
	return melhor, qtd
}

// termosRecorrentes devolve até `limite` termos presentes em mais da metade
// dos membros, mais frequentes primeiro.
func termosRecorrentes(contagens map[string]int, totalMembros, limite int) []string {
	tipo := make([]string, 0, len(contagens))
	for t, qtd := range contagens {
		if qtd*2 > totalMembros {
			tipo = append(tipo, t)
		}
	}
	sort.Slice(tipo, func(i, j int) bool {
		if contagens[tipo[i]] != contagens[tipo[j]] {
			return contagens[tipo[i]] > contagens[tipo[j]]
		}
		return tipo[i] < tipo[j]
	})
	if len(tipo) > limite {
		tipo = tipo[:limite]
	}
	return tipo
}

// padroesGlobais resume a distribuição da população inteira.
func padroesGlobais(chamados []models.Chamado, grupos []models.GrupoSimilar) []string {
	padroes := []string{}
	if len(chamados) == 0 {
		return padroes
	}

	agrupados := 0
	for _, g := range grupos {
		agrupados += g.Tamanho
	}
	if agrupados > 0 {
		padroes = append(padroes, fmt.Sprintf("%d de %d chamados pertencem a grupos de similaridade", agrupados, len(chamados)))
	}

	criticos := 0
	abertos := 0
	for _, ch := range chamados {
		if ch.Criticidade == models.CriticidadeCritica {
			criticos++
		}
		if ch.Status == models.StatusAberto {
			abertos++
		}
	}
	if criticos*100 > len(chamados)*20 {
		padroes = append(padroes, fmt.Sprintf("Alto volume de chamados críticos: %d (%d%%)", criticos, criticos*100/len(chamados)))
	}
	if abertos*100 > len(chamados)*50 {
		padroes = append(padroes, fmt.Sprintf("Maioria dos chamados ainda aberta: %d de %d", abertos, len(chamados)))
	}
	return padroes
}

// tendencias compara o volume da metade recente do período com a anterior.
func tendencias(chamados []models.Chamado, periodoDias int) []string {
	lista := []string{}
	if periodoDias <= 1 || len(chamados) == 0 {
		return lista
	}

	corte := time.Now().AddDate(0, 0, -periodoDias/2)
	recentes := 0
	for _, ch := range chamados {
		if ch.DataCriacao.After(corte) {
			recentes++
		}
	}
	anteriores := len(chamados) - recentes

	switch {
	case recentes > anteriores*2 && anteriores > 0:
		lista = append(lista, fmt.Sprintf("Volume crescente: %d chamados na metade recente do período contra %d na anterior", recentes, anteriores))
	case anteriores > recentes*2 && recentes > 0:
		lista = append(lista, fmt.Sprintf("Volume decrescente: %d chamados na metade recente do período contra %d na anterior", recentes, anteriores))
	default:
		lista = append(lista, fmt.Sprintf("Volume estável ao longo dos últimos %d dias", periodoDias))
	}
	return lista
}

// insights derivam observações acionáveis dos grupos encontrados.
func insights(chamados []models.Chamado, grupos []models.GrupoSimilar) []string {
	lista := []string{}
	if len(grupos) == 0 {
		lista = append(lista, "Nenhum padrão de repetição identificado no período")
		return lista
	}

	maior := grupos[0]
	for _, g := range grupos[1:] {
		if g.Tamanho > maior.Tamanho {
			maior = g
		}
	}
	lista = append(lista, fmt.Sprintf("Maior grupo de chamados similares tem %d membros (similaridade média %.2f)", maior.Tamanho, maior.SimilaridadeMedia))

	if len(chamados) > 0 {
		agrupados := 0
		for _, g := range grupos {
			agrupados += g.Tamanho
		}
		percentual := agrupados * 100 / len(chamados)
		if percentual >= 30 {
			lista = append(lista, fmt.Sprintf("%d%% da população se repete em padrões conhecidos; candidatos a causa raiz comum", percentual))
		}
	}
	return lista
}

// recomendacoes sugere ações com base nos padrões por grupo.
func recomendacoes(grupos []models.GrupoSimilar, chamados []models.Chamado) []string {
	lista := []string{}
	if len(grupos) == 0 {
		lista = append(lista, "Manter monitoramento periódico da base de chamados")
		return lista
	}

	lista = append(lista, "Investigar causa raiz comum dos grupos de chamados similares")
	for _, g := range grupos {
		if g.Tamanho >= 3 {
			lista = append(lista, "Considerar artigo de base de conhecimento para o padrão mais recorrente")
			break
		}
	}

	criticos := 0
	for _, ch := range chamados {
		if ch.Criticidade == models.CriticidadeCritica {
			criticos++
		}
	}
	if criticos > 0 {
		lista = append(lista, fmt.Sprintf("Priorizar os %d chamados críticos do período", criticos))
	}
	return lista
}

// confiancaAnalise cresce linearmente com a população até saturar em 1.0 com
// 50 chamados.
func confiancaAnalise(total int) float64 {
	c := float64(total) / 50.0
	if c > 1.0 {
		return 1.0
	}
	return truncar3(c)
}
