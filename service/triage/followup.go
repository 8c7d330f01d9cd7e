/*
 * @module service/triage/followup
 * @description Gerador de sugestões de follow-up: próximo passo pelo status,
 * alertas de estagnação por criticidade e exemplos minerados do histórico
 * @architecture Arquitetura em camadas - núcleo do motor de triagem
 * @documentReference docs/triagem.md
 * @stateFlow (chamado, agora, resolvidos) -> contexto -> sugestões ordenadas
 * @rules No máximo 5 sugestões; a primeira é sempre a do fluxo de status;
 * exemplos exigem ao menos 2 palavras significativas em comum
 * @dependencies sort, fmt, time
 * @refs service/triage/text.go
 */

package triage

import (
	"fmt"
	"sort"
	"time"

	"wexintel-service/service/models"
)

const maxSugestoesFollowup = 5

// proximoPasso mapeia o status atual para o tipo de follow-up esperado e a
// sugestão correspondente.
var proximoPasso = map[string]struct {
	Tipo     string
	Sugestao string
}{
	models.StatusAberto:          {models.FollowUpAnaliseInicial, "Registrar análise inicial do problema"},
	models.StatusEmAnalise:       {models.FollowUpAnaliseTecnica, "Documentar análise técnica e hipóteses de causa"},
	models.StatusPendente:        {models.FollowUpContatoCliente, "Contatar o cliente para obter as informações pendentes"},
	models.StatusDesenvolvimento: {models.FollowUpDesenvolvimento, "Atualizar o andamento do desenvolvimento da correção"},
	models.StatusTeste:           {models.FollowUpTeste, "Registrar resultado dos testes da correção"},
	models.StatusResolvido:       {models.FollowUpPublicacao, "Documentar a solução aplicada e comunicar o cliente"},
	models.StatusFechado:         {models.FollowUpOutros, "Chamado fechado; registrar apenas informações complementares"},
}

// montarContexto resume o estado do chamado para o gerador e para a resposta.
func montarContexto(ch *models.Chamado, agora time.Time) models.ContextoFollowup {
	ctx := models.ContextoFollowup{
		StatusAtual:            ch.Status,
		Criticidade:            ch.Criticidade,
		TempoDesdeCriacaoHoras: agora.Sub(ch.DataCriacao).Hours(),
		TotalFollowups:         len(ch.Followups),
	}

	tipos := map[string]struct{}{}
	var ultimo time.Time
	for _, f := range ch.Followups {
		if _, ok := tipos[f.Tipo]; !ok {
			tipos[f.Tipo] = struct{}{}
			ctx.TiposExistentes = append(ctx.TiposExistentes, f.Tipo)
		}
		if f.DataCriacao.After(ultimo) {
			ultimo = f.DataCriacao
		}
	}
	sort.Strings(ctx.TiposExistentes)

	if !ultimo.IsZero() {
		horas := agora.Sub(ultimo).Hours()
		ctx.TempoDesdeUltimoFollowupHoras = &horas
	}
	return ctx
}

// horasSemAtividade devolve o tempo desde o último follow-up, ou desde a
// criação quando não há nenhum.
func horasSemAtividade(ctx models.ContextoFollowup) float64 {
	if ctx.TempoDesdeUltimoFollowupHoras != nil {
		return *ctx.TempoDesdeUltimoFollowupHoras
	}
	return ctx.TempoDesdeCriacaoHoras
}

// SugerirFollowups gera as sugestões de acompanhamento de um chamado,
// combinando o fluxo de status, alertas de estagnação por criticidade e
// gatilhos de conteúdo. Chamados resolvidos similares alimentam os exemplos.
func SugerirFollowups(ch *models.Chamado, resolvidos []models.Chamado, agora time.Time) models.SugestoesFollowup {
	ctx := montarContexto(ch, agora)

	passo, ok := proximoPasso[ch.Status]
	if !ok {
		passo = proximoPasso[models.StatusAberto]
	}

	sugestoes := []string{passo.Sugestao}
	prioridade := "media"

	parado := horasSemAtividade(ctx)
	switch ch.Criticidade {
	case models.CriticidadeCritica:
		if parado > 2 {
			sugestoes = append(sugestoes, fmt.Sprintf("URGENTE: chamado crítico sem atividade há %.0f horas", parado))
			prioridade = "alta"
		}
	case models.CriticidadeAlta:
		if parado > 8 {
			sugestoes = append(sugestoes, fmt.Sprintf("Chamado de alta criticidade sem atividade há %.0f horas", parado))
			prioridade = "alta"
		}
	}

	if ctx.TempoDesdeCriacaoHoras > 72 && ch.Status != models.StatusResolvido && ch.Status != models.StatusFechado {
		sugestoes = append(sugestoes, "Chamado aberto há mais de 3 dias; avaliar escalonamento")
		if prioridade == "media" {
			prioridade = "alta"
		}
	}

	if contemAlguma(ch.Descricao, []string{"aguardando", "pendente", "aguardo"}) {
		sugestoes = append(sugestoes, "Verificar se a pendência mencionada na descrição foi resolvida")
	}
	if ctx.TotalFollowups == 0 && ctx.TempoDesdeCriacaoHoras > 4 {
		sugestoes = append(sugestoes, "Chamado sem nenhum follow-up registrado; documentar primeiro contato")
	}

	if len(sugestoes) > maxSugestoesFollowup {
		sugestoes = sugestoes[:maxSugestoesFollowup]
	}
	if ch.Status == models.StatusFechado {
		prioridade = "baixa"
	}

	return models.SugestoesFollowup{
		ChamadoID:         ch.ID,
		Sugestoes:         sugestoes,
		ProximoTipo:       passo.Tipo,
		Prioridade:        prioridade,
		Contexto:          ctx,
		ExemplosHistorico: minerarExemplos(ch, resolvidos),
	}
}

// minerarExemplos busca em chamados resolvidos os que compartilham vocabulário
// com o chamado atual e devolve seus follow-ups como exemplos.
func minerarExemplos(ch *models.Chamado, resolvidos []models.Chamado) []models.ExemploFollowup {
	const maxExemplos = 3

	var exemplos []models.ExemploFollowup
	for idx := range resolvidos {
		r := &resolvidos[idx]
		if r.ID == ch.ID || len(r.Followups) == 0 {
			continue
		}
		comuns, score := PalavrasComuns(ch.Titulo+" "+ch.Descricao, r.Titulo+" "+r.Descricao)
		if len(comuns) < 2 {
			continue
		}
		sort.Strings(comuns)

		textos := make([]string, 0, len(r.Followups))
		for _, f := range r.Followups {
			textos = append(textos, fmt.Sprintf("[%s] %s", f.Tipo, f.Descricao))
		}

		exemplos = append(exemplos, models.ExemploFollowup{
			ChamadoSimilarID:  r.ID,
			NumeroWex:         r.NumeroWex,
			ScoreSimilaridade: truncar3(score),
			PalavrasComuns:    comuns,
			Followups:         textos,
		})
	}

	sort.SliceStable(exemplos, func(i, j int) bool {
		return exemplos[i].ScoreSimilaridade > exemplos[j].ScoreSimilaridade
	})
	if len(exemplos) > maxExemplos {
		exemplos = exemplos[:maxExemplos]
	}
	return exemplos
}
