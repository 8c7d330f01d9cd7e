/*
 * @module service/triage/suggest
 * @description Geradores de sugestão: criticidade sugerida, tags automáticas e
 * mensagens de melhoria por faixa de score
 * @architecture Arquitetura em camadas - núcleo do motor de triagem
 * @documentReference docs/triagem.md
 * @stateFlow Funções puras sobre (chamado, score, ruleset)
 * @rules Criticidade segue prioridade crítica > alta > média > baixa; tags
 * limitadas a 5, primeira correspondência vence
 * @dependencies wexintel-service/service/models
 * @refs service/triage/engine.go
 */

package triage

import (
	"fmt"

	"wexintel-service/service/models"
)

// SugerirCriticidade deriva a criticidade sugerida pelas listas de
// palavras-chave, em ordem de prioridade. "Alta" por palavra-chave exige
// score > 60; sem correspondência, cai no fallback puro por score.
func SugerirCriticidade(descricao string, scoreTotal int, rs *Ruleset) string {
	switch {
	case contemAlguma(descricao, rs.Palavras("criticidade_critica")):
		return models.CriticidadeCritica
	case contemAlguma(descricao, rs.Palavras("criticidade_alta")) && scoreTotal > 60:
		return models.CriticidadeAlta
	case contemAlguma(descricao, rs.Palavras("criticidade_media")):
		return models.CriticidadeMedia
	case contemAlguma(descricao, rs.Palavras("criticidade_baixa")):
		return models.CriticidadeBaixa
	}

	switch {
	case scoreTotal >= 80:
		return models.CriticidadeAlta
	case scoreTotal >= 60:
		return models.CriticidadeMedia
	default:
		return models.CriticidadeBaixa
	}
}

// Grupos de tópico na ordem de verificação; a ordem define quais tags
// sobrevivem ao corte de 5.
var gruposTags = []struct {
	Tag   string
	Lista string
}{
	{"acesso", "tags_acesso"},
	{"performance", "tags_performance"},
	{"interface", "tags_interface"},
	{"sistema", "tags_sistema"},
	{"erro", "tags_erro"},
	{"rede", "tags_rede"},
	{"dados", "tags_dados"},
}

const maxTagsSugeridas = 5

// SugerirTags gera tags pelo conteúdo do título e da descrição, mais uma tag
// de prioridade pela criticidade atual. Sem aleatoriedade: primeira
// correspondência, primeira mantida.
func SugerirTags(ch *models.Chamado, rs *Ruleset) []string {
	textoCompleto := ch.Titulo + " " + ch.Descricao

	tags := make([]string, 0, maxTagsSugeridas)
	for _, grupo := range gruposTags {
		if contemAlguma(textoCompleto, rs.Palavras(grupo.Lista)) {
			tags = append(tags, grupo.Tag)
		}
	}

	if ch.Criticidade != "" {
		tags = append(tags, "prioridade-"+normalizar(ch.Criticidade))
	}

	if len(tags) > maxTagsSugeridas {
		tags = tags[:maxTagsSugeridas]
	}
	return tags
}

// SugestoesMelhoria devolve as mensagens fixas da faixa de score.
func SugestoesMelhoria(scoreTotal int, rs *Ruleset) []string {
	switch {
	case scoreTotal < rs.Thresholds.RevisaoHumana:
		return []string{
			"Adicione mais detalhes na descrição do problema",
			"Inclua anexos como screenshots ou logs",
			"Especifique o impacto do problema",
		}
	case scoreTotal < rs.Thresholds.AprovacaoAutomatica:
		return []string{
			"Melhore a descrição com mais contexto técnico",
			"Adicione informações sobre tentativas de solução",
		}
	default:
		return []string{
			"Chamado bem estruturado, pronto para análise",
		}
	}
}

// DescricaoDecisao devolve o texto exibido para uma decisão.
func DescricaoDecisao(decisao string) string {
	switch decisao {
	case models.DecisaoAprovado:
		return "Aprovação automática"
	case models.DecisaoRevisao:
		return "Revisão humana necessária"
	case models.DecisaoRecusado:
		return "Recusa automática"
	default:
		return fmt.Sprintf("Decisão desconhecida: %s", decisao)
	}
}
