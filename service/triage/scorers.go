/*
 * @module service/triage/scorers
 * @description Os quatro scorers de critério: anexos, descrição, informações
 * técnicas e contexto. Funções puras sobre os campos do chamado e o ruleset
 * @architecture Arquitetura em camadas - núcleo do motor de triagem
 * @documentReference docs/triagem.md
 * @stateFlow (chamado, ruleset) -> (pontos, motivos), limitado ao teto da categoria
 * @rules Entrada ausente ou vazia nunca gera erro: o scorer devolve zero com
 * motivo explicativo. Pontuações vêm sempre do ruleset
 * @dependencies regexp, strings
 * @refs service/triage/engine.go
 */

package triage

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"wexintel-service/service/models"
)

func clamp(pontos, maximo int) int {
	if pontos > maximo {
		return maximo
	}
	if pontos < 0 {
		return 0
	}
	return pontos
}

// ScoreAnexos pontua a presença de anexos. Sem inspeção real de arquivos, os
// critérios de formato/tamanho/nome valem como constantes configuradas.
func ScoreAnexos(ch *models.Chamado, rs *Ruleset) (int, []string) {
	if !ch.PossuiAnexos && ch.AnexosCount == 0 {
		return 0, []string{"Sem anexos"}
	}

	pontos := rs.PontosCriterio(CategoriaAnexos, "presenca") +
		rs.PontosCriterio(CategoriaAnexos, "formato") +
		rs.PontosCriterio(CategoriaAnexos, "tamanho") +
		rs.PontosCriterio(CategoriaAnexos, "nomes_descritivos")

	return clamp(pontos, rs.TotalMaximo(CategoriaAnexos)), []string{"Anexos presentes"}
}

// ScoreDescricao pontua a descrição por tamanho, termos técnicos, estrutura e
// um bônus opcional do oráculo de qualidade.
func ScoreDescricao(ctx context.Context, descricao string, rs *Ruleset, oracle TextQualityOracle) (int, []string) {
	if descricao == "" {
		return 0, []string{"Descrição ausente"}
	}

	pontos := 0
	var motivos []string

	// Os limiares contam caracteres, não bytes: acentos não antecipam as
	// faixas de tamanho.
	tamanho := utf8.RuneCountInString(descricao)
	switch {
	case tamanho >= 100:
		pontos += rs.PontosCriterio(CategoriaDescricao, "tamanho_completo")
		motivos = append(motivos, "Descrição detalhada")
	case tamanho >= rs.LimitesConteudo.MinDescricaoChars:
		pontos += rs.PontosCriterio(CategoriaDescricao, "tamanho_parcial")
		motivos = append(motivos, "Descrição adequada")
	default:
		motivos = append(motivos, "Descrição muito curta")
	}

	if contemAlguma(descricao, rs.Palavras("tecnicas")) {
		pontos += rs.PontosCriterio(CategoriaDescricao, "termos_tecnicos")
		motivos = append(motivos, "Contém termos técnicos")
	}

	if strings.ContainsAny(descricao, ".\n") {
		pontos += rs.PontosCriterio(CategoriaDescricao, "estrutura")
		motivos = append(motivos, "Bem estruturada")
	}

	if oracle != nil {
		if oracle.AnalisarQualidade(ctx, descricao) > 0.7 {
			pontos += rs.PontosCriterio(CategoriaDescricao, "qualidade_ia")
			motivos = append(motivos, "Alta qualidade de texto detectada")
		}
	}

	return clamp(pontos, rs.TotalMaximo(CategoriaDescricao)), motivos
}

// ScoreInfoTecnicas pontua os campos estruturados do chamado.
func ScoreInfoTecnicas(ch *models.Chamado, rs *Ruleset) (int, []string) {
	pontos := 0
	var motivos []string

	if ch.ClienteSolicitante != "" {
		pontos += rs.PontosCriterio(CategoriaInfoTecnicas, "cliente_identificado")
		motivos = append(motivos, "Cliente identificado")
	}

	if models.IsCriticidadeValida(ch.Criticidade) {
		pontos += rs.PontosCriterio(CategoriaInfoTecnicas, "criticidade_definida")
		motivos = append(motivos, "Criticidade definida")
	}

	limites := rs.LimitesConteudo
	titulo := utf8.RuneCountInString(ch.Titulo)
	if titulo >= limites.MinTituloChars && titulo <= limites.MaxTituloChars {
		pontos += rs.PontosCriterio(CategoriaInfoTecnicas, "titulo_adequado")
		motivos = append(motivos, "Título adequado")
	}

	if !ch.DataCriacao.IsZero() {
		pontos += rs.PontosCriterio(CategoriaInfoTecnicas, "data_valida")
		motivos = append(motivos, "Data válida")
	}

	if re, err := regexp.Compile(rs.FormatoNumeroWex()); err == nil && re.MatchString(ch.NumeroWex) {
		pontos += rs.PontosCriterio(CategoriaInfoTecnicas, "numero_wex_valido")
		motivos = append(motivos, "Número WEX válido")
	}

	return clamp(pontos, rs.TotalMaximo(CategoriaInfoTecnicas)), motivos
}

// ScoreContexto pontua indicadores de problema, impacto, urgência e
// tentativas de solução na descrição.
func ScoreContexto(descricao string, rs *Ruleset) (int, []string) {
	if descricao == "" {
		return 0, []string{"Sem contexto"}
	}

	pontos := 0
	var motivos []string

	if contemAlguma(descricao, rs.Palavras("indicadores_problema")) {
		pontos += rs.PontosCriterio(CategoriaContexto, "problema_definido")
		motivos = append(motivos, "Problema bem definido")
	}
	if contemAlguma(descricao, rs.Palavras("indicadores_impacto")) {
		pontos += rs.PontosCriterio(CategoriaContexto, "impacto_mencionado")
		motivos = append(motivos, "Impacto mencionado")
	}
	if contemAlguma(descricao, rs.Palavras("indicadores_urgencia")) {
		pontos += rs.PontosCriterio(CategoriaContexto, "urgencia_justificada")
		motivos = append(motivos, "Urgência identificada")
	}
	if contemAlguma(descricao, rs.Palavras("indicadores_tentativas")) {
		pontos += rs.PontosCriterio(CategoriaContexto, "tentativas_solucao")
		motivos = append(motivos, "Tentativas de solução mencionadas")
	}

	return clamp(pontos, rs.TotalMaximo(CategoriaContexto)), motivos
}
