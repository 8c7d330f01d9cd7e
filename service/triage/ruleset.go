/*
 * @module service/triage/ruleset
 * @description Esquema tipado do conjunto de regras de triagem: pesos,
 * pontuações por critério, thresholds, limites de conteúdo e palavras-chave
 * @architecture Arquitetura em camadas - configuração de domínio
 * @documentReference docs/triagem.md
 * @stateFlow Carregado do arquivo JSON, validado uma vez, recarregado por mtime
 * @rules As quatro seções obrigatórias e os três thresholds devem existir;
 * pontuações são dados de configuração, nunca constantes do motor
 * @dependencies encoding/json, log/slog
 * @refs service/triage/store.go
 */

package triage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
)

// Nomes das quatro categorias de pontuação.
const (
	CategoriaAnexos       = "anexos"
	CategoriaDescricao    = "descricao"
	CategoriaInfoTecnicas = "info_tecnicas"
	CategoriaContexto     = "contexto"
)

// Categorias na ordem canônica de apresentação do breakdown.
var Categorias = []string{
	CategoriaAnexos, CategoriaDescricao, CategoriaInfoTecnicas, CategoriaContexto,
}

// Thresholds define as fronteiras de decisão da triagem.
type Thresholds struct {
	AprovacaoAutomatica int `json:"aprovacao_automatica"`
	RevisaoHumana       int `json:"revisao_humana"`
	RecusaAutomatica    int `json:"recusa_automatica"`
}

// Criterio é a pontuação de um critério individual.
type Criterio struct {
	Pontos    int    `json:"pontos"`
	Descricao string `json:"descricao,omitempty"`
}

// CategoriaCriterios agrupa os critérios de uma categoria e seu teto.
type CategoriaCriterios struct {
	Criterios   map[string]Criterio `json:"criterios"`
	TotalMaximo int                 `json:"total_maximo"`
}

// LimitesConteudo são os limites de tamanho aceitos para campos de texto.
type LimitesConteudo struct {
	MinDescricaoChars int `json:"min_descricao_chars"`
	MaxDescricaoChars int `json:"max_descricao_chars"`
	MinTituloChars    int `json:"min_titulo_chars"`
	MaxTituloChars    int `json:"max_titulo_chars"`
	MaxAnexoSizeMb    int `json:"max_anexo_size_mb"`
}

// ConfigSimilaridade parametriza o motor de similaridade.
type ConfigSimilaridade struct {
	Metrica              string  `json:"metrica"` // jaccard | tfidf
	ScoreMinimo          float64 `json:"score_minimo"`
	ThresholdAgrupamento float64 `json:"threshold_agrupamento"`
}

// ConfigOracle parametriza o oráculo externo de qualidade de texto.
type ConfigOracle struct {
	Habilitado      bool   `json:"habilitado"`
	URL             string `json:"url"`
	Modelo          string `json:"modelo"`
	TimeoutSegundos int    `json:"timeout_segundos"`
}

// ConfiguracoesAvancadas agrupa ajustes que não pertencem à pontuação.
type ConfiguracoesAvancadas struct {
	Similaridade ConfigSimilaridade `json:"similaridade"`
	Oracle       ConfigOracle       `json:"oracle"`
	FormatoNumeroWex string         `json:"formato_numero_wex"`
}

// Ruleset é o conjunto de regras versionado da triagem automática.
type Ruleset struct {
	Version                string                        `json:"version"`
	Metadata               map[string]interface{}        `json:"metadata,omitempty"`
	Thresholds             Thresholds                    `json:"thresholds"`
	PesosCategorias        map[string]float64            `json:"pesos_categorias"`
	PontuacaoCriterios     map[string]CategoriaCriterios `json:"pontuacao_criterios"`
	LimitesConteudo        LimitesConteudo               `json:"limites_conteudo"`
	PalavrasChave          map[string][]string           `json:"palavras_chave"`
	FormatosAnexosAceitos  []string                      `json:"formatos_anexos_aceitos"`
	ConfiguracoesAvancadas ConfiguracoesAvancadas        `json:"configuracoes_avancadas"`
}

var secoesObrigatorias = []string{
	"thresholds", "pesos_categorias", "pontuacao_criterios", "limites_conteudo",
}

var thresholdsObrigatorios = []string{
	"aprovacao_automatica", "revisao_humana", "recusa_automatica",
}

// ParseRuleset decodifica e valida um ruleset a partir de JSON bruto.
// Ausência de seção obrigatória ou threshold é erro estrutural; desvio na
// soma dos pesos gera apenas um aviso.
func ParseRuleset(data []byte) (*Ruleset, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("JSON de configuração inválido: %w", err)
	}

	for _, secao := range secoesObrigatorias {
		if _, ok := raw[secao]; !ok {
			return nil, fmt.Errorf("seção obrigatória ausente: %s", secao)
		}
	}

	var thresholds map[string]json.RawMessage
	if err := json.Unmarshal(raw["thresholds"], &thresholds); err != nil {
		return nil, fmt.Errorf("seção thresholds inválida: %w", err)
	}
	for _, t := range thresholdsObrigatorios {
		if _, ok := thresholds[t]; !ok {
			return nil, fmt.Errorf("threshold obrigatório ausente: %s", t)
		}
	}

	var rs Ruleset
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("estrutura de configuração inválida: %w", err)
	}

	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Validate aplica as invariantes estruturais do ruleset.
func (rs *Ruleset) Validate() error {
	for _, cat := range Categorias {
		cfg, ok := rs.PontuacaoCriterios[cat]
		if !ok {
			return fmt.Errorf("categoria de pontuação ausente: %s", cat)
		}
		if cfg.TotalMaximo <= 0 {
			return fmt.Errorf("total_maximo inválido para categoria %s", cat)
		}
	}

	soma := 0.0
	for _, peso := range rs.PesosCategorias {
		soma += peso
	}
	if math.Abs(soma-1.0) > 0.01 {
		slog.Warn("soma dos pesos das categorias não é 1.0", "soma", soma)
	}
	return nil
}

// PontosCriterio devolve a pontuação configurada de um critério.
func (rs *Ruleset) PontosCriterio(categoria, criterio string) int {
	return rs.PontuacaoCriterios[categoria].Criterios[criterio].Pontos
}

// TotalMaximo devolve o teto de pontos de uma categoria.
func (rs *Ruleset) TotalMaximo(categoria string) int {
	return rs.PontuacaoCriterios[categoria].TotalMaximo
}

// Peso devolve o peso configurado de uma categoria.
func (rs *Ruleset) Peso(categoria string) float64 {
	return rs.PesosCategorias[categoria]
}

// Palavras devolve a lista de palavras-chave de um tipo, vazia se ausente.
func (rs *Ruleset) Palavras(tipo string) []string {
	return rs.PalavrasChave[tipo]
}

// MetricaSimilaridade devolve a métrica léxica configurada.
func (rs *Ruleset) MetricaSimilaridade() string {
	if rs.ConfiguracoesAvancadas.Similaridade.Metrica == MetricaTFIDF {
		return MetricaTFIDF
	}
	return MetricaJaccard
}

// ThresholdAgrupamento devolve o threshold de clustering, com padrão 0.4.
func (rs *Ruleset) ThresholdAgrupamento() float64 {
	if t := rs.ConfiguracoesAvancadas.Similaridade.ThresholdAgrupamento; t > 0 {
		return t
	}
	return 0.4
}

// FormatoNumeroWex devolve a expressão do número de chamado aceito.
func (rs *Ruleset) FormatoNumeroWex() string {
	if f := rs.ConfiguracoesAvancadas.FormatoNumeroWex; f != "" {
		return f
	}
	return `^WEX\d{6}$`
}

// DefaultRuleset devolve o conjunto de regras de referência (Triagem.md).
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		Version: "1.0",
		Metadata: map[string]interface{}{
			"descricao": "Regras de triagem automática WEX Intelligence",
		},
		Thresholds: Thresholds{
			AprovacaoAutomatica: 70,
			RevisaoHumana:       50,
			RecusaAutomatica:    49,
		},
		PesosCategorias: map[string]float64{
			CategoriaAnexos:       0.30,
			CategoriaDescricao:    0.25,
			CategoriaInfoTecnicas: 0.25,
			CategoriaContexto:     0.20,
		},
		PontuacaoCriterios: map[string]CategoriaCriterios{
			CategoriaAnexos: {
				Criterios: map[string]Criterio{
					"presenca":          {Pontos: 20, Descricao: "Anexos presentes"},
					"formato":           {Pontos: 5, Descricao: "Formato aceito"},
					"tamanho":           {Pontos: 3, Descricao: "Tamanho adequado"},
					"nomes_descritivos": {Pontos: 2, Descricao: "Nomes descritivos"},
				},
				TotalMaximo: 30,
			},
			CategoriaDescricao: {
				Criterios: map[string]Criterio{
					"tamanho_completo": {Pontos: 15, Descricao: "Descrição detalhada (>= 100 chars)"},
					"tamanho_parcial":  {Pontos: 10, Descricao: "Descrição adequada"},
					"termos_tecnicos":  {Pontos: 5, Descricao: "Contém termos técnicos"},
					"estrutura":        {Pontos: 3, Descricao: "Bem estruturada"},
					"qualidade_ia":     {Pontos: 2, Descricao: "Alta qualidade detectada"},
				},
				TotalMaximo: 25,
			},
			CategoriaInfoTecnicas: {
				Criterios: map[string]Criterio{
					"cliente_identificado": {Pontos: 10, Descricao: "Cliente identificado"},
					"criticidade_definida": {Pontos: 5, Descricao: "Criticidade definida"},
					"titulo_adequado":      {Pontos: 5, Descricao: "Título adequado"},
					"data_valida":          {Pontos: 3, Descricao: "Data válida"},
					"numero_wex_valido":    {Pontos: 2, Descricao: "Número WEX válido"},
				},
				TotalMaximo: 25,
			},
			CategoriaContexto: {
				Criterios: map[string]Criterio{
					"problema_definido":    {Pontos: 10, Descricao: "Problema bem definido"},
					"impacto_mencionado":   {Pontos: 5, Descricao: "Impacto mencionado"},
					"urgencia_justificada": {Pontos: 3, Descricao: "Urgência identificada"},
					"tentativas_solucao":   {Pontos: 2, Descricao: "Tentativas de solução"},
				},
				TotalMaximo: 20,
			},
		},
		LimitesConteudo: LimitesConteudo{
			MinDescricaoChars: 50,
			MaxDescricaoChars: 5000,
			MinTituloChars:    10,
			MaxTituloChars:    200,
			MaxAnexoSizeMb:    50,
		},
		PalavrasChave: map[string][]string{
			"tecnicas": {
				"erro", "falha", "bug", "sistema", "problema", "login",
				"acesso", "performance",
			},
			"criticidade_critica": {
				"crítico", "urgente", "parado", "travado", "indisponível",
				"falha total", "produção parada", "sem acesso", "crash",
			},
			"criticidade_alta": {
				"problema", "erro", "falha", "não funciona", "timeout",
				"instável", "intermitente",
			},
			"criticidade_media": {
				"lento", "dificuldade", "dúvida", "orientação", "configuração",
			},
			"criticidade_baixa": {
				"melhoria", "sugestão", "otimização", "gostaria", "poderia",
			},
			"indicadores_problema": {
				"problema", "erro", "falha", "não funciona", "bug",
			},
			"indicadores_impacto": {
				"impacto", "afeta", "usuários", "crítico", "urgente",
			},
			"indicadores_urgencia": {
				"urgente", "imediato", "asap", "prioridade",
			},
			"indicadores_tentativas": {
				"tentei", "tentativa", "já testei", "verificado",
			},
			"tags_acesso":      {"login", "autenticação", "acesso", "senha"},
			"tags_performance": {"lento", "lentidão", "demorado", "performance", "timeout"},
			"tags_interface":   {"tela", "botão", "menu", "interface"},
			"tags_sistema":     {"sistema", "aplicação"},
			"tags_erro":        {"erro", "falha", "bug"},
			"tags_rede":        {"rede", "conectividade", "internet"},
			"tags_dados":       {"dados", "informação", "relatório", "banco"},
		},
		FormatosAnexosAceitos: []string{
			".png", ".jpg", ".jpeg", ".pdf", ".txt", ".log", ".zip", ".doc", ".docx",
		},
		ConfiguracoesAvancadas: ConfiguracoesAvancadas{
			Similaridade: ConfigSimilaridade{
				Metrica:              MetricaJaccard,
				ScoreMinimo:          0.3,
				ThresholdAgrupamento: 0.4,
			},
			Oracle: ConfigOracle{
				Habilitado:      false,
				URL:             "https://api-inference.huggingface.co/models/",
				Modelo:          "microsoft/DialoGPT-medium",
				TimeoutSegundos: 5,
			},
			FormatoNumeroWex: `^WEX\d{6}$`,
		},
	}
}
