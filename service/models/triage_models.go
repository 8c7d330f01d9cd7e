/*
 * @module service/models/triage_models
 * @description Registros de resultado do motor de triagem: triagem, chamados
 * similares, sugestões de follow-up e relatório de padrões
 * @architecture Arquitetura em camadas - camada de modelos
 * @documentReference docs/triagem.md
 * @stateFlow Resultados são imutáveis após produzidos pelo motor
 * @rules Operações do motor sempre devolvem um resultado; falhas de domínio
 * são codificadas nos campos decisao/observacoes, nunca em erro
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/triage
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Decisões possíveis da triagem automática.
const (
	DecisaoAprovado = "aprovado"
	DecisaoRevisao  = "revisao"
	DecisaoRecusado = "recusado"
	DecisaoErro     = "erro"
)

// TriagemResult é o resultado imutável de uma triagem automática.
type TriagemResult struct {
	ChamadoID            string         `json:"chamado_id"`
	ScoreTotal           int            `json:"score_total"` // 0-100
	ScoreBreakdown       map[string]int `json:"score_breakdown"`
	Decisao              string         `json:"decisao"`
	Motivos              []string       `json:"motivos"`
	Sugestoes            []string       `json:"sugestoes"`
	TagsSugeridas        []string       `json:"tags_sugeridas"`
	CriticidadeSugerida  string         `json:"criticidade_sugerida"`
	Confianca            float64        `json:"confianca"` // 0.0-1.0
	TempoProcessamentoMs int64          `json:"tempo_processamento_ms"`
	Observacoes          string         `json:"observacoes"`
}

// SimilarChamado é um candidato ranqueado pelo motor de similaridade.
type SimilarChamado struct {
	ID                string             `json:"id"`
	NumeroWex         string             `json:"numero_wex"`
	Cliente           string             `json:"cliente"`
	Descricao         string             `json:"descricao"`
	Status            string             `json:"status"`
	Criticidade       string             `json:"criticidade"`
	DataCriacao       time.Time          `json:"data_criacao"`
	ScoreSimilaridade float64            `json:"score_similaridade"`
	Motivos           []string           `json:"motivos"`
	DetalhesScores    map[string]float64 `json:"detalhes_scores"`
}

// ResumoChamado é o resumo de um membro de grupo no relatório de padrões.
type ResumoChamado struct {
	ID              string `json:"id"`
	NumeroWex       string `json:"numero_wex"`
	DescricaoResumo string `json:"descricao_resumo"`
}

// GrupoSimilar é um agrupamento de chamados acima do threshold de similaridade.
type GrupoSimilar struct {
	Tamanho            int             `json:"tamanho"`
	SimilaridadeMedia  float64         `json:"similaridade_media"`
	Chamados           []ResumoChamado `json:"chamados"`
	PadroesIdentificados []string      `json:"padroes_identificados"`
}

// RelatorioPadroes é o resultado da análise de padrões de uma população.
type RelatorioPadroes struct {
	TotalChamados       int            `json:"total_chamados"`
	TotalGruposSimilares int           `json:"total_grupos_similares"`
	GruposSimilares     []GrupoSimilar `json:"grupos_similares"`
	PadroesGlobais      []string       `json:"padroes_globais"`
	Tendencias          []string       `json:"tendencias"`
	Insights            []string       `json:"insights"`
	Recomendacoes       []string       `json:"recomendacoes"`
	Resumo              string         `json:"resumo"`
	ConfiancaAnalise    float64        `json:"confianca_analise"`
	TempoProcessamento  float64        `json:"tempo_processamento"` // segundos
}

// ContextoFollowup descreve o estado do chamado usado nas sugestões.
type ContextoFollowup struct {
	StatusAtual                  string   `json:"status_atual"`
	Criticidade                  string   `json:"criticidade"`
	TempoDesdeCriacaoHoras       float64  `json:"tempo_desde_criacao_horas"`
	TempoDesdeUltimoFollowupHoras *float64 `json:"tempo_desde_ultimo_followup_horas"`
	TotalFollowups               int      `json:"total_followups_existentes"`
	TiposExistentes              []string `json:"tipos_followup_existentes"`
}

// ExemploFollowup é um exemplo minerado de um chamado resolvido similar.
type ExemploFollowup struct {
	ChamadoSimilarID  string   `json:"chamado_similar_id"`
	NumeroWex         string   `json:"numero_wex"`
	ScoreSimilaridade float64  `json:"score_similaridade"`
	PalavrasComuns    []string `json:"palavras_comuns"`
	Followups         []string `json:"followups"`
}

// SugestoesFollowup é o resultado do gerador de sugestões de follow-up.
type SugestoesFollowup struct {
	ChamadoID         string            `json:"chamado_id"`
	Sugestoes         []string          `json:"sugestoes"`
	ProximoTipo       string            `json:"proximo_tipo_sugerido"`
	Prioridade        string            `json:"prioridade"` // alta, media, baixa
	Contexto          ContextoFollowup  `json:"contexto"`
	ExemplosHistorico []ExemploFollowup `json:"exemplos_historico,omitempty"`
}

// TriagemRecord é o registro persistido de uma triagem aplicada.
type TriagemRecord struct {
	ID                  string           `gorm:"type:uuid;primary_key" json:"id"`
	ChamadoID           string           `gorm:"type:uuid;not null;index" json:"chamado_id"`
	ScoreTotal          int              `gorm:"not null" json:"score_total"`
	ScoreBreakdown      JSONBIntMap      `gorm:"type:jsonb" json:"score_breakdown"`
	Decisao             string           `gorm:"size:20;not null" json:"decisao"`
	CriticidadeAnterior string           `gorm:"size:20" json:"criticidade_anterior"`
	CriticidadeSugerida string           `gorm:"size:20" json:"criticidade_sugerida"`
	TagsSugeridas       JSONBStringArray `gorm:"type:jsonb" json:"tags_sugeridas"`
	Confianca           float64          `gorm:"not null;default:0" json:"confianca"`
	CreatedAt           time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName nome da tabela
func (TriagemRecord) TableName() string {
	return "triagem_records"
}

// BeforeCreate preenche o ID
func (t *TriagemRecord) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
