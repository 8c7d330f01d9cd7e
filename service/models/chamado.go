/*
 * @module service/models/chamado
 * @description Modelos de chamados e follow-ups, incluindo enums de status,
 * criticidade e tipo de follow-up
 * @architecture Arquitetura em camadas - camada de modelos
 * @documentReference docs/triagem.md
 * @stateFlow Ciclo de vida do chamado: Aberto -> Em análise -> ... -> Fechado
 * @rules O motor de triagem nunca altera um chamado diretamente; aplicar o
 * resultado é responsabilidade da camada de serviço
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/models/triage_models.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status possíveis de um chamado, na ordem do fluxo de trabalho.
const (
	StatusAberto          = "Aberto"
	StatusEmAnalise       = "Em análise"
	StatusPendente        = "Pendente"
	StatusDesenvolvimento = "Desenvolvimento"
	StatusTeste           = "Teste"
	StatusResolvido       = "Resolvido"
	StatusFechado         = "Fechado"
)

// Criticidades válidas, da menor para a maior.
const (
	CriticidadeBaixa   = "Baixa"
	CriticidadeMedia   = "Média"
	CriticidadeAlta    = "Alta"
	CriticidadeCritica = "Crítica"
)

// Tipos de follow-up.
const (
	FollowUpAnaliseInicial    = "Análise Inicial"
	FollowUpAnaliseTecnica    = "Análise Técnica"
	FollowUpContatoCliente    = "Contato Cliente"
	FollowUpTeste             = "Teste"
	FollowUpDesenvolvimento   = "Desenvolvimento"
	FollowUpAtualizacaoStatus = "Atualização Status"
	FollowUpPublicacao        = "Publicação"
	FollowUpOutros            = "Outros"
)

// StatusValidos lista os status aceitos pela API.
var StatusValidos = []string{
	StatusAberto, StatusEmAnalise, StatusPendente, StatusDesenvolvimento,
	StatusTeste, StatusResolvido, StatusFechado,
}

// CriticidadesValidas lista as criticidades aceitas pela API e pelo motor.
var CriticidadesValidas = []string{
	CriticidadeBaixa, CriticidadeMedia, CriticidadeAlta, CriticidadeCritica,
}

// IsCriticidadeValida verifica se o valor pertence ao conjunto de criticidades.
func IsCriticidadeValida(c string) bool {
	for _, v := range CriticidadesValidas {
		if v == c {
			return true
		}
	}
	return false
}

// IsStatusValido verifica se o valor pertence ao conjunto de status.
func IsStatusValido(s string) bool {
	for _, v := range StatusValidos {
		if v == s {
			return true
		}
	}
	return false
}

// Chamado é a unidade de triagem: um registro de suporte com descrição livre
// e campos estruturados.
type Chamado struct {
	ID                 string           `gorm:"type:uuid;primary_key" json:"id"`
	NumeroWex          string           `gorm:"size:50;uniqueIndex;not null" json:"numero_wex"`
	ClienteSolicitante string           `gorm:"size:200;not null" json:"cliente_solicitante"`
	Titulo             string           `gorm:"size:200" json:"titulo"`
	Descricao          string           `gorm:"type:text;not null" json:"descricao"`
	Status             string           `gorm:"size:20;not null;default:'Aberto'" json:"status"`
	Criticidade        string           `gorm:"size:20;not null;default:'Média'" json:"criticidade"`
	DataCriacao        time.Time        `gorm:"not null;autoCreateTime" json:"data_criacao"`
	DataAtualizacao    time.Time        `gorm:"not null;autoUpdateTime" json:"data_atualizacao"`
	SlaLimite          *time.Time       `json:"sla_limite"`
	TagsAutomaticas    JSONBStringArray `gorm:"type:jsonb" json:"tags_automaticas"`
	ScoreQualidade     int              `gorm:"not null;default:0" json:"score_qualidade"` // 0-100
	AmbienteInformado  bool             `gorm:"not null;default:false" json:"ambiente_informado"`
	PossuiAnexos       bool             `gorm:"not null;default:false" json:"possui_anexos"`
	AnexosCount        int              `gorm:"not null;default:0" json:"anexos_count"`

	Followups []FollowUp `gorm:"foreignKey:ChamadoID" json:"followups,omitempty"`
}

// TableName nome da tabela
func (Chamado) TableName() string {
	return "chamados"
}

// BeforeCreate preenche ID e valores padrão
func (c *Chamado) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = StatusAberto
	}
	if c.Criticidade == "" {
		c.Criticidade = CriticidadeMedia
	}
	if c.TagsAutomaticas == nil {
		c.TagsAutomaticas = JSONBStringArray{}
	}
	return nil
}

// FollowUp é um acompanhamento registrado em um chamado.
type FollowUp struct {
	ID          string           `gorm:"type:uuid;primary_key" json:"id"`
	ChamadoID   string           `gorm:"type:uuid;not null;index" json:"chamado_id"`
	Tipo        string           `gorm:"size:30;not null;default:'Outros'" json:"tipo"`
	Descricao   string           `gorm:"type:text;not null" json:"descricao"`
	Autor       string           `gorm:"size:100;not null" json:"autor"`
	Anexos      JSONBStringArray `gorm:"type:jsonb" json:"anexos"`
	DataCriacao time.Time        `gorm:"not null;autoCreateTime" json:"data_criacao"`
}

// TableName nome da tabela
func (FollowUp) TableName() string {
	return "followups"
}

// BeforeCreate preenche ID e valores padrão
func (f *FollowUp) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.Tipo == "" {
		f.Tipo = FollowUpOutros
	}
	if f.Anexos == nil {
		f.Anexos = JSONBStringArray{}
	}
	return nil
}

// DashboardMetricas agrega os números exibidos no painel.
type DashboardMetricas struct {
	TotalChamadosPorStatus    map[string]int64 `json:"total_chamados_por_status"`
	ChamadosCriticosAbertos   int64            `json:"chamados_criticos_abertos"`
	TempoMedioResolucao       *float64         `json:"tempo_medio_resolucao"` // horas
	DistribuicaoPorCriticidade map[string]int64 `json:"distribuicao_por_criticidade"`
	ChamadosNovosHoje         int64            `json:"chamados_novos_hoje"`
	ChamadosVencidos          int64            `json:"chamados_vencidos"`
}
