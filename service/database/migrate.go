/*
 * @module service/database/migrate
 * @description Migração do esquema do banco: tabelas de chamados, follow-ups
 * e registros de triagem, mais os dados de demonstração
 * @architecture Camada de acesso a dados - gestão de migrações
 * @documentReference docs/triagem.md
 * @stateFlow Executada na inicialização do serviço, antes da API subir
 * @rules O esquema segue as definições dos modelos; seed só roda em banco vazio
 * @dependencies wexintel-service/service/models, gorm.io/gorm
 * @refs service/init.go
 */

package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"wexintel-service/service/models"
)

// AutoMigrate cria ou atualiza as tabelas do serviço.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Chamado{},
		&models.FollowUp{},
		&models.TriagemRecord{},
	)
	if err != nil {
		return fmt.Errorf("falha na migração do esquema: %w", err)
	}
	return nil
}

// InitializeData insere chamados de demonstração quando a base está vazia e
// SEED_DEMO_DATA=true.
func InitializeData(db *gorm.DB, habilitado bool) error {
	if !habilitado {
		return nil
	}

	var total int64
	if err := db.Model(&models.Chamado{}).Count(&total).Error; err != nil {
		return fmt.Errorf("falha ao verificar base existente: %w", err)
	}
	if total > 0 {
		return nil
	}

	slog.Info("base vazia, inserindo chamados de demonstração")
	agora := time.Now()
	demo := []models.Chamado{
		{
			NumeroWex:          "WEX000001",
			ClienteSolicitante: "Empresa Alfa",
			Titulo:             "Erro 500 ao gerar relatório financeiro",
			Descricao: "Ao tentar gerar o relatório financeiro mensal o sistema apresenta " +
				"erro 500. Já tentei limpar o cache do navegador e usar outro usuário. " +
				"O problema afeta todos os usuários do setor financeiro e é urgente.",
			Status:       models.StatusAberto,
			Criticidade:  models.CriticidadeAlta,
			PossuiAnexos: true,
			AnexosCount:  2,
		},
		{
			NumeroWex:          "WEX000002",
			ClienteSolicitante: "Empresa Alfa",
			Titulo:             "Falha no relatório financeiro consolidado",
			Descricao: "O relatório financeiro consolidado retorna erro 500 desde ontem. " +
				"Impacto direto no fechamento do mês. Verificado com dois usuários diferentes.",
			Status:      models.StatusEmAnalise,
			Criticidade: models.CriticidadeAlta,
		},
		{
			NumeroWex:          "WEX000003",
			ClienteSolicitante: "Empresa Beta",
			Titulo:             "Dúvida sobre configuração de perfil",
			Descricao:          "Gostaria de orientação sobre como configurar o perfil de acesso.",
			Status:             models.StatusAberto,
			Criticidade:        models.CriticidadeBaixa,
		},
	}

	for i := range demo {
		demo[i].DataCriacao = agora.Add(-time.Duration(len(demo)-i) * 24 * time.Hour)
		if err := db.Create(&demo[i]).Error; err != nil {
			return fmt.Errorf("falha ao inserir chamado de demonstração: %w", err)
		}
	}
	return nil
}
