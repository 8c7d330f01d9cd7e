/*
 * @module testutil/test_helper
 * @description Utilitários de teste: banco SQLite em memória migrado e
 * fábricas de chamados e follow-ups
 * @architecture Infraestrutura de testes
 * @documentReference docs/triagem.md
 * @stateFlow Cada teste recebe um banco isolado
 * @rules Os testes nunca dependem de PostgreSQL ou serviços externos
 * @dependencies gorm.io/driver/sqlite, github.com/stretchr/testify
 * @refs service/chamado, api/controllers
 */

package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wexintel-service/service/models"
)

// NewTestDB abre um SQLite em memória com o esquema migrado.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Chamado{}, &models.FollowUp{}, &models.TriagemRecord{})
	require.NoError(t, err)

	return db
}

var contadorWex int

// NovoChamado cria um chamado de teste persistido, com os campos padrão
// sobrescritos pelo modificador.
func NovoChamado(t *testing.T, db *gorm.DB, mod func(*models.Chamado)) *models.Chamado {
	t.Helper()

	contadorWex++
	ch := &models.Chamado{
		NumeroWex:          fmt.Sprintf("WEX%06d", contadorWex),
		ClienteSolicitante: "Cliente Teste",
		Titulo:             "Problema de acesso ao sistema",
		Descricao: "Usuários relatam erro ao acessar o sistema desde hoje cedo. " +
			"Já tentei reiniciar o serviço e o problema persiste, com impacto em produção.",
		Status:       models.StatusAberto,
		Criticidade:  models.CriticidadeMedia,
		DataCriacao:  time.Now().Add(-24 * time.Hour),
		PossuiAnexos: false,
	}
	if mod != nil {
		mod(ch)
	}

	require.NoError(t, db.Create(ch).Error)
	return ch
}

// NovoFollowup cria um follow-up de teste persistido.
func NovoFollowup(t *testing.T, db *gorm.DB, chamadoID string, mod func(*models.FollowUp)) *models.FollowUp {
	t.Helper()

	f := &models.FollowUp{
		ChamadoID: chamadoID,
		Tipo:      models.FollowUpAnaliseInicial,
		Descricao: "Análise inicial registrada",
		Autor:     "analista.teste",
	}
	if mod != nil {
		mod(f)
	}

	require.NoError(t, db.Create(f).Error)
	return f
}
