package triage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wexintel-service/service/models"
)

func TestScoreAnexos(t *testing.T) {
	rs := DefaultRuleset()

	pontos, motivos := ScoreAnexos(&models.Chamado{}, rs)
	assert.Equal(t, 0, pontos)
	assert.Equal(t, []string{"Sem anexos"}, motivos)

	pontos, motivos = ScoreAnexos(&models.Chamado{PossuiAnexos: true, AnexosCount: 2}, rs)
	assert.Equal(t, 30, pontos)
	assert.Equal(t, []string{"Anexos presentes"}, motivos)
}

func TestScoreDescricao(t *testing.T) {
	rs := DefaultRuleset()
	ctx := context.Background()

	casos := []struct {
		nome      string
		descricao string
		esperado  int
		motivo    string
	}{
		{"vazia", "", 0, "Descrição ausente"},
		{"muito curta", "não abre", 0, "Descrição muito curta"},
		{
			"adequada sem termos",
			strings.Repeat("a", 60),
			10,
			"Descrição adequada",
		},
		{
			"detalhada com termos e estrutura",
			"O sistema apresenta erro ao abrir a tela inicial. " + strings.Repeat("Detalhes adicionais. ", 5),
			23,
			"Descrição detalhada",
		},
	}

	for _, caso := range casos {
		t.Run(caso.nome, func(t *testing.T) {
			pontos, motivos := ScoreDescricao(ctx, caso.descricao, rs, nil)
			assert.Equal(t, caso.esperado, pontos)
			assert.Contains(t, motivos, caso.motivo)
		})
	}
}

func TestScoreDescricao_ContaCaracteresNaoBytes(t *testing.T) {
	rs := DefaultRuleset()

	// 60 caracteres acentuados ocupam 120 bytes; a faixa é a de descrição
	// adequada, não a de descrição detalhada.
	descricao := strings.Repeat("çã", 30)
	pontos, motivos := ScoreDescricao(context.Background(), descricao, rs, nil)
	assert.Equal(t, 10, pontos)
	assert.Contains(t, motivos, "Descrição adequada")
}

// oracleFixo devolve sempre o mesmo score de qualidade.
type oracleFixo float64

func (o oracleFixo) AnalisarQualidade(context.Context, string) float64 { return float64(o) }

func TestScoreDescricao_BonusOracle(t *testing.T) {
	rs := DefaultRuleset()
	descricao := "O sistema apresenta erro ao abrir a tela inicial. " + strings.Repeat("Detalhes adicionais. ", 5)

	semBonus, _ := ScoreDescricao(context.Background(), descricao, rs, oracleFixo(0.5))
	comBonus, motivos := ScoreDescricao(context.Background(), descricao, rs, oracleFixo(0.9))

	assert.Equal(t, semBonus+2, comBonus)
	assert.Contains(t, motivos, "Alta qualidade de texto detectada")
}

func TestScoreInfoTecnicas(t *testing.T) {
	rs := DefaultRuleset()

	completo := &models.Chamado{
		NumeroWex:          "WEX123456",
		ClienteSolicitante: "Empresa Alfa",
		Titulo:             "Erro ao gerar relatório",
		Criticidade:        models.CriticidadeAlta,
		DataCriacao:        time.Now(),
	}
	pontos, motivos := ScoreInfoTecnicas(completo, rs)
	assert.Equal(t, 25, pontos)
	assert.Contains(t, motivos, "Número WEX válido")

	vazio := &models.Chamado{Criticidade: "Urgentíssima"}
	pontos, _ = ScoreInfoTecnicas(vazio, rs)
	assert.Equal(t, 0, pontos)
}

func TestScoreInfoTecnicas_NumeroWexInvalido(t *testing.T) {
	rs := DefaultRuleset()

	ch := &models.Chamado{
		NumeroWex:          "CHAMADO-1",
		ClienteSolicitante: "Empresa Alfa",
		Titulo:             "Erro ao gerar relatório",
		Criticidade:        models.CriticidadeAlta,
		DataCriacao:        time.Now(),
	}
	pontos, motivos := ScoreInfoTecnicas(ch, rs)
	assert.Equal(t, 23, pontos)
	assert.NotContains(t, motivos, "Número WEX válido")
}

func TestScoreContexto(t *testing.T) {
	rs := DefaultRuleset()

	pontos, motivos := ScoreContexto("", rs)
	assert.Equal(t, 0, pontos)
	assert.Equal(t, []string{"Sem contexto"}, motivos)

	completo := "O problema é urgente, afeta todos os usuários e já tentei reiniciar."
	pontos, motivos = ScoreContexto(completo, rs)
	assert.Equal(t, 20, pontos)
	assert.Len(t, motivos, 4)
}

func TestScoreContexto_InsensivelAAcentos(t *testing.T) {
	rs := DefaultRuleset()

	// "nao funciona" sem acento deve casar com "não funciona".
	pontos, motivos := ScoreContexto("O modulo nao funciona desde ontem", rs)
	assert.Equal(t, 10, pontos)
	assert.Contains(t, motivos, "Problema bem definido")
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 10, clamp(15, 10))
	assert.Equal(t, 0, clamp(-1, 10))
	assert.Equal(t, 7, clamp(7, 10))
}
