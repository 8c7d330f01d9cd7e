/*
 * @module service/chamado/chamado_service
 * @description Serviço de chamados: CRUD, follow-ups, consultas para o motor
 * de triagem, aplicação de resultados e métricas do dashboard
 * @architecture Arquitetura em camadas - camada de serviço
 * @documentReference docs/triagem.md
 * @stateFlow API -> serviço -> banco; métricas passam por cache Redis opcional
 * @rules numero_wex é único; aplicar triagem persiste o registro de auditoria
 * na mesma transação da atualização do chamado
 * @dependencies gorm.io/gorm, github.com/go-redis/redis/v8
 * @refs service/triage, api/controllers/chamado_controller.go
 */

package chamado

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"wexintel-service/service/models"
)

// Erros de domínio devolvidos pelo serviço.
var (
	ErrChamadoNaoEncontrado = errors.New("chamado não encontrado")
	ErrNumeroWexDuplicado   = errors.New("já existe um chamado com este número WEX")
	ErrStatusInvalido       = errors.New("status inválido")
	ErrCriticidadeInvalida  = errors.New("criticidade inválida")
)

const (
	cacheKeyDashboard = "wexintel:dashboard:metricas"
	cacheTTLDashboard = 60 * time.Second
)

// ChamadoService implementa as operações de negócio sobre chamados.
type ChamadoService struct {
	db    *gorm.DB
	cache *redis.Client
}

// NewChamadoService cria o serviço. O cliente Redis é opcional: nil desativa
// o cache do dashboard.
func NewChamadoService(db *gorm.DB, cache *redis.Client) *ChamadoService {
	return &ChamadoService{db: db, cache: cache}
}

// FiltrosChamado parametriza a listagem paginada.
type FiltrosChamado struct {
	Status      string
	Criticidade string
	Cliente     string
	Busca       string
	Page        int
	Size        int
}

// CriarChamado insere um novo chamado, rejeitando número WEX duplicado.
func (s *ChamadoService) CriarChamado(ch *models.Chamado) error {
	if ch.Criticidade != "" && !models.IsCriticidadeValida(ch.Criticidade) {
		return ErrCriticidadeInvalida
	}
	if ch.Status != "" && !models.IsStatusValido(ch.Status) {
		return ErrStatusInvalido
	}

	var existente int64
	if err := s.db.Model(&models.Chamado{}).Where("numero_wex = ?", ch.NumeroWex).Count(&existente).Error; err != nil {
		return fmt.Errorf("falha ao verificar número WEX: %w", err)
	}
	if existente > 0 {
		return ErrNumeroWexDuplicado
	}

	if err := s.db.Create(ch).Error; err != nil {
		return fmt.Errorf("falha ao criar chamado: %w", err)
	}
	s.invalidarCacheDashboard()
	return nil
}

// ObterChamado busca um chamado pelo ID, com os follow-ups carregados.
func (s *ChamadoService) ObterChamado(id string) (*models.Chamado, error) {
	var ch models.Chamado
	err := s.db.Preload("Followups", func(db *gorm.DB) *gorm.DB {
		return db.Order("data_criacao ASC")
	}).First(&ch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChamadoNaoEncontrado
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar chamado: %w", err)
	}
	return &ch, nil
}

// ListarChamados devolve a página filtrada e o total de registros.
func (s *ChamadoService) ListarChamados(filtros FiltrosChamado) ([]models.Chamado, int64, error) {
	if filtros.Page < 1 {
		filtros.Page = 1
	}
	if filtros.Size < 1 || filtros.Size > 100 {
		filtros.Size = 20
	}

	query := s.db.Model(&models.Chamado{})
	if filtros.Status != "" {
		query = query.Where("status = ?", filtros.Status)
	}
	if filtros.Criticidade != "" {
		query = query.Where("criticidade = ?", filtros.Criticidade)
	}
	if filtros.Cliente != "" {
		query = query.Where("lower(cliente_solicitante) LIKE lower(?)", "%"+filtros.Cliente+"%")
	}
	if filtros.Busca != "" {
		padrao := "%" + filtros.Busca + "%"
		query = query.Where(
			"lower(titulo) LIKE lower(?) OR lower(descricao) LIKE lower(?) OR numero_wex LIKE ?",
			padrao, padrao, padrao)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("falha ao contar chamados: %w", err)
	}

	var chamados []models.Chamado
	err := query.Order("data_criacao DESC").
		Offset((filtros.Page - 1) * filtros.Size).
		Limit(filtros.Size).
		Find(&chamados).Error
	if err != nil {
		return nil, 0, fmt.Errorf("falha ao listar chamados: %w", err)
	}
	return chamados, total, nil
}

// AtualizarChamado aplica alterações parciais a um chamado existente.
func (s *ChamadoService) AtualizarChamado(id string, updates map[string]interface{}) (*models.Chamado, error) {
	if status, ok := updates["status"].(string); ok && !models.IsStatusValido(status) {
		return nil, ErrStatusInvalido
	}
	if crit, ok := updates["criticidade"].(string); ok && !models.IsCriticidadeValida(crit) {
		return nil, ErrCriticidadeInvalida
	}

	ch, err := s.ObterChamado(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(ch).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("falha ao atualizar chamado: %w", err)
	}
	s.invalidarCacheDashboard()
	return s.ObterChamado(id)
}

// DeletarChamado remove um chamado e seus follow-ups.
func (s *ChamadoService) DeletarChamado(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var ch models.Chamado
		if err := tx.First(&ch, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChamadoNaoEncontrado
			}
			return fmt.Errorf("falha ao buscar chamado: %w", err)
		}
		if err := tx.Where("chamado_id = ?", id).Delete(&models.FollowUp{}).Error; err != nil {
			return fmt.Errorf("falha ao remover follow-ups: %w", err)
		}
		if err := tx.Delete(&ch).Error; err != nil {
			return fmt.Errorf("falha ao remover chamado: %w", err)
		}
		s.invalidarCacheDashboard()
		return nil
	})
}

// AdicionarFollowup registra um follow-up em um chamado existente.
func (s *ChamadoService) AdicionarFollowup(chamadoID string, f *models.FollowUp) error {
	if _, err := s.ObterChamado(chamadoID); err != nil {
		return err
	}
	f.ChamadoID = chamadoID
	if err := s.db.Create(f).Error; err != nil {
		return fmt.Errorf("falha ao registrar follow-up: %w", err)
	}
	return nil
}

// ListarFollowups devolve os follow-ups de um chamado em ordem cronológica.
func (s *ChamadoService) ListarFollowups(chamadoID string) ([]models.FollowUp, error) {
	if _, err := s.ObterChamado(chamadoID); err != nil {
		return nil, err
	}
	var followups []models.FollowUp
	err := s.db.Where("chamado_id = ?", chamadoID).Order("data_criacao ASC").Find(&followups).Error
	if err != nil {
		return nil, fmt.Errorf("falha ao listar follow-ups: %w", err)
	}
	return followups, nil
}

// ListarCandidatos devolve o pool de comparação para o motor de similaridade,
// em ordem de criação ascendente, excluindo o próprio chamado.
func (s *ChamadoService) ListarCandidatos(excluirID string) ([]models.Chamado, error) {
	var chamados []models.Chamado
	query := s.db.Order("data_criacao ASC")
	if excluirID != "" {
		query = query.Where("id <> ?", excluirID)
	}
	if err := query.Find(&chamados).Error; err != nil {
		return nil, fmt.Errorf("falha ao listar candidatos: %w", err)
	}
	return chamados, nil
}

// ListarPeriodo devolve os chamados criados nos últimos `dias` dias, em ordem
// de criação ascendente, para o relatório de padrões.
func (s *ChamadoService) ListarPeriodo(dias int) ([]models.Chamado, error) {
	if dias < 1 {
		dias = 30
	}
	corte := time.Now().AddDate(0, 0, -dias)
	var chamados []models.Chamado
	err := s.db.Where("data_criacao >= ?", corte).Order("data_criacao ASC").Find(&chamados).Error
	if err != nil {
		return nil, fmt.Errorf("falha ao listar chamados do período: %w", err)
	}
	return chamados, nil
}

// ListarResolvidos devolve chamados resolvidos ou fechados com seus
// follow-ups, para a mineração de exemplos.
func (s *ChamadoService) ListarResolvidos(limite int) ([]models.Chamado, error) {
	if limite < 1 {
		limite = 50
	}
	var chamados []models.Chamado
	err := s.db.Preload("Followups", func(db *gorm.DB) *gorm.DB {
		return db.Order("data_criacao ASC")
	}).Where("status IN ?", []string{models.StatusResolvido, models.StatusFechado}).
		Order("data_atualizacao DESC").
		Limit(limite).
		Find(&chamados).Error
	if err != nil {
		return nil, fmt.Errorf("falha ao listar chamados resolvidos: %w", err)
	}
	return chamados, nil
}

// AplicarTriagem persiste o resultado de uma triagem no chamado e grava o
// registro de auditoria na mesma transação.
func (s *ChamadoService) AplicarTriagem(ch *models.Chamado, result models.TriagemResult) (*models.TriagemRecord, error) {
	record := &models.TriagemRecord{
		ChamadoID:           ch.ID,
		ScoreTotal:          result.ScoreTotal,
		ScoreBreakdown:      models.JSONBIntMap(result.ScoreBreakdown),
		Decisao:             result.Decisao,
		CriticidadeAnterior: ch.Criticidade,
		CriticidadeSugerida: result.CriticidadeSugerida,
		TagsSugeridas:       models.JSONBStringArray(result.TagsSugeridas),
		Confianca:           result.Confianca,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"score_qualidade":  result.ScoreTotal,
			"tags_automaticas": models.JSONBStringArray(result.TagsSugeridas),
		}
		if result.Decisao == models.DecisaoAprovado && result.CriticidadeSugerida != "" {
			updates["criticidade"] = result.CriticidadeSugerida
		}
		if err := tx.Model(&models.Chamado{}).Where("id = ?", ch.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("falha ao aplicar triagem no chamado: %w", err)
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("falha ao gravar registro de triagem: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidarCacheDashboard()
	return record, nil
}

// HistoricoTriagens devolve as triagens aplicadas a um chamado, mais recentes
// primeiro.
func (s *ChamadoService) HistoricoTriagens(chamadoID string) ([]models.TriagemRecord, error) {
	var records []models.TriagemRecord
	err := s.db.Where("chamado_id = ?", chamadoID).Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("falha ao listar histórico de triagens: %w", err)
	}
	return records, nil
}

// MetricasDashboard agrega os números do painel, com cache Redis de 60s
// quando disponível.
func (s *ChamadoService) MetricasDashboard(ctx context.Context) (*models.DashboardMetricas, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKeyDashboard).Bytes(); err == nil {
			var m models.DashboardMetricas
			if err := json.Unmarshal(raw, &m); err == nil {
				return &m, nil
			}
		}
	}

	m, err := s.calcularMetricas()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(m); err == nil {
			if err := s.cache.Set(ctx, cacheKeyDashboard, raw, cacheTTLDashboard).Err(); err != nil {
				slog.Warn("falha ao gravar cache do dashboard", "error", err)
			}
		}
	}
	return m, nil
}

func (s *ChamadoService) calcularMetricas() (*models.DashboardMetricas, error) {
	m := &models.DashboardMetricas{
		TotalChamadosPorStatus:     map[string]int64{},
		DistribuicaoPorCriticidade: map[string]int64{},
	}

	type contagem struct {
		Chave string
		Total int64
	}

	var porStatus []contagem
	if err := s.db.Model(&models.Chamado{}).
		Select("status AS chave, count(*) AS total").
		Group("status").Scan(&porStatus).Error; err != nil {
		return nil, fmt.Errorf("falha ao agregar por status: %w", err)
	}
	for _, c := range porStatus {
		m.TotalChamadosPorStatus[c.Chave] = c.Total
	}

	var porCriticidade []contagem
	if err := s.db.Model(&models.Chamado{}).
		Select("criticidade AS chave, count(*) AS total").
		Group("criticidade").Scan(&porCriticidade).Error; err != nil {
		return nil, fmt.Errorf("falha ao agregar por criticidade: %w", err)
	}
	for _, c := range porCriticidade {
		m.DistribuicaoPorCriticidade[c.Chave] = c.Total
	}

	if err := s.db.Model(&models.Chamado{}).
		Where("criticidade = ? AND status NOT IN ?", models.CriticidadeCritica,
			[]string{models.StatusResolvido, models.StatusFechado}).
		Count(&m.ChamadosCriticosAbertos).Error; err != nil {
		return nil, fmt.Errorf("falha ao contar críticos abertos: %w", err)
	}

	hoje := time.Now().Truncate(24 * time.Hour)
	if err := s.db.Model(&models.Chamado{}).
		Where("data_criacao >= ?", hoje).
		Count(&m.ChamadosNovosHoje).Error; err != nil {
		return nil, fmt.Errorf("falha ao contar chamados de hoje: %w", err)
	}

	if err := s.db.Model(&models.Chamado{}).
		Where("sla_limite IS NOT NULL AND sla_limite < ? AND status NOT IN ?", time.Now(),
			[]string{models.StatusResolvido, models.StatusFechado}).
		Count(&m.ChamadosVencidos).Error; err != nil {
		return nil, fmt.Errorf("falha ao contar chamados vencidos: %w", err)
	}

	// Tempo médio de resolução em horas, sobre os resolvidos/fechados.
	var resolvidos []models.Chamado
	if err := s.db.Select("data_criacao", "data_atualizacao").
		Where("status IN ?", []string{models.StatusResolvido, models.StatusFechado}).
		Find(&resolvidos).Error; err != nil {
		return nil, fmt.Errorf("falha ao buscar resolvidos: %w", err)
	}
	if len(resolvidos) > 0 {
		soma := 0.0
		for _, ch := range resolvidos {
			soma += ch.DataAtualizacao.Sub(ch.DataCriacao).Hours()
		}
		media := soma / float64(len(resolvidos))
		m.TempoMedioResolucao = &media
	}

	return m, nil
}

func (s *ChamadoService) invalidarCacheDashboard() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(context.Background(), cacheKeyDashboard).Err(); err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("falha ao invalidar cache do dashboard", "error", err)
	}
}
