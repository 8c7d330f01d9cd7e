/*
 * @module service/scheduler/scheduler_service
 * @description Agendador de tarefas periódicas: geração noturna do relatório
 * de padrões sobre os chamados recentes
 * @architecture Agendador baseado em cron e goroutines
 * @documentReference docs/triagem.md
 * @stateFlow Start registra as entradas cron; Stop cancela o contexto e
 * aguarda os jobs em andamento
 * @rules O relatório noturno cobre os últimos 30 dias e roda às 02:00
 * @dependencies github.com/robfig/cron/v3
 * @refs service/triage/cluster.go, service/chamado/chamado_service.go
 */

package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"wexintel-service/service/chamado"
	"wexintel-service/service/monitoring"
	"wexintel-service/service/triage"
)

// Expressão cron do relatório noturno (02:00, horário do servidor).
const cronRelatorioNoturno = "0 2 * * *"

// Janela de análise do relatório noturno, em dias.
const periodoRelatorioDias = 30

// SchedulerService coordena as tarefas periódicas do serviço.
type SchedulerService struct {
	chamadoService *chamado.ChamadoService
	engine         *triage.Engine
	cron           *cron.Cron
	ctx            context.Context
	cancel         context.CancelFunc
}

// NewSchedulerService cria o agendador com as dependências injetadas.
func NewSchedulerService(chamadoService *chamado.ChamadoService, engine *triage.Engine) *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())
	return &SchedulerService{
		chamadoService: chamadoService,
		engine:         engine,
		cron:           cron.New(),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start registra as tarefas e inicia o cron.
func (s *SchedulerService) Start() error {
	_, err := s.cron.AddFunc(cronRelatorioNoturno, s.executarRelatorioNoturno)
	if err != nil {
		return fmt.Errorf("falha ao registrar relatório noturno: %w", err)
	}

	s.cron.Start()
	slog.Info("agendador iniciado", "relatorio_noturno", cronRelatorioNoturno)
	return nil
}

// Stop encerra o cron e aguarda os jobs em andamento.
func (s *SchedulerService) Stop() {
	s.cancel()
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	slog.Info("agendador encerrado")
}

// executarRelatorioNoturno gera o relatório de padrões dos últimos 30 dias e
// registra o resumo no log.
func (s *SchedulerService) executarRelatorioNoturno() {
	select {
	case <-s.ctx.Done():
		return
	default:
	}

	chamados, err := s.chamadoService.ListarPeriodo(periodoRelatorioDias)
	if err != nil {
		slog.Error("relatório noturno: falha ao listar chamados", "error", err)
		return
	}

	relatorio, err := s.engine.GerarRelatorio(chamados, periodoRelatorioDias)
	if err != nil {
		slog.Error("relatório noturno: falha ao gerar relatório", "error", err)
		return
	}

	monitoring.RelatoriosGerados.WithLabelValues("agendado").Inc()
	slog.Info("relatório noturno de padrões gerado",
		"total_chamados", relatorio.TotalChamados,
		"grupos_similares", relatorio.TotalGruposSimilares,
		"confianca", relatorio.ConfiancaAnalise,
		"duracao_segundos", relatorio.TempoProcessamento)
}
