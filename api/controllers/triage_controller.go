/*
 * @module api/controllers/triage_controller
 * @description Controlador de triagem: prévia e aplicação da triagem
 * automática, chamados relacionados, sugestões de follow-up e relatório de
 * padrões
 * @architecture Arquitetura MVC - camada de controladores
 * @documentReference docs/triagem.md
 * @stateFlow HTTP -> motor de triagem -> (opcional) persistência e evento
 * @rules A prévia nunca altera o chamado; aplicar persiste o resultado,
 * grava a auditoria e publica o evento
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render, github.com/spf13/cast
 * @refs service/triage/engine.go, service/chamado/chamado_service.go
 */

package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/spf13/cast"

	"wexintel-service/service/chamado"
	"wexintel-service/service/event"
	"wexintel-service/service/models"
	"wexintel-service/service/monitoring"
	"wexintel-service/service/triage"
)

// TriageController controlador das operações de triagem
type TriageController struct {
	chamadoService *chamado.ChamadoService
	engine         *triage.Engine
	publisher      *event.EventPublisher
}

// NewTriageController cria o controlador de triagem
func NewTriageController(chamadoService *chamado.ChamadoService, engine *triage.Engine, publisher *event.EventPublisher) *TriageController {
	return &TriageController{
		chamadoService: chamadoService,
		engine:         engine,
		publisher:      publisher,
	}
}

// PreviewTriagem executa a triagem sem persistir
// @Summary Prévia de triagem
// @Description Executa a triagem automática de um chamado sem alterá-lo
// @Tags Triagem
// @Produce json
// @Param id path string true "ID do chamado"
// @Success 200 {object} APIResponse{data=models.TriagemResult} "triagem executada"
// @Failure 404 {object} APIResponse "chamado não encontrado"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /chamados/{id}/triagem/preview [post]
func (c *TriageController) PreviewTriagem(w http.ResponseWriter, r *http.Request) {
	ch, err := c.chamadoService.ObterChamado(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, chamado.ErrChamadoNaoEncontrado) {
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: err.Error()})
			return
		}
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao buscar chamado"})
		return
	}

	inicio := time.Now()
	result, err := c.engine.RealizarTriagem(r.Context(), ch)
	if err != nil {
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "motor de triagem indisponível: " + err.Error()})
		return
	}
	monitoring.RegistrarTriagem(result.Decisao, time.Since(inicio).Seconds())

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "triagem executada com sucesso",
		Data:   result,
	})
}

// AplicarTriagem executa e persiste a triagem
// @Summary Aplicar triagem
// @Description Executa a triagem automática, persiste o resultado no chamado e grava a auditoria
// @Tags Triagem
// @Produce json
// @Param id path string true "ID do chamado"
// @Success 200 {object} APIResponse{data=models.TriagemResult} "triagem aplicada"
// @Failure 404 {object} APIResponse "chamado não encontrado"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /chamados/{id}/triagem [post]
func (c *TriageController) AplicarTriagem(w http.ResponseWriter, r *http.Request) {
	ch, err := c.chamadoService.ObterChamado(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, chamado.ErrChamadoNaoEncontrado) {
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: err.Error()})
			return
		}
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao buscar chamado"})
		return
	}

	inicio := time.Now()
	result, err := c.engine.RealizarTriagem(r.Context(), ch)
	if err != nil {
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "motor de triagem indisponível: " + err.Error()})
		return
	}
	monitoring.RegistrarTriagem(result.Decisao, time.Since(inicio).Seconds())

	if _, err := c.chamadoService.AplicarTriagem(ch, result); err != nil {
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao persistir resultado da triagem"})
		return
	}

	if c.publisher != nil {
		c.publisher.PublicarTriagem(r.Context(), ch, result)
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "triagem aplicada com sucesso",
		Data:   result,
	})
}

// GetRelacionados busca chamados similares
// @Summary Chamados relacionados
// @Description Lista os chamados mais similares ao informado
// @Tags Triagem
// @Produce json
// @Param id path string true "ID do chamado"
// @Param limite query int false "Máximo de resultados" default(10)
// @Param score_minimo query number false "Score mínimo de similaridade" default(0.3)
// @Success 200 {object} APIResponse "relacionados listados"
// @Failure 404 {object} APIResponse "chamado não encontrado"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /chamados/{id}/relacionados [get]
func (c *TriageController) GetRelacionados(w http.ResponseWriter, r *http.Request) {
	ch, err := c.chamadoService.ObterChamado(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, chamado.ErrChamadoNaoEncontrado) {
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: err.Error()})
			return
		}
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao buscar chamado"})
		return
	}

	candidatos, err := c.chamadoService.ListarCandidatos(ch.ID)
	if err != nil {
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao listar candidatos"})
		return
	}

	limite := cast.ToInt(r.URL.Query().Get("limite"))
	if limite <= 0 {
		limite = 10
	}
	if limite > 50 {
		limite = 50
	}
	scoreMinimo := cast.ToFloat64(r.URL.Query().Get("score_minimo"))

	similares, padroes, err := c.engine.BuscarRelacionados(ch, candidatos, limite, scoreMinimo)
	if err != nil {
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "motor de similaridade indisponível: " + err.Error()})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "chamados relacionados listados com sucesso",
		Data: map[string]interface{}{
			"chamado_id":            ch.ID,
			"chamados_similares":    similares,
			"total_similares":       len(similares),
			"padroes_identificados": padroes,
		},
	})
}

// GetSugestoesFollowup gera sugestões de follow-up
// @Summary Sugestões de follow-up
// @Description Gera sugestões de acompanhamento para um chamado, com exemplos do histórico
// @Tags Triagem
// @Produce json
// @Param id path string true "ID do chamado"
// @Success 200 {object} APIResponse{data=models.SugestoesFollowup} "sugestões geradas"
// @Failure 404 {object} APIResponse "chamado não encontrado"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /chamados/{id}/sugestoes-followup [get]
func (c *TriageController) GetSugestoesFollowup(w http.ResponseWriter, r *http.Request) {
	ch, err := c.chamadoService.ObterChamado(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, chamado.ErrChamadoNaoEncontrado) {
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: err.Error()})
			return
		}
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao buscar chamado"})
		return
	}

	resolvidos, err := c.chamadoService.ListarResolvidos(0)
	if err != nil {
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao consultar histórico"})
		return
	}

	sugestoes := triage.SugerirFollowups(ch, resolvidos, time.Now())

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "sugestões de follow-up geradas com sucesso",
		Data:   sugestoes,
	})
}

// AplicarFollowupSugerido materializa uma sugestão como follow-up
// @Summary Aplicar sugestão de follow-up
// @Description Registra uma das sugestões geradas como follow-up do chamado
// @Tags Triagem
// @Accept json
// @Produce json
// @Param id path string true "ID do chamado"
// @Param escolha body object true "Índice da sugestão e autor"
// @Success 201 {object} APIResponse{data=models.FollowUp} "follow-up registrado"
// @Failure 400 {object} APIResponse "parâmetros inválidos"
// @Failure 404 {object} APIResponse "chamado não encontrado"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /chamados/{id}/followup-sugerido [post]
func (c *TriageController) AplicarFollowupSugerido(w http.ResponseWriter, r *http.Request) {
	ch, err := c.chamadoService.ObterChamado(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, chamado.ErrChamadoNaoEncontrado) {
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: err.Error()})
			return
		}
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao buscar chamado"})
		return
	}

	var escolha struct {
		Indice int    `json:"indice"`
		Autor  string `json:"autor"`
	}
	if err := render.DecodeJSON(r.Body, &escolha); err != nil {
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "formato da requisição inválido"})
		return
	}
	if escolha.Autor == "" {
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "autor é obrigatório"})
		return
	}

	resolvidos, err := c.chamadoService.ListarResolvidos(0)
	if err != nil {
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao consultar histórico"})
		return
	}

	sugestoes := triage.SugerirFollowups(ch, resolvidos, time.Now())
	if escolha.Indice < 0 || escolha.Indice >= len(sugestoes.Sugestoes) {
		render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: "índice de sugestão inválido"})
		return
	}

	f := models.FollowUp{
		Tipo:      sugestoes.ProximoTipo,
		Descricao: "[SUGESTÃO] " + sugestoes.Sugestoes[escolha.Indice],
		Autor:     escolha.Autor,
	}
	if err := c.chamadoService.AdicionarFollowup(ch.ID, &f); err != nil {
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao registrar follow-up"})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "follow-up sugerido registrado com sucesso",
		Data:   f,
	})
}

// GetRelatorioPadroes gera o relatório de padrões
// @Summary Relatório de padrões
// @Description Agrupa os chamados do período por similaridade e resume os padrões encontrados
// @Tags Triagem
// @Produce json
// @Param periodo_dias query int false "Janela de análise em dias" default(30)
// @Success 200 {object} APIResponse{data=models.RelatorioPadroes} "relatório gerado"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /relatorios/padroes [get]
func (c *TriageController) GetRelatorioPadroes(w http.ResponseWriter, r *http.Request) {
	periodoDias := cast.ToInt(r.URL.Query().Get("periodo_dias"))
	if periodoDias <= 0 {
		periodoDias = 30
	}

	chamados, err := c.chamadoService.ListarPeriodo(periodoDias)
	if err != nil {
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao listar chamados do período"})
		return
	}

	relatorio, err := c.engine.GerarRelatorio(chamados, periodoDias)
	if err != nil {
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "motor de similaridade indisponível: " + err.Error()})
		return
	}
	monitoring.RelatoriosGerados.WithLabelValues("api").Inc()

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "relatório de padrões gerado com sucesso",
		Data:   relatorio,
	})
}
