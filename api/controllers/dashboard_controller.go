/*
 * @module api/controllers/dashboard_controller
 * @description Controlador do dashboard: métricas agregadas de chamados
 * @architecture Arquitetura MVC - camada de controladores
 * @documentReference docs/triagem.md
 * @stateFlow HTTP -> serviço de chamados -> cache/banco
 * @rules Métricas podem vir do cache Redis com até 60s de defasagem
 * @dependencies github.com/go-chi/render
 * @refs service/chamado/chamado_service.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/render"

	"wexintel-service/service/chamado"
)

// DashboardController controlador do dashboard
type DashboardController struct {
	chamadoService *chamado.ChamadoService
}

// NewDashboardController cria o controlador do dashboard
func NewDashboardController(chamadoService *chamado.ChamadoService) *DashboardController {
	return &DashboardController{chamadoService: chamadoService}
}

// GetMetricas métricas do dashboard
// @Summary Métricas do dashboard
// @Description Devolve os agregados exibidos no painel: totais por status e criticidade, críticos abertos, tempo médio de resolução, novos de hoje e vencidos
// @Tags Dashboard
// @Produce json
// @Success 200 {object} APIResponse{data=models.DashboardMetricas} "métricas calculadas"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /dashboard/metricas [get]
func (c *DashboardController) GetMetricas(w http.ResponseWriter, r *http.Request) {
	metricas, err := c.chamadoService.MetricasDashboard(r.Context())
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "falha ao calcular métricas do dashboard",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "métricas calculadas com sucesso",
		Data:   metricas,
	})
}
