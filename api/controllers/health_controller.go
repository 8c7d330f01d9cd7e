/*
 * @module api/controllers/health_controller
 * @description Controlador de verificação de saúde e prontidão do serviço
 * @architecture Arquitetura MVC - camada de controladores
 * @documentReference docs/triagem.md
 * @stateFlow Processamento de requisições HTTP sem estado
 * @rules /health responde sempre; /ready exige banco acessível
 * @dependencies net/http, gorm.io/gorm
 * @refs api/routes.go
 */

package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"gorm.io/gorm"
)

// HealthController controlador de verificação de saúde
type HealthController struct {
	db *gorm.DB
}

// NewHealthController cria o controlador com a conexão usada no readiness
func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// HealthResponse estrutura da resposta de saúde
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-01T00:00:00Z"`
	Version   string    `json:"version" example:"1.0.0"`
	Service   string    `json:"service" example:"wexintel-service"`
}

// Health verificação de vida
// @Summary Verificação de vida
// @Description Verifica se o processo está respondendo
// @Tags Sistema
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Service:   "wexintel-service",
	})
}

// Ready verificação de prontidão
// @Summary Verificação de prontidão
// @Description Verifica se o serviço está pronto para receber requisições
// @Tags Sistema
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	if c.db != nil {
		if sqlDB, err := c.db.DB(); err != nil || sqlDB.PingContext(r.Context()) != nil {
			status = "unavailable"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}

	render.JSON(w, r, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Service:   "wexintel-service",
	})
}
