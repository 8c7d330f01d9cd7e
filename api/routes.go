/*
 * @module api/routes
 * @description Configuração das rotas HTTP da API de chamados e triagem
 * @architecture API RESTful
 * @documentReference docs/triagem.md
 * @stateFlow Processamento de requisições HTTP sem estado
 * @rules Respostas JSON no envelope unificado; CORS liberado para o frontend
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers
 */

package api

import (
	"wexintel-service/api/controllers"
	"wexintel-service/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute inicializa todas as rotas da API
func InitRoute(r *chi.Mux) {
	// Middlewares básicos
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// Configuração de CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Verificações de saúde
	healthController := controllers.NewHealthController(service.DB)
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	chamadoController := controllers.NewChamadoController(service.GlobalChamadoService)
	triageController := controllers.NewTriageController(
		service.GlobalChamadoService, service.GlobalTriageEngine, service.GlobalEventPublisher)

	// Chamados e triagem
	r.Route("/chamados", func(r chi.Router) {
		r.Post("/", chamadoController.CreateChamado)
		r.Get("/", chamadoController.GetChamados)
		r.Get("/{id}", chamadoController.GetChamado)
		r.Put("/{id}", chamadoController.UpdateChamado)
		r.Delete("/{id}", chamadoController.DeleteChamado)

		// Follow-ups
		r.Post("/{id}/followups", chamadoController.CreateFollowup)
		r.Get("/{id}/followups", chamadoController.GetFollowups)

		// Triagem automática
		r.Post("/{id}/triagem", triageController.AplicarTriagem)
		r.Post("/{id}/triagem/preview", triageController.PreviewTriagem)
		r.Get("/{id}/triagens", chamadoController.GetHistoricoTriagens)

		// Similaridade e sugestões
		r.Get("/{id}/relacionados", triageController.GetRelacionados)
		r.Get("/{id}/sugestoes-followup", triageController.GetSugestoesFollowup)
		r.Post("/{id}/followup-sugerido", triageController.AplicarFollowupSugerido)
	})

	// Relatórios
	r.Route("/relatorios", func(r chi.Router) {
		r.Get("/padroes", triageController.GetRelatorioPadroes)
	})

	// Dashboard
	r.Route("/dashboard", func(r chi.Router) {
		dashboardController := controllers.NewDashboardController(service.GlobalChamadoService)
		r.Get("/metricas", dashboardController.GetMetricas)
	})

	// Configuração de triagem
	r.Route("/configuracoes/triagem", func(r chi.Router) {
		configController := controllers.NewConfigController(service.GlobalRulesetStore)
		r.Get("/", configController.GetConfig)
		r.Put("/", configController.UpdateConfig)
		r.Get("/resumo", configController.GetResumo)
		r.Post("/reset", configController.ResetConfig)
	})
}
