/*
 * @module api/controllers/config_controller
 * @description Controlador da configuração de triagem: consulta, resumo,
 * atualização com backup e restauração dos valores de referência
 * @architecture Arquitetura MVC - camada de controladores
 * @documentReference docs/triagem.md
 * @stateFlow HTTP -> RulesetStore -> arquivo JSON validado
 * @rules Atualizações passam pela validação estrutural; a versão anterior é
 * preservada em backup
 * @dependencies github.com/go-chi/render
 * @refs service/triage/store.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/render"

	"wexintel-service/service/triage"
)

// ConfigController controlador da configuração de triagem
type ConfigController struct {
	store *triage.RulesetStore
}

// NewConfigController cria o controlador de configuração
func NewConfigController(store *triage.RulesetStore) *ConfigController {
	return &ConfigController{store: store}
}

// GetConfig devolve a configuração vigente
// @Summary Obter configuração de triagem
// @Description Devolve o conjunto de regras vigente, com recarga transparente do arquivo
// @Tags Configuração
// @Produce json
// @Success 200 {object} APIResponse{data=triage.Ruleset} "configuração vigente"
// @Failure 500 {object} APIResponse "configuração indisponível"
// @Router /configuracoes/triagem [get]
func (c *ConfigController) GetConfig(w http.ResponseWriter, r *http.Request) {
	rs, err := c.store.Get()
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "configuração de triagem indisponível: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "configuração obtida com sucesso",
		Data:   rs,
	})
}

// GetResumo devolve o resumo da configuração
// @Summary Resumo da configuração
// @Description Devolve versão, thresholds, pesos e contagens do conjunto de regras vigente
// @Tags Configuração
// @Produce json
// @Success 200 {object} APIResponse "resumo da configuração"
// @Failure 500 {object} APIResponse "configuração indisponível"
// @Router /configuracoes/triagem/resumo [get]
func (c *ConfigController) GetResumo(w http.ResponseWriter, r *http.Request) {
	resumo, err := c.store.Summary()
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "configuração de triagem indisponível: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "resumo obtido com sucesso",
		Data:   resumo,
	})
}

// UpdateConfig substitui a configuração
// @Summary Atualizar configuração de triagem
// @Description Valida e grava um novo conjunto de regras, preservando o anterior em backup
// @Tags Configuração
// @Accept json
// @Produce json
// @Param config body triage.Ruleset true "Novo conjunto de regras"
// @Success 200 {object} APIResponse "configuração atualizada"
// @Failure 400 {object} APIResponse "configuração inválida"
// @Failure 500 {object} APIResponse "falha ao gravar"
// @Router /configuracoes/triagem [put]
func (c *ConfigController) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var rs triage.Ruleset
	if err := render.DecodeJSON(r.Body, &rs); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "formato da requisição inválido",
		})
		return
	}

	if err := rs.Validate(); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "configuração inválida: " + err.Error(),
		})
		return
	}

	if err := c.store.Save(&rs, true); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "falha ao gravar configuração: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "configuração atualizada com sucesso",
	})
}

// ResetConfig restaura os valores de referência
// @Summary Restaurar configuração padrão
// @Description Grava o conjunto de regras de referência, preservando o atual em backup
// @Tags Configuração
// @Produce json
// @Success 200 {object} APIResponse "configuração restaurada"
// @Failure 500 {object} APIResponse "falha ao gravar"
// @Router /configuracoes/triagem/reset [post]
func (c *ConfigController) ResetConfig(w http.ResponseWriter, r *http.Request) {
	if err := c.store.Save(triage.DefaultRuleset(), true); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "falha ao restaurar configuração: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "configuração restaurada para os valores de referência",
	})
}
