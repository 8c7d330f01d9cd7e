/*
 * @module api/controllers/chamado_controller
 * @description Controlador de chamados: CRUD, follow-ups e histórico de
 * triagens
 * @architecture Arquitetura MVC - camada de controladores
 * @documentReference docs/triagem.md
 * @stateFlow Processamento de requisições HTTP sem estado
 * @rules Respostas seguem o envelope APIResponse; erros de domínio viram
 * status no corpo, HTTP 200
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/chamado/chamado_service.go
 */

package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/spf13/cast"

	"wexintel-service/service/chamado"
	"wexintel-service/service/models"
)

// ChamadoController controlador de chamados
type ChamadoController struct {
	chamadoService *chamado.ChamadoService
}

// NewChamadoController cria o controlador de chamados
func NewChamadoController(chamadoService *chamado.ChamadoService) *ChamadoController {
	return &ChamadoController{chamadoService: chamadoService}
}

// CreateChamado cria um chamado
// @Summary Criar chamado
// @Description Registra um novo chamado de suporte
// @Tags Chamados
// @Accept json
// @Produce json
// @Param chamado body models.Chamado true "Dados do chamado"
// @Success 201 {object} APIResponse{data=models.Chamado} "criado com sucesso"
// @Failure 400 {object} APIResponse "parâmetros inválidos"
// @Failure 409 {object} APIResponse "número WEX duplicado"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /chamados [post]
func (c *ChamadoController) CreateChamado(w http.ResponseWriter, r *http.Request) {
	var ch models.Chamado
	if err := render.DecodeJSON(r.Body, &ch); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "formato da requisição inválido",
		})
		return
	}

	if ch.NumeroWex == "" || ch.ClienteSolicitante == "" || ch.Descricao == "" {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "numero_wex, cliente_solicitante e descricao são obrigatórios",
		})
		return
	}

	if err := c.chamadoService.CriarChamado(&ch); err != nil {
		switch {
		case errors.Is(err, chamado.ErrNumeroWexDuplicado):
			render.JSON(w, r, APIResponse{Status: http.StatusConflict, Msg: err.Error()})
		case errors.Is(err, chamado.ErrStatusInvalido), errors.Is(err, chamado.ErrCriticidadeInvalida):
			render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: err.Error()})
		default:
			render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao criar chamado"})
		}
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "chamado criado com sucesso",
		Data:   ch,
	})
}

// GetChamados lista chamados
// @Summary Listar chamados
// @Description Lista chamados com filtros e paginação
// @Tags Chamados
// @Produce json
// @Param page query int false "Página" default(1)
// @Param size query int false "Itens por página" default(20)
// @Param status query string false "Filtro por status"
// @Param criticidade query string false "Filtro por criticidade"
// @Param cliente query string false "Filtro por cliente (parcial)"
// @Param busca query string false "Busca em título, descrição e número WEX"
// @Success 200 {object} PaginatedResponse{data=[]models.Chamado} "listado com sucesso"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /chamados [get]
func (c *ChamadoController) GetChamados(w http.ResponseWriter, r *http.Request) {
	filtros := chamado.FiltrosChamado{
		Status:      r.URL.Query().Get("status"),
		Criticidade: r.URL.Query().Get("criticidade"),
		Cliente:     r.URL.Query().Get("cliente"),
		Busca:       r.URL.Query().Get("busca"),
		Page:        cast.ToInt(r.URL.Query().Get("page")),
		Size:        cast.ToInt(r.URL.Query().Get("size")),
	}
	if filtros.Page <= 0 {
		filtros.Page = 1
	}
	if filtros.Size <= 0 {
		filtros.Size = 20
	}

	chamados, total, err := c.chamadoService.ListarChamados(filtros)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "falha ao listar chamados",
		})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "chamados listados com sucesso",
		Data:   chamados,
		Total:  total,
		Page:   filtros.Page,
		Size:   filtros.Size,
	})
}

// GetChamado busca um chamado
// @Summary Obter chamado
// @Description Busca um chamado pelo ID, com follow-ups
// @Tags Chamados
// @Produce json
// @Param id path string true "ID do chamado"
// @Success 200 {object} APIResponse{data=models.Chamado} "encontrado"
// @Failure 404 {object} APIResponse "não encontrado"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /chamados/{id} [get]
func (c *ChamadoController) GetChamado(w http.ResponseWriter, r *http.Request) {
	ch, err := c.chamadoService.ObterChamado(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, chamado.ErrChamadoNaoEncontrado) {
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: err.Error()})
			return
		}
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao buscar chamado"})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "chamado encontrado",
		Data:   ch,
	})
}

// UpdateChamado atualiza um chamado
// @Summary Atualizar chamado
// @Description Aplica alterações parciais a um chamado
// @Tags Chamados
// @Accept json
// @Produce json
// @Param id path string true "ID do chamado"
// @Param updates body map[string]interface{} true "Campos a alterar"
// @Success 200 {object} APIResponse{data=models.Chamado} "atualizado"
// @Failure 400 {object} APIResponse "parâmetros inválidos"
// @Failure 404 {object} APIResponse "não encontrado"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /chamados/{id} [put]
func (c *ChamadoController) UpdateChamado(w http.ResponseWriter, r *http.Request) {
	var updates map[string]interface{}
	if err := render.DecodeJSON(r.Body, &updates); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "formato da requisição inválido",
		})
		return
	}

	ch, err := c.chamadoService.AtualizarChamado(chi.URLParam(r, "id"), updates)
	if err != nil {
		switch {
		case errors.Is(err, chamado.ErrChamadoNaoEncontrado):
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: err.Error()})
		case errors.Is(err, chamado.ErrStatusInvalido), errors.Is(err, chamado.ErrCriticidadeInvalida):
			render.JSON(w, r, APIResponse{Status: http.StatusBadRequest, Msg: err.Error()})
		default:
			render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao atualizar chamado"})
		}
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "chamado atualizado com sucesso",
		Data:   ch,
	})
}

// DeleteChamado remove um chamado
// @Summary Remover chamado
// @Description Remove um chamado e seus follow-ups
// @Tags Chamados
// @Produce json
// @Param id path string true "ID do chamado"
// @Success 200 {object} APIResponse "removido"
// @Failure 404 {object} APIResponse "não encontrado"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /chamados/{id} [delete]
func (c *ChamadoController) DeleteChamado(w http.ResponseWriter, r *http.Request) {
	if err := c.chamadoService.DeletarChamado(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, chamado.ErrChamadoNaoEncontrado) {
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: err.Error()})
			return
		}
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao remover chamado"})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "chamado removido com sucesso",
	})
}

// CreateFollowup registra um follow-up
// @Summary Registrar follow-up
// @Description Adiciona um follow-up a um chamado
// @Tags Chamados
// @Accept json
// @Produce json
// @Param id path string true "ID do chamado"
// @Param followup body models.FollowUp true "Dados do follow-up"
// @Success 201 {object} APIResponse{data=models.FollowUp} "registrado"
// @Failure 400 {object} APIResponse "parâmetros inválidos"
// @Failure 404 {object} APIResponse "chamado não encontrado"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /chamados/{id}/followups [post]
func (c *ChamadoController) CreateFollowup(w http.ResponseWriter, r *http.Request) {
	var f models.FollowUp
	if err := render.DecodeJSON(r.Body, &f); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "formato da requisição inválido",
		})
		return
	}
	if f.Descricao == "" || f.Autor == "" {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "descricao e autor são obrigatórios",
		})
		return
	}

	if err := c.chamadoService.AdicionarFollowup(chi.URLParam(r, "id"), &f); err != nil {
		if errors.Is(err, chamado.ErrChamadoNaoEncontrado) {
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: err.Error()})
			return
		}
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao registrar follow-up"})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "follow-up registrado com sucesso",
		Data:   f,
	})
}

// GetFollowups lista follow-ups
// @Summary Listar follow-ups
// @Description Lista os follow-ups de um chamado em ordem cronológica
// @Tags Chamados
// @Produce json
// @Param id path string true "ID do chamado"
// @Success 200 {object} APIResponse{data=[]models.FollowUp} "listado"
// @Failure 404 {object} APIResponse "chamado não encontrado"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /chamados/{id}/followups [get]
func (c *ChamadoController) GetFollowups(w http.ResponseWriter, r *http.Request) {
	followups, err := c.chamadoService.ListarFollowups(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, chamado.ErrChamadoNaoEncontrado) {
			render.JSON(w, r, APIResponse{Status: http.StatusNotFound, Msg: err.Error()})
			return
		}
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao listar follow-ups"})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "follow-ups listados com sucesso",
		Data:   followups,
	})
}

// GetHistoricoTriagens lista triagens aplicadas
// @Summary Histórico de triagens
// @Description Lista as triagens aplicadas a um chamado, mais recentes primeiro
// @Tags Chamados
// @Produce json
// @Param id path string true "ID do chamado"
// @Success 200 {object} APIResponse{data=[]models.TriagemRecord} "listado"
// @Failure 500 {object} APIResponse "erro interno"
// @Router /chamados/{id}/triagens [get]
func (c *ChamadoController) GetHistoricoTriagens(w http.ResponseWriter, r *http.Request) {
	records, err := c.chamadoService.HistoricoTriagens(chi.URLParam(r, "id"))
	if err != nil {
		render.JSON(w, r, APIResponse{Status: http.StatusInternalServerError, Msg: "falha ao listar histórico de triagens"})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "histórico de triagens listado com sucesso",
		Data:   records,
	})
}
