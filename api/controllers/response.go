package controllers

// APIResponse estrutura de resposta unificada da API
type APIResponse struct {
	Status int         `json:"status" example:"200"`
	Msg    string      `json:"msg" example:"operação realizada com sucesso"`
	Data   interface{} `json:"data,omitempty"`
}

// PaginatedResponse estrutura de resposta paginada
type PaginatedResponse struct {
	Status int         `json:"status" example:"200"`
	Msg    string      `json:"msg" example:"operação realizada com sucesso"`
	Data   interface{} `json:"data"`
	Total  int64       `json:"total" example:"100"`
	Page   int         `json:"page" example:"1"`
	Size   int         `json:"size" example:"10"`
}
