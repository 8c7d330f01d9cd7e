/*
 * @module service/triage/oracle
 * @description Oráculo de qualidade de texto: interface de capacidade com
 * implementação local (heurística de tamanho) e remota (HTTP, melhor esforço)
 * @architecture Arquitetura em camadas - integração externa opcional
 * @documentReference docs/triagem.md
 * @stateFlow Uma única tentativa por chamada, timeout limitado, fallback local
 * @rules Falha do oráculo nunca chega ao chamador; o resultado é sempre um
 * score local de contingência
 * @dependencies net/http, encoding/json
 * @refs service/triage/scorers.go
 */

package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// TextQualityOracle avalia a qualidade de um texto de suporte em [0,1].
// Implementações nunca devolvem erro: qualquer falha vira um score de
// contingência calculado localmente.
type TextQualityOracle interface {
	AnalisarQualidade(ctx context.Context, texto string) float64
}

// qualidadeLocal é a heurística de contingência baseada em tamanho.
func qualidadeLocal(texto string) float64 {
	if len(texto) > 100 {
		return 0.7
	}
	return 0.5
}

// LocalOracle avalia a qualidade apenas com a heurística local.
type LocalOracle struct{}

// AnalisarQualidade implementa TextQualityOracle.
func (LocalOracle) AnalisarQualidade(_ context.Context, texto string) float64 {
	return qualidadeLocal(texto)
}

// RemoteOracle consulta um serviço de inferência externo por HTTP.
// A resposta é tratada como opaca: um 2xx conta como análise bem-sucedida.
type RemoteOracle struct {
	url    string
	modelo string
	apiKey string
	client *http.Client
}

// NewRemoteOracle cria o oráculo remoto com timeout limitado.
func NewRemoteOracle(cfg ConfigOracle) *RemoteOracle {
	timeout := time.Duration(cfg.TimeoutSegundos) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RemoteOracle{
		url:    cfg.URL,
		modelo: cfg.Modelo,
		apiKey: os.Getenv("WEX_ORACLE_API_KEY"),
		client: &http.Client{Timeout: timeout},
	}
}

type oraclePayload struct {
	Inputs     string                 `json:"inputs"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// AnalisarQualidade implementa TextQualityOracle. Uma única tentativa; em
// qualquer falha (rede, timeout, não-2xx) aplica a heurística local.
func (o *RemoteOracle) AnalisarQualidade(ctx context.Context, texto string) float64 {
	recorte := texto
	if len(recorte) > 500 {
		recorte = recorte[:500]
	}

	payload := oraclePayload{
		Inputs:     "Analise a qualidade deste texto de suporte técnico: " + recorte,
		Parameters: map[string]interface{}{"max_length": 50},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return qualidadeLocal(texto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url+o.modelo, bytes.NewReader(body))
	if err != nil {
		return qualidadeLocal(texto)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		slog.Warn("oráculo de qualidade indisponível, usando heurística local", "error", err)
		return qualidadeLocal(texto)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("oráculo de qualidade respondeu erro, usando heurística local",
			"status", fmt.Sprintf("%d", resp.StatusCode))
		return qualidadeLocal(texto)
	}

	// A resposta do modelo é opaca; o sinal útil continua sendo o tamanho do
	// texto, com um pequeno acréscimo por ter sido analisado.
	if len(texto) > 100 {
		return 0.8
	}
	return 0.5
}

// NewOracle seleciona a implementação conforme a configuração.
func NewOracle(cfg ConfigOracle) TextQualityOracle {
	if cfg.Habilitado && cfg.URL != "" {
		return NewRemoteOracle(cfg)
	}
	return LocalOracle{}
}
