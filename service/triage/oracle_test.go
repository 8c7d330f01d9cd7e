package triage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalOracle(t *testing.T) {
	oracle := LocalOracle{}

	assert.InDelta(t, 0.5, oracle.AnalisarQualidade(context.Background(), "texto curto"), 0.001)
	assert.InDelta(t, 0.7, oracle.AnalisarQualidade(context.Background(), strings.Repeat("a", 150)), 0.001)
}

func TestRemoteOracle_Sucesso(t *testing.T) {
	var recebido struct {
		Inputs string `json:"inputs"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&recebido))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	oracle := NewRemoteOracle(ConfigOracle{URL: server.URL + "/", Modelo: "modelo-teste", TimeoutSegundos: 2})

	score := oracle.AnalisarQualidade(context.Background(), strings.Repeat("detalhes ", 20))
	assert.InDelta(t, 0.8, score, 0.001)
	assert.Contains(t, recebido.Inputs, "qualidade")
}

func TestRemoteOracle_ErroHTTPCaiNaHeuristicaLocal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	oracle := NewRemoteOracle(ConfigOracle{URL: server.URL + "/", Modelo: "modelo-teste", TimeoutSegundos: 2})

	assert.InDelta(t, 0.7, oracle.AnalisarQualidade(context.Background(), strings.Repeat("a", 150)), 0.001)
	assert.InDelta(t, 0.5, oracle.AnalisarQualidade(context.Background(), "curto"), 0.001)
}

func TestRemoteOracle_ServidorForaDoArCaiNaHeuristicaLocal(t *testing.T) {
	oracle := NewRemoteOracle(ConfigOracle{URL: "http://127.0.0.1:1/", Modelo: "modelo-teste", TimeoutSegundos: 1})

	assert.InDelta(t, 0.5, oracle.AnalisarQualidade(context.Background(), "curto"), 0.001)
}

func TestNewOracle_SelecaoPorConfiguracao(t *testing.T) {
	_, remoto := NewOracle(ConfigOracle{Habilitado: true, URL: "http://exemplo/"}).(*RemoteOracle)
	assert.True(t, remoto)

	_, local := NewOracle(ConfigOracle{Habilitado: false, URL: "http://exemplo/"}).(LocalOracle)
	assert.True(t, local)

	_, local = NewOracle(ConfigOracle{Habilitado: true}).(LocalOracle)
	assert.True(t, local)
}
