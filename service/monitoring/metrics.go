/*
 * @module service/monitoring/metrics
 * @description Métricas Prometheus do serviço: contadores de triagem por
 * decisão e histograma de duração
 * @architecture Observabilidade - camada transversal
 * @documentReference docs/triagem.md
 * @stateFlow Registradas no registry padrão e expostas em /metrics
 * @rules Labels limitados aos valores do enum de decisão
 * @dependencies github.com/prometheus/client_golang
 * @refs main.go
 */

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TriagensTotal conta as triagens executadas por decisão.
	TriagensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wexintel_triagens_total",
		Help: "Total de triagens executadas, por decisão",
	}, []string{"decisao"})

	// TriagemDuracao mede a duração das triagens em segundos.
	TriagemDuracao = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wexintel_triagem_duracao_segundos",
		Help:    "Duração da triagem automática em segundos",
		Buckets: prometheus.DefBuckets,
	})

	// RelatoriosGerados conta os relatórios de padrões gerados, por origem.
	RelatoriosGerados = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wexintel_relatorios_gerados_total",
		Help: "Total de relatórios de padrões gerados, por origem",
	}, []string{"origem"})
)

// RegistrarTriagem registra uma triagem concluída nas métricas.
func RegistrarTriagem(decisao string, duracaoSegundos float64) {
	TriagensTotal.WithLabelValues(decisao).Inc()
	TriagemDuracao.Observe(duracaoSegundos)
}
