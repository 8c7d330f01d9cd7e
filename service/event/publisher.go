/*
 * @module service/event/publisher
 * @description Publicador de eventos de triagem em Kafka, melhor esforço:
 * habilitado apenas quando KAFKA_BROKERS está definido
 * @architecture Arquitetura orientada a eventos - camada de serviço
 * @documentReference docs/triagem.md
 * @stateFlow triagem aplicada -> evento JSON -> tópico triagem.decisoes
 * @rules Falha de publicação nunca bloqueia a resposta da API; o erro é
 * apenas registrado
 * @dependencies github.com/segmentio/kafka-go
 * @refs service/init.go
 */

package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"wexintel-service/service/models"
)

const topicoTriagem = "triagem.decisoes"

// EventPublisher publica decisões de triagem em um tópico Kafka.
// Um publisher sem writer (brokers não configurados) descarta eventos em
// silêncio.
type EventPublisher struct {
	writer *kafka.Writer
}

// NewEventPublisher cria o publicador a partir de KAFKA_BROKERS
// (lista separada por vírgula). Sem brokers, devolve um publicador inerte.
func NewEventPublisher() *EventPublisher {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		slog.Info("KAFKA_BROKERS não definido, publicação de eventos desabilitada")
		return &EventPublisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topicoTriagem,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
	slog.Info("publicação de eventos de triagem habilitada", "brokers", brokers, "topico", topicoTriagem)
	return &EventPublisher{writer: writer}
}

// eventoTriagem é o corpo publicado no tópico.
type eventoTriagem struct {
	ChamadoID   string    `json:"chamado_id"`
	NumeroWex   string    `json:"numero_wex"`
	ScoreTotal  int       `json:"score_total"`
	Decisao     string    `json:"decisao"`
	Confianca   float64   `json:"confianca"`
	PublicadoEm time.Time `json:"publicado_em"`
}

// PublicarTriagem publica o resultado de uma triagem aplicada. Melhor
// esforço: falhas são registradas e descartadas.
func (p *EventPublisher) PublicarTriagem(ctx context.Context, ch *models.Chamado, result models.TriagemResult) {
	if p.writer == nil {
		return
	}

	corpo, err := json.Marshal(eventoTriagem{
		ChamadoID:   ch.ID,
		NumeroWex:   ch.NumeroWex,
		ScoreTotal:  result.ScoreTotal,
		Decisao:     result.Decisao,
		Confianca:   result.Confianca,
		PublicadoEm: time.Now(),
	})
	if err != nil {
		slog.Error("falha ao serializar evento de triagem", "error", err)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ch.ID),
		Value: corpo,
	})
	if err != nil {
		slog.Warn("falha ao publicar evento de triagem", "chamado_id", ch.ID, "error", err)
	}
}

// Close libera o writer, se houver.
func (p *EventPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
