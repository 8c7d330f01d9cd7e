package logger

import (
	"log/slog"
	"os"
)

// InitLogger configura o logger global em formato JSON na saída padrão.
func InitLogger() {
	nivel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		nivel = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: nivel,
	})
	slog.SetDefault(slog.New(handler))
}
