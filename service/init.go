/*
 * @module service/init
 * @description Inicialização do serviço: conexão com o banco, migrações,
 * configuração de triagem, cache, publicador de eventos e agendador
 * @architecture Arquitetura em camadas - camada de serviço
 * @documentReference docs/triagem.md
 * @stateFlow Executado na subida do processo, antes da API aceitar requisições
 * @rules A API só sobe com banco migrado e configuração de triagem carregada
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres, github.com/go-redis/redis/v8
 * @refs main.go
 */

package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"wexintel-service/service/chamado"
	"wexintel-service/service/database"
	"wexintel-service/service/event"
	"wexintel-service/service/scheduler"
	"wexintel-service/service/triage"
)

var (
	DB                     *gorm.DB
	Cache                  *redis.Client
	GlobalRulesetStore     *triage.RulesetStore
	GlobalTriageEngine     *triage.Engine
	GlobalChamadoService   *chamado.ChamadoService
	GlobalEventPublisher   *event.EventPublisher
	GlobalSchedulerService *scheduler.SchedulerService
)

func init() {
	initDatabase()
	runMigrations()
	initCache()
	initServices()
}

// initDatabase abre a conexão com o PostgreSQL.
func initDatabase() {
	var dsn string

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "wexintel")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=America/Sao_Paulo",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("falha ao conectar no banco de dados: %v", err)
	}

	log.Println("conexão com o banco de dados estabelecida")
}

// getEnvWithDefault lê uma variável de ambiente com valor padrão.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations aplica as migrações e o seed opcional.
func runMigrations() {
	if err := database.AutoMigrate(DB); err != nil {
		log.Fatalf("falha na migração do banco: %v", err)
	}

	seed := os.Getenv("SEED_DEMO_DATA") == "true"
	if err := database.InitializeData(DB, seed); err != nil {
		log.Fatalf("falha na inicialização de dados: %v", err)
	}
	log.Println("migrações do banco concluídas")
}

// initCache conecta ao Redis quando REDIS_ADDR está definido; sem ele o
// dashboard funciona sem cache.
func initCache() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR não definido, cache do dashboard desabilitado")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis indisponível (%v), cache do dashboard desabilitado", err)
		return
	}

	Cache = client
	log.Println("cache Redis conectado")
}

// initServices monta o grafo de serviços e inicia o agendador.
func initServices() {
	configPath := getEnvWithDefault("TRIAGE_CONFIG_PATH", "triagem_config.json")
	GlobalRulesetStore = triage.NewRulesetStore(configPath)
	if err := GlobalRulesetStore.LoadOrCreate(); err != nil {
		log.Fatalf("falha ao carregar configuração de triagem: %v", err)
	}

	rs, err := GlobalRulesetStore.Get()
	if err != nil {
		log.Fatalf("configuração de triagem indisponível: %v", err)
	}
	oracle := triage.NewOracle(rs.ConfiguracoesAvancadas.Oracle)

	GlobalTriageEngine = triage.NewEngine(GlobalRulesetStore, oracle)
	GlobalChamadoService = chamado.NewChamadoService(DB, Cache)
	GlobalEventPublisher = event.NewEventPublisher()
	GlobalSchedulerService = scheduler.NewSchedulerService(GlobalChamadoService, GlobalTriageEngine)

	if err := GlobalSchedulerService.Start(); err != nil {
		log.Printf("falha ao iniciar o agendador: %v", err)
	}
	log.Println("serviços inicializados")
}
