/*
 * @module service/triage/store
 * @description Armazenamento do ruleset de triagem com cache em memória,
 * recarga automática por mtime e gravação com backup
 * @architecture Arquitetura em camadas - configuração de domínio
 * @documentReference docs/triagem.md
 * @stateFlow Load -> Get (recarga transparente) -> Save (backup opcional)
 * @rules Falha de recarga mantém a última configuração válida; acesso sem
 * configuração carregada devolve ErrNaoConfigurado
 * @dependencies encoding/json, os, sync, log/slog
 * @refs service/triage/ruleset.go
 */

package triage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ErrNaoConfigurado indica que nenhum ruleset válido foi carregado.
var ErrNaoConfigurado = errors.New("triagem não configurada: nenhum ruleset válido carregado")

// RulesetStore mantém o ruleset corrente com leitura concorrente segura.
// A recarga é disparada apenas quando o mtime do arquivo muda.
type RulesetStore struct {
	path string

	mu           sync.RWMutex
	current      *Ruleset
	lastModified time.Time
}

// NewRulesetStore cria o store apontando para o arquivo de configuração.
func NewRulesetStore(path string) *RulesetStore {
	return &RulesetStore{path: path}
}

// Path devolve o caminho do arquivo de configuração.
func (s *RulesetStore) Path() string {
	return s.path
}

// Load lê e valida o arquivo, substituindo a configuração corrente.
func (s *RulesetStore) Load() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("arquivo de configuração não encontrado: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("erro ao ler configuração: %w", err)
	}

	rs, err := ParseRuleset(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = rs
	s.lastModified = info.ModTime()
	s.mu.Unlock()

	slog.Info("configuração de triagem carregada", "path", s.path, "version", rs.Version)
	return nil
}

// LoadOrCreate carrega o arquivo, gravando o ruleset padrão se ele não existir.
func (s *RulesetStore) LoadOrCreate() error {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		slog.Info("configuração de triagem ausente, gravando padrão", "path", s.path)
		if err := s.Save(DefaultRuleset(), false); err != nil {
			return err
		}
	}
	return s.Load()
}

// Get devolve o ruleset corrente, recarregando de forma transparente quando o
// arquivo mudou. Falha na recarga mantém a configuração anterior em vigor.
func (s *RulesetStore) Get() (*Ruleset, error) {
	if info, err := os.Stat(s.path); err == nil {
		s.mu.RLock()
		changed := !info.ModTime().Equal(s.lastModified)
		loaded := s.current != nil
		s.mu.RUnlock()

		if changed && loaded {
			if err := s.Load(); err != nil {
				slog.Warn("recarga da configuração falhou, mantendo a anterior", "error", err)
				s.mu.Lock()
				s.lastModified = info.ModTime()
				s.mu.Unlock()
			}
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNaoConfigurado
	}
	return s.current, nil
}

// Save valida e persiste o ruleset, opcionalmente criando um backup datado.
func (s *RulesetStore) Save(rs *Ruleset, backup bool) error {
	if err := rs.Validate(); err != nil {
		return err
	}

	if backup {
		if original, err := os.ReadFile(s.path); err == nil {
			backupPath := fmt.Sprintf("%s.backup_%s", s.path, time.Now().Format("20060102_150405"))
			if err := os.WriteFile(backupPath, original, 0o644); err != nil {
				return fmt.Errorf("erro ao criar backup: %w", err)
			}
			slog.Info("backup de configuração criado", "path", backupPath)
		}
	}

	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("erro ao serializar configuração: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("erro ao gravar configuração: %w", err)
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("erro ao verificar configuração gravada: %w", err)
	}

	s.mu.Lock()
	s.current = rs
	s.lastModified = info.ModTime()
	s.mu.Unlock()

	slog.Info("configuração de triagem gravada", "path", s.path, "version", rs.Version)
	return nil
}

// Summary devolve um resumo da configuração corrente.
func (s *RulesetStore) Summary() (map[string]interface{}, error) {
	rs, err := s.Get()
	if err != nil {
		return nil, err
	}

	totalCriterios := 0
	for _, cat := range rs.PontuacaoCriterios {
		totalCriterios += len(cat.Criterios)
	}
	somaPesos := 0.0
	for _, p := range rs.PesosCategorias {
		somaPesos += p
	}

	s.mu.RLock()
	ultimaModificacao := s.lastModified
	s.mu.RUnlock()

	return map[string]interface{}{
		"version":            rs.Version,
		"arquivo":            s.path,
		"ultima_modificacao": ultimaModificacao,
		"thresholds":         rs.Thresholds,
		"total_criterios":    totalCriterios,
		"soma_pesos":         somaPesos,
		"formatos_aceitos":   len(rs.FormatosAnexosAceitos),
	}, nil
}
