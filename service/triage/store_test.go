package triage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novoStoreTemporario(t *testing.T) *RulesetStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "triagem_config.json")
	store := NewRulesetStore(path)
	require.NoError(t, store.LoadOrCreate())
	return store
}

func TestLoadOrCreate_GravaPadraoQuandoAusente(t *testing.T) {
	store := novoStoreTemporario(t)

	_, err := os.Stat(store.Path())
	require.NoError(t, err)

	rs, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, 70, rs.Thresholds.AprovacaoAutomatica)
}

func TestGet_SemConfiguracao(t *testing.T) {
	store := NewRulesetStore(filepath.Join(t.TempDir(), "inexistente.json"))

	_, err := store.Get()
	assert.ErrorIs(t, err, ErrNaoConfigurado)
}

func TestGet_RecarregaQuandoArquivoMuda(t *testing.T) {
	store := novoStoreTemporario(t)

	alterado := DefaultRuleset()
	alterado.Thresholds.AprovacaoAutomatica = 80
	data, err := json.Marshal(alterado)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), data, 0o644))
	futuro := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(store.Path(), futuro, futuro))

	rs, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, 80, rs.Thresholds.AprovacaoAutomatica)
}

func TestGet_RecargaInvalidaMantemAnterior(t *testing.T) {
	store := novoStoreTemporario(t)

	require.NoError(t, os.WriteFile(store.Path(), []byte("{quebrado"), 0o644))
	futuro := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(store.Path(), futuro, futuro))

	rs, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, 70, rs.Thresholds.AprovacaoAutomatica)

	// A falha não deve ser retentada a cada acesso.
	rs2, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, rs, rs2)
}

func TestSave_CriaBackup(t *testing.T) {
	store := novoStoreTemporario(t)

	alterado := DefaultRuleset()
	alterado.Version = "1.1"
	require.NoError(t, store.Save(alterado, true))

	backups, err := filepath.Glob(store.Path() + ".backup_*")
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	rs, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "1.1", rs.Version)
}

func TestSave_RejeitaRulesetInvalido(t *testing.T) {
	store := novoStoreTemporario(t)

	invalido := DefaultRuleset()
	delete(invalido.PontuacaoCriterios, CategoriaAnexos)

	require.Error(t, store.Save(invalido, false))

	// A configuração anterior continua em vigor.
	rs, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "1.0", rs.Version)
}

func TestSummary(t *testing.T) {
	store := novoStoreTemporario(t)

	resumo, err := store.Summary()
	require.NoError(t, err)

	assert.Equal(t, "1.0", resumo["version"])
	assert.Equal(t, 18, resumo["total_criterios"])
	assert.InDelta(t, 1.0, resumo["soma_pesos"].(float64), 0.001)
}
