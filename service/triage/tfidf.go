/*
 * @module service/triage/tfidf
 * @description Vetorização TF-IDF e similaridade de cosseno, usadas como
 * métrica léxica alternativa ao Jaccard
 * @architecture Arquitetura em camadas - núcleo do motor de similaridade
 * @documentReference docs/triagem.md
 * @stateFlow corpus -> vocabulário/IDF -> vetores por documento -> cosseno
 * @rules A métrica escolhida no ruleset vale para todos os pares de uma mesma
 * operação; o modelo é reconstruído por chamada sobre o corpus recebido
 * @dependencies math
 * @refs service/triage/similarity.go
 */

package triage

import "math"

// tfidfModel guarda o vocabulário e os pesos IDF de um corpus.
type tfidfModel struct {
	vocab   map[string]int
	idf     []float64
	vetores [][]float64
}

// newTFIDFModel constrói o modelo sobre os documentos tokenizados e
// pré-calcula o vetor de cada documento.
func newTFIDFModel(docs [][]string) *tfidfModel {
	m := &tfidfModel{vocab: map[string]int{}}

	// Frequência documental de cada termo.
	df := []int{}
	for _, doc := range docs {
		vistos := map[int]struct{}{}
		for _, tok := range doc {
			idx, ok := m.vocab[tok]
			if !ok {
				idx = len(m.vocab)
				m.vocab[tok] = idx
				df = append(df, 0)
			}
			vistos[idx] = struct{}{}
		}
		for idx := range vistos {
			df[idx]++
		}
	}

	// IDF suavizado, como no vetorizador de referência.
	n := float64(len(docs))
	m.idf = make([]float64, len(df))
	for idx, freq := range df {
		m.idf[idx] = math.Log((n+1)/(float64(freq)+1)) + 1
	}

	m.vetores = make([][]float64, len(docs))
	for i, doc := range docs {
		m.vetores[i] = m.vetor(doc)
	}
	return m
}

// vetor calcula o vetor TF-IDF de um documento tokenizado.
func (m *tfidfModel) vetor(doc []string) []float64 {
	v := make([]float64, len(m.vocab))
	if len(doc) == 0 {
		return v
	}
	for _, tok := range doc {
		if idx, ok := m.vocab[tok]; ok {
			v[idx]++
		}
	}
	for idx := range v {
		if v[idx] > 0 {
			v[idx] = (v[idx] / float64(len(doc))) * m.idf[idx]
		}
	}
	return v
}

// cosseno calcula a similaridade de cosseno entre dois vetores.
func cosseno(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// similaridade devolve o cosseno entre os documentos i e j do corpus.
func (m *tfidfModel) similaridade(i, j int) float64 {
	return cosseno(m.vetores[i], m.vetores[j])
}
