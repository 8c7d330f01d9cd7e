/*
 * @module service/triage/text
 * @description Normalização de texto e extração de features para os scorers e
 * para o motor de similaridade
 * @architecture Arquitetura em camadas - utilidades de domínio
 * @documentReference docs/triagem.md
 * @stateFlow Funções puras sobre strings
 * @rules Comparações de palavras-chave são case-insensitive e insensíveis a
 * acentos ("não funciona" e "nao funciona" são equivalentes)
 * @dependencies golang.org/x/text, regexp
 * @refs service/triage/similarity.go
 */

package triage

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizar converte para minúsculas e remove acentos.
func normalizar(s string) string {
	out, _, err := transform.String(foldTransformer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// contemAlguma verifica se o texto contém alguma das palavras-chave, de forma
// normalizada.
func contemAlguma(texto string, palavras []string) bool {
	t := normalizar(texto)
	for _, p := range palavras {
		if p == "" {
			continue
		}
		if strings.Contains(t, normalizar(p)) {
			return true
		}
	}
	return false
}

var (
	palavraRe      = regexp.MustCompile(`[\p{L}\p{N}]{3,}`)
	palavraLongaRe = regexp.MustCompile(`[\p{L}\p{N}]{4,}`)
	termoTecnicoRe = regexp.MustCompile(`[A-Z][a-zA-Z]+|[a-zA-Z]*\d+[a-zA-Z]*`)
	codigoErroRe   = regexp.MustCompile(`(?:erro|error)\s*\d+|\b\d{3,5}\b`)
	mensagemRe     = regexp.MustCompile(`"([^"]+)"`)
)

// Stopwords básicas do português; mantidas curtas de propósito.
var stopwords = map[string]struct{}{
	"os": {}, "as": {}, "um": {}, "uma": {}, "uns": {}, "umas": {},
	"de": {}, "do": {}, "da": {}, "dos": {}, "das": {}, "ou": {},
	"mas": {}, "se": {}, "que": {}, "com": {}, "por": {}, "para": {},
	"em": {}, "no": {}, "na": {}, "nos": {}, "nas": {}, "sao": {},
	"foi": {}, "foram": {}, "ser": {}, "estar": {}, "tem": {}, "ter": {},
	"nao": {}, "sim": {},
}

// textFeatures são os sinais extraídos de um texto livre.
type textFeatures struct {
	palavras      map[string]struct{}
	termosTecnicos map[string]struct{}
	codigosErro   map[string]struct{}
	mensagensErro map[string]struct{}
}

// extrairFeatures separa palavras significativas, termos técnicos, códigos de
// erro e mensagens entre aspas de um texto.
func extrairFeatures(texto string) textFeatures {
	f := textFeatures{
		palavras:      map[string]struct{}{},
		termosTecnicos: map[string]struct{}{},
		codigosErro:   map[string]struct{}{},
		mensagensErro: map[string]struct{}{},
	}

	normalizado := normalizar(texto)
	for _, p := range palavraRe.FindAllString(normalizado, -1) {
		if _, ok := stopwords[p]; ok {
			continue
		}
		f.palavras[p] = struct{}{}
	}
	for _, t := range termoTecnicoRe.FindAllString(texto, -1) {
		f.termosTecnicos[t] = struct{}{}
	}
	for _, c := range codigoErroRe.FindAllString(normalizado, -1) {
		f.codigosErro[c] = struct{}{}
	}
	for _, m := range mensagemRe.FindAllStringSubmatch(texto, -1) {
		f.mensagensErro[m[1]] = struct{}{}
	}
	return f
}

// tokensSignificativos devolve as palavras significativas em ordem de
// aparição, para os vetores TF-IDF.
func tokensSignificativos(texto string) []string {
	normalizado := normalizar(texto)
	bruto := palavraRe.FindAllString(normalizado, -1)
	tokens := make([]string, 0, len(bruto))
	for _, p := range bruto {
		if _, ok := stopwords[p]; ok {
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens
}

// jaccard calcula |A∩B| / |A∪B| entre dois conjuntos de tokens.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersecao := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersecao++
		}
	}
	uniao := len(a) + len(b) - intersecao
	if uniao == 0 {
		return 0
	}
	return float64(intersecao) / float64(uniao)
}

// sinalBinario vale 1.0 quando os conjuntos compartilham ao menos um
// elemento, independente de quantos elementos cada lado carrega a mais.
func sinalBinario(a, b map[string]struct{}) float64 {
	for t := range a {
		if _, ok := b[t]; ok {
			return 1.0
		}
	}
	return 0.0
}

// intersecao devolve os elementos comuns a dois conjuntos.
func intersecao(a, b map[string]struct{}) []string {
	var comuns []string
	for t := range a {
		if _, ok := b[t]; ok {
			comuns = append(comuns, t)
		}
	}
	return comuns
}

// PalavrasComuns devolve as palavras com 4+ caracteres compartilhadas entre
// dois textos e o Jaccard entre os conjuntos. Usada pela mineração de
// exemplos de follow-up em chamados resolvidos.
func PalavrasComuns(a, b string) ([]string, float64) {
	setA := map[string]struct{}{}
	for _, p := range palavraLongaRe.FindAllString(normalizar(a), -1) {
		if _, ok := stopwords[p]; ok {
			continue
		}
		setA[p] = struct{}{}
	}
	setB := map[string]struct{}{}
	for _, p := range palavraLongaRe.FindAllString(normalizar(b), -1) {
		if _, ok := stopwords[p]; ok {
			continue
		}
		setB[p] = struct{}{}
	}
	return intersecao(setA, setB), jaccard(setA, setB)
}
