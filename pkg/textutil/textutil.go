// Package textutil contiene transformaciones de texto que el sistema aplica de
// forma explícita antes de persistir o buscar (capitalización de nombres y
// plegado de acentos). Son funciones puras invocadas por los casos de uso y los
// repositorios; no hay hooks implícitos al guardar.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold normaliza un texto para búsqueda: minúsculas y sin marcas diacríticas.
// Ej: "Lápiz Nº2" → "lapiz nº2". Si la transformación falla devuelve el
// original en minúsculas.
func Fold(s string) string {
	// El transformer tiene estado interno: construir uno por llamada.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Capitalize pone el texto en formato título según las reglas del español.
// Reemplaza el hook de auto-capitalización que el sistema anterior aplicaba al
// guardar; aquí se invoca explícitamente desde el caso de uso.
func Capitalize(s string) string {
	c := cases.Title(language.Spanish)
	return c.String(strings.ToLower(strings.TrimSpace(s)))
}
