package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizer descompone (NFD), elimina marcas diacríticas y recompone (NFC).
// Permite búsquedas insensibles a acentos ("lápiz" ≈ "lapiz").
var normalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize devuelve el texto en minúsculas y sin acentos, listo para
// comparaciones y columnas de búsqueda.
func Normalize(s string) string {
	out, _, err := transform.String(normalizer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// SanitizeAlnum conserva solo caracteres alfanuméricos ASCII del texto
// normalizado. Se aplica a los filtros de referencia de documento antes de
// armar la consulta.
func SanitizeAlnum(s string) string {
	var b strings.Builder
	for _, r := range Normalize(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidDocRef valida una referencia de documento para registro: alfanuméricos,
// guion y guion bajo, sin espacios. La cadena vacía es válida (campo opcional).
func ValidDocRef(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
