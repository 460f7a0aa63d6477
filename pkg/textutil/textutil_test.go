package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/almacen-escolar/pkg/textutil"
)

func TestFold_QuitaAcentosYBajaACaja(t *testing.T) {
	casos := map[string]string{
		"Lápiz":            "lapiz",
		"BOLÍGRAFO AZUL":   "boligrafo azul",
		"  Cartulina  ":    "cartulina",
		"Témpera añil":     "tempera anil", // la virgulilla de la ñ también es marca diacrítica
		"papel":            "papel",
		"CRAYÓN Über-útil": "crayon uber-util",
	}
	for entrada, esperado := range casos {
		assert.Equal(t, esperado, textutil.Fold(entrada), "Fold(%q)", entrada)
	}
}

func TestFold_EsIdempotente(t *testing.T) {
	una := textutil.Fold("Educación Física")
	dos := textutil.Fold(una)
	assert.Equal(t, una, dos)
}

func TestFold_MismoResultadoConYSinAcentos(t *testing.T) {
	// La búsqueda insensible a acentos depende de que ambas formas plieguen igual.
	assert.Equal(t, textutil.Fold("lápiz"), textutil.Fold("LAPIZ"))
	assert.Equal(t, textutil.Fold("Témpera"), textutil.Fold("tempera"))
}

func TestCapitalize_FormatoTitulo(t *testing.T) {
	assert.Equal(t, "Resma De Papel", textutil.Capitalize("resma de papel"))
	assert.Equal(t, "Marcador Permanente", textutil.Capitalize("MARCADOR PERMANENTE"))
	assert.Equal(t, "Lápiz", textutil.Capitalize("  lápiz  "))
}
