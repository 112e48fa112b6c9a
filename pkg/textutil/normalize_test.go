package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/copypoint/copypoint-api/pkg/textutil"
)

func TestNormalize_QuitaAcentosYMayusculas(t *testing.T) {
	assert.Equal(t, "lapiz", textutil.Normalize("Lápiz"))
	assert.Equal(t, "papel carta", textutil.Normalize("  PAPEL Carta "))
	assert.Equal(t, "senalizacion", textutil.Normalize("Señalización"))
}

func TestSanitizeAlnum(t *testing.T) {
	assert.Equal(t, "vta2024001", textutil.SanitizeAlnum("VTA-2024/001"))
	assert.Equal(t, "", textutil.SanitizeAlnum("---"))
}

func TestValidDocRef(t *testing.T) {
	assert.True(t, textutil.ValidDocRef("VTA-2024_001"))
	assert.True(t, textutil.ValidDocRef(""), "referencia vacía es opcional")
	assert.False(t, textutil.ValidDocRef("VTA 001"), "espacios no permitidos")
	assert.False(t, textutil.ValidDocRef("VTA/001"))
}
