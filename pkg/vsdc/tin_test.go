package vsdc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/vsdc-relay/pkg/vsdc"
)

func TestIsValidTIN(t *testing.T) {
	assert.True(t, vsdc.IsValidTIN("944000008"))
	assert.True(t, vsdc.IsValidTIN("000000001"))
	assert.True(t, vsdc.IsValidTIN("944-000-008"), "los separadores se ignoran")

	assert.False(t, vsdc.IsValidTIN(""))
	assert.False(t, vsdc.IsValidTIN("94400000"), "8 dígitos")
	assert.False(t, vsdc.IsValidTIN("9440000089"), "10 dígitos")
	assert.False(t, vsdc.IsValidTIN("94400000A"), "una letra no completa el TIN")
}
