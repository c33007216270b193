package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocType(t *testing.T) {
	for in, want := range map[string]DocType{
		"cv":      DocTypeCV,
		"Resume":  DocTypeCV,
		"INVOICE": DocTypeInvoice,
		" cv ":    DocTypeCV,
	} {
		got, err := ParseDocType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseDocType("receipt")
	assert.Error(t, err)
}

func TestAllowedExt(t *testing.T) {
	assert.True(t, AllowedExt(".pdf"))
	assert.True(t, AllowedExt("PDF"))
	assert.False(t, AllowedExt(".png"))
	assert.False(t, AllowedExt(".xlsx"))
	assert.False(t, AllowedExt(""))
}
