package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/importer"
)

func TestService_Import(t *testing.T) {
	svc := importer.NewService()

	t.Run("Catalog", func(t *testing.T) {
		products, err := svc.Import(importer.FormatCatalog, strings.NewReader("Nome;Preço;Estoque\nCabo;9,90;4\n"))
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Cabo", products[0].Name)
	})

	t.Run("DefaultFormat", func(t *testing.T) {
		products, err := svc.Import("", strings.NewReader("Nome;Preço;Estoque\nCabo;9,90;4\n"))
		require.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		_, err := svc.Import("cgd", strings.NewReader(""))
		assert.ErrorIs(t, err, importer.ErrUnknownFormat)
	})
}
