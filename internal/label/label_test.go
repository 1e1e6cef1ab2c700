package label_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/label"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/product"
	"github.com/MrJamesThe3rd/pdv/internal/settings"
)

// Only 12 digits after stripping can be drawn as EAN-13.
func TestValidEAN13(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{code: "123456789012", want: true},
		{code: "1234-5678 9012", want: true},
		{code: "12345678901", want: false},
		{code: "1234567890123", want: false},
		{code: "", want: false},
		{code: "ABC", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, label.ValidEAN13(tt.code))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "7891000100103", label.Normalize(" 789-1000.100 103 "))
	assert.Equal(t, "", label.Normalize("sem código"))
}

func TestComplete(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "123456789012", want: "1234567890128"},
		{code: "789100010010", want: "7891000100103"},
		{code: "400638133393", want: "4006381333931"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := label.Complete(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := label.Complete("1234567890123")
	assert.ErrorIs(t, err, label.ErrInvalidEAN13)
}

func TestBarcodePNG(t *testing.T) {
	data, err := label.BarcodePNG("123456789012", 380, 80)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 380, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())

	_, err = label.BarcodePNG("12345678901", 380, 80)
	assert.ErrorIs(t, err, label.ErrInvalidEAN13)
}

func TestPriceFontSize(t *testing.T) {
	tests := []struct {
		price money.Cents
		want  float64
	}{
		{price: 990, want: 16},
		{price: 9990, want: 16},
		{price: 99990, want: 14},
		{price: 299999, want: 12},
		{price: 12345678, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.price.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, label.PriceFontSize(tt.price))
		})
	}
}

func TestTile(t *testing.T) {
	p := product.Product{Name: "Capinha", Price: 2500, Barcode: "123456789012"}

	normal := label.Tile{Product: p}
	assert.NoError(t, normal.Validate())
	assert.Equal(t, money.Cents(2500), normal.Price())
	assert.True(t, normal.BarcodeValid())

	promo := label.Tile{Product: p, Variant: label.VariantPromo, PromoPrice: 1990}
	assert.NoError(t, promo.Validate())
	assert.Equal(t, money.Cents(1990), promo.Price())

	assert.ErrorIs(t, label.Tile{Product: p, Variant: label.VariantPromo}.Validate(), label.ErrInvalidPromo)
	assert.ErrorIs(t, label.Tile{Product: p, Variant: label.VariantPromo, PromoPrice: 2500}.Validate(), label.ErrInvalidPromo)
}

func TestLayout(t *testing.T) {
	placements := label.Layout(22)

	assert.Equal(t, label.Placement{Page: 1, X: 5, Y: 5}, placements[0])
	assert.Equal(t, label.Placement{Page: 1, X: 68, Y: 5}, placements[1])
	assert.Equal(t, label.Placement{Page: 1, X: 131, Y: 5}, placements[2])
	assert.Equal(t, label.Placement{Page: 1, X: 5, Y: 45}, placements[3])
	assert.Equal(t, label.Placement{Page: 1, X: 131, Y: 245}, placements[20])
	assert.Equal(t, label.Placement{Page: 2, X: 5, Y: 5}, placements[21], "eighth row does not fit")
}

func TestSheetPDF(t *testing.T) {
	tiles := []label.Tile{
		{Product: product.Product{Name: "Smartphone Galaxy S24 128GB Preto Edição Especial", Price: 299999, Barcode: "123456789012"}, Copies: 2},
		{Product: product.Product{Name: "Película", Price: 1990, Barcode: "1234567890123"}},
		{Product: product.Product{Name: "Capinha", Price: 2500, Barcode: "789100010010"}, Variant: label.VariantPromo, PromoPrice: 1990},
	}

	var buf bytes.Buffer
	require.NoError(t, label.SheetPDF(&buf, tiles, settings.Settings{}))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	t.Run("InvalidPromo", func(t *testing.T) {
		err := label.SheetPDF(&bytes.Buffer{}, []label.Tile{{Product: tiles[2].Product, Variant: label.VariantPromo}}, nil)
		assert.ErrorIs(t, err, label.ErrInvalidPromo)
	})

	t.Run("Empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, label.SheetPDF(&buf, nil, nil))
		assert.NotZero(t, buf.Len())
	})
}
