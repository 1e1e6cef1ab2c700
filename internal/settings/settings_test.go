package settings_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/record"
	"github.com/MrJamesThe3rd/pdv/internal/settings"
)

func TestFlatten(t *testing.T) {
	name, err := settings.EntryData(settings.CompanyName, "Loja Centro")
	require.NoError(t, err)

	records := []record.Record{
		{Key: settings.CompanyName, Data: name},
		{Key: settings.Initialized, Data: json.RawMessage(`{"key":"isDataInitialized","value":true}`)},
		{Key: "broken", Data: json.RawMessage(`not json`)},
	}

	got := settings.Flatten(records)

	assert.Equal(t, settings.Settings{
		settings.CompanyName: "Loja Centro",
		settings.Initialized: "true",
	}, got)
	assert.True(t, got.IsInitialized())
}

func TestFlatten_LogsBrokenEntry(t *testing.T) {
	var buf bytes.Buffer

	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	got := settings.Flatten([]record.Record{{Key: "broken", Data: json.RawMessage(`not json`)}})

	assert.Empty(t, got)
	assert.Contains(t, buf.String(), "skipping setting")
	assert.Contains(t, buf.String(), "key=broken")
}

func TestSettings_Fallbacks(t *testing.T) {
	empty := settings.Settings{}

	assert.Equal(t, "Sua Empresa", empty.CompanyNameOrDefault())
	assert.Equal(t, "Seu Endereço", empty.AddressOrDefault())
	assert.Equal(t, "00.000.000/0001-00", empty.CNPJOrDefault())
	assert.Equal(t, "Obrigado!", empty.Message1())
	assert.Equal(t, "Volte sempre!", empty.Message2())
	assert.Equal(t, 7, empty.ExchangeDays())
	assert.False(t, empty.IsInitialized())

	custom := settings.Settings{settings.ExchangeDeadline: "30", settings.CompanyName: "Loja"}
	assert.Equal(t, 30, custom.ExchangeDays())
	assert.Equal(t, "Loja", custom.CompanyNameOrDefault())
}

func TestSampleData(t *testing.T) {
	products := settings.SampleProducts()
	require.Len(t, products, 3)

	for _, p := range products {
		assert.NoError(t, p.Validate())
	}

	clients := settings.SampleClients(10)
	require.Len(t, clients, 10)
	assert.Equal(t, clients, settings.SampleClients(10))
	assert.Equal(t, "Sérgio Imports", settings.Defaults()[settings.CompanyName])
}

func TestSettings_LogoImage(t *testing.T) {
	png := base64.StdEncoding.EncodeToString([]byte("\x89PNG fake"))

	tests := []struct {
		name       string
		logo       string
		wantFormat string
		wantOK     bool
	}{
		{name: "PNG", logo: "data:image/png;base64," + png, wantFormat: "PNG", wantOK: true},
		{name: "JPEG", logo: "data:image/jpeg;base64," + png, wantFormat: "JPG", wantOK: true},
		{name: "Empty"},
		{name: "NotDataURL", logo: "https://example.com/logo.png"},
		{name: "UnsupportedType", logo: "data:image/svg+xml;base64," + png},
		{name: "BadPayload", logo: "data:image/png;base64,@@@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, data, ok := settings.Settings{settings.CompanyLogo: tt.logo}.LogoImage()

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantFormat, format)

			if tt.wantOK {
				assert.Equal(t, []byte("\x89PNG fake"), data)
			}
		})
	}
}
