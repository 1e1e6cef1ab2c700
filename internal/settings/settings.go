// Package settings holds the company and receipt configuration. Settings
// are kept as one record per key and flattened into a single map on load.
package settings

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/pdv/internal/record"
)

// Keys known to the receipts, labels and settings screens.
const (
	CompanyName      = "companyName"
	CompanyLegalName = "companyLegalName"
	CNPJ             = "cnpj"
	Address          = "address"
	City             = "city"
	Phone            = "phone"
	Email            = "email"
	PixKey           = "pixKey"
	CompanyLogo      = "companyLogo"
	PixQRCode        = "pixQrCode"
	ExchangePolicy   = "exchangePolicy"
	ExchangeDeadline = "exchangeDeadline"
	ReceiptMessage1  = "receiptMessage1"
	ReceiptMessage2  = "receiptMessage2"
	ReceiptMessage3  = "receiptMessage3"
	ReceiptFooter    = "receiptFooter"

	// Initialized marks that the sample data has been written once.
	Initialized = "isDataInitialized"
)

// Settings is the flattened key/value view.
type Settings map[string]string

// Entry is the stored shape of one setting.
type Entry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Flatten builds Settings from stored entries. String values are unquoted;
// any other JSON value is kept as its literal text.
func Flatten(records []record.Record) Settings {
	s := make(Settings, len(records))

	for _, r := range records {
		e, err := record.Decode[Entry](r)
		if err != nil {
			slog.Warn("skipping setting", "key", r.Key, "error", err)
			continue
		}

		key := e.Key
		if key == "" {
			key = r.Key
		}

		var str string
		if err := json.Unmarshal(e.Value, &str); err == nil {
			s[key] = str
			continue
		}

		s[key] = string(e.Value)
	}

	return s
}

// EntryData encodes one setting for storage.
func EntryData(key, value string) (json.RawMessage, error) {
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return record.Encode(Entry{Key: key, Value: v})
}

// Clone returns a copy safe to hand out.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}

	return out
}

func (s Settings) or(key, fallback string) string {
	if v := strings.TrimSpace(s[key]); v != "" {
		return v
	}

	return fallback
}

func (s Settings) CompanyNameOrDefault() string { return s.or(CompanyName, "Sua Empresa") }
func (s Settings) AddressOrDefault() string     { return s.or(Address, "Seu Endereço") }
func (s Settings) CNPJOrDefault() string        { return s.or(CNPJ, "00.000.000/0001-00") }
func (s Settings) Message1() string             { return s.or(ReceiptMessage1, "Obrigado!") }
func (s Settings) Message2() string             { return s.or(ReceiptMessage2, "Volte sempre!") }
func (s Settings) Message3() string             { return s[ReceiptMessage3] }
func (s Settings) Footer() string               { return s[ReceiptFooter] }
func (s Settings) Logo() string                 { return s[CompanyLogo] }

// ExchangePolicyText is the policy printed under the receipt.
func (s Settings) ExchangePolicyText() string {
	return s[ExchangePolicy]
}

// ExchangeDays is the exchange deadline in days, 7 when unset or invalid.
func (s Settings) ExchangeDays() int {
	n, err := strconv.Atoi(strings.TrimSpace(s[ExchangeDeadline]))
	if err != nil || n <= 0 {
		return 7
	}

	return n
}

func (s Settings) IsInitialized() bool {
	_, ok := s[Initialized]
	return ok
}

// LogoImage decodes the logo, stored as a base64 data URL, into its image
// format ("PNG", "JPG" or "GIF") and bytes.
func (s Settings) LogoImage() (format string, data []byte, ok bool) {
	header, payload, found := strings.Cut(s.Logo(), ",")
	if !found || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return "", nil, false
	}

	switch strings.TrimSuffix(strings.TrimPrefix(header, "data:image/"), ";base64") {
	case "png":
		format = "PNG"
	case "jpeg", "jpg":
		format = "JPG"
	case "gif":
		format = "GIF"
	default:
		return "", nil, false
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return "", nil, false
	}

	return format, data, true
}
