package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/pdv/internal/importer/catalog"
	"github.com/MrJamesThe3rd/pdv/internal/product"
)

var ErrUnknownFormat = errors.New("unknown import format")

type Service struct {
	catalogImporter Importer
}

func NewService() *Service {
	return &Service{
		catalogImporter: catalog.NewParser(),
	}
}

// Import parses r with the importer registered for format. An empty format
// means the product catalog.
func (s *Service) Import(format Format, r io.Reader) ([]product.Product, error) {
	var importer Importer

	switch format {
	case FormatCatalog, "":
		importer = s.catalogImporter
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return importer.Parse(r)
}
