package importer

import (
	"io"

	"github.com/MrJamesThe3rd/pdv/internal/product"
)

type Format string

const (
	FormatCatalog Format = "catalog"
)

type Importer interface {
	Parse(r io.Reader) ([]product.Product, error)
}
