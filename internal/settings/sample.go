package settings

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/pdv/internal/client"
	"github.com/MrJamesThe3rd/pdv/internal/product"
)

// Defaults is the company configuration written on first start.
func Defaults() Settings {
	return Settings{
		CompanyName:      "Sérgio Imports",
		CompanyLegalName: "Sérgio Imports Ltda.",
		CNPJ:             "12.345.678/0001-90",
		Address:          "Rua das Importações, 123, Centro",
		City:             "São Paulo, SP",
		Phone:            "(11) 99999-9999",
		Email:            "contato@sergioimports.com",
		PixKey:           "contato@sergioimports.com",
		ExchangePolicy:   "Trocas em até 7 dias com nota fiscal. Produtos devem estar em perfeito estado. Não aceitamos trocas de produtos íntimos.",
		ExchangeDeadline: "7",
		ReceiptMessage1:  "Obrigado!",
		ReceiptMessage2:  "Volte sempre!",
		ReceiptMessage3:  "",
		ReceiptFooter:    "",
	}
}

// SampleProducts is the demo catalog written on first start.
func SampleProducts() []product.Product {
	return []product.Product{
		{
			Name:        "Smartphone Galaxy S24",
			Description: "Smartphone Samsung Galaxy S24 128GB",
			Price:       299999,
			Cost:        200000,
			Stock:       15,
			MinStock:    5,
			Category:    "Eletrônicos",
			Barcode:     "1234567890123",
			Brand:       "Samsung",
			Model:       "Galaxy S24",
			Supplier:    "Samsung Brasil",
		},
		{
			Name:        "iPhone 15 Pro",
			Description: "Apple iPhone 15 Pro 256GB",
			Price:       899999,
			Cost:        700000,
			Stock:       8,
			MinStock:    3,
			Category:    "Eletrônicos",
			Barcode:     "2345678901234",
			Brand:       "Apple",
			Model:       "iPhone 15 Pro",
			Supplier:    "Apple Brasil",
		},
		{
			Name:        "Notebook Dell Inspiron",
			Description: "Notebook Dell Inspiron 15 Intel i5",
			Price:       349999,
			Cost:        280000,
			Stock:       12,
			MinStock:    4,
			Category:    "Informática",
			Barcode:     "3456789012345",
			Brand:       "Dell",
			Model:       "Inspiron 15",
			Supplier:    "Dell Brasil",
		},
	}
}

var (
	firstNames = []string{"Ana", "Bruno", "Carla", "Diego", "Eduarda", "Felipe", "Gabriela", "Henrique", "Isabela", "João"}
	lastNames  = []string{"Silva", "Souza", "Oliveira", "Santos", "Pereira", "Lima", "Carvalho", "Ferreira", "Almeida", "Costa"}
	streets    = []string{"Rua das Flores", "Avenida Paulista", "Rua Augusta", "Rua Oscar Freire", "Avenida Brasil"}
)

// SampleClients returns n demo clients. The list is deterministic.
func SampleClients(n int) []client.Client {
	out := make([]client.Client, n)

	for i := range n {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i*3+1)%len(lastNames)]

		out[i] = client.Client{
			Name:    first + " " + last,
			Email:   fmt.Sprintf("%s.%s@example.com", strings.ToLower(first), strings.ToLower(last)),
			Phone:   fmt.Sprintf("(11) 9%04d-%04d", 1000+i*137, 2000+i*251),
			Address: fmt.Sprintf("%s, %d", streets[i%len(streets)], 100+i*17),
		}
	}

	return out
}
