package sale

import (
	"time"

	"github.com/MrJamesThe3rd/pdv/internal/client"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/sale"
)

type saleResponse struct {
	ID             int64                `json:"id"`
	Date           time.Time            `json:"date"`
	Items          []sale.Item          `json:"items"`
	Subtotal       money.Cents          `json:"subtotal"`
	Discount       money.Cents          `json:"discount"`
	Total          money.Cents          `json:"total"`
	TotalLabel     string               `json:"totalLabel"`
	PaymentMethod  sale.PaymentMethod   `json:"paymentMethod"`
	PaymentDetails *sale.PaymentDetails `json:"paymentDetails,omitempty"`
	Client         *client.Ref          `json:"client"`
	ClientName     string               `json:"clientName"`
}

func toResponse(s sale.Sale) saleResponse {
	return saleResponse{
		ID:             s.ID,
		Date:           s.Date,
		Items:          s.Items,
		Subtotal:       s.Subtotal,
		Discount:       s.Discount,
		Total:          s.Total,
		TotalLabel:     s.Total.String(),
		PaymentMethod:  s.PaymentMethod,
		PaymentDetails: s.PaymentDetails,
		Client:         s.Client,
		ClientName:     s.ClientName(),
	}
}

func toResponseList(sales []sale.Sale) []saleResponse {
	resp := make([]saleResponse, len(sales))
	for i, s := range sales {
		resp[i] = toResponse(s)
	}

	return resp
}
