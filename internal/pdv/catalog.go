package pdv

import (
	"context"
	"strings"

	"github.com/MrJamesThe3rd/pdv/internal/client"
	"github.com/MrJamesThe3rd/pdv/internal/product"
	"github.com/MrJamesThe3rd/pdv/internal/record"
)

func (s *Service) Products() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]product.Product{}, s.state.Products...)
}

func (s *Service) Product(id int64) (product.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return product.Find(s.state.Products, id)
}

func (s *Service) AddProduct(ctx context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := p.Validate(); err != nil {
		return product.Product{}, invalid(MsgAddProduct, err)
	}

	p.ID = 0

	err := s.commit(ctx, MsgAddProduct, func() error {
		id, err := s.addRecord(ctx, record.Products, p)
		p.ID = id

		return err
	})
	if err != nil {
		return product.Product{}, err
	}

	s.log.Info("product added", "id", p.ID, "name", p.Name)

	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, p product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := p.Validate(); err != nil {
		return invalid(MsgUpdateProduct, err)
	}

	if _, ok := product.Find(s.state.Products, p.ID); !ok {
		return notFound(MsgUpdateProduct, product.ErrNotFound)
	}

	return s.commit(ctx, MsgUpdateProduct, func() error {
		return s.putRecord(ctx, record.Products, p.ID, p)
	})
}

// DeleteProduct removes the product. Past sales keep their copied lines.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, MsgDeleteProduct, func() error {
		return s.deleteRecord(ctx, record.Products, id)
	})
}

// ImportResult counts what ImportProducts wrote.
type ImportResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// ImportProducts adds a batch of products read from a catalog file. A row
// whose barcode matches a known product updates that product instead and
// adds the imported stock to the current stock. Invalid rows are skipped.
// Everything is reloaded once at the end.
func (s *Service) ImportProducts(ctx context.Context, products []product.Product) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res ImportResult

	byBarcode := make(map[string]product.Product)

	for _, p := range s.state.Products {
		if code := strings.TrimSpace(p.Barcode); code != "" {
			byBarcode[code] = p
		}
	}

	err := s.commit(ctx, MsgImportProducts, func() error {
		for _, p := range products {
			if err := p.Validate(); err != nil {
				s.log.Warn("skipping imported product", "name", p.Name, "error", err)
				res.Skipped++

				continue
			}

			code := strings.TrimSpace(p.Barcode)

			if existing, ok := byBarcode[code]; ok && code != "" {
				merged := mergeImported(existing, p)
				if err := s.putRecord(ctx, record.Products, merged.ID, merged); err != nil {
					return err
				}

				byBarcode[code] = merged
				res.Updated++

				continue
			}

			p.ID = 0

			id, err := s.addRecord(ctx, record.Products, p)
			if err != nil {
				return err
			}

			p.ID = id

			if code != "" {
				byBarcode[code] = p
			}

			res.Added++
		}

		return nil
	})
	if err != nil {
		if reloadErr := s.loadAll(ctx); reloadErr != nil {
			s.log.Error("failed to reload after partial import", "error", reloadErr)
		}

		return res, err
	}

	s.log.Info("products imported", "added", res.Added, "updated", res.Updated, "skipped", res.Skipped)

	return res, nil
}

func mergeImported(existing, in product.Product) product.Product {
	out := existing
	out.Name = in.Name
	out.Price = in.Price
	out.Stock = existing.Stock + in.Stock

	for dst, src := range map[*string]string{
		&out.Description: in.Description,
		&out.Category:    in.Category,
		&out.Brand:       in.Brand,
		&out.Model:       in.Model,
		&out.Supplier:    in.Supplier,
	} {
		if src != "" {
			*dst = src
		}
	}

	if in.Cost > 0 {
		out.Cost = in.Cost
	}

	if in.MinStock > 0 {
		out.MinStock = in.MinStock
	}

	return out
}

func (s *Service) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(SetSearchTerm{Term: term})
}

// SearchProducts returns the products matching the current search term by
// name, barcode, category or brand.
func (s *Service) SearchProducts() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return product.Search(s.state.Products, s.state.SearchTerm)
}

func (s *Service) Clients() []client.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]client.Client{}, s.state.Clients...)
}

func (s *Service) AddClient(ctx context.Context, c client.Client) (client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := c.Validate(); err != nil {
		return client.Client{}, invalid(MsgAddClient, err)
	}

	c.ID = 0

	err := s.commit(ctx, MsgAddClient, func() error {
		id, err := s.addRecord(ctx, record.Clients, c)
		c.ID = id

		return err
	})
	if err != nil {
		return client.Client{}, err
	}

	s.log.Info("client added", "id", c.ID)

	return c, nil
}

func (s *Service) UpdateClient(ctx context.Context, c client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := c.Validate(); err != nil {
		return invalid(MsgUpdateClient, err)
	}

	if _, ok := client.Find(s.state.Clients, c.ID); !ok {
		return notFound(MsgUpdateClient, client.ErrNotFound)
	}

	return s.commit(ctx, MsgUpdateClient, func() error {
		return s.putRecord(ctx, record.Clients, c.ID, c)
	})
}

// DeleteClient removes the client. Sales keep their snapshot of it.
func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, MsgDeleteClient, func() error {
		return s.deleteRecord(ctx, record.Clients, id)
	})
}
