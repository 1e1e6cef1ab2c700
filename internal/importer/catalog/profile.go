package catalog

// Profile describes the column layout of a product spreadsheet.
// Adding a new layout is just adding a new Profile to the profiles slice.
type Profile struct {
	Name        string
	NameCol     string
	PriceCol    string
	StockCol    string
	BarcodeCol  string
	CostCol     string
	MinStockCol string
	CategoryCol string
	BrandCol    string
	ModelCol    string
	SupplierCol string
	DescCol     string
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	return []string{p.NameCol, p.PriceCol, p.StockCol}
}

// profiles is the ordered list of layouts to try during auto-detection.
// More specific profiles should come first to avoid false matches.
var profiles = []Profile{
	{
		Name:        "fornecedor",
		NameCol:     "Descrição do Produto",
		PriceCol:    "Preço Venda",
		StockCol:    "Quantidade",
		BarcodeCol:  "EAN",
		CostCol:     "Preço Custo",
		BrandCol:    "Fabricante",
		SupplierCol: "Fornecedor",
	},
	{
		Name:        "planilha",
		NameCol:     "Nome",
		PriceCol:    "Preço",
		StockCol:    "Estoque",
		BarcodeCol:  "Código de Barras",
		CostCol:     "Custo",
		MinStockCol: "Estoque Mínimo",
		CategoryCol: "Categoria",
		BrandCol:    "Marca",
		ModelCol:    "Modelo",
		SupplierCol: "Fornecedor",
		DescCol:     "Descrição",
	},
}
