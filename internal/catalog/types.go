package catalog

// Product is the catalog record for one sellable item. Catalog administration
// owns it; this service only reads it and decrements stock_quantity through
// the conditional reservation update.
type Product struct {
	ProductID     string  `dynamodbav:"product_id"` // PK
	Name          string  `dynamodbav:"name"`
	UnitPrice     float64 `dynamodbav:"unit_price"`
	StockQuantity int     `dynamodbav:"stock_quantity"`
	Enabled       bool    `dynamodbav:"enabled"`
}
