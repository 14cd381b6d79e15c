package models

// PriceRecord is one row of the dairy price table: a product's price in a
// country for a given year, with the country's pre-computed cluster.
// PriceMissing marks rows whose price cell was empty or NaN; Price is zero
// for them and must not be plotted or aggregated.
type PriceRecord struct {
	ID           int     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Year         int     `json:"year" gorm:"column:timestamp;index"`
	Product      string  `json:"product" gorm:"column:product_desc;index"`
	CountryCode  string  `json:"country_code" gorm:"column:country_3;index"`
	Cluster      int     `json:"cluster" gorm:"column:cluster_cows"`
	Price        float64 `json:"price" gorm:"column:price"`
	PriceMissing bool    `json:"price_missing,omitempty" gorm:"column:price_missing"`
}

// PricePtr returns nil for a missing price, which encodes as JSON null.
func (r PriceRecord) PricePtr() *float64 {
	if r.PriceMissing {
		return nil
	}
	p := r.Price
	return &p
}

func (PriceRecord) TableName() string {
	return "prices"
}

const (
	ProductRawMilk    = "Raw Milk"
	ProductSMP        = "SMP"
	ProductButter     = "Butter"
	ProductWheyPowder = "Whey Powder"
)

// Products lists the product categories in dropdown order.
var Products = []string{ProductRawMilk, ProductSMP, ProductButter, ProductWheyPowder}

func IsProduct(s string) bool {
	for _, p := range Products {
		if p == s {
			return true
		}
	}
	return false
}

// ClusterOption is one entry of the cluster selector.
type ClusterOption struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

var Clusters = []ClusterOption{
	{Label: "Cluster w/ Ireland", Value: 0},
	{Label: "Cluster Eastern", Value: 1},
	{Label: "Cluster Other", Value: 2},
}

func IsCluster(id int) bool {
	for _, c := range Clusters {
		if c.Value == id {
			return true
		}
	}
	return false
}

// Selection is the transient dashboard state held by the page.
type Selection struct {
	Cluster int    `json:"cluster"`
	Product string `json:"product"`
	Country string `json:"country"`
}

// ClusterSummary aggregates prices of one cluster for a year and product.
type ClusterSummary struct {
	Cluster  int     `json:"cluster"`
	Count    int64   `json:"count"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	AvgPrice float64 `json:"avg_price"`
}
