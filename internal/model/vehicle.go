package model

// Category is the body/powertrain class a vehicle is listed under.
type Category string

const (
	CategorySedan       Category = "Sedan"
	CategoryElectric    Category = "Electric"
	CategorySUV         Category = "SUV"
	CategoryTruck       Category = "Truck"
	CategoryHybrid      Category = "Hybrid"
	CategoryConvertible Category = "Convertible"
	CategoryLuxury      Category = "Luxury"
)

// Vehicle is an inventory listing as supplied by the vehicle store.
type Vehicle struct {
	ID        string   `json:"id" yaml:"id"`
	Make      string   `json:"make" yaml:"make"`
	Model     string   `json:"model" yaml:"model"`
	Year      int      `json:"year" yaml:"year"`
	BasePrice float64  `json:"basePrice" yaml:"base_price"`
	Category  Category `json:"category" yaml:"category"`
	Inventory int      `json:"inventory" yaml:"inventory"`
	Demand    int      `json:"demand" yaml:"demand"` // 0 ~ 100
	Location  string   `json:"location,omitempty" yaml:"location,omitempty"`
}
