package domain

// Vertical identifies an industry preset.
type Vertical string

// Supported verticals
const (
	VerticalUtilities         Vertical = "utilities"
	VerticalRestaurants       Vertical = "restaurants"
	VerticalFinancialServices Vertical = "financial_services"
	VerticalHealthcare        Vertical = "healthcare"
	VerticalTravel            Vertical = "travel"
	VerticalRetail            Vertical = "retail"
	VerticalContactCenter     Vertical = "contact_center"
)

// AllVerticals lists verticals in display order.
var AllVerticals = []Vertical{
	VerticalUtilities,
	VerticalRestaurants,
	VerticalFinancialServices,
	VerticalHealthcare,
	VerticalTravel,
	VerticalRetail,
	VerticalContactCenter,
}

// VerticalTemplate is a preset deal for one vertical.
type VerticalTemplate struct {
	Vertical    Vertical   `yaml:"vertical"`
	Description string     `yaml:"description"`
	CaseStudy   string     `yaml:"case_study"`
	Inputs      DealInputs `yaml:"inputs"`
}
