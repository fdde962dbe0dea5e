package model

// Region is an administrative shipping zone. Codes are unique; rows are
// operator-managed and change rarely.
type Region struct {
	ID                int64  `db:"id" json:"id"`
	Code              string `db:"code" json:"code"`
	NameUz            string `db:"name_uz" json:"name_uz"`
	NameRu            string `db:"name_ru" json:"name_ru"`
	NameEn            string `db:"name_en" json:"name_en"`
	BaseDeliveryPrice *int64 `db:"base_delivery_price" json:"base_delivery_price"`
	IsFreeDelivery    bool   `db:"is_free_delivery" json:"is_free_delivery"`
	DeliveryETAHours  int    `db:"delivery_eta_hours" json:"delivery_eta_hours"`
	UseBTSTariff      bool   `db:"use_bts_tariff" json:"use_bts_tariff"`
	SortOrder         int    `db:"sort_order" json:"sort_order"`
	IsActive          bool   `db:"is_active" json:"is_active"`
}

// District is a locality inside a region.
type District struct {
	Name       string `yaml:"name" json:"name"`
	NameRu     string `yaml:"name_ru" json:"name_ru"`
	IsHomeCity bool   `yaml:"home" json:"is_home_city"`
}

// Override sources.
const (
	SourceOperator = "operator"
	SourceCarrier  = "carrier"
)

// CityOverride is an operator exception for one city of a region. A nil
// DeliveryPrice means "use the region base price", not "free".
type CityOverride struct {
	ID               int64  `db:"id" json:"id"`
	RegionID         int64  `db:"region_id" json:"region_id"`
	CityName         string `db:"city_name" json:"city_name"`
	DeliveryPrice    *int64 `db:"delivery_price" json:"delivery_price"`
	IsFreeDelivery   bool   `db:"is_free_delivery" json:"is_free_delivery"`
	DeliveryETAHours *int   `db:"delivery_eta_hours" json:"delivery_eta_hours"`
	IsActive         bool   `db:"is_active" json:"is_active"`
	Source           string `db:"source" json:"source"`
}
