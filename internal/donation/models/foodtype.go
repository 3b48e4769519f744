package models

// FoodType categorizes a donation for NGO filtering and handling guidance.
type FoodType string

const (
	FoodTypePrepared  FoodType = "prepared"
	FoodTypeFresh     FoodType = "fresh"
	FoodTypePackaged  FoodType = "packaged"
	FoodTypeBeverages FoodType = "beverages"
	FoodTypeBakery    FoodType = "bakery"
	FoodTypeDairy     FoodType = "dairy"
)

// Valid reports whether t is a known food type.
func (t FoodType) Valid() bool {
	switch t {
	case FoodTypePrepared, FoodTypeFresh, FoodTypePackaged, FoodTypeBeverages, FoodTypeBakery, FoodTypeDairy:
		return true
	}
	return false
}
