package domain

import "math"

// NutrientVector maps a nutrient key to an amount in that nutrient's canonical
// unit (kcal for calories, grams or milligrams elsewhere). The representation is
// sparse: an absent key means "not recorded", never an implicit zero.
type NutrientVector map[string]float64

// Macro keys. Targets require all four.
const (
	NutrientCalories = "calories"
	NutrientProtein  = "protein"
	NutrientCarbs    = "carbs"
	NutrientFat      = "fat"
	NutrientFiber    = "fiber"
)

// Micronutrient keys tracked by the rollup pipeline.
const (
	NutrientSaturatedFat = "saturated_fat"
	NutrientTransFat     = "trans_fat"
	NutrientCholesterol  = "cholesterol"
	NutrientSodium       = "sodium"
	NutrientPotassium    = "potassium"
	NutrientCalcium      = "calcium"
	NutrientIron         = "iron"
	NutrientMagnesium    = "magnesium"
	NutrientZinc         = "zinc"
	NutrientPhosphorus   = "phosphorus"
	NutrientSelenium     = "selenium"
	NutrientCopper       = "copper"
	NutrientManganese    = "manganese"
	NutrientIodine       = "iodine"
	NutrientVitaminA     = "vitamin_a"
	NutrientVitaminC     = "vitamin_c"
	NutrientVitaminD     = "vitamin_d"
	NutrientVitaminE     = "vitamin_e"
	NutrientVitaminK     = "vitamin_k"
	NutrientThiamin      = "thiamin"
	NutrientRiboflavin   = "riboflavin"
	NutrientNiacin       = "niacin"
	NutrientVitaminB6    = "vitamin_b6"
	NutrientFolate       = "folate"
	NutrientVitaminB12   = "vitamin_b12"
	NutrientBiotin       = "biotin"
	NutrientPantothenate = "pantothenic_acid"
	NutrientCholine      = "choline"
	NutrientAddedSugar   = "added_sugar"
	NutrientSugar        = "sugar"
	NutrientCaffeine     = "caffeine"
	NutrientWater        = "water"
	NutrientOmega3       = "omega_3"
)

// MinimizeNutrients flags nutrients where less is better; adherence and
// trend-opportunity logic treat these with inverted semantics.
var MinimizeNutrients = map[string]bool{
	NutrientSodium:       true,
	NutrientSaturatedFat: true,
	NutrientTransFat:     true,
	NutrientAddedSugar:   true,
	NutrientCholesterol:  true,
}

// Round2 rounds to 2 decimal places. Every arithmetic combination of nutrient
// amounts passes through this to keep long accumulation chains drift-free.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Get returns the amount for key and whether it was recorded.
func (v NutrientVector) Get(key string) (float64, bool) {
	amt, ok := v[key]
	return amt, ok
}

// Clone returns a deep copy.
func (v NutrientVector) Clone() NutrientVector {
	if v == nil {
		return NutrientVector{}
	}
	out := make(NutrientVector, len(v))
	for k, amt := range v {
		out[k] = amt
	}
	return out
}
