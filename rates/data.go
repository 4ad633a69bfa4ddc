package rates

// Canonical coefficient data. Keys are stored in normalized form (lower case,
// no diacritics) so lookups only pay for normalizing the caller's input.

const bracketUnbounded = 99_999_999

var knownRuleSets = []RuleSet{
	{
		Version:              "2024.1",
		ExtendedSurcharge:    1.6,
		ExtendedMaxAgeYears:  8,
		ExtendedMaxMileageKm: 100_000,
		ExtendedMaxOwners:    3,
		MinInsurablePrice:    100,
	},
	{
		Version:              "2023.2",
		ExtendedSurcharge:    1.9,
		ExtendedMaxAgeYears:  8,
		ExtendedMaxMileageKm: 150_000,
		ExtendedMaxOwners:    3,
		MinInsurablePrice:    100,
	},
}

// DefaultRateConfig returns the canonical pricing configuration (rule set
// 2024.1). Callers must treat the result as read-only once the engine starts.
func DefaultRateConfig() *RateConfig {
	return &RateConfig{
		RuleSet: knownRuleSets[0],
		Car:     defaultCarRates(),
		Moto:    defaultMotoRates(),
	}
}

func defaultCarRates() CarRates {
	return CarRates{
		BasePrice:        120,
		UnknownBrandCoef: 1.1,
		Brand: CoefficientTable{
			"renault":    1.1,
			"peugeot":    1.1,
			"citroen":    1.1,
			"dacia":      1.15,
			"fiat":       1.15,
			"ford":       1.1,
			"opel":       1.1,
			"volkswagen": 1.0,
			"audi":       1.05,
			"bmw":        1.05,
			"mercedes":   1.05,
			"toyota":     0.95,
			"honda":      0.95,
		},
		Fuel: CoefficientTable{
			"essence": 1.0,
			"diesel":  1.05,
			"gpl":     1.15,
			"hybride": 0.95,
		},
		Category: CoefficientTable{
			"citadine":   1.0,
			"berline":    1.1,
			"break":      1.1,
			"coupe":      1.1,
			"monospace":  1.15,
			"suv":        1.2,
			"utilitaire": 1.25,
		},
		Usage: CoefficientTable{
			"personnel": 1.0,
			"vtc":       1.4,
			"taxi":      1.5,
		},
		Claims: CoefficientTable{
			"aucun":               1.0,
			"un sinistre":         1.15,
			"plusieurs sinistres": 1.35,
		},
		Maintenance: CoefficientTable{
			"complet": 1.0,
			"partiel": 1.2,
		},
		Condition: CoefficientTable{
			"tres bon":         1.0,
			"quelques defauts": 1.05,
			"nombreux defauts": 1.2,
		},
		Gearbox: CoefficientTable{
			"manuelle":    1.0,
			"automatique": 1.1,
		},
		Drivetrain: CoefficientTable{
			"traction":   1.0,
			"propulsion": 1.1,
			"integrale":  1.15,
		},
		Power: BracketTable{
			{Min: 0, Max: 119, Coef: 1.0},
			{Min: 120, Max: 199, Coef: 1.15},
			{Min: 200, Max: 299, Coef: 1.3},
			{Min: 300, Max: bracketUnbounded, Coef: 1.5},
		},
		Age: BracketTable{
			{Min: 0, Max: 3, Coef: 1.0},
			{Min: 4, Max: 5, Coef: 1.1},
			{Min: 6, Max: 8, Coef: 1.2},
			{Min: 9, Max: 12, Coef: 1.4},
			{Min: 13, Max: bracketUnbounded, Coef: 1.6},
		},
		Mileage: BracketTable{
			{Min: 0, Max: 50_000, Coef: 1.0},
			{Min: 50_001, Max: 100_000, Coef: 1.1},
			{Min: 100_001, Max: 150_000, Coef: 1.25},
			{Min: 150_001, Max: 200_000, Coef: 1.45},
			{Min: 200_001, Max: bracketUnbounded, Coef: 1.7},
		},
		Ceilings: CeilingTable{
			"citadine":   {Max: 4000, Intermediate: 2000, Condition: carCeilingCondition},
			"berline":    {Max: 5000, Intermediate: 2500, Condition: carCeilingCondition},
			"break":      {Max: 5000, Intermediate: 2500, Condition: carCeilingCondition},
			"coupe":      {Max: 5000, Intermediate: 2500, Condition: carCeilingCondition},
			"monospace":  {Max: 5500, Intermediate: 2750, Condition: carCeilingCondition},
			"suv":        {Max: 6000, Intermediate: 3000, Condition: carCeilingCondition},
			"utilitaire": {Max: 4500, Intermediate: 2250, Condition: carCeilingCondition},
		},
	}
}

const (
	carCeilingCondition  = "kilométrage supérieur à 150 000 km ou historique d'entretien partiel"
	motoCeilingCondition = "kilométrage supérieur à 60 000 km ou historique d'entretien partiel"
)

func defaultMotoRates() MotoRates {
	return MotoRates{
		BasePrice:        100,
		UnknownBrandCoef: 1.1,
		Brand: CoefficientTable{
			"honda":           0.95,
			"yamaha":          1.0,
			"suzuki":          1.0,
			"bmw":             1.0,
			"kawasaki":        1.05,
			"triumph":         1.05,
			"ktm":             1.1,
			"ducati":          1.15,
			"harley davidson": 1.2,
		},
		Category: CoefficientTable{
			"scooter":  0.9,
			"roadster": 1.0,
			"trail":    1.05,
			"custom":   1.1,
			"routiere": 1.1,
			"sportive": 1.3,
		},
		Usage: CoefficientTable{
			"loisir":    1.0,
			"mixte":     1.05,
			"quotidien": 1.1,
			"piste":     1.5,
		},
		Claims: CoefficientTable{
			"aucun":               1.0,
			"un sinistre":         1.2,
			"plusieurs sinistres": 1.4,
		},
		Maintenance: CoefficientTable{
			"complet": 0.95,
			"partiel": 1.15,
		},
		Condition: CoefficientTable{
			"tres bon":             0.95,
			"quelques defauts":     1.0,
			"nombreux defauts":     1.15,
			"problemes mecaniques": 1.3,
		},
		Transmission: CoefficientTable{
			"chaine":   1.0,
			"cardan":   0.95,
			"courroie": 0.95,
		},
		IncidentType: CoefficientTable{
			"aucun":     1.0,
			"chute":     1.15,
			"collision": 1.25,
			"vol":       1.1,
		},
		ExhaustModifiedCoef: 1.15,
		SafetyModifiedCoef:  1.2,
		Displacement: BracketTable{
			{Min: 0, Max: 125, Coef: 0.9},
			{Min: 126, Max: 500, Coef: 1.0},
			{Min: 501, Max: 900, Coef: 1.1},
			{Min: 901, Max: bracketUnbounded, Coef: 1.25},
		},
		Age: BracketTable{
			{Min: 0, Max: 3, Coef: 1.0},
			{Min: 4, Max: 6, Coef: 1.1},
			{Min: 7, Max: 10, Coef: 1.25},
			{Min: 11, Max: bracketUnbounded, Coef: 1.5},
		},
		Mileage: BracketTable{
			{Min: 0, Max: 20_000, Coef: 1.0},
			{Min: 20_001, Max: 50_000, Coef: 1.1},
			{Min: 50_001, Max: 90_000, Coef: 1.25},
			{Min: 90_001, Max: 150_000, Coef: 1.45},
			{Min: 150_001, Max: bracketUnbounded, Coef: 1.8},
		},
		HighMileageThresholdKm: 150_000,
		HighMileageBrands:      []string{"honda", "bmw"},
		Ceilings: CeilingTable{
			"scooter":  {Max: 2000, Intermediate: 1000, Condition: motoCeilingCondition},
			"roadster": {Max: 3000, Intermediate: 1500, Condition: motoCeilingCondition},
			"custom":   {Max: 3000, Intermediate: 1500, Condition: motoCeilingCondition},
			"trail":    {Max: 3500, Intermediate: 1750, Condition: motoCeilingCondition},
			"routiere": {Max: 3500, Intermediate: 1750, Condition: motoCeilingCondition},
			"sportive": {Max: 4000, Intermediate: 2000, Condition: motoCeilingCondition},
		},
	}
}
