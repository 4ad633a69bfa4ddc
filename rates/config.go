package rates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleSet groups every product threshold that drifted across rule revisions.
// Picking a revision is a configuration decision, never an edit to the engine.
type RuleSet struct {
	Version              string  `yaml:"version"`
	ExtendedSurcharge    float64 `yaml:"surcharge_6_mois"`
	ExtendedMaxAgeYears  int     `yaml:"age_max_6_mois"`
	ExtendedMaxMileageKm int     `yaml:"kilometrage_max_6_mois"`
	ExtendedMaxOwners    int     `yaml:"proprietaires_max_6_mois"`
	MinInsurablePrice    float64 `yaml:"prix_minimal_assurable"`
}

// CarRates is the full coefficient set for the car pipeline.
type CarRates struct {
	BasePrice        float64          `yaml:"prix_base"`
	UnknownBrandCoef float64          `yaml:"coef_marque_inconnue"`
	Brand            CoefficientTable `yaml:"marque"`
	Fuel             CoefficientTable `yaml:"motorisation"`
	Category         CoefficientTable `yaml:"categorie"`
	Usage            CoefficientTable `yaml:"usage"`
	Claims           CoefficientTable `yaml:"sinistres"`
	Maintenance      CoefficientTable `yaml:"historique_entretien"`
	Condition        CoefficientTable `yaml:"etat"`
	Gearbox          CoefficientTable `yaml:"boite_vitesse"`
	Drivetrain       CoefficientTable `yaml:"transmission"`
	Power            BracketTable     `yaml:"puissance"`
	Age              BracketTable     `yaml:"age"`
	Mileage          BracketTable     `yaml:"kilometrage"`
	Ceilings         CeilingTable     `yaml:"plafonds"`
}

// MotoRates is the full coefficient set for the motorcycle pipeline, including
// the high-mileage gate data (threshold plus reliability allow-list).
type MotoRates struct {
	BasePrice              float64          `yaml:"prix_base"`
	UnknownBrandCoef       float64          `yaml:"coef_marque_inconnue"`
	Brand                  CoefficientTable `yaml:"marque"`
	Category               CoefficientTable `yaml:"categorie"`
	Usage                  CoefficientTable `yaml:"usage"`
	Claims                 CoefficientTable `yaml:"sinistres"`
	Maintenance            CoefficientTable `yaml:"historique_entretien"`
	Condition              CoefficientTable `yaml:"etat"`
	Transmission           CoefficientTable `yaml:"transmission"`
	IncidentType           CoefficientTable `yaml:"type_incident"`
	ExhaustModifiedCoef    float64          `yaml:"coef_echappement_modifie"`
	SafetyModifiedCoef     float64          `yaml:"coef_equipement_securite_modifie"`
	Displacement           BracketTable     `yaml:"cylindree"`
	Age                    BracketTable     `yaml:"age"`
	Mileage                BracketTable     `yaml:"kilometrage"`
	HighMileageThresholdKm int              `yaml:"seuil_kilometrage_eleve"`
	HighMileageBrands      []string         `yaml:"marques_kilometrage_eleve"`
	Ceilings               CeilingTable     `yaml:"plafonds"`
}

// RateConfig is the immutable pricing configuration injected into the engine.
type RateConfig struct {
	RuleSet RuleSet   `yaml:"bareme"`
	Car     CarRates  `yaml:"voiture"`
	Moto    MotoRates `yaml:"moto"`
}

// RuleSetByVersion returns a known rule revision. "2024.1" is canonical;
// "2023.2" keeps the stricter historical thresholds selectable by config.
func RuleSetByVersion(version string) (RuleSet, bool) {
	for _, rs := range knownRuleSets {
		if rs.Version == version {
			return rs, true
		}
	}
	return RuleSet{}, false
}

// Load returns the built-in rate configuration, overridden by the YAML file at
// path when one is given. An empty path means defaults only.
func Load(path string) (*RateConfig, error) {
	cfg := DefaultRateConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rates: lecture du barème %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("rates: analyse du barème %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks table well-formedness: positive coefficients, gap-free and
// non-overlapping brackets from zero, and non-decreasing mileage and age
// penalties. A failure here is a data-configuration bug, caught at startup.
func (c *RateConfig) Validate() error {
	if c.Car.BasePrice <= 0 || c.Moto.BasePrice <= 0 {
		return fmt.Errorf("rates: prix de base invalide")
	}
	if c.RuleSet.ExtendedSurcharge <= 1 {
		return fmt.Errorf("rates: surcharge 6 mois invalide (%v)", c.RuleSet.ExtendedSurcharge)
	}

	brackets := map[string]BracketTable{
		"voiture/puissance":   c.Car.Power,
		"voiture/age":         c.Car.Age,
		"voiture/kilometrage": c.Car.Mileage,
		"moto/cylindree":      c.Moto.Displacement,
		"moto/age":            c.Moto.Age,
		"moto/kilometrage":    c.Moto.Mileage,
	}
	for name, table := range brackets {
		if err := checkBrackets(name, table); err != nil {
			return err
		}
	}

	monotone := map[string]BracketTable{
		"voiture/age":         c.Car.Age,
		"voiture/kilometrage": c.Car.Mileage,
		"moto/age":            c.Moto.Age,
		"moto/kilometrage":    c.Moto.Mileage,
	}
	for name, table := range monotone {
		for i := 1; i < len(table); i++ {
			if table[i].Coef < table[i-1].Coef {
				return fmt.Errorf("rates: %s: coefficient décroissant à la tranche %d", name, i)
			}
		}
	}

	categorical := map[string]CoefficientTable{
		"voiture/marque":    c.Car.Brand,
		"voiture/categorie": c.Car.Category,
		"moto/marque":       c.Moto.Brand,
		"moto/categorie":    c.Moto.Category,
	}
	for name, table := range categorical {
		for key, coef := range table {
			if coef <= 0 {
				return fmt.Errorf("rates: %s: coefficient invalide pour %q", name, key)
			}
		}
	}

	return nil
}

func checkBrackets(name string, table BracketTable) error {
	if len(table) == 0 {
		return fmt.Errorf("rates: %s: table vide", name)
	}
	if table[0].Min != 0 {
		return fmt.Errorf("rates: %s: la première tranche doit commencer à 0", name)
	}
	for i, b := range table {
		if b.Max < b.Min {
			return fmt.Errorf("rates: %s: tranche %d inversée", name, i)
		}
		if b.Coef <= 0 {
			return fmt.Errorf("rates: %s: coefficient invalide à la tranche %d", name, i)
		}
		if i > 0 && b.Min != table[i-1].Max+1 {
			return fmt.Errorf("rates: %s: trou ou chevauchement entre les tranches %d et %d", name, i-1, i)
		}
	}
	return nil
}
