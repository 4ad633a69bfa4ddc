package domain

// VehicleKind discriminates the two quoting pipelines.
type VehicleKind string

const (
	KindCar        VehicleKind = "voiture"
	KindMotorcycle VehicleKind = "moto"
)

// Car describes a car submitted for a warranty quote. Categorical fields carry
// the caller's raw spelling; the rates package normalizes them before lookup.
type Car struct {
	Brand            string
	Category         string
	EngineType       string // essence, diesel, gpl, hybride
	MileageKm        int
	RegistrationYear int
	OwnerCount       int
	Maintenance      string // complet, partiel, inconnu
	Condition        string // tres bon, quelques defauts, nombreux defauts, problemes mecaniques
	PowerHP          int
	Gearbox          string // manuelle, automatique
	Drivetrain       string // traction, propulsion, integrale
	Usage            string // personnel, taxi, vtc
	Claims           string // aucun, un sinistre, plusieurs sinistres
}

// Motorcycle describes a motorcycle submitted for a warranty quote.
type Motorcycle struct {
	Brand                   string
	Category                string
	MileageKm               int
	RegistrationYear        int
	OwnerCount              int
	Maintenance             string // complet, partiel, inexistant
	Condition               string
	DisplacementCC          int
	Transmission            string // chaine, cardan, courroie
	Usage                   string // quotidien, loisir, mixte, piste
	Claims                  string
	ExhaustModified         bool
	SafetyEquipmentModified bool
	IncidentType            string // aucun, chute, collision, vol
}
