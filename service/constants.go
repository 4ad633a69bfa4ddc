package service

import "time"

const (
	MinRegistrationYear = 1900
	CacheTTL            = time.Hour
)

// Normalized vocabulary the gates and the tier evaluator match against.
const (
	carMaintenanceUnknown = "inconnu"
	motoMaintenanceNone   = "inexistant"
	maintenanceComplete   = "complet"
	conditionMechanical   = "problemes mecaniques"
	claimsNone            = "aucun"
	claimsSingle          = "un sinistre"
)

// Rejection reasons surfaced to the caller.
const (
	ReasonInvalidYear       = "année de mise en circulation invalide"
	ReasonCarMaintenance    = "historique d'entretien inconnu"
	ReasonMotoMaintenance   = "historique d'entretien inexistant"
	ReasonMechanicalIssues  = "problèmes mécaniques déclarés"
	ReasonExcessiveMileage  = "kilométrage trop élevé pour cette marque"
	ReasonBelowMinimumPrice = "prix inférieur au seuil minimal assurable"
)

// extendedTermConditions are the conditions still accepted for the 6-month
// tier. Everything worse keeps the 3-month quote only.
var extendedTermConditions = map[string]bool{
	"tres bon":         true,
	"quelques defauts": true,
}
