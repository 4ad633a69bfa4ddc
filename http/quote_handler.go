package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"warranty-quote/domain"
	"warranty-quote/service"
)

// quoteRequest is the flat JSON shape posted by the frontend, using the
// product vocabulary. The handler maps it onto exactly one of the two
// descriptor types before the engine runs.
type quoteRequest struct {
	VehicleKind             string `json:"type_vehicule"`
	Brand                   string `json:"marque"`
	Category                string `json:"categorie"`
	EngineType              string `json:"motorisation"`
	MileageKm               int    `json:"kilometrage"`
	RegistrationYear        int    `json:"annee_mise_en_circulation"`
	OwnerCount              int    `json:"proprietaires"`
	Maintenance             string `json:"historique_entretien"`
	Condition               string `json:"etat"`
	PowerHP                 int    `json:"puissance"`
	DisplacementCC          int    `json:"cylindree"`
	Gearbox                 string `json:"boite_vitesse"`
	Transmission            string `json:"transmission"`
	Usage                   string `json:"usage"`
	Claims                  string `json:"sinistres"`
	ExhaustModified         bool   `json:"echappement_modifie"`
	SafetyEquipmentModified bool   `json:"equipement_securite_modifie"`
	IncidentType            string `json:"type_incident"`
}

type QuoteHandler struct {
	service *service.QuoteService
	logger  *zap.Logger
}

func NewQuoteHandler(service *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{service: service, logger: logger}
}

// CalculatePrice serves POST /calculer_prix (and the legacy /calcul_prix/
// alias). Ineligibility is a 200 with eligible=false; only malformed input
// earns a 4xx.
func (h *QuoteHandler) CalculatePrice(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		writeError(w, "méthode non autorisée", http.StatusMethodNotAllowed)
		return
	}

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("corps de requête illisible", zap.Error(err))
		writeError(w, "corps de requête invalide", http.StatusBadRequest)
		return
	}

	var (
		result domain.QuoteResult
		err    error
	)

	switch domain.VehicleKind(req.VehicleKind) {
	case domain.KindCar:
		result, err = h.service.QuoteCar(r.Context(), req.toCar())
	case domain.KindMotorcycle:
		result, err = h.service.QuoteMotorcycle(r.Context(), req.toMotorcycle())
	default:
		writeError(w, "type de véhicule inconnu", http.StatusBadRequest)
		return
	}

	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, result, http.StatusOK)
}

func (req quoteRequest) toCar() domain.Car {
	return domain.Car{
		Brand:            req.Brand,
		Category:         req.Category,
		EngineType:       req.EngineType,
		MileageKm:        req.MileageKm,
		RegistrationYear: req.RegistrationYear,
		OwnerCount:       req.OwnerCount,
		Maintenance:      req.Maintenance,
		Condition:        req.Condition,
		PowerHP:          req.PowerHP,
		Gearbox:          req.Gearbox,
		Drivetrain:       req.Transmission,
		Usage:            req.Usage,
		Claims:           req.Claims,
	}
}

func (req quoteRequest) toMotorcycle() domain.Motorcycle {
	return domain.Motorcycle{
		Brand:                   req.Brand,
		Category:                req.Category,
		MileageKm:               req.MileageKm,
		RegistrationYear:        req.RegistrationYear,
		OwnerCount:              req.OwnerCount,
		Maintenance:             req.Maintenance,
		Condition:               req.Condition,
		DisplacementCC:          req.DisplacementCC,
		Transmission:            req.Transmission,
		Usage:                   req.Usage,
		Claims:                  req.Claims,
		ExhaustModified:         req.ExhaustModified,
		SafetyEquipmentModified: req.SafetyEquipmentModified,
		IncidentType:            req.IncidentType,
	}
}

// Health serves GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"statut": "ok"}, http.StatusOK)
}

type errorResponse struct {
	Error string `json:"erreur"`
}

func writeError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, errorResponse{Error: msg}, code)
}

func writeJSON(w http.ResponseWriter, payload any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
