package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"warranty-quote/domain"
	"warranty-quote/rates"
	"warranty-quote/repository"
)

type mockQuoteRepository struct {
	SaveCalled int
	ForceError bool
}

func (m *mockQuoteRepository) Save(
	kind domain.VehicleKind,
	result domain.QuoteResult,
) error {
	m.SaveCalled++
	if m.ForceError {
		return errors.New("save error")
	}
	return nil
}

// fixedClock pins quotes to mid-2025 so age brackets are reproducible.
func fixedClock() time.Time {
	return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func testService(repo repository.QuoteRepository) *QuoteService {
	return NewQuoteService(
		rates.DefaultRateConfig(),
		repo,
		repository.NewMemoryCache(),
		zap.NewNop(),
	).WithClock(fixedClock)
}

// referenceCar is the documented reference vector: every coefficient neutral
// except the Renault brand (1.1), quoting 120 × 1.1 = 132.00.
func referenceCar() domain.Car {
	return domain.Car{
		Brand:            "Renault",
		Category:         "Citadine",
		EngineType:       "Essence",
		MileageKm:        30_000,
		RegistrationYear: 2022,
		OwnerCount:       1,
		Maintenance:      "Complet",
		Condition:        "Très bon",
		PowerHP:          90,
		Gearbox:          "Manuelle",
		Drivetrain:       "Traction",
		Usage:            "Personnel",
		Claims:           "Aucun",
	}
}

func price(t *testing.T, p *float64) float64 {
	t.Helper()
	if p == nil {
		t.Fatal("expected a price, got nil")
	}
	return *p
}

func TestQuoteCar_ReferenceVector(t *testing.T) {
	service := testService(&mockQuoteRepository{})

	result, err := service.QuoteCar(context.Background(), referenceCar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Eligible {
		t.Fatalf("expected eligible, got rejection: %v", result.RejectionReason)
	}
	if got := price(t, result.PricePrimary); got != 132.0 {
		t.Errorf("prix 3 mois = %v, want 132.00", got)
	}
	// Age 3, 30 000 km, très bon, complet, 1 owner, no claims: the 6-month
	// tier applies with the 1.6 surcharge.
	if got := price(t, result.PriceExtended); got != 211.2 {
		t.Errorf("prix 6 mois = %v, want 211.20", got)
	}
	if got := price(t, result.CeilingMax); got != 4000 {
		t.Errorf("plafond maximum = %v, want 4000", got)
	}
	if got := price(t, result.CeilingIntermediate); got != 2000 {
		t.Errorf("plafond intermédiaire = %v, want 2000", got)
	}
	if result.CeilingCondition == nil {
		t.Error("expected a ceiling condition text")
	}
	if result.RuleVersion != "2024.1" {
		t.Errorf("version barème = %q, want 2024.1", result.RuleVersion)
	}
}

func TestQuoteCar_MechanicalIssuesRejected(t *testing.T) {
	service := testService(&mockQuoteRepository{})

	car := referenceCar()
	car.Condition = "Problèmes mécaniques"

	result, err := service.QuoteCar(context.Background(), car)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Eligible {
		t.Fatal("expected rejection")
	}
	if result.RejectionReason == nil || *result.RejectionReason != ReasonMechanicalIssues {
		t.Errorf("reason = %v, want %q", result.RejectionReason, ReasonMechanicalIssues)
	}
	if result.PricePrimary != nil || result.PriceExtended != nil || result.CeilingMax != nil {
		t.Error("rejected vehicle must carry no price or ceiling fields")
	}
}

func TestQuoteCar_FutureRegistrationYear(t *testing.T) {
	service := testService(&mockQuoteRepository{})

	car := referenceCar()
	car.RegistrationYear = 2026

	result, err := service.QuoteCar(context.Background(), car)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Eligible {
		t.Fatal("expected rejection")
	}
	if *result.RejectionReason != ReasonInvalidYear {
		t.Errorf("reason = %q, want %q", *result.RejectionReason, ReasonInvalidYear)
	}
}

func TestQuoteCar_GatePrecedence(t *testing.T) {
	service := testService(&mockQuoteRepository{})

	// Fails every gate at once; the first declared reason must win.
	car := referenceCar()
	car.RegistrationYear = 2026
	car.Maintenance = "Inconnu"
	car.Condition = "Problèmes mécaniques"

	result, err := service.QuoteCar(context.Background(), car)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *result.RejectionReason != ReasonInvalidYear {
		t.Errorf("reason = %q, want first gate %q", *result.RejectionReason, ReasonInvalidYear)
	}
}

func TestQuoteCar_UnknownMaintenanceRejected(t *testing.T) {
	service := testService(&mockQuoteRepository{})

	car := referenceCar()
	car.Maintenance = "Inconnu"

	result, err := service.QuoteCar(context.Background(), car)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Eligible || *result.RejectionReason != ReasonCarMaintenance {
		t.Errorf("expected rejection %q, got %+v", ReasonCarMaintenance, result)
	}
}

func TestQuoteCar_UnknownBrandFallback(t *testing.T) {
	service := testService(&mockQuoteRepository{})

	car := referenceCar()
	car.Brand = "Zastava"

	result, err := service.QuoteCar(context.Background(), car)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Eligible {
		t.Fatalf("unknown brand must be priced, not rejected: %v", result.RejectionReason)
	}
	// Unknown brand penalty is 1.1, same total as the reference vector.
	if got := price(t, result.PricePrimary); got != 132.0 {
		t.Errorf("prix 3 mois = %v, want 132.00 (fallback 1.1)", got)
	}
}

func TestQuoteCar_NoExtendedTermWhenTooOld(t *testing.T) {
	service := testService(&mockQuoteRepository{})

	car := referenceCar()
	car.RegistrationYear = 2016 // age 9: priced (1.4 bracket) but no 6-month tier

	result, err := service.QuoteCar(context.Background(), car)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Eligible {
		t.Fatalf("expected eligible, got %v", result.RejectionReason)
	}
	if got := price(t, result.PricePrimary); got != 184.8 {
		t.Errorf("prix 3 mois = %v, want 184.80 (120 × 1.1 × 1.4)", got)
	}
	if result.PriceExtended != nil {
		t.Errorf("prix 6 mois = %v, want absent", *result.PriceExtended)
	}
}

func TestQuoteCar_LegacyRuleSet(t *testing.T) {
	cfg := rates.DefaultRateConfig()
	legacy, ok := rates.RuleSetByVersion("2023.2")
	if !ok {
		t.Fatal("missing rule set 2023.2")
	}
	cfg.RuleSet = legacy

	service := NewQuoteService(cfg, &mockQuoteRepository{}, repository.NewMemoryCache(), zap.NewNop()).
		WithClock(fixedClock)

	result, err := service.QuoteCar(context.Background(), referenceCar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RuleVersion != "2023.2" {
		t.Errorf("version barème = %q, want 2023.2", result.RuleVersion)
	}
	if got := price(t, result.PriceExtended); got != 250.8 {
		t.Errorf("prix 6 mois = %v, want 250.80 (surcharge 1.9)", got)
	}
}

func TestQuoteMotorcycle_ExcessiveMileageOutsideAllowList(t *testing.T) {
	service := testService(&mockQuoteRepository{})

	moto := domain.Motorcycle{
		Brand:            "Ducati",
		Category:         "Sportive",
		MileageKm:        160_000,
		RegistrationYear: 2015,
		OwnerCount:       2,
		Maintenance:      "Complet",
		Condition:        "Très bon",
		DisplacementCC:   900,
		Transmission:     "Chaîne",
		Usage:            "Loisir",
		Claims:           "Aucun",
	}

	result, err := service.QuoteMotorcycle(context.Background(), moto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Eligible || *result.RejectionReason != ReasonExcessiveMileage {
		t.Errorf("expected rejection %q, got %+v", ReasonExcessiveMileage, result)
	}

	// The same mileage on an allow-listed brand passes the gate.
	moto.Brand = "Honda"
	result, err = service.QuoteMotorcycle(context.Background(), moto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Eligible {
		t.Errorf("allow-listed brand must pass the mileage gate, got %v", result.RejectionReason)
	}
}

func TestQuoteMotorcycle_ReferenceVector(t *testing.T) {
	service := testService(&mockQuoteRepository{})

	moto := domain.Motorcycle{
		Brand:            "Yamaha",
		Category:         "Roadster",
		MileageKm:        20_000,
		RegistrationYear: 2021,
		OwnerCount:       2,
		Maintenance:      "Complet",
		Condition:        "Quelques défauts",
		DisplacementCC:   700,
		Transmission:     "Chaîne",
		Usage:            "Quotidien",
		Claims:           "Aucun",
	}

	result, err := service.QuoteMotorcycle(context.Background(), moto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Eligible {
		t.Fatalf("expected eligible, got %v", result.RejectionReason)
	}
	// 100 × 1.1 (quotidien) × 1.1 (700cc) × 1.1 (age 4) × 0.95 (complet) = 126.445 → 126.45
	if got := price(t, result.PricePrimary); got != 126.45 {
		t.Errorf("prix 3 mois = %v, want 126.45", got)
	}
	if got := price(t, result.PriceExtended); got != 202.32 {
		t.Errorf("prix 6 mois = %v, want 202.32", got)
	}
	if got := price(t, result.CeilingMax); got != 3000 {
		t.Errorf("plafond maximum = %v, want 3000", got)
	}
}

func TestQuoteMotorcycle_ModificationCoefficients(t *testing.T) {
	service := testService(&mockQuoteRepository{})

	moto := domain.Motorcycle{
		Brand:            "Yamaha",
		Category:         "Roadster",
		MileageKm:        10_000,
		RegistrationYear: 2023,
		OwnerCount:       1,
		Maintenance:      "Partiel",
		Condition:        "Quelques défauts",
		DisplacementCC:   300,
		Transmission:     "Chaîne",
		Usage:            "Loisir",
		Claims:           "Aucun",
	}

	base, err := service.QuoteMotorcycle(context.Background(), moto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	moto.ExhaustModified = true
	moto.SafetyEquipmentModified = true
	modified, err := service.QuoteMotorcycle(context.Background(), moto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if price(t, modified.PricePrimary) <= price(t, base.PricePrimary) {
		t.Errorf("modified motorcycle must price higher: %v <= %v",
			*modified.PricePrimary, *base.PricePrimary)
	}
}

func TestQuoteMotorcycle_BelowMinimumInsurablePrice(t *testing.T) {
	service := testService(&mockQuoteRepository{})

	// Every discount stacks: 100 × 0.95 × 0.9 × 0.9 × 0.95 × 0.95 × 0.95 ≈ 65.98.
	moto := domain.Motorcycle{
		Brand:            "Honda",
		Category:         "Scooter",
		MileageKm:        15_000,
		RegistrationYear: 2024,
		OwnerCount:       1,
		Maintenance:      "Complet",
		Condition:        "Très bon",
		DisplacementCC:   110,
		Transmission:     "Courroie",
		Usage:            "Loisir",
		Claims:           "Aucun",
	}

	result, err := service.QuoteMotorcycle(context.Background(), moto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Eligible {
		t.Fatalf("expected downgrade below minimum insurable price, got %+v", result)
	}
	if *result.RejectionReason != ReasonBelowMinimumPrice {
		t.Errorf("reason = %q, want %q", *result.RejectionReason, ReasonBelowMinimumPrice)
	}
	if result.PricePrimary != nil {
		t.Error("downgraded vehicle must carry no price fields")
	}
}

func TestQuoteMotorcycle_NonexistentMaintenanceRejected(t *testing.T) {
	service := testService(&mockQuoteRepository{})

	moto := domain.Motorcycle{
		Brand:            "Yamaha",
		Category:         "Roadster",
		MileageKm:        30_000,
		RegistrationYear: 2020,
		OwnerCount:       1,
		Maintenance:      "Inexistant",
		Condition:        "Très bon",
		DisplacementCC:   600,
		Transmission:     "Chaîne",
		Claims:           "Aucun",
	}

	result, err := service.QuoteMotorcycle(context.Background(), moto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Eligible || *result.RejectionReason != ReasonMotoMaintenance {
		t.Errorf("expected rejection %q, got %+v", ReasonMotoMaintenance, result)
	}
}

func TestQuote_Determinism(t *testing.T) {
	first := testService(&mockQuoteRepository{})
	second := testService(&mockQuoteRepository{})

	a, err := first.QuoteCar(context.Background(), referenceCar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := second.QuoteCar(context.Background(), referenceCar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs produced different quotes:\n%+v\n%+v", a, b)
	}
}

func TestQuote_CacheShortCircuitsRecomputation(t *testing.T) {
	repo := repository.NewQuoteRepositoryMemory()
	service := NewQuoteService(rates.DefaultRateConfig(), repo, repository.NewMemoryCache(), zap.NewNop()).
		WithClock(fixedClock)

	car := referenceCar()
	first, err := service.QuoteCar(context.Background(), car)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.QuoteCar(context.Background(), car)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("cached quote differs from computed quote")
	}
	if repo.Len() != 1 {
		t.Errorf("repository recorded %d quotes, want 1 (second call cached)", repo.Len())
	}
}

func TestQuote_SaveFailureIsNotFatal(t *testing.T) {
	repo := &mockQuoteRepository{ForceError: true}
	service := testService(repo)

	result, err := service.QuoteCar(context.Background(), referenceCar())
	if err != nil {
		t.Fatalf("save failure must not fail the quote: %v", err)
	}
	if !result.Eligible {
		t.Error("expected eligible result despite save failure")
	}
	if repo.SaveCalled != 1 {
		t.Errorf("Save called %d times, want 1", repo.SaveCalled)
	}
}

func TestQuote_InvalidDescriptors(t *testing.T) {
	repo := &mockQuoteRepository{}
	service := testService(repo)

	cases := []domain.Car{
		func() domain.Car { c := referenceCar(); c.MileageKm = -1; return c }(),
		func() domain.Car { c := referenceCar(); c.RegistrationYear = 1850; return c }(),
		func() domain.Car { c := referenceCar(); c.OwnerCount = 0; return c }(),
		func() domain.Car { c := referenceCar(); c.PowerHP = -10; return c }(),
	}

	for i, car := range cases {
		if _, err := service.QuoteCar(context.Background(), car); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
	if repo.SaveCalled != 0 {
		t.Errorf("repository Save should not be called for invalid input")
	}

	moto := domain.Motorcycle{
		Brand: "Yamaha", MileageKm: 1000, RegistrationYear: 2020,
		OwnerCount: 1, DisplacementCC: -50,
	}
	if _, err := service.QuoteMotorcycle(context.Background(), moto); err == nil {
		t.Error("expected validation error for negative displacement")
	}
}
