package service

import (
	"github.com/shopspring/decimal"

	"warranty-quote/domain"
	"warranty-quote/rates"
)

// quoteCar is the car pipeline: hard gates, multiplicative price, 6-month
// tier, payout ceilings. A gate rejection short-circuits everything after it.
func (s *QuoteService) quoteCar(car domain.Car, currentYear int) domain.QuoteResult {
	version := s.rates.RuleSet.Version

	if reason := carGateReason(car, currentYear); reason != "" {
		return domain.Rejected(reason, version)
	}

	price := round2(s.carPrice(car, currentYear))
	if price.LessThan(decimal.NewFromFloat(s.rates.RuleSet.MinInsurablePrice)) {
		return domain.Rejected(ReasonBelowMinimumPrice, version)
	}

	result := domain.QuoteResult{Eligible: true, RuleVersion: version}

	primary := price.InexactFloat64()
	result.PricePrimary = &primary

	if s.carQualifiesExtended(car, currentYear) {
		surcharge := decimal.NewFromFloat(s.rates.RuleSet.ExtendedSurcharge)
		extended := round2(price.Mul(surcharge)).InexactFloat64()
		result.PriceExtended = &extended
	}

	attachCeiling(&result, s.rates.Car.Ceilings, car.Category)
	return result
}

// carGateReason walks the gate chain in order and returns the first
// applicable rejection reason, or "" when every gate passes.
func carGateReason(car domain.Car, currentYear int) string {
	if car.RegistrationYear > currentYear {
		return ReasonInvalidYear
	}
	if rates.Normalize(car.Maintenance) == carMaintenanceUnknown {
		return ReasonCarMaintenance
	}
	if rates.Normalize(car.Condition) == conditionMechanical {
		return ReasonMechanicalIssues
	}
	return ""
}

// carPrice multiplies the base price by every car coefficient. The slice
// fixes the multiplication order; it must not be reordered, cent-level
// rounding of reference quotes depends on it.
func (s *QuoteService) carPrice(car domain.Car, currentYear int) decimal.Decimal {
	r := s.rates.Car

	price := decimal.NewFromFloat(r.BasePrice)
	for _, coef := range []float64{
		r.Brand.Lookup(car.Brand, r.UnknownBrandCoef),
		r.Fuel.Lookup(car.EngineType, rates.DefaultCoefficient),
		r.Category.Lookup(car.Category, rates.DefaultCoefficient),
		r.Usage.Lookup(car.Usage, rates.DefaultCoefficient),
		r.Claims.Lookup(car.Claims, rates.DefaultCoefficient),
		r.Power.Resolve(car.PowerHP),
		r.Age.Resolve(currentYear - car.RegistrationYear),
		r.Maintenance.Lookup(car.Maintenance, rates.DefaultCoefficient),
		r.Condition.Lookup(car.Condition, rates.DefaultCoefficient),
		r.Mileage.Resolve(car.MileageKm),
		r.Gearbox.Lookup(car.Gearbox, rates.DefaultCoefficient),
		r.Drivetrain.Lookup(car.Drivetrain, rates.DefaultCoefficient),
	} {
		price = price.Mul(decimal.NewFromFloat(coef))
	}
	return price
}

// carQualifiesExtended is the stricter 6-month tier predicate.
func (s *QuoteService) carQualifiesExtended(car domain.Car, currentYear int) bool {
	rs := s.rates.RuleSet

	if currentYear-car.RegistrationYear > rs.ExtendedMaxAgeYears {
		return false
	}
	if car.MileageKm > rs.ExtendedMaxMileageKm {
		return false
	}
	if car.OwnerCount > rs.ExtendedMaxOwners {
		return false
	}
	if !extendedTermConditions[rates.Normalize(car.Condition)] {
		return false
	}
	if rates.Normalize(car.Maintenance) != maintenanceComplete {
		return false
	}

	claims := rates.Normalize(car.Claims)
	return claims == claimsNone || claims == claimsSingle
}
