package service

import (
	"github.com/shopspring/decimal"

	"warranty-quote/domain"
	"warranty-quote/rates"
)

// quoteMotorcycle is the motorcycle pipeline. Unlike cars, a declared
// mechanical condition is priced (coefficient 1.3), not rejected; the extra
// gate is the high-mileage check against the reliability allow-list.
func (s *QuoteService) quoteMotorcycle(moto domain.Motorcycle, currentYear int) domain.QuoteResult {
	version := s.rates.RuleSet.Version

	if reason := s.motoGateReason(moto, currentYear); reason != "" {
		return domain.Rejected(reason, version)
	}

	price := round2(s.motoPrice(moto, currentYear))
	if price.LessThan(decimal.NewFromFloat(s.rates.RuleSet.MinInsurablePrice)) {
		return domain.Rejected(ReasonBelowMinimumPrice, version)
	}

	result := domain.QuoteResult{Eligible: true, RuleVersion: version}

	primary := price.InexactFloat64()
	result.PricePrimary = &primary

	if s.motoQualifiesExtended(moto, currentYear) {
		surcharge := decimal.NewFromFloat(s.rates.RuleSet.ExtendedSurcharge)
		extended := round2(price.Mul(surcharge)).InexactFloat64()
		result.PriceExtended = &extended
	}

	attachCeiling(&result, s.rates.Moto.Ceilings, moto.Category)
	return result
}

func (s *QuoteService) motoGateReason(moto domain.Motorcycle, currentYear int) string {
	r := s.rates.Moto

	if moto.RegistrationYear > currentYear {
		return ReasonInvalidYear
	}
	if rates.Normalize(moto.Maintenance) == motoMaintenanceNone {
		return ReasonMotoMaintenance
	}
	if moto.MileageKm > r.HighMileageThresholdKm && !highMileageBrandAllowed(r, moto.Brand) {
		return ReasonExcessiveMileage
	}
	return ""
}

func highMileageBrandAllowed(r rates.MotoRates, brand string) bool {
	key := rates.Normalize(brand)
	for _, allowed := range r.HighMileageBrands {
		if key == allowed {
			return true
		}
	}
	return false
}

// motoPrice multiplies the base price by every motorcycle coefficient in
// fixed order. The modification coefficients apply only when the caller
// declared the modification.
func (s *QuoteService) motoPrice(moto domain.Motorcycle, currentYear int) decimal.Decimal {
	r := s.rates.Moto

	exhaust := rates.DefaultCoefficient
	if moto.ExhaustModified {
		exhaust = r.ExhaustModifiedCoef
	}
	safety := rates.DefaultCoefficient
	if moto.SafetyEquipmentModified {
		safety = r.SafetyModifiedCoef
	}

	price := decimal.NewFromFloat(r.BasePrice)
	for _, coef := range []float64{
		r.Brand.Lookup(moto.Brand, r.UnknownBrandCoef),
		r.Category.Lookup(moto.Category, rates.DefaultCoefficient),
		r.Usage.Lookup(moto.Usage, rates.DefaultCoefficient),
		r.Claims.Lookup(moto.Claims, rates.DefaultCoefficient),
		r.Displacement.Resolve(moto.DisplacementCC),
		r.Age.Resolve(currentYear - moto.RegistrationYear),
		r.Maintenance.Lookup(moto.Maintenance, rates.DefaultCoefficient),
		r.Condition.Lookup(moto.Condition, rates.DefaultCoefficient),
		r.Mileage.Resolve(moto.MileageKm),
		r.Transmission.Lookup(moto.Transmission, rates.DefaultCoefficient),
		exhaust,
		safety,
		r.IncidentType.Lookup(moto.IncidentType, rates.DefaultCoefficient),
	} {
		price = price.Mul(decimal.NewFromFloat(coef))
	}
	return price
}

// motoQualifiesExtended is the 6-month predicate for motorcycles; stricter on
// claims than the car variant (any declared claim disqualifies).
func (s *QuoteService) motoQualifiesExtended(moto domain.Motorcycle, currentYear int) bool {
	rs := s.rates.RuleSet

	if currentYear-moto.RegistrationYear > rs.ExtendedMaxAgeYears {
		return false
	}
	if moto.MileageKm > rs.ExtendedMaxMileageKm {
		return false
	}
	if moto.OwnerCount > rs.ExtendedMaxOwners {
		return false
	}
	if !extendedTermConditions[rates.Normalize(moto.Condition)] {
		return false
	}
	if rates.Normalize(moto.Maintenance) != maintenanceComplete {
		return false
	}
	return rates.Normalize(moto.Claims) == claimsNone
}
