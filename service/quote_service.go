package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"warranty-quote/domain"
	"warranty-quote/rates"
	"warranty-quote/repository"
)

// QuoteService runs the pricing and eligibility pipeline for both vehicle
// kinds. It holds no per-request state; the rate configuration is read-only
// after construction, so concurrent requests need no coordination.
type QuoteService struct {
	rates  *rates.RateConfig
	repo   repository.QuoteRepository
	cache  repository.CacheRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewQuoteService creates a QuoteService with the given rate configuration
// and collaborators.
func NewQuoteService(
	cfg *rates.RateConfig,
	repo repository.QuoteRepository,
	cache repository.CacheRepository,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		rates:  cfg,
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Vehicle age derives from the current
// year, so tests inject a fixed clock to keep quotes reproducible.
func (s *QuoteService) WithClock(now func() time.Time) *QuoteService {
	s.now = now
	return s
}

// QuoteCar prices a car and decides its eligibility.
func (s *QuoteService) QuoteCar(
	ctx context.Context,
	car domain.Car,
) (domain.QuoteResult, error) {

	if err := validateDescriptor(car.MileageKm, car.RegistrationYear, car.OwnerCount); err != nil {
		return domain.QuoteResult{}, err
	}
	if car.PowerHP < 0 {
		return domain.QuoteResult{}, errors.New("puissance invalide")
	}

	return s.quote(ctx, domain.KindCar, car, func(year int) domain.QuoteResult {
		return s.quoteCar(car, year)
	})
}

// QuoteMotorcycle prices a motorcycle and decides its eligibility.
func (s *QuoteService) QuoteMotorcycle(
	ctx context.Context,
	moto domain.Motorcycle,
) (domain.QuoteResult, error) {

	if err := validateDescriptor(moto.MileageKm, moto.RegistrationYear, moto.OwnerCount); err != nil {
		return domain.QuoteResult{}, err
	}
	if moto.DisplacementCC < 0 {
		return domain.QuoteResult{}, errors.New("cylindrée invalide")
	}

	return s.quote(ctx, domain.KindMotorcycle, moto, func(year int) domain.QuoteResult {
		return s.quoteMotorcycle(moto, year)
	})
}

// quote wraps a pipeline run with the response cache and the audit log.
// Neither collaborator is critical: cache and save failures are logged and
// the computed result is returned regardless.
func (s *QuoteService) quote(
	ctx context.Context,
	kind domain.VehicleKind,
	descriptor any,
	compute func(currentYear int) domain.QuoteResult,
) (domain.QuoteResult, error) {

	currentYear := s.now().Year()

	key, keyErr := s.cacheKey(kind, descriptor, currentYear)
	if keyErr == nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var cached domain.QuoteResult
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				s.logger.Debug("devis servi depuis le cache",
					zap.String("type", string(kind)))
				return cached, nil
			}
		}
	}

	start := time.Now()
	result := compute(currentYear)

	s.logger.Info("devis calculé",
		zap.String("type", string(kind)),
		zap.Bool("eligible", result.Eligible),
		zap.String("bareme", result.RuleVersion),
		zap.Duration("duree", time.Since(start)),
	)

	if keyErr == nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), CacheTTL); err != nil {
				s.logger.Warn("échec d'écriture dans le cache", zap.Error(err))
			}
		}
	}

	if err := s.repo.Save(kind, result); err != nil {
		s.logger.Warn("échec d'enregistrement du devis", zap.Error(err))
	}

	return result, nil
}

// cacheKey hashes the descriptor together with everything else the quote
// depends on: the rule version and the current year.
func (s *QuoteService) cacheKey(
	kind domain.VehicleKind,
	descriptor any,
	currentYear int,
) (string, error) {

	payload, err := json.Marshal(struct {
		Kind       domain.VehicleKind `json:"kind"`
		Descriptor any                `json:"descriptor"`
		Version    string             `json:"version"`
		Year       int                `json:"year"`
	}{kind, descriptor, s.rates.RuleSet.Version, currentYear})
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(payload)
	return "devis:" + hex.EncodeToString(sum[:]), nil
}

func validateDescriptor(mileageKm, registrationYear, ownerCount int) error {
	if mileageKm < 0 {
		return errors.New("kilométrage invalide")
	}
	if registrationYear < MinRegistrationYear {
		return fmt.Errorf("année de mise en circulation antérieure à %d", MinRegistrationYear)
	}
	if ownerCount < 1 {
		return errors.New("nombre de propriétaires invalide")
	}
	return nil
}

// round2 rounds to cent precision, half away from zero.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func attachCeiling(res *domain.QuoteResult, table rates.CeilingTable, category string) {
	c, ok := table.Lookup(category)
	if !ok {
		return
	}
	maxCeiling, intermediate, condition := c.Max, c.Intermediate, c.Condition
	res.CeilingMax = &maxCeiling
	res.CeilingIntermediate = &intermediate
	res.CeilingCondition = &condition
}
