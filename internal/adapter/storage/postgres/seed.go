package postgres

import (
	"context"
	"fmt"
	"time"

	"paywave/config"
	"paywave/internal/core/domain"
	"paywave/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Seeder provisions the first-run admin account and the default rate
// table. Both steps are idempotent: an existing admin or a non-empty
// rates table is left alone.
type Seeder struct {
	userRepo ports.UserRepository
	rateRepo ports.RateRepository
	hashSvc  ports.HashService
	cfg      config.BootstrapConfig
	log      zerolog.Logger
}

// NewSeeder creates a new Seeder.
func NewSeeder(
	userRepo ports.UserRepository,
	rateRepo ports.RateRepository,
	hashSvc ports.HashService,
	cfg config.BootstrapConfig,
	log zerolog.Logger,
) *Seeder {
	return &Seeder{
		userRepo: userRepo,
		rateRepo: rateRepo,
		hashSvc:  hashSvc,
		cfg:      cfg,
		log:      log,
	}
}

type defaultRate struct {
	method string
	rate   int64
	tag    string
}

var defaultRates = []defaultRate{
	{"Bitcoin", 1300, "Send BTC to wallet: 1B72dozaVmjDAsEtFwJDhL96mqLcybmNyW"},
	{"CashApp", 1100, "CashApp tag: $antoinephillip"},
	{"Zelle", 1100, "Zelle to: rowancharle@gmail.com"},
	{"PayPal", 1300, "PayPal: payments@paywave.com"},
}

// Run seeds the admin account and default rates.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedAdmin(ctx); err != nil {
		return err
	}
	return s.seedRates(ctx)
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	existing, err := s.userRepo.GetByEmail(ctx, s.cfg.AdminEmail)
	if err != nil {
		return fmt.Errorf("checking admin account: %w", err)
	}
	if existing != nil {
		return nil
	}

	if s.cfg.AdminPassword == "" {
		s.log.Warn().
			Str("email", s.cfg.AdminEmail).
			Msg("no bootstrap admin password configured, skipping admin seeding")
		return nil
	}

	hash, err := s.hashSvc.Hash(s.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	admin := &domain.User{
		ID:           uuid.New(),
		Email:        s.cfg.AdminEmail,
		Name:         s.cfg.AdminName,
		PasswordHash: hash,
		BalanceNGN:   decimal.Zero,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}

	s.log.Info().Str("email", admin.Email).Msg("bootstrap admin account created")
	return nil
}

func (s *Seeder) seedRates(ctx context.Context) error {
	count, err := s.rateRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting rates: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, dr := range defaultRates {
		rate := &domain.Rate{
			ID:        uuid.New(),
			Method:    dr.method,
			NGNPerUSD: decimal.NewFromInt(dr.rate),
			Tag:       dr.tag,
			Status:    domain.RateStatusActive,
			UpdatedAt: now,
		}
		if err := s.rateRepo.Create(ctx, rate); err != nil {
			return fmt.Errorf("seeding rate %s: %w", dr.method, err)
		}
	}

	s.log.Info().Int("count", len(defaultRates)).Msg("default exchange rates seeded")
	return nil
}
