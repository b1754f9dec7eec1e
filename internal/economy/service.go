package economy

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"kaizen/internal/clock"
	"kaizen/internal/fulfillment"
	"kaizen/internal/ledger"
	"kaizen/internal/logger"
	"kaizen/internal/metrics"
	"kaizen/internal/tier"
	"kaizen/internal/wheel"
)

var (
	ErrAlreadyUnlocked = errors.New("tier already unlocked")
)

type Service interface {
	GetProfile(ctx context.Context, userID int) (*Profile, error)
	AwardForAction(ctx context.Context, userID int, action string) (*AwardResult, error)
	SpinWheel(ctx context.Context, userID int) (*SpinResult, error)
	PurchaseTier(ctx context.Context, userID int, tierName string) (*PurchaseResult, error)
}

type Profile struct {
	Account  *ledger.Account `json:"account"`
	Tier     *tier.Tier      `json:"tier"`
	NextTier *tier.Tier      `json:"next_tier,omitempty"`
}

type AwardResult struct {
	Entries  []ledger.Entry   `json:"entries"`
	Balances *ledger.Balances `json:"balances"`
	Streak   int              `json:"streak"`
}

type SpinResult struct {
	Prize    *wheel.Prize     `json:"prize"`
	Entries  []ledger.Entry   `json:"entries"`
	Balances *ledger.Balances `json:"balances"`
}

type PurchaseResult struct {
	Tier     *tier.Tier       `json:"tier"`
	Balances *ledger.Balances `json:"balances"`
}

// Options tune reward policy without touching the orchestration.
type Options struct {
	// SpinCostJP is debited in the same batch as the prize; zero
	// means spins are free.
	SpinCostJP int64
	// MultiplyXP extends the tier multiplier to XP rewards; JP is
	// always multiplied.
	MultiplyXP bool
	RNG        wheel.RNG
	Clock      clock.Clock
	Actions    map[string]Action
}

type service struct {
	ledgerRepo ledger.Repository
	tierRepo   tier.Repository
	wheelRepo  wheel.Repository
	publisher  fulfillment.Publisher

	opts Options
}

func NewService(
	ledgerRepo ledger.Repository,
	tierRepo tier.Repository,
	wheelRepo wheel.Repository,
	publisher fulfillment.Publisher,
	opts Options,
) Service {
	if opts.RNG == nil {
		opts.RNG = rand.Float64
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Actions == nil {
		opts.Actions = DefaultActions
	}

	return &service{
		ledgerRepo: ledgerRepo,
		tierRepo:   tierRepo,
		wheelRepo:  wheelRepo,
		publisher:  publisher,
		opts:       opts,
	}
}

func (s *service) GetProfile(ctx context.Context, userID int) (*Profile, error) {
	account, err := s.ledgerRepo.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	tiers, err := s.tierRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	current, err := tier.TierFor(tiers, account.XP)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Account:  account,
		Tier:     current,
		NextTier: tier.NextTier(tiers, account.XP),
	}, nil
}

// multiplier returns the current tier multiplier derived from the
// canonical xp value, never from a stored tier name.
func (s *service) multiplier(ctx context.Context, userID int) (float64, error) {
	balances, err := s.ledgerRepo.GetBalance(ctx, userID)
	if err != nil {
		return 0, err
	}

	tiers, err := s.tierRepo.List(ctx)
	if err != nil {
		return 0, err
	}

	current, err := tier.TierFor(tiers, balances.XP)
	if err != nil {
		return 0, err
	}

	return current.Multiplier, nil
}

// applyMultiplier rounds by truncation.
func applyMultiplier(amount int64, multiplier float64) int64 {
	return int64(float64(amount) * multiplier)
}

func (s *service) AwardForAction(ctx context.Context, userID int, action string) (*AwardResult, error) {
	base, ok := s.opts.Actions[action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	mult, err := s.multiplier(ctx, userID)
	if err != nil {
		return nil, err
	}

	xp := base.XP
	if s.opts.MultiplyXP {
		xp = applyMultiplier(xp, mult)
	}
	jp := applyMultiplier(base.JP, mult)

	description := "reward: " + action
	var entries []ledger.Entry
	if xp > 0 {
		entries = append(entries, ledger.Earn(ledger.CurrencyXP, xp, description))
	}
	if jp > 0 {
		entries = append(entries, ledger.Earn(ledger.CurrencyJP, jp, description))
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q pays nothing", ErrUnknownAction, action)
	}

	balances, err := s.ledgerRepo.Post(ctx, userID, entries)
	if err != nil {
		metrics.RecordLedgerPost("error")
		return nil, err
	}
	metrics.RecordLedgerPost("posted")

	streak, err := s.ledgerRepo.TouchActivity(ctx, userID, s.opts.Clock.Now())
	if err != nil {
		// The reward is already posted; a streak bump failure is
		// logged rather than surfaced as a failed award.
		logger.Errorf("Failed to touch activity streak for user %d: %v", userID, err)
	}

	return &AwardResult{Entries: entries, Balances: balances, Streak: streak}, nil
}

func (s *service) SpinWheel(ctx context.Context, userID int) (*SpinResult, error) {
	table, err := s.wheelRepo.GetLiveTable(ctx)
	if err != nil {
		return nil, err
	}

	if err := wheel.ValidateProbabilities(table.Prizes); err != nil {
		return nil, err
	}

	prize, err := wheel.Draw(table.Prizes, s.opts.RNG)
	if err != nil {
		return nil, err
	}

	mult, err := s.multiplier(ctx, userID)
	if err != nil {
		return nil, err
	}

	description := "wheel prize: " + prize.Label
	var entries []ledger.Entry
	if s.opts.SpinCostJP > 0 {
		entries = append(entries, ledger.Spend(ledger.CurrencyJP, s.opts.SpinCostJP, "wheel spin"))
	}

	switch prize.Type {
	case wheel.PrizeJP:
		entries = append(entries, ledger.Earn(ledger.CurrencyJP, applyMultiplier(prize.Value, mult), description))
	case wheel.PrizeXP:
		xp := prize.Value
		if s.opts.MultiplyXP {
			xp = applyMultiplier(xp, mult)
		}
		entries = append(entries, ledger.Earn(ledger.CurrencyXP, xp, description))
	default:
		// Non-currency prizes still leave a ledger-visible record;
		// delivery happens out of band.
		entries = append(entries, ledger.Earn(ledger.CurrencyJP, 0, description))
	}

	balances, err := s.ledgerRepo.Post(ctx, userID, entries)
	if err != nil {
		metrics.RecordLedgerPost("error")
		return nil, err
	}
	metrics.RecordLedgerPost("posted")
	metrics.RecordWheelSpin(string(prize.Type))

	if prize.Type == wheel.PrizeItem || prize.Type == wheel.PrizeCoupon {
		job := fulfillment.Job{
			UserID:    userID,
			PrizeType: string(prize.Type),
			Label:     prize.Label,
			Value:     prize.Value,
			Created:   s.opts.Clock.Now(),
		}
		if err := s.publisher.Publish(ctx, job); err != nil {
			// The ledger entry is the durable record; queue delivery
			// is retried out of band.
			logger.Errorf("Failed to queue fulfillment for user %d: %v", userID, err)
		}
	}

	return &SpinResult{Prize: prize, Entries: entries, Balances: balances}, nil
}

func (s *service) PurchaseTier(ctx context.Context, userID int, tierName string) (*PurchaseResult, error) {
	target, err := s.tierRepo.GetByName(ctx, tierName)
	if err != nil {
		return nil, err
	}

	balances, err := s.ledgerRepo.PostTierUnlock(ctx, userID, target.UnlockPrice, target.MinXP, "tier unlock: "+target.Name)
	if err != nil {
		if errors.Is(err, ledger.ErrXPAboveFloor) {
			return nil, ErrAlreadyUnlocked
		}
		return nil, err
	}

	metrics.RecordTierPurchase()
	logger.Info("Tier unlocked", "user_id", userID, "tier", target.Name)

	return &PurchaseResult{Tier: target, Balances: balances}, nil
}
