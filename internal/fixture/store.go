package fixture

import (
	"strings"
	"time"

	"github.com/epazar20/financial-agentic-ai/internal/models"
)

// Store holds the demo fixture: sample users and the market catalog.
// It is built once at process start and is read-only afterwards, so
// handlers can share it without locking.
type Store struct {
	users    map[string]models.User
	bonds    []models.Quote
	equities []models.Quote
	funds    []models.Quote
}

func NewStore() *Store {
	now := time.Now().UnixMilli()
	dayAgo := now - 24*time.Hour.Milliseconds()

	demoProfile := func(userID, name string) models.Profile {
		return models.Profile{
			UserID:      userID,
			Name:        name,
			RiskProfile: "conservative",
			Preferences: models.Preferences{
				AutoSavingsRate:      0.30,
				PreferredInvestments: []string{"bond", "fund"},
				RiskTolerance:        "low",
			},
		}
	}

	demoAccounts := models.Accounts{
		Checking:   models.Account{ID: "CHK001", Balance: 50000, Type: "checking"},
		Savings:    models.Account{ID: "SV001", Balance: 15000, Type: "savings"},
		Investment: models.Account{ID: "INV001", Balance: 25000, Type: "investment"},
	}

	return &Store{
		users: map[string]models.User{
			"web_ui_user": {
				Profile:  demoProfile("web_ui_user", "Demo User"),
				Accounts: demoAccounts,
				Transactions: []models.Transaction{
					{ID: "tx1001", Amount: 25000, Type: "salary_deposit", Timestamp: now, Merchant: "Employer"},
					{ID: "tx1002", Amount: 7500, Type: "savings_transfer", Timestamp: dayAgo, Status: "completed"},
				},
			},
			"test_user_e2e": {
				Profile:  demoProfile("test_user_e2e", "Test User E2E"),
				Accounts: demoAccounts,
				Transactions: []models.Transaction{
					{ID: "tx2001", Amount: 25000, Type: "salary_deposit", Timestamp: now, Merchant: "Employer"},
					{ID: "tx2002", Amount: 7500, Type: "savings_transfer", Timestamp: dayAgo, Status: "completed"},
				},
			},
		},
		bonds: []models.Quote{
			{Instrument: "GovBond1Y", Rate: 0.28, Risk: "low", Duration: "1Y", UpdatedAt: now},
			{Instrument: "GovBond2Y", Rate: 0.32, Risk: "low", Duration: "2Y", UpdatedAt: now},
			{Instrument: "CorpBond1Y", Rate: 0.35, Risk: "medium", Duration: "1Y", UpdatedAt: now},
		},
		equities: []models.Quote{
			{Instrument: "BIST100", Rate: 0.35, Risk: "high", Sector: "index", UpdatedAt: now},
			{Instrument: "BlueChip", Rate: 0.25, Risk: "medium", Sector: "technology", UpdatedAt: now},
		},
		funds: []models.Quote{
			{Instrument: "BESFund", Rate: 0.22, Risk: "medium", Type: "pension", UpdatedAt: now},
			{Instrument: "MixedFund", Rate: 0.18, Risk: "low", Type: "balanced", UpdatedAt: now},
		},
	}
}

// User looks up a fixture user by id.
func (s *Store) User(id string) (models.User, bool) {
	u, ok := s.users[id]
	return u, ok
}

// UserCount reports how many fixture users are loaded.
func (s *Store) UserCount() int {
	return len(s.users)
}

// Quotes returns the catalog slice for an asset type. Bonds are the only
// class filtered by tenor; an unknown asset type returns the whole catalog.
func (s *Store) Quotes(assetType, tenor string) []models.Quote {
	switch strings.ToLower(assetType) {
	case "bond":
		var quotes []models.Quote
		for _, q := range s.bonds {
			if q.Duration == tenor {
				quotes = append(quotes, q)
			}
		}
		return quotes
	case "equity":
		return append([]models.Quote(nil), s.equities...)
	case "fund":
		return append([]models.Quote(nil), s.funds...)
	default:
		all := append([]models.Quote(nil), s.bonds...)
		all = append(all, s.equities...)
		return append(all, s.funds...)
	}
}
