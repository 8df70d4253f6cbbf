package service

import (
	"time"

	"rewards_engine/internal/model"

	"github.com/shopspring/decimal"
)

type RewardsConfig struct {
	ManagementBonus   ManagementBonusConfig `mapstructure:"managementBonus"`
	Triggers          TriggerConfig         `mapstructure:"triggers"`
	AntiCheat         AntiCheatConfig       `mapstructure:"antiCheat"`
	DashboardCacheTTL time.Duration         `mapstructure:"dashboardCacheTTL"`
	ReferralBaseURL   string                `mapstructure:"referralBaseURL"`
}

// ManagementBonusConfig holds per-level rates in percent of the task reward and the
// per-ancestor caps on management bonus income. A cap of zero disables that cap.
type ManagementBonusConfig struct {
	Rates BonusRates `mapstructure:"rates"`
	Caps  BonusCaps  `mapstructure:"caps"`
}

type BonusRates struct {
	A float64 `mapstructure:"a"`
	B float64 `mapstructure:"b"`
	C float64 `mapstructure:"c"`
}

type BonusCaps struct {
	Daily   float64 `mapstructure:"daily"`
	Monthly float64 `mapstructure:"monthly"`
}

type TriggerConfig struct {
	FirstVideoCount     int     `mapstructure:"firstVideoCount"`
	WeeklyActivityCount int     `mapstructure:"weeklyActivityCount"`
	HighEarnerThreshold float64 `mapstructure:"highEarnerThreshold"`
}

type AntiCheatConfig struct {
	GateOnSecurityScore bool `mapstructure:"gateOnSecurityScore"`
	MinSecurityScore    int  `mapstructure:"minSecurityScore"`
}

type AuthPolicy struct {
	MaxLoginAttempts int           `mapstructure:"maxLoginAttempts"`
	LockoutDuration  time.Duration `mapstructure:"lockoutDuration"`
	MinPasswordLen   int           `mapstructure:"minPasswordLength"`
}

func DefaultRewardsConfig() RewardsConfig {
	return RewardsConfig{
		ManagementBonus: ManagementBonusConfig{
			Rates: BonusRates{A: 10, B: 5, C: 2},
			Caps:  BonusCaps{Daily: 50, Monthly: 1000},
		},
		Triggers: TriggerConfig{
			FirstVideoCount:     1,
			WeeklyActivityCount: 7,
			HighEarnerThreshold: 50,
		},
		DashboardCacheTTL: 30 * time.Second,
	}
}

func DefaultAuthPolicy() AuthPolicy {
	return AuthPolicy{
		MaxLoginAttempts: 5,
		LockoutDuration:  15 * time.Minute,
		MinPasswordLen:   6,
	}
}

// Rate returns the configured percentage for a level as a decimal.
func (r BonusRates) Rate(level model.ReferralLevel) decimal.Decimal {
	switch level {
	case model.LevelA:
		return decimal.NewFromFloat(r.A)
	case model.LevelB:
		return decimal.NewFromFloat(r.B)
	case model.LevelC:
		return decimal.NewFromFloat(r.C)
	}
	return decimal.Zero
}
