package services

// AccrualMetrics receives accrual events for instrumentation.
type AccrualMetrics interface {
	TokensAwarded(source string, amount int64)
	AchievementUnlocked(name string)
	RewardRedeemed(category string)
	UsageRejected(feature string)
}

type noopAccrualMetrics struct{}

func (noopAccrualMetrics) TokensAwarded(string, int64) {}
func (noopAccrualMetrics) AchievementUnlocked(string) {}
func (noopAccrualMetrics) RewardRedeemed(string) {}
func (noopAccrualMetrics) UsageRejected(string) {}
