package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/flowy/internal/logger"
)

const (
	JobReferralSweep       = "referral_sweep"
	JobUsagePurge          = "usage_purge"
	JobSubscriptionExpiry  = "subscription_expiry"
	defaultReferralBatch   = 200
	defaultMaintenanceTick = time.Hour
)

type ReferralSweeper interface {
	SweepQualified(now time.Time, batchSize int) (int, error)
}

type UsageMaintainer interface {
	PurgeUsage(now time.Time, retentionDays int) (int64, error)
	ExpireSubscriptions(now time.Time) (int64, error)
}

type JobObserver interface {
	ObserveJob(job string, duration time.Duration, err error)
}

type Options struct {
	SweepInterval       time.Duration
	MaintenanceInterval time.Duration
	UsageRetentionDays  int
	ReferralBatchSize   int
	Now                 func() time.Time
}

// Jobs runs the periodic referral sweep and usage maintenance.
type Jobs struct {
	scheduler gocron.Scheduler
	referrals ReferralSweeper
	usage     UsageMaintainer
	observer  JobObserver
	options   Options
}

func New(referrals ReferralSweeper, usage UsageMaintainer, observer JobObserver, options Options) (*Jobs, error) {
	if options.SweepInterval <= 0 {
		options.SweepInterval = 15 * time.Minute
	}
	if options.MaintenanceInterval <= 0 {
		options.MaintenanceInterval = defaultMaintenanceTick
	}
	if options.ReferralBatchSize <= 0 {
		options.ReferralBatchSize = defaultReferralBatch
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	jobs := &Jobs{
		scheduler: scheduler,
		referrals: referrals,
		usage:     usage,
		observer:  observer,
		options:   options,
	}
	if err := jobs.register(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return jobs, nil
}

func (jobs *Jobs) register() error {
	definitions := []struct {
		name     string
		interval time.Duration
		run      func() error
	}{
		{name: JobReferralSweep, interval: jobs.options.SweepInterval, run: jobs.RunReferralSweep},
		{name: JobUsagePurge, interval: jobs.options.MaintenanceInterval, run: jobs.RunUsagePurge},
		{name: JobSubscriptionExpiry, interval: jobs.options.MaintenanceInterval, run: jobs.RunSubscriptionExpiry},
	}

	for _, definition := range definitions {
		name := definition.name
		run := definition.run
		_, err := jobs.scheduler.NewJob(
			gocron.DurationJob(definition.interval),
			gocron.NewTask(func() { jobs.observe(name, run) }),
			gocron.WithName(name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("register job %s: %w", name, err)
		}
	}
	return nil
}

func (jobs *Jobs) Start() {
	jobs.scheduler.Start()
}

func (jobs *Jobs) Shutdown() error {
	return jobs.scheduler.Shutdown()
}

func (jobs *Jobs) RunReferralSweep() error {
	promoted, err := jobs.referrals.SweepQualified(jobs.options.Now(), jobs.options.ReferralBatchSize)
	if err != nil {
		return err
	}
	if promoted > 0 {
		logger.Log.WithField("promoted", promoted).Info("referral sweep credited referrers")
	}
	return nil
}

func (jobs *Jobs) RunUsagePurge() error {
	deleted, err := jobs.usage.PurgeUsage(jobs.options.Now(), jobs.options.UsageRetentionDays)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logger.Log.WithField("deleted", deleted).Info("purged expired usage rows")
	}
	return nil
}

func (jobs *Jobs) RunSubscriptionExpiry() error {
	expired, err := jobs.usage.ExpireSubscriptions(jobs.options.Now())
	if err != nil {
		return err
	}
	if expired > 0 {
		logger.Log.WithField("expired", expired).Info("canceled subscriptions past their period end")
	}
	return nil
}

func (jobs *Jobs) observe(name string, run func() error) {
	start := time.Now()
	err := run()
	if jobs.observer != nil {
		jobs.observer.ObserveJob(name, time.Since(start), err)
	}
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"job": name}).WithError(err).Error("scheduled job failed")
	}
}
