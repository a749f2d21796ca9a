package scheduler

import (
	"errors"
	"testing"
	"time"
)

type stubReferrals struct {
	calls     int
	batchSize int
	err       error
}

func (stub *stubReferrals) SweepQualified(_ time.Time, batchSize int) (int, error) {
	stub.calls++
	stub.batchSize = batchSize
	return 1, stub.err
}

type stubUsage struct {
	purgeRetention int
	purgeNow       time.Time
	expireCalls    int
}

func (stub *stubUsage) PurgeUsage(now time.Time, retentionDays int) (int64, error) {
	stub.purgeNow = now
	stub.purgeRetention = retentionDays
	return 3, nil
}

func (stub *stubUsage) ExpireSubscriptions(time.Time) (int64, error) {
	stub.expireCalls++
	return 0, nil
}

type observedRun struct {
	job string
	err error
}

type stubObserver struct {
	runs []observedRun
}

func (stub *stubObserver) ObserveJob(job string, _ time.Duration, err error) {
	stub.runs = append(stub.runs, observedRun{job: job, err: err})
}

func newTestJobs(t *testing.T, referrals *stubReferrals, usage *stubUsage, observer *stubObserver, now time.Time) *Jobs {
	t.Helper()

	jobs, err := New(referrals, usage, observer, Options{
		SweepInterval:      time.Hour,
		UsageRetentionDays: 30,
		Now:                func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = jobs.Shutdown() })
	return jobs
}

func TestRunReferralSweepUsesDefaultBatch(t *testing.T) {
	referrals := &stubReferrals{}
	jobs := newTestJobs(t, referrals, &stubUsage{}, &stubObserver{}, time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC))

	if err := jobs.RunReferralSweep(); err != nil {
		t.Fatalf("RunReferralSweep returned error: %v", err)
	}
	if referrals.calls != 1 || referrals.batchSize != defaultReferralBatch {
		t.Fatalf("expected one sweep with batch %d, got calls=%d batch=%d", defaultReferralBatch, referrals.calls, referrals.batchSize)
	}
}

func TestRunUsagePurgePassesRetention(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	usage := &stubUsage{}
	jobs := newTestJobs(t, &stubReferrals{}, usage, &stubObserver{}, now)

	if err := jobs.RunUsagePurge(); err != nil {
		t.Fatalf("RunUsagePurge returned error: %v", err)
	}
	if usage.purgeRetention != 30 || !usage.purgeNow.Equal(now) {
		t.Fatalf("unexpected purge arguments: retention=%d now=%s", usage.purgeRetention, usage.purgeNow)
	}
}

func TestObserveReportsFailures(t *testing.T) {
	observer := &stubObserver{}
	referrals := &stubReferrals{err: errors.New("database unavailable")}
	jobs := newTestJobs(t, referrals, &stubUsage{}, observer, time.Now())

	jobs.observe(JobReferralSweep, jobs.RunReferralSweep)

	if len(observer.runs) != 1 {
		t.Fatalf("expected one observed run, got %d", len(observer.runs))
	}
	if observer.runs[0].job != JobReferralSweep || observer.runs[0].err == nil {
		t.Fatalf("expected failed referral sweep run, got %+v", observer.runs[0])
	}
}
