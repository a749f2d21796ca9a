package services

import (
	"sync"
	"testing"
)

func TestLocalUserLockerSerializesSameUser(t *testing.T) {
	locker := NewLocalUserLocker()

	var wg sync.WaitGroup
	inside := 0
	maxInside := 0
	var mu sync.Mutex

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock("user-1")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("expected one holder at a time, saw %d", maxInside)
	}
	if len(locker.entries) != 0 {
		t.Fatalf("expected lock entries to be released, got %d", len(locker.entries))
	}
}

func TestLocalUserLockerIndependentUsers(t *testing.T) {
	locker := NewLocalUserLocker()

	unlockFirst, err := locker.Lock("user-1")
	if err != nil {
		t.Fatalf("lock user-1: %v", err)
	}
	defer unlockFirst()

	done := make(chan struct{})
	go func() {
		unlock, err := locker.Lock("user-2")
		if err == nil {
			unlock()
		}
		close(done)
	}()
	<-done
}

func TestLocalUserLockerUnlockIsIdempotent(t *testing.T) {
	locker := NewLocalUserLocker()

	unlock, err := locker.Lock("user-1")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	unlock()
	unlock()

	again, err := locker.Lock("user-1")
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	again()
}
