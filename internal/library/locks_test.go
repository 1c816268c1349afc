package library

import (
	"sync"
	"testing"

	"github.com/oracleapp/oracle/internal/model"
)

func TestTryLockRejectsSecondHolder(t *testing.T) {
	locks := NewLocks()

	if !locks.TryLock(440) {
		t.Fatal("first TryLock failed")
	}
	if locks.TryLock(440) {
		t.Error("second TryLock for the same title succeeded")
	}
	if !locks.TryLock(730) {
		t.Error("TryLock for a different title failed while 440 was held")
	}

	locks.Unlock(440)
	locks.Unlock(730)

	if !locks.TryLock(440) {
		t.Error("TryLock failed after Unlock")
	}
	locks.Unlock(440)
}

func TestLockBlocksUntilReleased(t *testing.T) {
	locks := NewLocks()
	locks.Lock(440)

	acquired := make(chan struct{})
	go func() {
		locks.Lock(440)
		close(acquired)
		locks.Unlock(440)
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock acquired while the first was held")
	default:
	}

	locks.Unlock(440)
	<-acquired
}

func TestLocksConcurrentDistinctTitles(t *testing.T) {
	locks := NewLocks()

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id model.TitleID) {
			defer wg.Done()
			locks.Lock(id)
			locks.Unlock(id)
		}(model.TitleID(i))
	}
	wg.Wait()

	// Every slot must have been released.
	locks.mu.Lock()
	remaining := len(locks.locks)
	locks.mu.Unlock()
	if remaining != 0 {
		t.Errorf("lock table holds %d slots after all unlocks, expected 0", remaining)
	}
}
