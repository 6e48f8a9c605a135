package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	mu      sync.Mutex
	result  bool
	err     error
	calls   int
	release chan struct{}
}

func (f *fakeChecker) Check(ctx context.Context, doi string) (bool, error) {
	f.mu.Lock()
	f.calls++
	release := f.release
	f.mu.Unlock()
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return f.result, f.err
}

func (f *fakeChecker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestCheckIdentifierShortInputSkipsClassifier(t *testing.T) {
	checker := &fakeChecker{result: true}
	svc := NewAdvisoryService(checker, time.Second, nil)

	result, current := svc.CheckIdentifier(context.Background(), "doi", "1234")
	assert.True(t, current)
	assert.Nil(t, result.IsDuplicate)
	assert.Empty(t, result.Message)
	assert.Zero(t, checker.callCount())

	// Trimming happens before the length check.
	result, _ = svc.CheckIdentifier(context.Background(), "doi", "  123  ")
	assert.Nil(t, result.IsDuplicate)
	assert.Zero(t, checker.callCount())
}

func TestCheckIdentifierReturnsVerdict(t *testing.T) {
	checker := &fakeChecker{result: true}
	svc := NewAdvisoryService(checker, time.Second, nil)

	result, current := svc.CheckIdentifier(context.Background(), "doi", "10.1000/xyz123")
	assert.True(t, current)
	require.NotNil(t, result.IsDuplicate)
	assert.True(t, *result.IsDuplicate)
	assert.Equal(t, "Warning: This DOI may already exist in the database.", result.Message)

	checker.result = false
	result, _ = svc.CheckIdentifier(context.Background(), "doi", "10.1000/xyz124")
	require.NotNil(t, result.IsDuplicate)
	assert.False(t, *result.IsDuplicate)
	assert.Equal(t, "Success: This DOI appears to be unique.", result.Message)
}

func TestCheckIdentifierClassifierFailureIsNeutral(t *testing.T) {
	checker := &fakeChecker{err: errors.New("boom")}
	svc := NewAdvisoryService(checker, time.Second, nil)

	result, current := svc.CheckIdentifier(context.Background(), "doi", "10.1000/xyz123")
	assert.True(t, current)
	assert.Nil(t, result.IsDuplicate)
	assert.Equal(t, "An error occurred while checking the DOI.", result.Message)
}

func TestCheckIdentifierSupersededResultIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	checker := &fakeChecker{result: true, release: release}
	svc := NewAdvisoryService(checker, time.Second, nil)

	type outcome struct {
		current bool
	}
	first := make(chan outcome, 1)
	go func() {
		_, current := svc.CheckIdentifier(context.Background(), "doi", "10.1000/first")
		first <- outcome{current: current}
	}()

	// Wait until the first check is blocked inside the classifier.
	require.Eventually(t, func() bool { return checker.callCount() == 1 }, time.Second, 5*time.Millisecond)

	// A newer check for the same field supersedes the in-flight one.
	checker.mu.Lock()
	checker.release = nil
	checker.mu.Unlock()
	result, current := svc.CheckIdentifier(context.Background(), "doi", "10.1000/second")
	assert.True(t, current)
	require.NotNil(t, result.IsDuplicate)

	close(release)
	got := <-first
	assert.False(t, got.current)
}

func TestCheckIdentifierFieldsAreIndependent(t *testing.T) {
	checker := &fakeChecker{result: false}
	svc := NewAdvisoryService(checker, time.Second, nil)

	_, currentA := svc.CheckIdentifier(context.Background(), "fieldA", "10.1000/aaaaa")
	_, currentB := svc.CheckIdentifier(context.Background(), "fieldB", "10.1000/bbbbb")
	assert.True(t, currentA)
	assert.True(t, currentB)
}
