package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/respub-api/internal/models"
	"github.com/noah-isme/respub-api/pkg/classifier"
)

// advisoryFailureMessage is the only text a caller ever sees for a failed
// check. The advisory degrades, it never fails the request.
const advisoryFailureMessage = "An error occurred while checking the DOI."

// Verdict messages shown alongside the duplicate flag.
const (
	advisoryDuplicateMessage = "Warning: This DOI may already exist in the database."
	advisoryUniqueMessage    = "Success: This DOI appears to be unique."
)

// minAdvisoryLen is the shortest identifier worth a classifier round-trip.
const minAdvisoryLen = 5

// AdvisoryService answers non-binding DOI duplicate checks. Each logical
// input field carries a generation counter so that when rapid successive
// checks race, only the freshest one's verdict is reported; a superseded
// in-flight result is discarded rather than overwriting newer state.
type AdvisoryService struct {
	checker classifier.Checker
	timeout time.Duration
	logger  *zap.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

// NewAdvisoryService constructs the service.
func NewAdvisoryService(checker classifier.Checker, timeout time.Duration, logger *zap.Logger) *AdvisoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &AdvisoryService{
		checker:     checker,
		timeout:     timeout,
		logger:      logger,
		generations: make(map[string]uint64),
	}
}

// CheckIdentifier runs a duplicate check for the given field. Identifiers
// shorter than five characters after trimming short-circuit without any
// external call. Classifier failures map to an unknown verdict with a
// generic message. The second return value is false when a newer check for
// the same field started while this one was in flight; such results must
// not be displayed.
func (s *AdvisoryService) CheckIdentifier(ctx context.Context, field, doi string) (models.AdvisoryResult, bool) {
	trimmed := strings.TrimSpace(doi)
	if len(trimmed) < minAdvisoryLen {
		return models.AdvisoryResult{IsDuplicate: nil, Message: ""}, true
	}

	generation := s.beginCheck(field)

	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	isDuplicate, err := s.checker.Check(checkCtx, trimmed)

	if !s.isCurrent(field, generation) {
		return models.AdvisoryResult{}, false
	}
	if err != nil {
		s.logger.Warn("doi advisory check failed", zap.String("field", field), zap.Error(err))
		return models.AdvisoryResult{IsDuplicate: nil, Message: advisoryFailureMessage}, true
	}
	message := advisoryUniqueMessage
	if isDuplicate {
		message = advisoryDuplicateMessage
	}
	return models.AdvisoryResult{IsDuplicate: &isDuplicate, Message: message}, true
}

func (s *AdvisoryService) beginCheck(field string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[field]++
	return s.generations[field]
}

func (s *AdvisoryService) isCurrent(field string, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[field] == generation
}
