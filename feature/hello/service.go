package hello

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Greeting is the body of GET /rest.
const Greeting = "Hello!"

// Service counts greetings.
type Service struct {
	logger *zap.Logger
	count  atomic.Int64
}

// NewService creates a new hello service.
func NewService(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// Greet returns the greeting and counts it.
func (s *Service) Greet() string {
	s.count.Add(1)
	return Greeting
}

// Count returns the number of greetings so far.
func (s *Service) Count() int64 {
	return s.count.Load()
}

// Reset zeroes the counter, returning the last value.
func (s *Service) Reset() int64 {
	return s.count.Swap(0)
}
