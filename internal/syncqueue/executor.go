package syncqueue

import "context"

//go:generate mockgen -source=executor.go -destination=../mocks/syncqueue/mock_executor.go -package=mock_syncqueue Executor

// Executor attempts one remote write for one mutation. It reports success or
// failure and never panics or returns an error: any transport or backend
// problem is converted to false so a failed entry simply stays queued.
type Executor interface {
	Execute(ctx context.Context, mutation Mutation, userID string) bool
}
