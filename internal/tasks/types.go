package tasks

import (
	"errors"
	"math/rand/v2"
	"time"

	"productivity-assistant/internal/intent"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrEmptyTitle   = errors.New("title is required")
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting: high=3, medium=2, low=1. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Task is owned by a Store; Priority and AIScore are frozen at creation.
type Task struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Priority  Priority        `json:"priority"`
	DueDate   *time.Time      `json:"dueDate,omitempty"`
	Category  intent.Category `json:"category"`
	Completed bool            `json:"completed"`
	CreatedAt time.Time       `json:"createdAt"`
	AIScore   int             `json:"aiScore"`
}

// Rand is the random source used for confidence scores and canned text.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// SharedRand draws from the goroutine-safe top-level math/rand/v2 source.
type SharedRand struct{}

func (SharedRand) Float64() float64 { return rand.Float64() }
func (SharedRand) IntN(n int) int   { return rand.IntN(n) }
