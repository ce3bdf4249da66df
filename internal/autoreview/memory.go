package autoreview

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sprite-ai/ctrev/internal/model"
)

// Submission is one feedback submission received by a MemoryCoordinator.
type Submission struct {
	JobID      string
	TaskID     string
	Allocation Allocation
	Feedback   model.Feedback
}

// MemoryCoordinator is an in-process TaskCoordinator. Jobs must be added
// before tasks can be created for them.
type MemoryCoordinator struct {
	mu          sync.Mutex
	jobs        map[string]bool
	tasks       map[string]TaskHandle
	submissions []Submission
}

func NewMemoryCoordinator(jobIDs ...string) *MemoryCoordinator {
	m := &MemoryCoordinator{jobs: make(map[string]bool), tasks: make(map[string]TaskHandle)}
	for _, id := range jobIDs {
		m.jobs[id] = true
	}
	return m
}

// AddJob makes jobID known to the coordinator.
func (m *MemoryCoordinator) AddJob(jobID string) {
	m.mu.Lock()
	m.jobs[jobID] = true
	m.mu.Unlock()
}

func (m *MemoryCoordinator) CreateTask(ctx context.Context, jobID string, alloc Allocation) (TaskHandle, error) {
	if err := ctx.Err(); err != nil {
		return TaskHandle{}, err
	}
	if alloc != AllocationAutomatic {
		return TaskHandle{}, fmt.Errorf("%w: allocation %q", ErrInvalidArgument, alloc)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.jobs[jobID] {
		return TaskHandle{}, fmt.Errorf("%w: unknown job %q", ErrInvalidArgument, jobID)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return TaskHandle{}, fmt.Errorf("generating task id: %w", err)
	}
	task := TaskHandle{ID: id.String(), JobID: jobID, Allocation: alloc}
	m.tasks[task.ID] = task
	return task, nil
}

func (m *MemoryCoordinator) SubmitFeedback(ctx context.Context, jobID, taskID string, alloc Allocation, fb model.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok || task.JobID != jobID || task.Allocation != alloc {
		return fmt.Errorf("%w: task %q for job %q", ErrInvalidArgument, taskID, jobID)
	}
	m.submissions = append(m.submissions, Submission{JobID: jobID, TaskID: taskID, Allocation: alloc, Feedback: fb})
	return nil
}

// Submissions returns a copy of everything submitted so far.
func (m *MemoryCoordinator) Submissions() []Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Submission, len(m.submissions))
	copy(out, m.submissions)
	return out
}

// Tasks returns how many tasks were created.
func (m *MemoryCoordinator) Tasks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
