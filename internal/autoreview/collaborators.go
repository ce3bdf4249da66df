package autoreview

import (
	"context"
	"errors"
	"fmt"

	"github.com/sprite-ai/ctrev/internal/model"
	"github.com/sprite-ai/ctrev/internal/structtext"
)

var (
	// ErrInvalidArgument is returned by a TaskCoordinator for an unknown job
	// or an invalid reviewer allocation.
	ErrInvalidArgument = errors.New("autoreview: invalid argument")
	// ErrContentUnavailable is returned by a ContentDetails that cannot
	// produce its tree.
	ErrContentUnavailable = errors.New("autoreview: content unavailable")
)

// Job identifies the review job a run belongs to.
type Job struct {
	ID        string
	ContentID string
}

// Allocation tags which reviewer slot a task belongs to.
type Allocation string

// AllocationAutomatic is the allocation used for auto-review tasks.
const AllocationAutomatic Allocation = "automatic"

// TaskHandle is a task created by the coordinator for one run.
type TaskHandle struct {
	ID         string
	JobID      string
	Allocation Allocation
}

// TaskCoordinator owns review tasks outside this package.
type TaskCoordinator interface {
	CreateTask(ctx context.Context, jobID string, alloc Allocation) (TaskHandle, error)
	SubmitFeedback(ctx context.Context, jobID, taskID string, alloc Allocation, fb model.Feedback) error
}

// ContentDetails gives access to the content under review.
type ContentDetails interface {
	Content() (structtext.Node, error)
}

// StaticContent serves a tree already in memory.
type StaticContent struct {
	Root structtext.Node
}

func (s StaticContent) Content() (structtext.Node, error) {
	if s.Root == nil {
		return nil, fmt.Errorf("%w: no tree", ErrContentUnavailable)
	}
	return s.Root, nil
}

// EncodedContent decodes a compressed tree on demand.
type EncodedContent string

func (e EncodedContent) Content() (structtext.Node, error) {
	n, err := structtext.DecodeCompressed(string(e))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentUnavailable, err)
	}
	return n, nil
}
