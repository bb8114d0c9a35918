package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/fabrica-tour/api/internal/domain"
)

type PostPublisher interface {
	PublishDue(ctx context.Context, now time.Time) ([]domain.Post, error)
}

// Scheduler flips scheduled posts live once their publish_at passes.
type Scheduler struct {
	sched gocron.Scheduler
}

func Start(posts PostPublisher) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("gocron.NewScheduler -> %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			published, err := posts.PublishDue(ctx, time.Now())
			if err != nil {
				zap.L().Error("failed to publish due posts", zap.Error(err))

				return
			}

			for _, post := range published {
				zap.L().Info("auto-published post",
					zap.Uint("post_id", post.ID), zap.String("title", post.Title))
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("sched.NewJob -> %w", err)
	}

	sched.Start()

	return &Scheduler{sched: sched}, nil
}

func (s *Scheduler) Stop() error {
	return s.sched.Shutdown()
}
