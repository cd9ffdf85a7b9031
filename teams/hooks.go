package teams

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"workspace/attachments"
	"workspace/models"
	"workspace/tasks"
)

// Change is the state of a team before and after a committed update.
type Change struct {
	Before models.Team
	After  models.Team
}

// UpdateHook runs once after every successful Update.
type UpdateHook func(ctx context.Context, change Change) error

// OnUpdate registers an additional hook.
func (s *Service) OnUpdate(hook UpdateHook) {
	s.hooks = append(s.hooks, hook)
}

func (s *Service) runHooks(ctx context.Context, change Change) {
	for _, hook := range s.hooks {
		if err := hook(ctx, change); err != nil {
			s.logger.Warn("team update hook failed",
				zap.String("team_id", change.After.ID),
				zap.Error(err),
			)
		}
	}
}

// CleanupPreviousAvatar schedules deletion of the attachment that backed the
// team's previous avatar once it has been replaced or removed.
func (s *Service) CleanupPreviousAvatar(ctx context.Context, change Change) error {
	previous := change.Before.AvatarURL
	if previous == nil || *previous == "" {
		return nil
	}
	if current := change.After.AvatarURL; current != nil && *current == *previous {
		return nil
	}

	ids := attachments.ParseIDs(*previous, true)
	if len(ids) == 0 {
		return nil
	}

	attachment, err := models.FindAttachment(s.db.WithContext(ctx), ids[0], change.After.ID)
	if errors.Is(err, models.ErrAttachmentNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find previous avatar: %w", err)
	}

	if err := s.scheduler.Schedule(ctx, tasks.DeleteAttachment{AttachmentID: attachment.ID}); err != nil {
		return fmt.Errorf("schedule avatar deletion: %w", err)
	}
	s.logger.Info("scheduled deletion of replaced avatar",
		zap.String("team_id", change.After.ID),
		zap.String("attachment_id", attachment.ID),
	)
	return nil
}
