package workflow

import (
	"context"
	"fmt"

	"naspac/pkg/types"
)

// StatusCounts reports, for the current service year, how many distinct
// submissions have EVER reached each requested status, plus the total
// number of personnel submissions. Because the status column is
// overwritten on every transition, historical membership is answered
// from the audit trail rather than the submissions table.
func (e *Engine) StatusCounts(ctx context.Context, actorID string, statuses []types.SubmissionStatus) (map[string]int64, error) {
	if _, err := e.reviewer(ctx, actorID); err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, fmt.Errorf("at least one status is required: %w", types.ErrPrecondition)
	}
	for _, status := range statuses {
		if !status.Valid() {
			return nil, fmt.Errorf("unknown submission status %q: %w", status, types.ErrPrecondition)
		}
	}

	year := e.now().Year()
	counts := make(map[string]int64, len(statuses)+1)
	for _, status := range statuses {
		n, err := e.store.Audits().CountDistinctSubmissions(ctx, types.StatusChangeAction(status), year)
		if err != nil {
			return nil, err
		}
		counts[string(status)] = n
	}

	total, err := e.store.Submissions().CountByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	counts["TOTAL"] = total

	return counts, nil
}

// Notifications lists the caller's feed: role-wide broadcasts for their
// role plus messages addressed to them. PERSONNEL only ever see their
// own; reviewers see their audience stream.
func (e *Engine) Notifications(ctx context.Context, actorID string, skip, take uint64) ([]*types.Notification, error) {
	user, err := e.store.Users().ByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return e.store.Notifications().ListFor(ctx, user.ID, user.Role, skip, take)
}
