package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"reelmate_server/utils"
)

// matchThreshold is the number of likes that promotes a movie to a
// match. The product pairs exactly two users per session, so the
// threshold is fixed at 2 rather than derived from session membership.
const matchThreshold = 2

// SwipeService records right-swipes and promotes mutual likes to
// matches. The union write on the swipe record is the only concurrency
// control: concurrent likes from both participants land in the set
// without clobbering each other, and replaying the whole operation is
// always safe.
type SwipeService struct {
	Store  DocumentStore
	Events *EventPublisher
}

// RecordLike adds userID to the likes set of (sessionID, movieID) and,
// when the like count reaches the threshold, appends the movie to the
// session's matches exactly once. The session must exist and userID
// must be a member; this keeps likes a subset of the session's users
// and stops the union write's upsert from fabricating session
// documents. The swipe-record update and the match promotion are
// separate writes; a crash between them is recovered by any retry of
// this call.
func (sw *SwipeService) RecordLike(ctx context.Context, sessionID, movieID, userID string) error {
	if sessionID == "" || movieID == "" || userID == "" {
		return fmt.Errorf("%w: session, movie and user are required", ErrInvalidArgument)
	}

	sessionDoc, err := sw.Store.Get(ctx, SessionPath(sessionID))
	if err != nil {
		return err
	}
	if !utils.ContainsString(utils.GetStringSlice(sessionDoc, "users"), userID) {
		return fmt.Errorf("%w: not a member of session %s", ErrAccessDenied, sessionID)
	}

	swipeDoc, _, err := sw.Store.UpdateUnion(ctx, SwipePath(sessionID, movieID), "likes", userID)
	if err != nil {
		return fmt.Errorf("failed to record like for movie %s: %w", movieID, err)
	}

	likes := utils.GetStringSlice(swipeDoc, "likes")
	if len(likes) < matchThreshold {
		return nil
	}

	_, promoted, err := sw.Store.UpdateUnion(ctx, SessionPath(sessionID), "matches", movieID)
	if err != nil {
		return fmt.Errorf("failed to promote match for movie %s: %w", movieID, err)
	}

	if promoted {
		log.Printf("Match found! Movie %s promoted in session %s", movieID, sessionID)
		sw.publishMatch(ctx, sessionID, movieID, likes)
	}
	return nil
}

// publishMatch fans the promotion out to the event broker. Publishing
// is best effort: a broker outage must never fail a swipe.
func (sw *SwipeService) publishMatch(ctx context.Context, sessionID, movieID string, likes []string) {
	if sw.Events == nil {
		return
	}
	event := MatchPromotedEvent{
		SessionID:  sessionID,
		MovieID:    movieID,
		Likes:      likes,
		PromotedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := sw.Events.PublishMatchPromoted(ctx, event); err != nil {
		log.Printf("Failed to publish match event for movie %s: %v", movieID, err)
	}
}
