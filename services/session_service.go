package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"reelmate_server/models"
	"reelmate_server/utils"
)

// sessionCreateAttempts bounds the id-collision retry loop. A UUID
// collision is already vanishingly unlikely; retrying guards against
// silently merging two unrelated sessions if one ever happens.
const sessionCreateAttempts = 3

// SessionService creates sessions, tracks membership and exposes
// session state through live subscriptions.
type SessionService struct {
	Store DocumentStore
}

func sessionFromDoc(doc Doc) *models.Session {
	if doc == nil {
		return nil
	}
	return &models.Session{
		SessionID: utils.GetString(doc, "sessionId"),
		Users:     utils.GetStringSlice(doc, "users"),
		Mode:      utils.GetString(doc, "mode"),
		Matches:   utils.GetStringSlice(doc, "matches"),
		CreatedAt: utils.GetString(doc, "createdAt"),
	}
}

// CreateSession persists a new session for the initiator and partner
// and returns its id. The id is regenerated and the write retried if
// the store reports a pre-existing document.
func (ss *SessionService) CreateSession(ctx context.Context, mode, initiatorID, partnerID string) (string, error) {
	if _, err := models.ParseMode(mode); err != nil {
		return "", fmt.Errorf("%w: mode must be %q or %q", ErrInvalidArgument, models.ModeCinema, models.ModeHome)
	}
	if initiatorID == "" || partnerID == "" {
		return "", fmt.Errorf("%w: initiator and partner are required", ErrInvalidArgument)
	}
	if partnerID == initiatorID {
		return "", fmt.Errorf("%w: cannot start a session with yourself", ErrInvalidArgument)
	}

	doc := Doc{
		"users":     []string{initiatorID, partnerID},
		"mode":      mode,
		"matches":   []string{},
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	}

	var lastErr error
	for attempt := 0; attempt < sessionCreateAttempts; attempt++ {
		sessionID := "session-" + uuid.NewString()
		err := ss.Store.Create(ctx, SessionPath(sessionID), doc)
		if err == nil {
			return sessionID, nil
		}
		if !errors.Is(err, ErrAlreadyExists) {
			return "", err
		}
		log.Printf("Session id collision on %s, retrying", sessionID)
		lastErr = err
	}
	return "", fmt.Errorf("failed to allocate a session id: %w", lastErr)
}

// JoinSession adds userID to the session's users set. It is a no-op if
// the user is already a member.
func (ss *SessionService) JoinSession(ctx context.Context, sessionID, userID string) error {
	if sessionID == "" || userID == "" {
		return fmt.Errorf("%w: session and user are required", ErrInvalidArgument)
	}

	doc, err := ss.Store.Get(ctx, SessionPath(sessionID))
	if err != nil {
		return err
	}
	if utils.ContainsString(utils.GetStringSlice(doc, "users"), userID) {
		return nil
	}

	_, _, err = ss.Store.UpdateUnion(ctx, SessionPath(sessionID), "users", userID)
	return err
}

// GetSession returns the session if callerID is a member.
func (ss *SessionService) GetSession(ctx context.Context, sessionID, callerID string) (*models.Session, error) {
	doc, err := ss.Store.Get(ctx, SessionPath(sessionID))
	if err != nil {
		return nil, err
	}
	session := sessionFromDoc(doc)
	if !session.HasUser(callerID) {
		return nil, ErrAccessDenied
	}
	return session, nil
}

// SubscribeSession establishes a live subscription on the session.
// onUpdate fires once immediately with the current state (nil if the
// session does not exist) and again on every mutation; onError fires
// on transport failure instead. The caller must be a session member
// when the session exists.
func (ss *SessionService) SubscribeSession(ctx context.Context, sessionID, callerID string, onUpdate func(*models.Session), onError func(error)) (Unsubscribe, error) {
	if sessionID == "" || callerID == "" {
		return nil, fmt.Errorf("%w: session and caller are required", ErrInvalidArgument)
	}

	doc, err := ss.Store.Get(ctx, SessionPath(sessionID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if doc != nil && !sessionFromDoc(doc).HasUser(callerID) {
		return nil, ErrAccessDenied
	}

	return ss.Store.Subscribe(SessionPath(sessionID), func(d Doc) {
		onUpdate(sessionFromDoc(d))
	}, onError)
}
