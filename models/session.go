package models

import "errors"

// Session modes select which movie catalog subset a session swipes on.
const (
	ModeCinema = "cinema"
	ModeHome   = "home"
)

// ErrUnknownMode is returned by ParseMode for anything that is not
// "cinema" or "home".
var ErrUnknownMode = errors.New("unknown session mode")

// ParseMode validates a session mode string.
func ParseMode(mode string) (string, error) {
	switch mode {
	case ModeCinema, ModeHome:
		return mode, nil
	default:
		return "", ErrUnknownMode
	}
}

// Session is a shared swiping context between a fixed set of users.
// Matches is append-only and duplicate-free; the order of entries is
// the order in which matches were detected.
type Session struct {
	SessionID string   `json:"sessionId"`
	Users     []string `json:"users"`
	Mode      string   `json:"mode"`
	Matches   []string `json:"matches"`
	CreatedAt string   `json:"createdAt"`
}

// HasUser reports whether userID is a member of the session.
func (s *Session) HasUser(userID string) bool {
	for _, u := range s.Users {
		if u == userID {
			return true
		}
	}
	return false
}

// SessionsTable is the DynamoDB table name for sessions.
const SessionsTable = "Sessions"
