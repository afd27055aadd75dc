package models

// UserProfile defines the structure for user profiles. Friends holds
// the user IDs of mutually added friends.
type UserProfile struct {
	UserID      string   `json:"userId"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName,omitempty"`
	PhotoKey    string   `json:"photoKey,omitempty"`
	Friends     []string `json:"friends,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles.
const UserProfilesTable = "UserProfiles"
