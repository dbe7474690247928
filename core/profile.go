package core

import "context"

// Profile holds the per-user flags tracked by the gateway.
type Profile struct {
	UserID       string `json:"userId"`
	Is18Verified bool   `json:"is18Verified"`
}

type ProfileStore interface {
	// Profile returns the user's profile, creating an unverified one on first use.
	Profile(ctx context.Context, userID string) Profile

	// MarkVerified records that the user completed age verification.
	MarkVerified(ctx context.Context, userID string) Profile
}

type MemoryProfileStore struct {
	profiles *SyncMap[string, Profile]
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: NewSyncMap[string, Profile]()}
}

func (s *MemoryProfileStore) Profile(ctx context.Context, userID string) Profile {
	profile, _ := s.profiles.LoadOrStore(userID, func() Profile {
		return Profile{UserID: userID}
	})
	return profile
}

func (s *MemoryProfileStore) MarkVerified(ctx context.Context, userID string) Profile {
	return s.profiles.LoadAndStore(userID, func(profile Profile, _ bool) Profile {
		profile.UserID = userID
		profile.Is18Verified = true
		return profile
	})
}
