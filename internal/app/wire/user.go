package wire

import "eventbook/internal/app/model"

// ToUser transforms a raw user record into the canonical entity. The mirrored
// registration list is deduplicated on ingestion; set semantics are intended
// even when the store has accumulated duplicates.
func ToUser(w User) model.User {
	return model.User{
		ID:                 w.ID,
		Name:               w.Name,
		Email:              w.Email,
		Password:           w.Password,
		Avatar:             w.Avatar,
		RegisteredEventIDs: dedupe(w.RegisteredEventIDs),
		CreatedAt:          w.CreatedAt,
	}
}

// ToUsers transforms a slice of raw user records.
func ToUsers(ws []User) []model.User {
	users := make([]model.User, 0, len(ws))
	for _, w := range ws {
		users = append(users, ToUser(w))
	}
	return users
}

// FromUser transforms a canonical user into its wire record. Empty string
// fields are omitted by the encoder rather than nulled; the registration list
// is carried as-is so an empty (non-nil) list clears the remote mirror.
func FromUser(u model.User) User {
	return User{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Password:           u.Password,
		Avatar:             u.Avatar,
		RegisteredEventIDs: u.RegisteredEventIDs,
		CreatedAt:          u.CreatedAt,
	}
}

// dedupe suppresses duplicate ids while preserving first-seen order.
func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
