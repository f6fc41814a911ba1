package domain

import "github.com/google/uuid"

// Category scopes article fetch and cache. Global categories have no owner;
// user-created categories are deletable only by their owner.
type Category struct {
	ID      uuid.UUID  `json:"id"`
	Label   string     `json:"label"`
	Value   string     `json:"value"`
	OwnerID *uuid.UUID `json:"ownerId,omitempty"`
}

func (c Category) Global() bool {
	return c.OwnerID == nil
}

func (c Category) OwnedBy(userID uuid.UUID) bool {
	return c.OwnerID != nil && *c.OwnerID == userID
}
