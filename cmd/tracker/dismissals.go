package main

import (
	"context"

	"github.com/google/uuid"
)

// noDismissals backs one-shot commands that never read reminders.
type noDismissals struct{}

func (noDismissals) Dismiss(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (noDismissals) Dismissed(context.Context, uuid.UUID) (map[uuid.UUID]bool, error) {
	return nil, nil
}
