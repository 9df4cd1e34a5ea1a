package override

import (
	"context"
	"errors"
	"time"
)

type OverrideRepository interface {
	// Upsert replaces any override of the same (date, slot, original teacher).
	Upsert(ctx context.Context, o *Override) error
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, date time.Time, slotID, originalTeacherID string) (*Override, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Override, error)
}

// EffectiveTeacher resolves a single session against the stored overrides.
func EffectiveTeacher(ctx context.Context, repo OverrideRepository, teacherID string, date time.Time, slotID string) (string, error) {
	o, err := repo.Find(ctx, date, slotID, teacherID)
	if err != nil {
		if errors.Is(err, ErrOverrideNotFound) {
			return teacherID, nil
		}
		return "", err
	}
	return o.SubstituteTeacherID, nil
}
