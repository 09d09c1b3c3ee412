package attendance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// SettingsProvider resolves the organization schedule, preferring the stored row
// over the configured defaults.
type SettingsProvider struct {
	repo     attendance.WorkSettingsRepository
	fallback attendance.WorkSettings
}

func NewSettingsProvider(repo attendance.WorkSettingsRepository, fallback attendance.WorkSettings) *SettingsProvider {
	return &SettingsProvider{repo: repo, fallback: fallback}
}

func (p *SettingsProvider) Current(ctx context.Context) (attendance.WorkSettings, error) {
	if p.repo == nil {
		return p.fallback, nil
	}

	stored, err := p.repo.Get(ctx)
	if err != nil {
		return attendance.WorkSettings{}, fmt.Errorf("failed to load work settings: %w", err)
	}
	if stored == nil {
		return p.fallback, nil
	}
	if err := stored.Validate(); err != nil {
		slog.Warn("stored work settings are invalid, using defaults", "error", err)
		return p.fallback, nil
	}
	return *stored, nil
}
