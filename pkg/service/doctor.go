package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mattsolo1/kettle/pkg/vault"
)

// Severity ranks a diagnosed issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// resolutionProbe sits away from every minute, hour and day boundary.
var resolutionProbe = time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)

// Issue is a configuration problem found by Diagnose.
type Issue struct {
	Severity Severity
	Message  string
	Hint     string
}

// Diagnose checks the current settings against the vault and reports
// anything that will make note creation fail or behave unexpectedly.
func (s *Service) Diagnose(ctx context.Context) ([]Issue, error) {
	cfg := s.Settings()
	now := s.clock.Now().UTC()
	var issues []Issue

	name := RenderName(cfg.Format, now)
	if err := ValidateName(name); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("format %q renders an unusable note name: %v", cfg.Format, err),
			Hint:     "Remove path separators and reserved characters from the format, or wrap literal text in [brackets]",
		})
	} else if RenderName(cfg.Format, resolutionProbe) == RenderName(cfg.Format, resolutionProbe.Add(time.Second)) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("format %q does not change from second to second", cfg.Format),
			Hint:     "Only one note can be created per period; repeated triggers will report that the note already exists",
		})
	}

	if cfg.Location != "" {
		folder := vault.NormalizePath(cfg.Location)
		if folder != cfg.Location {
			issues = append(issues, Issue{
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("location %q resolves to %q", cfg.Location, folder),
			})
		}
		if folder != "/" {
			exists, err := s.storage.Exists(ctx, folder)
			if err != nil {
				return issues, fmt.Errorf("check location: %w", err)
			}
			if !exists {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Message:  fmt.Sprintf("location folder %q does not exist in the vault", folder),
					Hint:     "Create the folder or change the location with 'kettle settings set location <folder>'",
				})
			}
		}
	}

	return issues, nil
}
