package lead

import (
	"context"
	"fmt"

	leadRepo "solarbot/database/repository/lead"
	"solarbot/models"

	"go.uber.org/zap"
)

// CRM receives booked leads.
type CRM interface {
	CreateLead(ctx context.Context, l models.Lead) (string, error)
}

// Service turns lead:capture payloads into stored leads.
type Service struct {
	Repo   leadRepo.LeadRepository // nil when MongoDB is not configured
	CRM    CRM                     // nil when Airtable is not configured
	Logger *zap.Logger
}

func NewService(repo leadRepo.LeadRepository, crm CRM, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Repo: repo, CRM: crm, Logger: logger}
}

// Capture is safe to retry: the repository deduplicates by event id and a
// lead already forwarded to the CRM is not sent again.
func (s *Service) Capture(ctx context.Context, p models.LeadPayload) (*models.Lead, error) {
	l := &models.Lead{
		ThreadID:    p.ThreadID,
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		Address:     p.Address,
		EventID:     p.EventID,
		EventLink:   p.EventLink,
		Appointment: p.Appointment,
		Source:      "api",
	}
	if p.ThreadID != "" {
		l.Source = "chat"
	}

	if s.Repo != nil {
		stored, err := s.Repo.Upsert(ctx, *l)
		if err != nil {
			return nil, fmt.Errorf("failed to store lead: %w", err)
		}
		l = stored
	}

	if s.CRM == nil || l.AirtableID != "" {
		return l, nil
	}
	recordID, err := s.CRM.CreateLead(ctx, *l)
	if err != nil {
		return l, fmt.Errorf("failed to forward lead: %w", err)
	}
	l.AirtableID = recordID
	if s.Repo != nil {
		if err := s.Repo.SetAirtableID(ctx, l.ID, recordID); err != nil {
			s.Logger.Error("Failed to record Airtable id", zap.String("leadID", l.ID), zap.Error(err))
		}
	}
	s.Logger.Info("Lead captured", zap.String("eventID", l.EventID), zap.String("airtableID", recordID))
	return l, nil
}
