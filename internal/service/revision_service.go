package service

import (
	"context"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

type revisionLister interface {
	List(ctx context.Context, filter models.RevisionFilter) ([]models.Revision, error)
}

// RevisionService lists revisions. New revisions are created through WorkLifecycleService.
type RevisionService struct {
	repo revisionLister
}

// NewRevisionService constructs a RevisionService.
func NewRevisionService(repo revisionLister) *RevisionService {
	return &RevisionService{repo: repo}
}

// List returns revisions matching filter.
func (s *RevisionService) List(ctx context.Context, filter models.RevisionFilter) ([]models.Revision, error) {
	revisions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list revisions")
	}
	if revisions == nil {
		revisions = []models.Revision{}
	}
	return revisions, nil
}
