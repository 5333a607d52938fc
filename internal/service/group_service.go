package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitsync/splitsync/internal/models"
	"github.com/splitsync/splitsync/internal/storage"
)

// GroupService owns group CRUD and membership.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create persists a new group. The creator is always a member.
func (s *GroupService) Create(ctx context.Context, creatorID string, g *models.Group) (*models.Group, error) {
	g.CreatedBy = creatorID
	if !g.HasMember(creatorID) {
		g.Members = append(g.Members, creatorID)
	}
	for _, id := range g.Members {
		if _, err := s.store.GetUserByID(ctx, id); err != nil {
			return nil, fmt.Errorf("member %q: %w", id, err)
		}
	}

	if err := s.store.CreateGroup(ctx, g); err != nil {
		return nil, err
	}
	slog.Info("group created", "group_id", g.ID, "name", g.Name, "members", len(g.Members))
	return g, nil
}

// Get returns one group; the viewer must be a member.
func (s *GroupService) Get(ctx context.Context, viewerID, groupID string) (*models.Group, error) {
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.HasMember(viewerID) {
		return nil, ErrNotParticipant
	}
	return g, nil
}

// ListForUser returns the groups the user belongs to.
func (s *GroupService) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByMember(ctx, userID)
}

// Update renames a group. Membership changes go through AddMembers and
// RemoveMember.
func (s *GroupService) Update(ctx context.Context, editorID string, g *models.Group) (*models.Group, error) {
	existing, err := s.store.GetGroup(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	if !existing.HasMember(editorID) {
		return nil, ErrNotParticipant
	}

	existing.Name = g.Name
	if err := s.store.UpdateGroup(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a group. Only the creator may delete it.
func (s *GroupService) Delete(ctx context.Context, editorID, groupID string) error {
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if g.CreatedBy != editorID {
		return ErrNotGroupCreator
	}
	return s.store.DeleteGroup(ctx, groupID)
}

// AddMembers adds users to a group.
func (s *GroupService) AddMembers(ctx context.Context, editorID, groupID string, userIDs []string) (*models.Group, error) {
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.HasMember(editorID) {
		return nil, ErrNotParticipant
	}
	for _, id := range userIDs {
		if _, err := s.store.GetUserByID(ctx, id); err != nil {
			return nil, fmt.Errorf("member %q: %w", id, err)
		}
	}

	if err := s.store.AddGroupMembers(ctx, groupID, userIDs); err != nil {
		return nil, err
	}
	return s.store.GetGroup(ctx, groupID)
}

// RemoveMember removes one user from a group. The creator cannot be
// removed.
func (s *GroupService) RemoveMember(ctx context.Context, editorID, groupID, userID string) (*models.Group, error) {
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.HasMember(editorID) {
		return nil, ErrNotParticipant
	}
	if userID == g.CreatedBy {
		return nil, ErrNotGroupCreator
	}

	if err := s.store.RemoveGroupMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.GetGroup(ctx, groupID)
}
