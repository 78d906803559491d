package services

import (
	"context"

	"focolare/internal/core"
	"focolare/internal/storage"
)

// AssetSourceService manages a group's payment sources.
type AssetSourceService struct {
	store storage.Store
	gate  *Gate
}

func NewAssetSourceService(store storage.Store, gate *Gate) *AssetSourceService {
	return &AssetSourceService{store: store, gate: gate}
}

func (s *AssetSourceService) Create(ctx context.Context, userID string, source *core.AssetSource) (*core.AssetSource, error) {
	if err := s.gate.VerifyAccess(ctx, source.GroupID, userID); err != nil {
		return nil, err
	}
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.InsertAssetSource(ctx, source); err != nil {
		return nil, err
	}
	return source, nil
}

func (s *AssetSourceService) List(ctx context.Context, userID, groupID string) ([]core.AssetSource, error) {
	if err := s.gate.VerifyAccess(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.ListAssetSourcesByGroup(ctx, groupID)
}

func (s *AssetSourceService) Update(ctx context.Context, userID, sourceID, name, color string) (*core.AssetSource, error) {
	source, err := s.store.FindAssetSourceByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.VerifyAccess(ctx, source.GroupID, userID); err != nil {
		return nil, err
	}

	source.Name = name
	source.Color = color
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateAssetSource(ctx, source); err != nil {
		return nil, err
	}
	return source, nil
}

func (s *AssetSourceService) Delete(ctx context.Context, userID, sourceID string) error {
	source, err := s.store.FindAssetSourceByID(ctx, sourceID)
	if err != nil {
		return err
	}
	if err := s.gate.VerifyAccess(ctx, source.GroupID, userID); err != nil {
		return err
	}
	return s.store.DeleteAssetSource(ctx, sourceID)
}
