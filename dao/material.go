package dao

import (
	"context"
	"errors"

	"meditation-assistant-backend/model"

	"gorm.io/gorm"
)

func (s *Store) CreateMaterial(ctx context.Context, material *model.Material) error {
	return s.db.WithContext(ctx).Create(material).Error
}

func (s *Store) UpdateMaterial(ctx context.Context, material *model.Material) error {
	result := s.db.WithContext(ctx).
		Model(&model.Material{}).
		Where("id = ?", material.ID).
		Updates(map[string]any{
			"title":            material.Title,
			"description":      material.Description,
			"category_id":      material.CategoryID,
			"duration_seconds": material.DurationSeconds,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateMaterialAsset(ctx context.Context, id uint, audioObjectName, scriptObjectName string, scriptType model.ScriptType) error {
	result := s.db.WithContext(ctx).
		Model(&model.Material{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"audio_object_name":  audioObjectName,
			"script_object_name": scriptObjectName,
			"script_type":        scriptType,
			"index_status":       model.IndexStatusPending,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateMaterialIndexStatus(ctx context.Context, id uint, status model.IndexStatus) error {
	return s.db.WithContext(ctx).
		Model(&model.Material{}).
		Where("id = ?", id).
		Update("index_status", status).Error
}

func (s *Store) DeleteMaterial(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Material{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetMaterialByID(ctx context.Context, id uint) (*model.Material, error) {
	var material model.Material
	if err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// GetMaterialsByIDs 按传入顺序返回素材，缺失的ID被跳过
func (s *Store) GetMaterialsByIDs(ctx context.Context, ids []uint) ([]model.Material, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var materials []model.Material
	if err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&materials).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]model.Material, len(materials))
	for _, m := range materials {
		byID[m.ID] = m
	}

	ordered := make([]model.Material, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}

// ListMaterials 按分类过滤素材，categoryID 为 0 时返回全部
func (s *Store) ListMaterials(ctx context.Context, categoryID uint) ([]model.Material, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var materials []model.Material
	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}
