package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry 键值表
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"index"`
}

// TableName 表名
func (KVEntry) TableName() string {
	return "kv_entries"
}

// KVRepository 基于 gorm 的键值存储
type KVRepository struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get 读取键值
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var entry KVEntry
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry.Value, nil
}

// Put 整体覆盖写入
func (r *KVRepository) Put(ctx context.Context, key string, value []byte) error {
	entry := &KVEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(entry).Error
}

// Delete 删除键
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&KVEntry{}).Error
}
