package model

import "time"

// FollowModel mirrors the 'follows' table. The composite primary key
// guarantees at most one edge per ordered pair.
type FollowModel struct {
	FollowerID int64 `gorm:"primaryKey;autoIncrement:false"`
	FollowedID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (FollowModel) TableName() string {
	return "follows"
}
