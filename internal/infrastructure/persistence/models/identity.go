package models

import (
	"time"

	"github.com/messhall/backend/internal/domain/identity"
	"github.com/messhall/backend/internal/domain/shared"
)

// UserModel is the persistence model for the staff User entity.
type UserModel struct {
	AggregateModel
	Username     string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null"`
	FullName     string        `gorm:"type:varchar(100)"`
	LastLoginAt  *time.Time    `gorm:"index"`
	LastLoginIP  string        `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		FullName:     m.FullName,
		LastLoginAt:  m.LastLoginAt,
		LastLoginIP:  m.LastLoginIP,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.FullName = u.FullName
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
