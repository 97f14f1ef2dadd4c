package model

import (
	"slices"

	"golang.org/x/crypto/bcrypt"
)

// User is an operator of the warehouse API.
type User struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName     string `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	Role         string `gorm:"type:varchar(20);not null;default:'VIEWER'" json:"role" validate:"required"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	TokenVersion string `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Privileges returns the privilege codes granted by the user's role.
func (u *User) Privileges() []string {
	return slices.Clone(RolePrivileges[u.Role])
}

func (u *User) HasPrivilege(code string) bool {
	return slices.Contains(RolePrivileges[u.Role], code)
}
