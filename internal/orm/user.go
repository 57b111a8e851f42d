package orm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	Name      string
	Age       *int
	Email     string `gorm:"uniqueIndex"`
	Password  string
	Avatar    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the name of the table for the User model
func (u *User) TableName() string {
	return "user"
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) BeforeCreate(transaction *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (c *DatabaseClient) SelectUserByID(ID string) (*User, error) {
	var user User
	tx := c.database.
		Select(
			[]string{
				"id",
				"name",
				"age",
				"email",
				"password",
				"avatar",
				"created_at",
				"updated_at",
			},
		).
		Where("id = ?", ID).
		First(&user)

	if tx.Error != nil {
		return nil, tx.Error
	}

	return &user, nil
}

func (c *DatabaseClient) SelectUserByEmail(email string) (*User, error) {
	var user User
	tx := c.database.
		Select(
			[]string{
				"id",
				"name",
				"age",
				"email",
				"password",
				"avatar",
				"created_at",
				"updated_at",
			},
		).
		Where("email = ?", email).
		First(&user)

	if tx.Error != nil {
		return nil, tx.Error
	}

	return &user, nil
}

func (c *DatabaseClient) SelectUsers() ([]*User, error) {
	var users []*User
	tx := c.database.
		Select([]string{"id", "name", "age", "email", "avatar", "created_at"}).
		Order("created_at ASC").
		Find(&users)

	if tx.Error != nil {
		return nil, tx.Error
	}

	return users, nil
}

func (c *DatabaseClient) InsertUser(user *User) error {
	tx := c.database.Create(user)
	return tx.Error
}

func (c *DatabaseClient) UpdateUser(user *User) error {
	tx := c.database.Model(user).Updates(user)
	return tx.Error
}

func (c *DatabaseClient) DeleteUser(user *User) error {
	tx := c.database.Delete(user)
	return tx.Error
}
