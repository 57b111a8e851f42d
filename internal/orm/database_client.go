package orm

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type DatabaseClient struct {
	database *gorm.DB
}

func NewPostgresClient(host string, port string, user string, password string, dbname string) (*DatabaseClient, error) {
	database, err := gorm.Open(
		postgres.Open(
			fmt.Sprintf(
				"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				host,
				port,
				user,
				password,
				dbname,
			),
		),
		&gorm.Config{
			TranslateError: true,
		},
	)
	if err != nil {
		return nil, err
	}

	rawDatabase, err := database.DB()
	if err != nil {
		return nil, err
	}

	rawDatabase.SetMaxOpenConns(10)
	rawDatabase.SetMaxIdleConns(2)
	rawDatabase.SetConnMaxIdleTime(5 * time.Second)

	return &DatabaseClient{
		database: database,
	}, nil
}

func NewPostgresClientFromDSN(dsn string) (*DatabaseClient, error) {
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	return &DatabaseClient{
		database: database,
	}, nil
}

// NewDatabaseClient wraps an already opened gorm connection. Tests use this
// with the sqlite driver.
func NewDatabaseClient(database *gorm.DB) *DatabaseClient {
	return &DatabaseClient{
		database: database,
	}
}

// Migrate creates or updates the schema for all models, including the unique
// (user_id, post_id) index backing the interaction ledger.
func (c *DatabaseClient) Migrate() error {
	return c.database.AutoMigrate(
		&User{},
		&Post{},
		&PostInteraction{},
	)
}

func (c *DatabaseClient) CountUsers() (int64, error) {
	var count int64
	if err := c.database.Model(&User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
