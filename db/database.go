package db

import (
	"database/sql"
	"fmt"
	"log"

	"spoty/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB creates the collection tables if they don't exist.
//
// None of the catalog tables declare FOREIGN KEY constraints on purpose:
// deletes never cascade, and a genre or artist can be removed while dependent
// records keep their now-dangling reference.
func InitDB() error {
	if err := createUsersTable(); err != nil {
		return err
	}
	if err := createGenresTable(); err != nil {
		return err
	}
	if err := createArtistsTable(); err != nil {
		return err
	}
	if err := createSongsTable(); err != nil {
		return err
	}

	log.Println("Database initialization completed.")
	return nil
}

func createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		display_name VARCHAR(255),
		role ENUM('user', 'admin') NOT NULL DEFAULT 'user',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func createGenresTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS genres (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		image_url VARCHAR(1024) NOT NULL,
		description TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create genres table: %w", err)
	}
	return nil
}

func createArtistsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS artists (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		image_url VARCHAR(1024) NOT NULL,
		genre_id VARCHAR(36) NOT NULL,
		description TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_artists_genre (genre_id)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create artists table: %w", err)
	}
	return nil
}

func createSongsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS songs (
		id VARCHAR(36) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		audio_url VARCHAR(1024) NOT NULL,
		artist_id VARCHAR(36) NOT NULL,
		duration DOUBLE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_songs_artist (artist_id)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create songs table: %w", err)
	}
	return nil
}
