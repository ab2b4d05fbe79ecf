package migrations

import (
	"database/sql"
	"time"
)

// AutoMigrateSweets creates the sweets table if it does not exist. The legacy
// image_url column is kept readable for records imported from the old system.
func AutoMigrateSweets(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS sweets (
			id CHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			rate DOUBLE NOT NULL DEFAULT 0,
			description TEXT,
			image MEDIUMTEXT,
			image_url MEDIUMTEXT,
			category VARCHAR(255),
			unit VARCHAR(10)
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateOrders creates the orders table if it does not exist. Items live
// inline in a JSON column; there is no separate item table.
func AutoMigrateOrders(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS orders (
			id CHAR(36) PRIMARY KEY,
			customer_name VARCHAR(255) NOT NULL DEFAULT '',
			mobile VARCHAR(32) NOT NULL DEFAULT '',
			address TEXT,
			order_date CHAR(10),
			delivery_date CHAR(10),
			total DOUBLE NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'Pending',
			preference VARCHAR(255),
			items JSON NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);
	`
	return execWithRetry(db, query, retries)
}

func execWithRetry(db *sql.DB, query string, retries int) error {
	_, err := db.Exec(query)
	if err != nil {
		// Retry creating the table
		for i := 0; i < retries; i++ {
			time.Sleep(1 * time.Second)
			_, err = db.Exec(query)
			if err == nil {
				break
			}
		}
	}
	return err
}
