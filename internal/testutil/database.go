package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration database. It expects a MySQL instance
// on localhost:3306 with a 'dentalab_test' schema and skips otherwise.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/dentalab_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"OrderLines", "Orders", "ServiceMaterials", "Services", "Materials"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the tables the repositories read and write.
// OrderLines has no foreign keys so orphaned legacy rows can be reproduced.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createMaterialsTable := `
	CREATE TABLE IF NOT EXISTS Materials (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		unit VARCHAR(20) NOT NULL DEFAULT 'u',
		quantity DECIMAL(14,4) NOT NULL DEFAULT 0,
		unitCost DECIMAL(12,4) NOT NULL DEFAULT 0,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT chk_material_quantity CHECK (quantity >= 0)
	)`

	createServicesTable := `
	CREATE TABLE IF NOT EXISTS Services (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		basePrice DECIMAL(12,2) NOT NULL DEFAULT 0,
		materialCost DECIMAL(12,4),
		totalValue DECIMAL(12,4),
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createServiceMaterialsTable := `
	CREATE TABLE IF NOT EXISTS ServiceMaterials (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		serviceId INT UNSIGNED NOT NULL,
		materialId INT UNSIGNED NOT NULL,
		quantity DECIMAL(12,4),
		UNIQUE KEY uq_service_material (serviceId, materialId),
		INDEX idx_material (materialId)
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		deliveryDate DATETIME NOT NULL,
		status VARCHAR(30) NOT NULL DEFAULT 'RECEIVED',
		priority VARCHAR(20) NOT NULL DEFAULT 'NORMAL',
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createOrderLinesTable := `
	CREATE TABLE IF NOT EXISTS OrderLines (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED,
		serviceId INT UNSIGNED,
		quantity INT,
		INDEX idx_order (orderId),
		INDEX idx_service (serviceId)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Materials", createMaterialsTable},
		{"Services", createServicesTable},
		{"ServiceMaterials", createServiceMaterialsTable},
		{"Orders", createOrdersTable},
		{"OrderLines", createOrderLinesTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
