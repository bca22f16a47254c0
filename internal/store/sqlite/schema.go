package sqlite

import "database/sql"

// EnsureSchema creates the food-log and custom-product tables if they do not
// exist. Safe to run on every startup.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS food_log (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            date TEXT NOT NULL,
            meal_type TEXT NOT NULL,
            product_name TEXT NOT NULL,
            barcode TEXT,
            amount_g REAL NOT NULL,
            calories_kcal REAL,
            proteins_g REAL,
            fats_g REAL,
            carbs_g REAL,
            sugars_g REAL,
            fiber_g REAL,
            created_at TEXT DEFAULT (datetime('now'))
        );`,
		`CREATE INDEX IF NOT EXISTS idx_food_log_date ON food_log(date);`,
		`CREATE TABLE IF NOT EXISTS custom_products (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            brand TEXT,
            serving_g REAL,
            calories_kcal_100g REAL NOT NULL,
            proteins_g_100g REAL,
            fats_g_100g REAL,
            carbs_g_100g REAL,
            sugars_g_100g REAL,
            fiber_g_100g REAL,
            created_at TEXT DEFAULT (datetime('now'))
        );`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
