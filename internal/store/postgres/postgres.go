// Package postgres implements the store contract on PostgreSQL via the pgx
// stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store"
)

const mealRankExpr = `CASE meal_type
        WHEN 'breakfast' THEN 0
        WHEN 'lunch' THEN 1
        WHEN 'dinner' THEN 2
        WHEN 'snack' THEN 3
        ELSE 4 END`

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the tables if they do not exist. Safe to run on every
// startup.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS food_log (
            id BIGSERIAL PRIMARY KEY,
            date TEXT NOT NULL,
            meal_type TEXT NOT NULL,
            product_name TEXT NOT NULL,
            barcode TEXT,
            amount_g DOUBLE PRECISION NOT NULL,
            calories_kcal DOUBLE PRECISION,
            proteins_g DOUBLE PRECISION,
            fats_g DOUBLE PRECISION,
            carbs_g DOUBLE PRECISION,
            sugars_g DOUBLE PRECISION,
            fiber_g DOUBLE PRECISION,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_food_log_date ON food_log(date);`,
		`CREATE TABLE IF NOT EXISTS custom_products (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            brand TEXT,
            serving_g DOUBLE PRECISION,
            calories_kcal_100g DOUBLE PRECISION NOT NULL,
            proteins_g_100g DOUBLE PRECISION,
            fats_g_100g DOUBLE PRECISION,
            carbs_g_100g DOUBLE PRECISION,
            sugars_g_100g DOUBLE PRECISION,
            fiber_g_100g DOUBLE PRECISION,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// NewWithDB constructs a Postgres store backed by an existing connection.
func NewWithDB(db *sql.DB) (store.Store, error) {
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	return &pgStore{db: db}, nil
}

type pgStore struct{ db *sql.DB }

func (s *pgStore) FoodLog() store.FoodLog               { return &foodLog{db: s.db} }
func (s *pgStore) CustomProducts() store.CustomProducts { return &customProducts{db: s.db} }
func (s *pgStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

// --- Food log ---

type foodLog struct{ db *sql.DB }

func (f *foodLog) Insert(ctx context.Context, e *model.FoodEntry) (int64, error) {
	var barcode any
	if e.Barcode != "" {
		barcode = e.Barcode
	}
	var id int64
	err := f.db.QueryRowContext(ctx, `INSERT INTO food_log
        (date, meal_type, product_name, barcode, amount_g,
         calories_kcal, proteins_g, fats_g, carbs_g, sugars_g, fiber_g)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id`,
		e.Date, string(e.MealType), e.ProductName, barcode, e.AmountG,
		e.CaloriesKcal, e.ProteinsG, e.FatsG, e.CarbsG, e.SugarsG, e.FiberG).Scan(&id)
	return id, err
}

func (f *foodLog) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := f.db.ExecContext(ctx, `DELETE FROM food_log WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (f *foodLog) EntriesForDate(ctx context.Context, date string) ([]*model.FoodEntry, error) {
	rows, err := f.db.QueryContext(ctx, `SELECT id, date, meal_type, product_name, barcode, amount_g,
            calories_kcal, proteins_g, fats_g, carbs_g, sugars_g, fiber_g
        FROM food_log WHERE date = $1
        ORDER BY `+mealRankExpr+`, id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.FoodEntry
	for rows.Next() {
		var (
			e                                  model.FoodEntry
			meal                               string
			barcode                            sql.NullString
			cal, prot, fat, carb, sugar, fiber sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.Date, &meal, &e.ProductName, &barcode, &e.AmountG,
			&cal, &prot, &fat, &carb, &sugar, &fiber); err != nil {
			return nil, err
		}
		e.MealType = model.MealType(meal)
		e.Barcode = barcode.String
		e.CaloriesKcal = cal.Float64
		e.ProteinsG = prot.Float64
		e.FatsG = fat.Float64
		e.CarbsG = carb.Float64
		e.SugarsG = sugar.Float64
		e.FiberG = fiber.Float64
		out = append(out, &e)
	}
	return out, rows.Err()
}

// --- Custom products ---

type customProducts struct{ db *sql.DB }

const customColumns = `id, name, brand, serving_g, calories_kcal_100g,
    proteins_g_100g, fats_g_100g, carbs_g_100g, sugars_g_100g, fiber_g_100g`

func (c *customProducts) Create(ctx context.Context, p *model.CustomProduct) (int64, error) {
	var id int64
	err := c.db.QueryRowContext(ctx, `INSERT INTO custom_products
        (name, brand, serving_g, calories_kcal_100g,
         proteins_g_100g, fats_g_100g, carbs_g_100g, sugars_g_100g, fiber_g_100g)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id`,
		p.Name, p.Brand, p.ServingG, p.CaloriesKcal100g,
		p.ProteinsG100g, p.FatsG100g, p.CarbsG100g, p.SugarsG100g, p.FiberG100g).Scan(&id)
	return id, err
}

func (c *customProducts) FindByNameOrID(ctx context.Context, identifier string) (*model.CustomProduct, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+customColumns+`
        FROM custom_products
        WHERE lower(name) = lower($1) OR id::text = $1
        ORDER BY id LIMIT 1`, identifier)
	p, err := scanCustom(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (c *customProducts) List(ctx context.Context) ([]*model.CustomProduct, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+customColumns+` FROM custom_products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.CustomProduct
	for rows.Next() {
		p, err := scanCustom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (c *customProducts) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM custom_products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustom(row rowScanner) (*model.CustomProduct, error) {
	var (
		p                                  model.CustomProduct
		brand                              sql.NullString
		serving                            sql.NullFloat64
		cal, prot, fat, carb, sugar, fiber sql.NullFloat64
	)
	if err := row.Scan(&p.ID, &p.Name, &brand, &serving, &cal,
		&prot, &fat, &carb, &sugar, &fiber); err != nil {
		return nil, err
	}
	p.Brand = brand.String
	p.ServingG = serving.Float64
	p.CaloriesKcal100g = cal.Float64
	p.ProteinsG100g = prot.Float64
	p.FatsG100g = fat.Float64
	p.CarbsG100g = carb.Float64
	p.SugarsG100g = sugar.Float64
	p.FiberG100g = fiber.Float64
	return &p, nil
}
