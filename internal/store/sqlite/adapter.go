package sqlite

import (
	"context"
	"database/sql"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store"
)

// mealRankExpr orders rows by the fixed meal order. Meal types outside the
// canonical four (possible in pre-existing rows) sort after them.
const mealRankExpr = `CASE meal_type
        WHEN 'breakfast' THEN 0
        WHEN 'lunch' THEN 1
        WHEN 'dinner' THEN 2
        WHEN 'snack' THEN 3
        ELSE 4 END`

// sqliteStore implements store.Store on SQLite.
type sqliteStore struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database file and applies the schema.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wires an existing connection (used by the factory and tests).
func NewWithDB(db *sql.DB) (store.Store, error) {
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) FoodLog() store.FoodLog               { return &foodLog{db: s.db} }
func (s *sqliteStore) CustomProducts() store.CustomProducts { return &customProducts{db: s.db} }
func (s *sqliteStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

// --- Food log ---

type foodLog struct{ db *sql.DB }

func (f *foodLog) Insert(ctx context.Context, e *model.FoodEntry) (int64, error) {
	var barcode any
	if e.Barcode != "" {
		barcode = e.Barcode
	}
	res, err := f.db.ExecContext(ctx, `INSERT INTO food_log
        (date, meal_type, product_name, barcode, amount_g,
         calories_kcal, proteins_g, fats_g, carbs_g, sugars_g, fiber_g)
        VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		e.Date, string(e.MealType), e.ProductName, barcode, e.AmountG,
		e.CaloriesKcal, e.ProteinsG, e.FatsG, e.CarbsG, e.SugarsG, e.FiberG)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (f *foodLog) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := f.db.ExecContext(ctx, `DELETE FROM food_log WHERE id = ?`, id)
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
        FROM food_log WHERE date = ?
        ORDER BY `+mealRankExpr+`, id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.FoodEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntry(rows *sql.Rows) (*model.FoodEntry, error) {
	var (
		e       model.FoodEntry
		meal    string
		barcode sql.NullString
		// pre-existing rows may carry NULL nutrient columns; read as 0
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
	return &e, nil
}

// --- Custom products ---

type customProducts struct{ db *sql.DB }

const customColumns = `id, name, brand, serving_g, calories_kcal_100g,
    proteins_g_100g, fats_g_100g, carbs_g_100g, sugars_g_100g, fiber_g_100g`

func (c *customProducts) Create(ctx context.Context, p *model.CustomProduct) (int64, error) {
	res, err := c.db.ExecContext(ctx, `INSERT INTO custom_products
        (name, brand, serving_g, calories_kcal_100g,
         proteins_g_100g, fats_g_100g, carbs_g_100g, sugars_g_100g, fiber_g_100g)
        VALUES (?,?,?,?,?,?,?,?,?)`,
		p.Name, p.Brand, p.ServingG, p.CaloriesKcal100g,
		p.ProteinsG100g, p.FatsG100g, p.CarbsG100g, p.SugarsG100g, p.FiberG100g)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (c *customProducts) FindByNameOrID(ctx context.Context, identifier string) (*model.CustomProduct, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+customColumns+`
        FROM custom_products
        WHERE name = ? COLLATE NOCASE OR CAST(id AS TEXT) = ?
        ORDER BY id LIMIT 1`, identifier, identifier)
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
	res, err := c.db.ExecContext(ctx, `DELETE FROM custom_products WHERE id = ?`, id)
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
		prot, fat, carb, sugar, fiber, cal sql.NullFloat64
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
