package offclient

import (
	"encoding/json"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
)

// rawProduct mirrors the subset of an OpenFoodFacts payload we consume.
// Nutriments stay a loose map because the API mixes numbers and numeric
// strings depending on the contributor.
type rawProduct struct {
	Code            string         `json:"code"`
	ID              string         `json:"_id"`
	ProductName     string         `json:"product_name"`
	ProductNamePl   string         `json:"product_name_pl"`
	Brands          string         `json:"brands"`
	NutritionGrades string         `json:"nutrition_grades"`
	NovaGroups      any            `json:"nova_groups"`
	ImageURL        string         `json:"image_url"`
	ServingSize     string         `json:"serving_size"`
	Nutriments      map[string]any `json:"nutriments"`
}

type searchResponse struct {
	Products []json.RawMessage `json:"products"`
}

type productResponse struct {
	Status  any             `json:"status"`
	Product json.RawMessage `json:"product"`
}

// decodeSearchBody normalizes a search payload, skipping individual items
// that fail to decode. A body that is not valid JSON at the top level is an
// error, never an empty result set. Returns the products and how many items
// were skipped.
func decodeSearchBody(body []byte) ([]*model.Product, int, error) {
	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, 0, err
	}
	var out []*model.Product
	skipped := 0
	for _, item := range sr.Products {
		var rp rawProduct
		if err := json.Unmarshal(item, &rp); err != nil {
			skipped++
			continue
		}
		out = append(out, rp.normalize())
	}
	return out, skipped, nil
}

// decodeProductBody normalizes a /api/v2/product payload. A status of 0
// means product unknown and yields (nil, nil).
func decodeProductBody(body []byte) (*model.Product, error) {
	var pr productResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, err
	}
	if status, ok := asFloat(pr.Status); ok && status == 0 {
		return nil, nil
	}
	raw := pr.Product
	if len(raw) == 0 {
		// Some endpoints return the product at the top level.
		raw = body
	}
	var rp rawProduct
	if err := json.Unmarshal(raw, &rp); err != nil {
		return nil, err
	}
	return rp.normalize(), nil
}

func (rp *rawProduct) normalize() *model.Product {
	barcode := rp.Code
	if barcode == "" {
		barcode = rp.ID
	}
	name := rp.ProductNamePl
	if name == "" {
		name = rp.ProductName
	}
	nova := 0
	if v, ok := asFloat(rp.NovaGroups); ok {
		nova = int(v)
	}
	return &model.Product{
		Barcode:        barcode,
		Name:           name,
		Brands:         rp.Brands,
		NutritionGrade: rp.NutritionGrades,
		NovaGroup:      nova,
		ImageURL:       rp.ImageURL,
		ServingSize:    rp.ServingSize,
		Nutrients:      rp.nutrients(),
	}
}

func (rp *rawProduct) nutrients() model.NutrientProfile {
	var n model.NutrientProfile
	n.CaloriesKcal = rp.nutriment("energy-kcal_100g")
	n.ProteinsG = rp.nutriment("proteins_100g")
	n.FatsG = rp.nutriment("fat_100g")
	n.CarbsG = rp.nutriment("carbohydrates_100g")
	n.SugarsG = rp.nutriment("sugars_100g")
	n.FiberG = rp.nutriment("fiber_100g")
	n.SaltG = rp.nutriment("salt_100g")
	return n
}

// nutriment extracts a per-100g value, tolerating numbers encoded as strings.
// Missing or unparsable values are 0 so downstream sums stay well-defined.
func (rp *rawProduct) nutriment(key string) float64 {
	v, ok := rp.Nutriments[key]
	if !ok {
		return 0
	}
	if f, ok := asFloat(v); ok {
		return f
	}
	return 0
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		var f float64
		if err := json.Unmarshal([]byte(x), &f); err == nil {
			return f, true
		}
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}
