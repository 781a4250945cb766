package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// IngredientCategory groups shopping cart items for display.
type IngredientCategory string

const (
	CategoryProduce IngredientCategory = "PRODUCE"
	CategoryDairy   IngredientCategory = "DAIRY"
	CategoryMeat    IngredientCategory = "MEAT"
	CategorySeafood IngredientCategory = "SEAFOOD"
	CategoryBakery  IngredientCategory = "BAKERY"
	CategoryFrozen  IngredientCategory = "FROZEN"
	CategoryPantry  IngredientCategory = "PANTRY"
	CategoryMisc    IngredientCategory = "MISC"
)

// IngredientKind tags the two stored shapes of a recipe ingredient.
type IngredientKind int

const (
	IngredientFreeText IngredientKind = iota
	IngredientStructured
)

// IngredientEntry is one element of a recipe's ingredient list. Recipe data
// is heterogeneous: entries typed in by hand are bare strings ("2 cups
// flour"), entries produced by extraction are structured documents with
// name/quantity/unit and sometimes a category. An entry round-trips (JSON
// and BSON) in whichever shape it was stored.
type IngredientEntry struct {
	Kind IngredientKind

	// Free-text variant payload.
	Text string

	// Structured variant. Name may be empty when the source document had
	// neither "name" nor the legacy "ingredient" key; consumers decide the
	// fallback. Quantity is kept as text, never parsed.
	Name     string
	Quantity string
	Unit     string
	Category IngredientCategory
}

// structuredIngredient is the stored document shape of the structured variant.
type structuredIngredient struct {
	Name     string             `bson:"name" json:"name"`
	Quantity string             `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Unit     string             `bson:"unit,omitempty" json:"unit,omitempty"`
	Category IngredientCategory `bson:"category,omitempty" json:"category,omitempty"`
}

// rawIngredient accepts both key spellings and any quantity type on decode.
type rawIngredient struct {
	Name       string             `bson:"name" json:"name"`
	Ingredient string             `bson:"ingredient" json:"ingredient"` // legacy key
	Quantity   interface{}        `bson:"quantity" json:"quantity"`
	Unit       string             `bson:"unit" json:"unit"`
	Category   IngredientCategory `bson:"category" json:"category"`
}

func (r rawIngredient) entry() IngredientEntry {
	name := r.Name
	if name == "" {
		name = r.Ingredient
	}
	return IngredientEntry{
		Kind:     IngredientStructured,
		Name:     name,
		Quantity: quantityText(r.Quantity),
		Unit:     r.Unit,
		Category: r.Category,
	}
}

// quantityText renders a stored quantity as text. Older recipes hold numbers,
// newer ones strings; the cart only ever displays the value.
func quantityText(v interface{}) string {
	switch q := v.(type) {
	case nil:
		return ""
	case string:
		return q
	case json.Number:
		return q.String()
	case int32:
		return fmt.Sprintf("%d", q)
	case int64:
		return fmt.Sprintf("%d", q)
	case float64:
		if q == float64(int64(q)) {
			return fmt.Sprintf("%d", int64(q))
		}
		return fmt.Sprintf("%g", q)
	default:
		return fmt.Sprintf("%v", q)
	}
}

func (e IngredientEntry) MarshalJSON() ([]byte, error) {
	if e.Kind == IngredientFreeText {
		return json.Marshal(e.Text)
	}
	return json.Marshal(structuredIngredient{
		Name:     e.Name,
		Quantity: e.Quantity,
		Unit:     e.Unit,
		Category: e.Category,
	})
}

func (e *IngredientEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*e = IngredientEntry{Kind: IngredientFreeText, Text: s}
		return nil
	}

	var raw rawIngredient
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*e = raw.entry()
	return nil
}

func (e IngredientEntry) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if e.Kind == IngredientFreeText {
		return bson.MarshalValue(e.Text)
	}
	return bson.MarshalValue(structuredIngredient{
		Name:     e.Name,
		Quantity: e.Quantity,
		Unit:     e.Unit,
		Category: e.Category,
	})
}

func (e *IngredientEntry) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		s, ok := rv.StringValueOK()
		if !ok {
			return fmt.Errorf("malformed string ingredient entry")
		}
		*e = IngredientEntry{Kind: IngredientFreeText, Text: s}
		return nil
	case bsontype.EmbeddedDocument:
		var raw rawIngredient
		if err := rv.Unmarshal(&raw); err != nil {
			return err
		}
		*e = raw.entry()
		return nil
	default:
		return fmt.Errorf("cannot decode BSON %s as ingredient entry", t)
	}
}
