package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Seed is the initial data a snapshot is built from.
type Seed struct {
	Accounts     []Account     `json:"accounts" validate:"dive"`
	Categories   []Category    `json:"categories" validate:"dive"`
	Transactions []Transaction `json:"transactions" validate:"dive"`
	Budgets      []Budget      `json:"budgets" validate:"dive"`
}

var ErrDuplicateID = errors.New("duplicate id")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// seedValidator returns the shared validator with the domain rules registered.
func seedValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("category_type", validateCategoryType)
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}

func validateCategoryType(fl validator.FieldLevel) bool {
	return CategoryType(fl.Field().String()).IsValid()
}

// Validate checks field rules on every entity and that ids are unique
// within each collection. References between entities are not checked:
// a transaction may point at an unknown account.
func (s Seed) Validate() error {
	if err := seedValidator().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid seed: %s", formatValidationErrors(verrs))
		}
		return fmt.Errorf("invalid seed: %w", err)
	}

	checks := []struct {
		kind string
		ids  []string
	}{
		{"account", collectIDs(s.Accounts, func(a Account) string { return a.ID })},
		{"category", collectIDs(s.Categories, func(c Category) string { return c.ID })},
		{"transaction", collectIDs(s.Transactions, func(t Transaction) string { return t.ID })},
		{"budget", collectIDs(s.Budgets, func(b Budget) string { return b.ID })},
	}
	for _, c := range checks {
		seen := make(map[string]struct{}, len(c.ids))
		for _, id := range c.ids {
			if _, ok := seen[id]; ok {
				return fmt.Errorf("%s %q: %w", c.kind, id, ErrDuplicateID)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

func collectIDs[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func formatValidationErrors(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
