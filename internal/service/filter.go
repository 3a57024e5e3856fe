package service

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"core/internal/dataset"
	"core/internal/model"
	"core/internal/utils"
)

// numericFields are the columns compared as numbers. Everything else in
// the field set is compared as a normalized string.
var numericFields = map[string]bool{
	model.FieldPrice:         true,
	model.FieldRate:          true,
	model.FieldArea:          true,
	model.FieldBedroom:       true,
	model.FieldBathroom:      true,
	model.FieldBalcony:       true,
	model.FieldFloorNum:      true,
	model.FieldTotalFloor:    true,
	model.FieldAgePossession: true,
}

// FilterEngine narrows the property table with column-scoped predicates.
// It never raises on data-shape mismatches: masked fields without a
// dataset column are skipped, and cells that fail numeric coercion are
// treated as unmatched.
type FilterEngine struct {
	logger *zap.Logger
}

// NewFilterEngine creates a filter engine.
func NewFilterEngine(logger *zap.Logger) *FilterEngine {
	return &FilterEngine{logger: logger}
}

// Apply filters the table by the field mask, criteria values and
// comparator directions. The result may be the whole table (nothing
// enabled) or empty; evaluation short-circuits once the row set is empty.
func (f *FilterEngine) Apply(
	table *dataset.Table,
	mask *model.FieldMask,
	criteria *model.SearchCriteria,
	comparators *model.ComparatorMap,
) *dataset.Table {
	result := table

	if mask == nil {
		return result
	}

	// Top-floor restriction runs before the per-column predicates.
	if mask.TopFloor && table.HasColumn(model.FieldFloorNum) && table.HasColumn(model.FieldTotalFloor) {
		result = result.Select(func(row dataset.Row) bool {
			floor, ok1 := parseCellNumber(result, row, model.FieldFloorNum)
			total, ok2 := parseCellNumber(result, row, model.FieldTotalFloor)
			return ok1 && ok2 && floor == total
		})
	}

	for _, field := range mask.Enabled() {
		if result.Len() == 0 {
			break
		}
		if !result.HasColumn(field) {
			f.logger.Debug("masked field has no dataset column, skipping",
				zap.String("field", field))
			continue
		}

		value := criteria.Get(field)
		if value == nil {
			continue
		}
		comparator := comparators.Get(field)

		before := result.Len()
		if numericFields[field] {
			result = f.applyNumeric(result, field, value, comparator)
		} else {
			result = f.applyCategorical(result, field, value)
		}
		f.logger.Debug("applied predicate",
			zap.String("field", field),
			zap.Int("rows_before", before),
			zap.Int("rows_after", result.Len()))
	}

	return result
}

// applyNumeric narrows by a numeric predicate: >=, <=, equality, or an
// inclusive two-sided range when the value is a pair with no comparator.
func (f *FilterEngine) applyNumeric(table *dataset.Table, field string, value *model.Value, comparator *model.Comparator) *dataset.Table {
	// Range mode: two-element list, no comparator.
	if comparator == nil && len(value.Range) == 2 {
		lo, hi := value.Range[0], value.Range[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		return table.Select(func(row dataset.Row) bool {
			n, ok := parseCellNumber(table, row, field)
			return ok && n >= lo && n <= hi
		})
	}

	target, ok := scalarNumber(value)
	if !ok {
		// Criteria value not coercible to a number: predicate not
		// applicable, leave the row set untouched.
		f.logger.Debug("non-numeric criteria value for numeric field, skipping",
			zap.String("field", field))
		return table
	}

	return table.Select(func(row dataset.Row) bool {
		n, ok := parseCellNumber(table, row, field)
		if !ok {
			return false
		}
		switch {
		case comparator != nil && *comparator == model.ComparatorGreater:
			return n >= target
		case comparator != nil && *comparator == model.ComparatorLesser:
			return n <= target
		default:
			return n == target
		}
	})
}

// applyCategorical narrows by normalized equality, or membership when the
// extracted value is a list.
func (f *FilterEngine) applyCategorical(table *dataset.Table, field string, value *model.Value) *dataset.Table {
	if len(value.List) > 0 {
		return table.Select(func(row dataset.Row) bool {
			cell, _ := table.Cell(row, field)
			return utils.ContainsNormalized(value.List, cell)
		})
	}

	want := value.Text
	if value.Number != nil {
		// A numeric extraction against a text column still compares
		// sensibly as a string.
		want = strconv.FormatFloat(*value.Number, 'f', -1, 64)
	}
	if strings.TrimSpace(want) == "" {
		return table
	}

	return table.Select(func(row dataset.Row) bool {
		cell, _ := table.Cell(row, field)
		return utils.EqualNormalized(cell, want)
	})
}

// scalarNumber pulls a single numeric target out of a criteria value.
// When a comparator accompanies a list, the first element wins.
func scalarNumber(value *model.Value) (float64, bool) {
	switch {
	case value.Number != nil:
		return *value.Number, true
	case len(value.Range) > 0:
		return value.Range[0], true
	case value.Text != "":
		n, err := strconv.ParseFloat(strings.TrimSpace(value.Text), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// parseCellNumber coerces a row cell to a number; failure means the row
// does not match a numeric predicate.
func parseCellNumber(table *dataset.Table, row dataset.Row, field string) (float64, bool) {
	cell, ok := table.Cell(row, field)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
