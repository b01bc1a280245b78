package constraint

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxNameLength is the PostgreSQL identifier limit.
const MaxNameLength = 63

const generalPattern = `^[A-Za-z][A-Za-z0-9_ -]*$`

// Check is a generated CHECK constraint.
type Check struct {
	Table      string
	Column     string
	Name       string
	Expression string
	model      interface{}
}

// Plan derives the CHECK constraints for models from their column classes.
func Plan(db *gorm.DB, models ...interface{}) ([]Check, error) {
	var checks []Check
	for _, m := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse %T: %w", m, err)
		}
		table := stmt.Schema.Table
		for _, col := range Columns(stmt.Schema) {
			if col.Name == "sequence" {
				continue
			}
			for _, c := range checksFor(table, col) {
				c.model = m
				checks = append(checks, c)
			}
		}
	}
	return checks, nil
}

func checksFor(table string, col Column) []Check {
	c := col.Name
	mk := func(suffix, expr string) Check {
		return Check{
			Table:      table,
			Column:     c,
			Name:       TruncateName(fmt.Sprintf("check_%s_%s_%s", table, c, suffix)),
			Expression: expr,
		}
	}

	var out []Check
	switch col.Kind {
	case KindEnum, KindText, KindSkip:
		return nil
	case KindPositive:
		return []Check{mk("positive", c+" > 0")}
	case KindNonNegative:
		return []Check{mk("non_negative", c+" >= 0")}
	}

	if !col.Nullable {
		out = append(out, mk("not_empty", fmt.Sprintf("LENGTH(TRIM(%s)) > 0", c)))
	}
	switch col.Kind {
	case KindEmail:
		out = append(out, mk("format", fmt.Sprintf("%[1]s LIKE '%%@%%' AND %[1]s NOT LIKE '@%%' AND %[1]s NOT LIKE '%%@'", c)))
	case KindPhone:
		out = append(out, mk("digits_only", fmt.Sprintf("%s ~ '^[0-9]+$'", c)))
	case KindSlug:
		out = append(out, mk("format", fmt.Sprintf("%s ~ '^[a-z0-9-]+$'", c)))
	case KindCode:
		out = append(out, mk("format", fmt.Sprintf("%s ~ '^[A-Z0-9_-]+$'", c)))
	case KindSkuNumber:
		out = append(out,
			mk("length", fmt.Sprintf("LENGTH(%s) = 10", c)),
			mk("format", fmt.Sprintf("%s ~ '^[0-9A-F]{10}$'", c)),
		)
	case KindGeneral:
		expr := fmt.Sprintf("%s ~ '%s'", c, generalPattern)
		if col.Nullable {
			expr = fmt.Sprintf("(%s = '' OR %s)", c, expr)
		}
		out = append(out, mk("valid_format", expr))
	}
	return out
}

// TruncateName shortens a check_{table}_{column}_{suffix} name to fit
// MaxNameLength. The prefix and suffix are kept whole and the column keeps
// at least three characters.
func TruncateName(name string) string {
	if len(name) <= MaxNameLength {
		return name
	}
	parts := strings.Split(name, "_")
	if len(parts) < 4 {
		return name[:MaxNameLength]
	}

	prefix, table, column := parts[0], parts[1], parts[2]
	suffix := strings.Join(parts[3:], "_")

	available := MaxNameLength - len(prefix) - len(suffix) - 3
	if available <= 0 {
		return name[:MaxNameLength]
	}
	if len(table)+len(column) <= available {
		return name
	}

	tableMax := min(len(table), available/2)
	columnMax := available - tableMax
	if columnMax < 3 {
		tableMax = available - 3
		columnMax = 3
	}
	return fmt.Sprintf("%s_%s_%s_%s", prefix, table[:min(tableMax, len(table))], column[:min(columnMax, len(column))], suffix)
}

// Sync adds the planned checks that are missing from the database. Regular
// expression checks need PostgreSQL, so other dialects only log the plan.
func Sync(ctx context.Context, db *gorm.DB, log *zap.Logger, models ...interface{}) ([]Check, error) {
	if log == nil {
		log = zap.NewNop()
	}
	checks, err := Plan(db, models...)
	if err != nil {
		return nil, err
	}

	if db.Dialector.Name() != "postgres" {
		log.Info("skipping check constraint sync",
			zap.String("dialect", db.Dialector.Name()),
			zap.Int("planned", len(checks)))
		return nil, nil
	}

	tx := db.WithContext(ctx)
	var added []Check
	for _, c := range checks {
		if tx.Migrator().HasConstraint(c.model, c.Name) {
			continue
		}
		sql := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)",
			tx.Statement.Quote(c.Table), tx.Statement.Quote(c.Name), c.Expression)
		if err := tx.Exec(sql).Error; err != nil {
			return added, fmt.Errorf("add constraint %s: %w", c.Name, err)
		}
		log.Info("check constraint added", zap.String("table", c.Table), zap.String("name", c.Name))
		added = append(added, c)
	}
	return added, nil
}

// Format renders checks grouped by table.
func Format(checks []Check) string {
	byTable := map[string][]Check{}
	var tables []string
	for _, c := range checks {
		if _, ok := byTable[c.Table]; !ok {
			tables = append(tables, c.Table)
		}
		byTable[c.Table] = append(byTable[c.Table], c)
	}
	sort.Strings(tables)

	var b strings.Builder
	for _, t := range tables {
		fmt.Fprintf(&b, "%s\n", t)
		for _, c := range byTable[t] {
			fmt.Fprintf(&b, "  %s: %s\n", c.Name, c.Expression)
		}
	}
	return b.String()
}
