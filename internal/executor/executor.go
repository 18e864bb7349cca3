// Package executor is the SQL Validator & Executor (C7): the last line of
// defense between a compiled statement and the sensor store. Every
// statement — whether emitted by the deterministic Query Builder or by the
// LLM-backed free-form fallback agent — passes through the same allow-list
// before it ever reaches the database.
package executor

import (
	"context"
	"database/sql"
	"regexp"
	"strings"

	"github.com/haasonsaas/agrisense/internal/querybuilder"
	"github.com/haasonsaas/agrisense/internal/queryerr"
	"github.com/haasonsaas/agrisense/internal/sensorstore"
)

var columnWhitelist = map[string]bool{
	"TS": true, "SENSOR_TYPE": true, "VALUE": true, "UNIT": true,
	"TIME_PERIOD": true, "AVG_VALUE": true, "MIN_VALUE": true,
	"MAX_VALUE": true, "DATA_POINTS": true,
}

var sqlVocabulary = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true,
	"GROUP": true, "BY": true, "ORDER": true, "ASC": true, "DESC": true,
	"LIMIT": true, "UNION": true, "ALL": true, "AS": true, "IN": true,
	"NULL": true, "AVG": true, "MIN": true, "MAX": true, "COUNT": true,
	"STRFTIME": true,
}

var denylist = []string{
	"DROP", "DELETE", "UPDATE", "INSERT", "ALTER", "CREATE", "TRUNCATE", "ATTACH", "PRAGMA",
}

var (
	identifierRe         = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	stringLiteralRe      = regexp.MustCompile(`'[^']*'`)
	stringLiteralContent = regexp.MustCompile(`'([^']*)'`)
	fromTableRe          = regexp.MustCompile(`(?i)\bfrom\s+([a-zA-Z_][a-zA-Z0-9_]*)`)
	joinRe               = regexp.MustCompile(`(?i)\bjoin\b`)
)

func denylistRe(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + word + `\b`)
}

// Result holds ordered rows with named columns. Zero rows is a valid,
// successful outcome, never an error.
type Result struct {
	Columns []string
	Rows    [][]any
}

// CanonicalType reports whether s is a registered canonical sensor type.
// Satisfied in production by ontology.Registry.Exists.
type CanonicalType func(sensorType string) bool

// Validator enforces the allow-list of §4.4 before any statement runs.
type Validator struct {
	canonical CanonicalType
}

// New builds a Validator backed by canonical, which reports whether a
// literal string is a registered sensor type.
func New(canonical CanonicalType) *Validator {
	return &Validator{canonical: canonical}
}

// Validate checks q against the allow-list without running it.
func (v *Validator) Validate(q querybuilder.Compiled) error {
	trimmed := strings.TrimSpace(q.SQL)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return queryerr.New(queryerr.KindValidationError, "statement must begin with SELECT")
	}

	for _, word := range denylist {
		if denylistRe(word).MatchString(q.SQL) {
			return queryerr.New(queryerr.KindValidationError, "statement contains a denied keyword: "+word)
		}
	}

	if joinRe.MatchString(q.SQL) {
		return queryerr.New(queryerr.KindValidationError, "statement may not JOIN other tables")
	}

	for _, m := range fromTableRe.FindAllStringSubmatch(q.SQL, -1) {
		if !strings.EqualFold(m[1], sensorstore.TableName) {
			return queryerr.New(queryerr.KindValidationError, "statement references an unrecognized table: "+m[1])
		}
	}

	stripped := stringLiteralRe.ReplaceAllString(q.SQL, "''")
	for _, tok := range identifierRe.FindAllString(stripped, -1) {
		up := strings.ToUpper(tok)
		if sqlVocabulary[up] || columnWhitelist[up] || strings.EqualFold(tok, sensorstore.TableName) {
			continue
		}
		return queryerr.New(queryerr.KindValidationError, "statement references an unrecognized identifier: "+tok)
	}

	if v.canonical != nil && !v.hasCanonicalSensorTypeLiteral(q) {
		return queryerr.New(queryerr.KindValidationError, "statement does not reference a canonical sensor_type literal")
	}

	return nil
}

func (v *Validator) hasCanonicalSensorTypeLiteral(q querybuilder.Compiled) bool {
	for _, a := range q.Args {
		if s, ok := a.(string); ok && v.canonical(s) {
			return true
		}
	}
	for _, m := range stringLiteralContent.FindAllStringSubmatch(q.SQL, -1) {
		if v.canonical(m[1]) {
			return true
		}
	}
	return false
}

// Execute validates q, then runs it against db, returning ordered rows.
// A query rejected by Validate never reaches db.
func (v *Validator) Execute(ctx context.Context, db *sql.DB, q querybuilder.Compiled) (Result, error) {
	if err := v.Validate(q); err != nil {
		return Result{}, err
	}

	rows, err := db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return Result{}, queryerr.Wrap(queryerr.KindExecutionError, err, "query execution failed")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Result{}, queryerr.Wrap(queryerr.KindExecutionError, err, "reading result columns failed")
	}

	result := Result{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, queryerr.Wrap(queryerr.KindExecutionError, err, "scanning result row failed")
		}
		result.Rows = append(result.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return Result{}, queryerr.Wrap(queryerr.KindExecutionError, err, "iterating result rows failed")
	}
	return result, nil
}
