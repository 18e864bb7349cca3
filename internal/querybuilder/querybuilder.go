// Package querybuilder deterministically compiles a validated Semantic IR
// (C5's output) into a parameter-bound SQL statement over the single
// sensor_data table, per the compilation table in the Query Builder (C6)
// design. It never interpolates user text: every literal is bound as a
// placeholder argument, and every identifier it emits (column and table
// names) is a fixed string chosen from the IR's own typed fields.
package querybuilder

import (
	"fmt"
	"strings"
	"time"

	"github.com/haasonsaas/agrisense/internal/queryerr"
	"github.com/haasonsaas/agrisense/internal/rangetoken"
	"github.com/haasonsaas/agrisense/internal/sensorstore"
	"github.com/haasonsaas/agrisense/pkg/models"
)

// Compiled is a ready-to-validate SQL statement plus its bound parameters.
type Compiled struct {
	SQL  string
	Args []any
}

// Compile turns ir into SQL. now is the instant Range Tokens resolve
// against; callers pass the wall clock in production and a fixed instant
// in tests.
func Compile(ir models.SemanticIR, now time.Time) (Compiled, error) {
	if len(ir.Entity.Types) == 0 {
		return Compiled{}, queryerr.New(queryerr.KindValidationError, "semantic IR has no entity")
	}

	if ir.Comparison || len(ir.TimeRange) >= 2 {
		return compileComparison(ir, now)
	}

	if ir.Aggregation == models.AggCurrent {
		if ir.Entity.Single() {
			return compileCurrent(ir.Entity.First()), nil
		}
		return compileCurrentCompound(ir.Entity.Types), nil
	}

	start, end, interval, err := resolveWindow(ir, now)
	if err != nil {
		return Compiled{}, err
	}
	return compileAggregation(ir.Entity, ir.Grouping, interval, start, end), nil
}

func resolveWindow(ir models.SemanticIR, now time.Time) (time.Time, time.Time, models.Interval, error) {
	if ir.TimeContext != nil {
		return ir.TimeContext.Start, ir.TimeContext.End, ir.TimeContext.Interval, nil
	}
	if len(ir.TimeRange) == 0 {
		return time.Time{}, time.Time{}, "", queryerr.New(queryerr.KindValidationError, "semantic IR has no time range")
	}
	start, end, interval, ok := rangetoken.Compute(ir.TimeRange[0], now)
	if !ok {
		return time.Time{}, time.Time{}, "", queryerr.New(queryerr.KindValidationError, fmt.Sprintf("unrecognized range token %q", ir.TimeRange[0]))
	}
	return start, end, interval, nil
}

// compileCurrent is the "aggregation=current, single entity" case: the
// single most recent row for that sensor type, ignoring any time window.
func compileCurrent(sensorType string) Compiled {
	return Compiled{
		SQL:  fmt.Sprintf("SELECT * FROM %s WHERE sensor_type = ? ORDER BY ts DESC LIMIT 1", sensorstore.TableName),
		Args: []any{sensorType},
	}
}

// compileCurrentCompound generalizes the current-value template to a
// compound entity: one latest-row arm per sensor type, unioned together.
func compileCurrentCompound(types []string) Compiled {
	arms := make([]string, len(types))
	args := make([]any, len(types))
	for i, t := range types {
		arms[i] = fmt.Sprintf("SELECT * FROM %s WHERE sensor_type = ? ORDER BY ts DESC LIMIT 1", sensorstore.TableName)
		args[i] = t
	}
	return Compiled{SQL: strings.Join(arms, " UNION ALL "), Args: args}
}

// compileAggregation covers "aggregation=average, grouping=none",
// "aggregation=average, grouping!=none, single entity", and "compound
// entity (non-comparison)". min/max/count requests reuse the same shape;
// the four aggregates are always computed together and the caller reads
// out whichever one the IR asked for.
func compileAggregation(entity models.Entity, grouping models.Grouping, interval models.Interval, start, end time.Time) Compiled {
	bucket, grouped := bucketExpr(grouping)
	compound := !entity.Single()

	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT ")
	if grouped {
		sb.WriteString(bucket)
		sb.WriteString(" AS time_period, ")
	}
	if compound {
		sb.WriteString("sensor_type, ")
	}
	sb.WriteString("AVG(value) AS avg_value, MIN(value) AS min_value, MAX(value) AS max_value, COUNT(*) AS data_points FROM ")
	sb.WriteString(sensorstore.TableName)
	sb.WriteString(" WHERE ")

	if compound {
		sb.WriteString("sensor_type IN (")
		sb.WriteString(placeholders(len(entity.Types)))
		sb.WriteString(")")
		for _, t := range entity.Types {
			args = append(args, t)
		}
	} else {
		sb.WriteString("sensor_type = ?")
		args = append(args, entity.First())
	}

	sb.WriteString(" AND ts >= ? AND ts < ?")
	args = append(args, sensorstore.ToMicros(start), sensorstore.ToMicros(end))

	switch {
	case grouped && compound:
		sb.WriteString(" GROUP BY time_period, sensor_type ORDER BY time_period ASC, sensor_type ASC")
	case grouped:
		sb.WriteString(" GROUP BY time_period ORDER BY time_period ASC")
	case compound:
		sb.WriteString(" GROUP BY sensor_type ORDER BY sensor_type ASC")
	}

	return Compiled{SQL: sb.String(), Args: args}
}

// compileComparison is the "comparison=true, list of ranges" case: a
// UNION ALL of one aggregation arm per range token, each labeled with the
// range's resolved start instant so the final ORDER BY time_period ASC
// sorts the arms chronologically regardless of token spelling.
func compileComparison(ir models.SemanticIR, now time.Time) (Compiled, error) {
	if len(ir.TimeRange) == 0 {
		return Compiled{}, queryerr.New(queryerr.KindValidationError, "comparison IR has no time ranges")
	}

	compound := !ir.Entity.Single()
	arms := make([]string, 0, len(ir.TimeRange))
	var args []any

	for _, token := range ir.TimeRange {
		start, end, interval, ok := rangetoken.Compute(token, now)
		if !ok {
			return Compiled{}, queryerr.New(queryerr.KindValidationError, fmt.Sprintf("unrecognized range token %q", token))
		}
		label := start.Format(bucketFormat(interval))

		var sb strings.Builder
		sb.WriteString("SELECT ? AS time_period")
		args = append(args, label)
		if compound {
			sb.WriteString(", sensor_type")
		}
		sb.WriteString(", AVG(value) AS avg_value, MIN(value) AS min_value, MAX(value) AS max_value, COUNT(*) AS data_points FROM ")
		sb.WriteString(sensorstore.TableName)
		sb.WriteString(" WHERE ")
		if compound {
			sb.WriteString("sensor_type IN (")
			sb.WriteString(placeholders(len(ir.Entity.Types)))
			sb.WriteString(")")
			for _, t := range ir.Entity.Types {
				args = append(args, t)
			}
		} else {
			sb.WriteString("sensor_type = ?")
			args = append(args, ir.Entity.First())
		}
		sb.WriteString(" AND ts >= ? AND ts < ?")
		args = append(args, sensorstore.ToMicros(start), sensorstore.ToMicros(end))
		if compound {
			sb.WriteString(" GROUP BY sensor_type")
		}
		arms = append(arms, sb.String())
	}

	sql := strings.Join(arms, " UNION ALL ")
	if compound {
		sql += " ORDER BY time_period ASC, sensor_type ASC"
	} else {
		sql += " ORDER BY time_period ASC"
	}
	return Compiled{SQL: sql, Args: args}, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
