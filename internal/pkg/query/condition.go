package query

import "fmt"

// Condition represents a WHERE clause condition.
// Implementations generate SQL fragments and parameter maps using Spanner's
// named parameter format (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, ...).
	SQL(paramIndex int) (string, map[string]interface{})
}

type binaryCondition struct {
	field string
	op    string
	value interface{}
}

func (c *binaryCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s %s @%s", c.field, c.op, paramName)
	return sql, map[string]interface{}{paramName: c.value}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("status", "completed") generates "status = @p0".
func Eq(field string, value interface{}) Condition {
	return &binaryCondition{field: field, op: "=", value: value}
}

// Gt creates a WHERE condition for strict greater-than comparison.
func Gt(field string, value interface{}) Condition {
	return &binaryCondition{field: field, op: ">", value: value}
}

// Gte creates a WHERE condition for greater-or-equal comparison.
func Gte(field string, value interface{}) Condition {
	return &binaryCondition{field: field, op: ">=", value: value}
}

// Lte creates a WHERE condition for less-or-equal comparison.
func Lte(field string, value interface{}) Condition {
	return &binaryCondition{field: field, op: "<=", value: value}
}

// In creates a WHERE condition matching any of the given values.
// Example: In("reading_id", ids) generates "reading_id IN UNNEST(@p0)".
func In(field string, values interface{}) Condition {
	return &inCondition{field: field, values: values}
}

type inCondition struct {
	field  string
	values interface{}
}

func (c *inCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s IN UNNEST(@%s)", c.field, paramName)
	return sql, map[string]interface{}{paramName: c.values}
}

// IsNull creates a WHERE condition for NULL checks.
func IsNull(field string) Condition {
	return &nullCondition{field: field, negate: false}
}

// IsNotNull creates a WHERE condition for NOT NULL checks.
func IsNotNull(field string) Condition {
	return &nullCondition{field: field, negate: true}
}

type nullCondition struct {
	field  string
	negate bool
}

func (c *nullCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	op := "IS NULL"
	if c.negate {
		op = "IS NOT NULL"
	}
	return fmt.Sprintf("%s %s", c.field, op), map[string]interface{}{}
}
