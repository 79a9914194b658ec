package query

import (
	"fmt"
	"strings"
)

// Condition represents a WHERE clause condition.
// Implementations render a SQL fragment using Spanner named parameters
// (@p0, @p1, ...) starting at paramIndex.
type Condition interface {
	SQL(paramIndex int) (string, map[string]interface{})
}

// comparison implements field <op> value.
type comparison struct {
	field string
	op    string
	value interface{}
}

func (c *comparison) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s %s @%s", c.field, c.op, paramName), map[string]interface{}{paramName: c.value}
}

// Eq creates an equality condition: Eq("member_id", "m1") renders "member_id = @p0".
func Eq(field string, value interface{}) Condition {
	return &comparison{field: field, op: "=", value: value}
}

// Lt creates a strict less-than condition.
func Lt(field string, value interface{}) Condition {
	return &comparison{field: field, op: "<", value: value}
}

// Gte creates a greater-or-equal condition.
func Gte(field string, value interface{}) Condition {
	return &comparison{field: field, op: ">=", value: value}
}

// nullCheck implements IS NULL / IS NOT NULL.
type nullCheck struct {
	field string
	not   bool
}

func (c *nullCheck) SQL(int) (string, map[string]interface{}) {
	if c.not {
		return c.field + " IS NOT NULL", map[string]interface{}{}
	}
	return c.field + " IS NULL", map[string]interface{}{}
}

// IsNull creates "field IS NULL".
func IsNull(field string) Condition {
	return &nullCheck{field: field}
}

// IsNotNull creates "field IS NOT NULL".
func IsNotNull(field string) Condition {
	return &nullCheck{field: field, not: true}
}

// anyOf joins conditions with OR inside parentheses.
type anyOf struct {
	conditions []Condition
}

// Or combines conditions with OR: Or(IsNull("end_date"), Gte("end_date", d))
// renders "(end_date IS NULL OR end_date >= @p0)".
func Or(conditions ...Condition) Condition {
	return &anyOf{conditions: conditions}
}

func (c *anyOf) SQL(paramIndex int) (string, map[string]interface{}) {
	parts := make([]string, 0, len(c.conditions))
	params := make(map[string]interface{})
	for _, cond := range c.conditions {
		fragment, condParams := cond.SQL(paramIndex)
		parts = append(parts, fragment)
		for k, v := range condParams {
			params[k] = v
		}
		paramIndex += len(condParams)
	}
	return "(" + strings.Join(parts, " OR ") + ")", params
}
