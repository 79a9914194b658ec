package m_parameter

// Field name constants for the parameters table.
const (
	TableName = "parameters"

	ParamKey   = "param_key"
	ParamValue = "param_value"
	UpdatedAt  = "updated_at"
)

// Columns lists every column in declaration order.
var Columns = []string{ParamKey, ParamValue, UpdatedAt}
