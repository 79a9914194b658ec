package m_parameter

import (
	"time"
)

// Data represents the database model for the parameters table.
type Data struct {
	ParamKey   string    `spanner:"param_key"`
	ParamValue string    `spanner:"param_value"`
	UpdatedAt  time.Time `spanner:"updated_at"`
}
