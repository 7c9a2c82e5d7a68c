package tsvdb

import (
	"errors"

	"github.com/ajitpratap0/tsvdb/pkg/tsvdberrors"
)

// Result describes a successful operation.
type Result struct {
	Operation string
	Message   string
	// Rows is the number of data rows the operation processed or wrote
	Rows int
	// Width is the minimum row width the operation guarantees
	Width int
	// SchemaVersion is the store's schema version after the operation
	SchemaVersion uint64
	// Outputs lists files created by the operation, in order
	Outputs []string
}

// Status is the caller-facing outcome of one operation.
type Status struct {
	Success   bool     `json:"success"`
	Operation string   `json:"operation,omitempty"`
	Kind      string   `json:"kind,omitempty"`
	Message   string   `json:"message"`
	Error     string   `json:"error,omitempty"`
	Rows      int      `json:"rows"`
	Outputs   []string `json:"outputs,omitempty"`
}

// NewStatus folds the return values of an operation into a Status.
func NewStatus(res Result, err error) Status {
	st := Status{
		Success:   err == nil,
		Operation: res.Operation,
		Message:   res.Message,
		Rows:      res.Rows,
		Outputs:   res.Outputs,
	}
	if err == nil {
		return st
	}

	st.Kind = string(tsvdberrors.KindOf(err))
	st.Error = err.Error()
	var te *tsvdberrors.Error
	if errors.As(err, &te) {
		st.Message = te.Message
	} else {
		st.Message = err.Error()
	}
	return st
}
