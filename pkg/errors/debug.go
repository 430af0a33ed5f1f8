package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// StorageDetail is what the postgres drivers report about a failed statement.
type StorageDetail struct {
	Driver     string `json:"driver"`
	SQLState   string `json:"sqlstate"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ErrorDump flattens an error chain for logs. It is never sent to clients.
type ErrorDump struct {
	Message string         `json:"message"`
	Code    Code           `json:"code,omitempty"`
	Chain   []string       `json:"chain,omitempty"`
	Storage *StorageDetail `json:"storage,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{Message: err.Error(), Storage: storageDetail(err)}
	if typed := As(err); typed != nil {
		d.Code = typed.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	return d
}

// Fields renders the dump as log fields.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.Message,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if s := d.Storage; s != nil {
		fields["db_driver"] = s.Driver
		fields["db_sqlstate"] = s.SQLState
		fields["db_table"] = s.Table
		fields["db_column"] = s.Column
		fields["db_constraint"] = s.Constraint
		fields["db_detail"] = s.Detail
	}
	return fields
}

func storageDetail(err error) *StorageDetail {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &StorageDetail{
			Driver:     "pgx",
			SQLState:   pgxErr.Code,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Constraint: pgxErr.ConstraintName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &StorageDetail{
			Driver:     "pq",
			SQLState:   string(pqErr.Code),
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Constraint: pqErr.Constraint,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	return nil
}
