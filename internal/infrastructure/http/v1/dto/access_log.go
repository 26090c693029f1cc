package dto

import (
	"stockscope/internal/domain/accesslog"
	"stockscope/internal/domain/filter"
)

// LogQuery carries the access log filters.
type LogQuery struct {
	ObjectID   string `form:"objectId"`
	Username   string `form:"username"`
	ObjectType string `form:"objectType"`
	SupplierID string `form:"supplierId"`
	CustomerID string `form:"customerId"`
}

// ToQuery converts to the domain query.
func (q *LogQuery) ToQuery(tenantID string, page filter.Page) accesslog.Query {
	return accesslog.Query{
		Tenant:     tenantID,
		ObjectID:   q.ObjectID,
		Username:   q.Username,
		ObjectType: q.ObjectType,
		SupplierID: q.SupplierID,
		CustomerID: q.CustomerID,
		Page:       page,
	}
}
