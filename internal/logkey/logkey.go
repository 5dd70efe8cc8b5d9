// Package logkey holds the field names shared by every log entry.
package logkey

const (
	RequestID = "request_id"
	ERROR     = "error"
	ProductID = "product_id"
	ItemID    = "item_id"
	Status    = "status"
	Path      = "path"
	Data      = "data"
	Forms     = "forms"
)
