package controllers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/shashiranjanraj/savannah/app/services"
	"github.com/shashiranjanraj/savannah/pkg/response"
	"github.com/shashiranjanraj/savannah/pkg/storage"
)

// ExportController writes order snapshots to the configured storage disk.
// Admin only.
type ExportController struct {
	orders *services.OrderService
	disk   storage.Disk
}

func NewExportController(orders *services.OrderService, disk storage.Disk) *ExportController {
	return &ExportController{orders: orders, disk: disk}
}

const exportPageSize = 500

// Orders exports every order as CSV to the storage disk and returns the
// object key and URL.
func (c *ExportController) Orders(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Write([]string{"id", "customer_id", "item", "quantity", "amount", "status", "created_at"}) //nolint:errcheck

	for skip := 0; ; skip += exportPageSize {
		page, err := c.orders.List(r.Context(), skip, exportPageSize)
		if err != nil {
			response.AppError(w, err)
			return
		}
		for _, o := range page {
			cw.Write([]string{ //nolint:errcheck
				strconv.FormatUint(uint64(o.ID), 10),
				strconv.FormatUint(uint64(o.CustomerID), 10),
				o.Item,
				strconv.Itoa(o.Quantity),
				strconv.FormatFloat(o.Amount, 'f', 2, 64),
				string(o.Status),
				o.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		if len(page) < exportPageSize {
			break
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	key := "exports/orders-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	if err := c.disk.Put(r.Context(), key, &buf); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Created(w, map[string]string{
		"key": key,
		"url": c.disk.URL(key),
	})
}
