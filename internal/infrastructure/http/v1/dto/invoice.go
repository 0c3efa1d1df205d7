package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"facturio/internal/core/apperror"
	"facturio/internal/core/id"
	"facturio/internal/core/types"
	"facturio/internal/domain/documents"
	"facturio/internal/domain/documents/purchase"
	"facturio/internal/domain/documents/sale"
	"facturio/internal/domain/registers/stock"
)

// PartyRef references a supplier or client. Clients may send either the
// bare id string or an object carrying the id:
//
//	"supplier": "0190d1a2-..."
//	"supplier": {"id": "0190d1a2-...", "name": "Fournitures Dupont"}
type PartyRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON accepts both reference forms.
func (p *PartyRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.ID = s
		return nil
	}

	type alias PartyRef
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("party reference must be a string or an object: %w", err)
	}
	*p = PartyRef(obj)
	return nil
}

// Resolve parses the referenced ID.
func (p PartyRef) Resolve(field string) (id.ID, error) {
	parsed, err := id.Parse(p.ID)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid "+field+" reference").
			WithDetail("field", field).
			WithDetail("value", p.ID)
	}
	return parsed, nil
}

// Date accepts both plain dates and RFC 3339 timestamps.
type Date struct {
	time.Time
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// UnmarshalJSON parses the supported date layouts.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}

	return fmt.Errorf("unsupported date format: %q", s)
}

// MarshalJSON renders RFC 3339.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// --- Items ---

// InvoiceItemRequest is one invoice line.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
}

// ToItem maps the request line to a domain item.
func (r InvoiceItemRequest) ToItem() documents.Item {
	return documents.NewItem(r.Description, r.Quantity, r.UnitPrice, r.TaxRate)
}

func toItems(reqs []InvoiceItemRequest) []documents.Item {
	items := make([]documents.Item, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, r.ToItem())
	}
	return items
}

// --- Purchase invoices ---

// CreatePurchaseInvoiceRequest for creating purchase invoices.
type CreatePurchaseInvoiceRequest struct {
	InvoiceNumber string               `json:"invoiceNumber" binding:"required"`
	Supplier      PartyRef             `json:"supplier" binding:"required"`
	Date          Date                 `json:"date" binding:"required"`
	DueDate       *Date                `json:"dueDate"`
	Status        string               `json:"status"`
	Notes         string               `json:"notes"`
	Items         []InvoiceItemRequest `json:"items"`
}

// ToEntity maps the request to a new purchase invoice.
func (r CreatePurchaseInvoiceRequest) ToEntity() (*purchase.Invoice, error) {
	supplierID, err := r.Supplier.Resolve("supplier")
	if err != nil {
		return nil, err
	}

	inv := purchase.NewInvoice(r.InvoiceNumber, supplierID, r.Date.Time)
	if r.Status != "" {
		inv.Status = purchase.Status(r.Status)
	}
	if r.DueDate != nil {
		inv.DueDate = &r.DueDate.Time
	}
	inv.Notes = r.Notes
	inv.Items = toItems(r.Items)
	return inv, nil
}

// UpdatePurchaseInvoiceRequest edits header fields only. Items are
// immutable after creation.
type UpdatePurchaseInvoiceRequest struct {
	InvoiceNumber string `json:"invoiceNumber" binding:"required"`
	Date          Date   `json:"date" binding:"required"`
	DueDate       *Date  `json:"dueDate"`
	Status        string `json:"status" binding:"required"`
	Notes         string `json:"notes"`
	Version       int    `json:"version" binding:"required,min=1"`
}

// ApplyTo writes the header fields onto an existing invoice.
func (r UpdatePurchaseInvoiceRequest) ApplyTo(inv *purchase.Invoice) {
	inv.InvoiceNumber = r.InvoiceNumber
	inv.InvoiceDate = r.Date.Time
	inv.DueDate = nil
	if r.DueDate != nil {
		inv.DueDate = &r.DueDate.Time
	}
	inv.Status = purchase.Status(r.Status)
	inv.Notes = r.Notes
	inv.SetVersion(r.Version)
}

// --- Sale invoices ---

// CreateSaleInvoiceRequest for creating sale invoices.
type CreateSaleInvoiceRequest struct {
	InvoiceNumber   string               `json:"invoiceNumber" binding:"required"`
	Client          PartyRef             `json:"client" binding:"required"`
	Date            Date                 `json:"date" binding:"required"`
	DueDate         *Date                `json:"dueDate"`
	Status          string               `json:"status"`
	BasedOnPurchase *string              `json:"basedOnPurchase"`
	PaymentMethod   string               `json:"paymentMethod"`
	Notes           string               `json:"notes"`
	Items           []InvoiceItemRequest `json:"items"`
}

// ToEntity maps the request to a new sale invoice.
func (r CreateSaleInvoiceRequest) ToEntity() (*sale.Invoice, error) {
	clientID, err := r.Client.Resolve("client")
	if err != nil {
		return nil, err
	}

	inv := sale.NewInvoice(r.InvoiceNumber, clientID, r.Date.Time)
	if r.Status != "" {
		inv.Status = sale.Status(r.Status)
	}
	if r.DueDate != nil {
		inv.DueDate = &r.DueDate.Time
	}
	if r.BasedOnPurchase != nil && *r.BasedOnPurchase != "" {
		purchaseID, err := id.Parse(*r.BasedOnPurchase)
		if err != nil {
			return nil, apperror.NewValidation("invalid basedOnPurchase reference").
				WithDetail("field", "basedOnPurchase").
				WithDetail("value", *r.BasedOnPurchase)
		}
		inv.BasedOnPurchase = &purchaseID
	}
	inv.PaymentMethod = r.PaymentMethod
	inv.Notes = r.Notes
	inv.Items = toItems(r.Items)
	return inv, nil
}

// UpdateSaleInvoiceRequest edits header fields only.
type UpdateSaleInvoiceRequest struct {
	InvoiceNumber string `json:"invoiceNumber" binding:"required"`
	Date          Date   `json:"date" binding:"required"`
	DueDate       *Date  `json:"dueDate"`
	Status        string `json:"status" binding:"required"`
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
	Version       int    `json:"version" binding:"required,min=1"`
}

// ApplyTo writes the header fields onto an existing invoice.
func (r UpdateSaleInvoiceRequest) ApplyTo(inv *sale.Invoice) {
	inv.InvoiceNumber = r.InvoiceNumber
	inv.InvoiceDate = r.Date.Time
	inv.DueDate = nil
	if r.DueDate != nil {
		inv.DueDate = &r.DueDate.Time
	}
	inv.Status = sale.Status(r.Status)
	inv.PaymentMethod = r.PaymentMethod
	inv.Notes = r.Notes
	inv.SetVersion(r.Version)
}

// --- Responses ---

// CreateInvoiceResponse carries the new invoice id, its computed
// amounts and any stock reconciliation warnings. Warnings do not make
// the request fail.
type CreateInvoiceResponse struct {
	ID        string              `json:"id"`
	Subtotal  types.Money         `json:"subtotal"`
	TaxAmount types.Money         `json:"taxAmount"`
	Total     types.Money         `json:"total"`
	Warnings  []stock.ItemFailure `json:"warnings,omitempty"`
}
