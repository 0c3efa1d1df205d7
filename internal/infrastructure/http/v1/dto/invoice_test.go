package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturio/internal/core/id"
)

func TestPartyRefUnmarshal(t *testing.T) {
	t.Run("bare id string", func(t *testing.T) {
		var ref PartyRef
		require.NoError(t, json.Unmarshal([]byte(`"abc-123"`), &ref))
		assert.Equal(t, "abc-123", ref.ID)
		assert.Empty(t, ref.Name)
	})

	t.Run("object form", func(t *testing.T) {
		var ref PartyRef
		require.NoError(t, json.Unmarshal([]byte(`{"id":"abc-123","name":"Fournitures Dupont"}`), &ref))
		assert.Equal(t, "abc-123", ref.ID)
		assert.Equal(t, "Fournitures Dupont", ref.Name)
	})

	t.Run("rejects other shapes", func(t *testing.T) {
		var ref PartyRef
		assert.Error(t, json.Unmarshal([]byte(`42`), &ref))
	})
}

func TestPartyRefResolve(t *testing.T) {
	partyID := id.New()

	ref := PartyRef{ID: partyID.String()}
	got, err := ref.Resolve("supplier")
	require.NoError(t, err)
	assert.Equal(t, partyID, got)

	_, err = PartyRef{ID: "not-a-uuid"}.Resolve("supplier")
	assert.Error(t, err)
}

func TestDateUnmarshal(t *testing.T) {
	t.Run("plain date", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-03-01"`), &d))
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d.Time)
	})

	t.Run("rfc3339", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-03-01T15:04:05Z"`), &d))
		assert.Equal(t, time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC), d.Time)
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"01/03/2024"`), &d))
	})
}

func TestCreatePurchaseInvoiceRequestToEntity(t *testing.T) {
	supplierID := id.New()

	payload := []byte(`{
		"invoiceNumber": "FA-2024-001",
		"supplier": {"id": "` + supplierID.String() + `", "name": "Fournitures Dupont"},
		"date": "2024-03-01",
		"status": "paid",
		"items": [
			{"description": "Widget", "quantity": 10, "unitPrice": 5, "taxRate": 20}
		]
	}`)

	var req CreatePurchaseInvoiceRequest
	require.NoError(t, json.Unmarshal(payload, &req))

	inv, err := req.ToEntity()
	require.NoError(t, err)

	assert.Equal(t, "FA-2024-001", inv.InvoiceNumber)
	assert.Equal(t, supplierID, inv.SupplierID)
	assert.Equal(t, "paid", string(inv.Status))
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Widget", inv.Items[0].Description)
	assert.Equal(t, "10", inv.Items[0].Quantity.String())
}

func TestCreateSaleInvoiceRequestResaleLink(t *testing.T) {
	clientID := id.New()
	purchaseID := id.New()
	link := purchaseID.String()

	req := CreateSaleInvoiceRequest{
		InvoiceNumber:   "FV-2024-001",
		Client:          PartyRef{ID: clientID.String()},
		Date:            Date{Time: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		BasedOnPurchase: &link,
	}

	inv, err := req.ToEntity()
	require.NoError(t, err)
	require.NotNil(t, inv.BasedOnPurchase)
	assert.Equal(t, purchaseID, *inv.BasedOnPurchase)

	bad := "nope"
	req.BasedOnPurchase = &bad
	_, err = req.ToEntity()
	assert.Error(t, err)
}
