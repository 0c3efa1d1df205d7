package document_repo

import (
	"strings"
	"testing"
)

func testRepo() *baseInvoiceRepo[any] {
	return newBaseInvoiceRepo[any](nil,
		"purchase_invoices", "suppliers", "supplier_id", "supplier_name",
		[]string{"id", "version", "invoice_number", "supplier_id", "supplier_name", "invoice_date", "status", "total"},
		func() any { return nil })
}

func TestJoinedSelect(t *testing.T) {
	repo := testRepo()

	sql, _, err := repo.joinedSelect().ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	if !strings.Contains(sql, "JOIN suppliers party ON party.id = d.supplier_id") {
		t.Errorf("missing counterpart join: %s", sql)
	}
	if !strings.Contains(sql, "party.name AS supplier_name") {
		t.Errorf("missing joined name column: %s", sql)
	}
	if strings.Contains(sql, "d.supplier_name") {
		t.Errorf("joined column must not be selected from the table: %s", sql)
	}
}

func TestParseOrderBy(t *testing.T) {
	repo := testRepo()

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "default newest first", orderBy: "", want: "d.created_at DESC"},
		{name: "by number", orderBy: "invoice_number", want: "d.invoice_number ASC"},
		{name: "by total descending", orderBy: "-total", want: "d.total DESC"},
		{name: "unknown field", orderBy: "supplier_name; --", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.orderBy)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOrderBy failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}
