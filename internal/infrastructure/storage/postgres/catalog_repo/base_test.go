package catalog_repo

import (
	"testing"
)

func testRepo() *BaseRepo[any] {
	return NewBaseRepo[any](nil, "test_table",
		[]string{"id", "name", "email", "created_at"},
		[]string{"name", "email"},
		func() any { return nil })
}

func TestApplySearch(t *testing.T) {
	repo := testRepo()

	q := repo.applySearch(repo.baseSelect(), "dupont")

	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, name, email, created_at FROM test_table WHERE (name ILIKE $1 OR email ILIKE $2)"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 2 || args[0] != "%dupont%" || args[1] != "%dupont%" {
		t.Errorf("Args mismatch: %v", args)
	}
}

func TestApplySearch_Empty(t *testing.T) {
	repo := testRepo()

	sql, _, err := repo.applySearch(repo.baseSelect(), "").ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, name, email, created_at FROM test_table"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
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
		{name: "default", orderBy: "", want: "name ASC"},
		{name: "ascending", orderBy: "email", want: "email ASC"},
		{name: "descending", orderBy: "-created_at", want: "created_at DESC"},
		{name: "explicit plus", orderBy: "+name", want: "name ASC"},
		{name: "unknown column", orderBy: "password", wantErr: true},
		{name: "injection attempt", orderBy: "name; DROP TABLE test_table", wantErr: true},
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
