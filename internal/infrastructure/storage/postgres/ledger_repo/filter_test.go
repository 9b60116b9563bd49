package ledger_repo

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"

	"cajalibro/internal/core/id"
	"cajalibro/internal/domain/ledger/movement"
)

func TestApplyFilter_SQL(t *testing.T) {
	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	accountID := id.New()
	estado := "activo"
	from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   movement.ListFilter
		cols     []string
		wantSQL  string
		wantArgs int
	}{
		{
			name:     "no filters",
			filter:   movement.ListFilter{},
			cols:     []string{"account_id"},
			wantSQL:  "SELECT id FROM incomes",
			wantArgs: 0,
		},
		{
			name:     "account on single column",
			filter:   movement.ListFilter{AccountID: &accountID},
			cols:     []string{"account_id"},
			wantSQL:  "SELECT id FROM incomes WHERE (account_id = $1)",
			wantArgs: 1,
		},
		{
			name:     "account matches either transfer leg",
			filter:   movement.ListFilter{AccountID: &accountID},
			cols:     []string{"from_account_id", "to_account_id"},
			wantSQL:  "SELECT id FROM incomes WHERE (from_account_id = $1 OR to_account_id = $2)",
			wantArgs: 2,
		},
		{
			name:     "estado",
			filter:   movement.ListFilter{Estado: &estado},
			cols:     []string{"account_id"},
			wantSQL:  "SELECT id FROM incomes WHERE estado = $1",
			wantArgs: 1,
		},
		{
			name: "date range",
			filter: movement.ListFilter{
				DateFrom: &from,
				DateTo:   &to,
			},
			cols:     []string{"account_id"},
			wantSQL:  "SELECT id FROM incomes WHERE date >= $1 AND date <= $2",
			wantArgs: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := applyFilter(builder.Select("id").From("incomes"), tt.filter, tt.cols...)

			sql, args, err := q.ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", tt.wantSQL, sql)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args count mismatch\nwant: %d\ngot:  %d", tt.wantArgs, len(args))
			}
		})
	}
}

func TestApplyFilter_SearchMatchesDescription(t *testing.T) {
	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	filter := movement.ListFilter{}
	filter.Search = "arriendo"

	q := applyFilter(builder.Select("id").From("expenses"), filter, "account_id")

	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	want := "SELECT id FROM expenses WHERE description ILIKE $1"
	if sql != want {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", want, sql)
	}
	if len(args) != 1 || args[0] != "%arriendo%" {
		t.Errorf("args mismatch: %v", args)
	}
}
