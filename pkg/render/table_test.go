package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsession/pkg/render"
	"github.com/goliatone/go-formsession/pkg/session"
	"github.com/goliatone/go-formsession/pkg/testsupport"
)

func TestLedgerTable_ColumnsFollowSchema(t *testing.T) {
	eng := testsupport.Engine(t, session.WithFormType("userInfo"))
	testsupport.Fill(t, eng, map[string]string{"lastName": "Lee", "firstName": "Ann"})
	if _, err := eng.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	testsupport.Fill(t, eng, map[string]string{"firstName": "Bob", "lastName": "Ray", "age": "41"})
	if _, err := eng.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	table := render.LedgerTable(eng.Snapshot())

	wantColumns := []render.Column{
		{Name: "firstName", Label: "First Name"},
		{Name: "lastName", Label: "Last Name"},
		{Name: "age", Label: "Age"},
	}
	if diff := cmp.Diff(wantColumns, table.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}

	wantRows := []render.Row{
		{Position: 0, ID: "entry-1", FormType: "userInfo", Cells: []string{"Ann", "Lee", ""}},
		{Position: 1, ID: "entry-2", FormType: "userInfo", Cells: []string{"Bob", "Ray", "41"}},
	}
	if diff := cmp.Diff(wantRows, table.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLedgerTable_ForeignKeysSortedAfterSchema(t *testing.T) {
	eng := testsupport.Engine(t, session.WithFormType("addressInfo"))
	testsupport.Fill(t, eng, map[string]string{"street": "1 Main", "city": "Austin", "state": "Texas"})
	if _, err := eng.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := eng.SelectFormType("userInfo"); err != nil {
		t.Fatalf("select: %v", err)
	}

	table := render.LedgerTable(eng.Snapshot())
	var names []string
	for _, column := range table.Columns {
		names = append(names, column.Name+"="+column.Label)
	}
	want := []string{"city=City", "state=State", "street=Street"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestLedgerTable_Empty(t *testing.T) {
	table := render.LedgerTable(testsupport.Engine(t).Snapshot())
	if !table.Empty() || table.Columns != nil {
		t.Fatalf("expected empty table, got %#v", table)
	}
}

func TestFormTypeOptions(t *testing.T) {
	got := render.FormTypeOptions(testsupport.Registry(t))
	want := []render.FormTypeOption{
		{Type: "userInfo", Title: "User Information"},
		{Type: "addressInfo", Title: "Address Information"},
		{Type: "paymentInfo", Title: "Payment Information"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}
