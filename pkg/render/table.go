package render

import (
	"sort"

	"github.com/goliatone/go-formsession/pkg/schema"
	"github.com/goliatone/go-formsession/pkg/session"
)

// Column is one header of the submitted-entries table.
type Column struct {
	Name  string
	Label string
}

// Row is one ledger entry laid out against the table columns. Position is the
// value callers pass back to RecallAt/RemoveAt.
type Row struct {
	Position int
	ID       string
	FormType string
	Cells    []string
}

// Table is the submitted-entries view of a snapshot.
type Table struct {
	Columns []Column
	Rows    []Row
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// LedgerTable lays out the snapshot's entries. Columns are the union of every
// entry's keys: fields of the active schema first, in schema order, then any
// other keys sorted by name. Entries missing a column get an empty cell.
func LedgerTable(snapshot session.Snapshot) Table {
	table := Table{}
	if len(snapshot.Entries) == 0 {
		return table
	}

	present := make(map[string]struct{})
	for _, entry := range snapshot.Entries {
		for key := range entry.Values {
			present[key] = struct{}{}
		}
	}

	for _, field := range snapshot.Fields {
		if _, ok := present[field.Name]; !ok {
			continue
		}
		table.Columns = append(table.Columns, Column{Name: field.Name, Label: field.Label})
		delete(present, field.Name)
	}
	extra := make([]string, 0, len(present))
	for key := range present {
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		table.Columns = append(table.Columns, Column{Name: key, Label: schema.DefaultLabeler(key)})
	}

	table.Rows = make([]Row, 0, len(snapshot.Entries))
	for pos, entry := range snapshot.Entries {
		row := Row{
			Position: pos,
			ID:       entry.ID,
			FormType: entry.FormType,
			Cells:    make([]string, len(table.Columns)),
		}
		for idx, column := range table.Columns {
			row.Cells[idx] = entry.Values[column.Name]
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// FormTypeOptions builds selector options from a registry in registration
// order.
func FormTypeOptions(registry *schema.Registry) []FormTypeOption {
	schemas := registry.Schemas()
	if len(schemas) == 0 {
		return nil
	}
	out := make([]FormTypeOption, 0, len(schemas))
	for _, form := range schemas {
		out = append(out, FormTypeOption{Type: form.Type, Title: form.Title})
	}
	return out
}
