package table

import "ChurnRadar_AnalyticsProject/internal/models"

// View is the state behind the customer table: the full row set plus the
// search term, sort column and current page.
type View struct {
	Rows    []models.Record
	Search  string
	Sort    SortState
	Page    int
	PerPage int
}

func NewView(rows []models.Record) *View {
	return &View{Rows: rows, Page: 1, PerPage: DefaultPerPage}
}

// SetSearch changes the search term and returns to the first page.
func (v *View) SetSearch(term string) {
	v.Search = term
	v.Page = 1
}

func (v *View) SortBy(key string) {
	v.Sort = v.Sort.Toggle(key)
}

// Filtered applies the search term and sort to every row.
func (v *View) Filtered() []models.Record {
	rows := Filter(v.Rows, v.Search)
	if v.Sort.Key != "" {
		rows = Sort(rows, v.Sort.Key, v.Sort.Direction)
	}
	return rows
}

// Columns is the export header: the keys of the first unfiltered row.
func (v *View) Columns() []string {
	return Columns(v.Rows)
}

// Items returns the rows on the current page.
func (v *View) Items() []models.Record {
	return Paginate(v.Filtered(), v.Page, v.PerPage)
}

func (v *View) TotalPages() int {
	return TotalPages(len(v.Filtered()), v.PerPage)
}

func (v *View) NextPage() {
	if v.Page < v.TotalPages() {
		v.Page++
	}
}

func (v *View) PrevPage() {
	if v.Page > 1 {
		v.Page--
	}
}
