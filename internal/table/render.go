package table

import "strconv"

// NoDataText is the placeholder shown when no row passes the filters.
const NoDataText = "No data found"

// Header is one rendered column heading.
type Header struct {
	Key       string
	Label     string
	ClassName string
	Sortable  bool
	Active    bool
	Arrow     string // "↑", "↓" or "" when not the sort key
}

// Cell is one rendered value.
type Cell struct {
	Content
	ClassName string
}

// Row is one rendered record. Serial is 1-based across pages.
type Row struct {
	Serial int
	Cells  []Cell
}

// Choice is one entry of a select control.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// Control is one rendered filter input.
type Control struct {
	Key         string
	Label       string
	Kind        Kind
	Placeholder string
	Value       string
	Choices     []Choice // select only; always starts with "All"
}

// Rendered is the complete presentation of the current view.
type Rendered struct {
	Title      string
	Headers    []Header
	Rows       []Row
	Empty      bool
	ColSpan    int
	Primary    []Control // text and select filters
	Range      []Control // Min/Max/From/To filters
	Total      int
	Summary    string
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	Paginated  bool
	Sort       SortState
}

// Render derives the view and formats every visible cell.
func (e *Engine[T]) Render() Rendered {
	v := e.View()
	r := Rendered{
		Title:      e.title,
		Empty:      len(v.Rows) == 0,
		ColSpan:    len(e.schema.Columns) + 1,
		Total:      v.Total,
		Summary:    strconv.Itoa(v.Total) + " result(s) found",
		Page:       v.Page,
		TotalPages: v.TotalPages,
		HasPrev:    v.HasPrev(),
		HasNext:    v.HasNext(),
		Paginated:  v.Paginated,
		Sort:       e.sort,
	}

	for _, c := range e.schema.Columns {
		h := Header{Key: c.Key, Label: c.Label, ClassName: c.ClassName, Sortable: c.Sortable}
		if c.Sortable && e.sort.Key == c.Key {
			h.Active = true
			h.Arrow = e.sort.Direction.Arrow()
		}
		r.Headers = append(r.Headers, h)
	}

	for i, row := range v.Rows {
		out := Row{Serial: v.Offset + i + 1, Cells: make([]Cell, 0, len(e.schema.Columns))}
		for _, c := range e.schema.Columns {
			out.Cells = append(out.Cells, Cell{Content: e.cell(c, row), ClassName: c.ClassName})
		}
		r.Rows = append(r.Rows, out)
	}

	for _, f := range e.schema.Filters {
		ctl := Control{
			Key:         f.Key,
			Label:       f.DisplayLabel(),
			Kind:        f.Kind,
			Placeholder: f.Placeholder,
			Value:       e.values[f.Key],
		}
		if f.Kind == KindSelect {
			ctl.Choices = e.choices(f.Key)
		}
		if IsRangeKey(f.Key) {
			r.Range = append(r.Range, ctl)
		} else {
			r.Primary = append(r.Primary, ctl)
		}
	}
	return r
}

func (e *Engine[T]) cell(c Column[T], row T) Content {
	value := e.schema.Fields[c.Key](row)
	if c.Format != nil {
		return c.Format(value, row)
	}
	return Text(Stringify(value))
}

func (e *Engine[T]) choices(key string) []Choice {
	current := e.values[key]
	if current == "" {
		current = AllValue
	}
	out := []Choice{{Value: AllValue, Label: "All", Selected: current == AllValue}}
	for _, opt := range e.Options(key) {
		out = append(out, Choice{Value: opt, Label: opt, Selected: opt == current})
	}
	return out
}
