package viewport

// ChangeSource tags the actor that most recently wrote the viewport.
type ChangeSource int

const (
	SourceNone ChangeSource = iota
	SourceExternalViewer
	SourceTableRowSync
	SourceTableRowSearch
)

func (s ChangeSource) String() string {
	switch s {
	case SourceExternalViewer:
		return "external-viewer"
	case SourceTableRowSync:
		return "table-row-sync"
	case SourceTableRowSearch:
		return "table-row-search"
	default:
		return "none"
	}
}

// FromTable reports whether the source is one of the two gene tables.
func (s ChangeSource) FromTable() bool {
	return s == SourceTableRowSync || s == SourceTableRowSearch
}
