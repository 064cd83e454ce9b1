package propset

import (
	"fmt"
	"sort"
	"sync"

	"github.com/wippyai/wsp-dissect/errors"
	"github.com/wippyai/wsp-dissect/wire"
)

// Well-known property set identifiers.
var (
	Storage            = wire.MustParseGUID("{B725F130-47EF-101A-A5F1-02608C9EEBAC}")
	Query              = wire.MustParseGUID("{49691C90-7E17-101A-A91C-08002B2ECDA9}")
	SummaryInformation = wire.MustParseGUID("{F29F85E0-4FF9-1068-AB91-08002B27B3D9}")
	DocSummaryInfo     = wire.MustParseGUID("{D5CDD502-2E9C-101B-9397-08002B2CF9AE}")
)

// Set is a named property set and the names of its property IDs.
type Set struct {
	GUID       wire.GUID
	Name       string
	Properties map[uint32]string
}

// Table maps property set GUIDs to names. Safe for concurrent use.
type Table struct {
	mu   sync.RWMutex
	sets map[wire.GUID]*Set
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{sets: make(map[wire.GUID]*Set)}
}

// DefaultTable returns a new table holding the well-known property sets.
func DefaultTable() *Table {
	t := NewTable()
	t.mustRegister(Storage, "PSGUID_STORAGE", map[uint32]string{
		2: "Directory", 3: "ClassId", 4: "StorageType", 8: "FileIndex",
		9: "LastChangeUsn", 10: "FileName", 11: "ParentWorkId", 12: "Size",
		13: "Attributes", 14: "WriteTime", 15: "CreateTime", 16: "AccessTime",
		17: "ChangeTime", 18: "AllocSize", 20: "ShortName",
	})
	t.mustRegister(Query, "PSGUID_QUERY", map[uint32]string{
		2: "RankVector", 3: "Rank", 4: "HitCount", 5: "WorkId", 6: "All",
		7: "Unfiltered", 8: "RevName", 9: "VirtualPath", 10: "LastSeenTime",
	})
	t.mustRegister(SummaryInformation, "FMTID_SummaryInformation", map[uint32]string{
		2: "Title", 3: "Subject", 4: "Author", 5: "Keywords", 6: "Comments",
		7: "Template", 8: "LastAuthor", 9: "RevNumber", 10: "EditTime",
		11: "LastPrinted", 12: "CreateDtm", 13: "LastSaveDtm", 14: "PageCount",
		15: "WordCount", 16: "CharCount", 17: "Thumbnail", 18: "AppName",
		19: "Security",
	})
	t.mustRegister(DocSummaryInfo, "FMTID_DocSummaryInformation", map[uint32]string{
		2: "Category", 3: "PresentationTarget", 4: "ByteCount", 5: "LineCount",
		6: "ParCount", 7: "SlideCount", 8: "NoteCount", 9: "HiddenCount",
		10: "MMClipCount", 11: "Scale", 12: "HeadingPair", 13: "DocParts",
		14: "Manager", 15: "Company", 16: "LinksDirty",
	})
	return t
}

func (t *Table) mustRegister(g wire.GUID, name string, props map[uint32]string) {
	if err := t.Register(g, name, props); err != nil {
		panic(err)
	}
}

// Register adds or replaces a property set.
func (t *Table) Register(g wire.GUID, name string, props map[uint32]string) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("property set %s has no name", g))
	}
	cp := make(map[uint32]string, len(props))
	for id, n := range props {
		cp[id] = n
	}
	t.mu.Lock()
	t.sets[g] = &Set{GUID: g, Name: name, Properties: cp}
	t.mu.Unlock()
	return nil
}

// Lookup returns the property set registered for g.
func (t *Table) Lookup(g wire.GUID) (*Set, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sets[g]
	return s, ok
}

// PropertyName returns the name of property id in set g.
func (t *Table) PropertyName(g wire.GUID, id uint32) (string, bool) {
	s, ok := t.Lookup(g)
	if !ok {
		return "", false
	}
	name, ok := s.Properties[id]
	return name, ok
}

// Sets lists the registered property sets ordered by name.
func (t *Table) Sets() []*Set {
	t.mu.RLock()
	out := make([]*Set, 0, len(t.sets))
	for _, s := range t.sets {
		out = append(out, s)
	}
	t.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
