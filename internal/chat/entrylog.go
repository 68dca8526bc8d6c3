package chat

// Entry is a single rendered transcript row. Pending marks the transient
// placeholder shown while a backend call is in flight; pending entries never
// enter the durable transcript, only the rendering sink.
type Entry struct {
	Seq     int
	Role    string
	Content string
	Pending bool
}

// Sink receives transcript rows for display. Implementations are
// append-only: prior rows are never re-rendered, and the view stays pinned
// to the newest row after every Append.
type Sink interface {
	Append(Entry)
	// RemovePending removes the most recently appended pending entry, if
	// any. It must never remove a non-pending row, even one with identical
	// text.
	RemovePending()
	Clear()
}

// EntryLog is the canonical Sink: an ordered list of rows with monotonically
// increasing sequence numbers, so a renderer can cache each row's output by
// Seq and only draw what it has not seen.
type EntryLog struct {
	entries []Entry
	nextSeq int
}

func NewEntryLog() *EntryLog {
	return &EntryLog{}
}

func (l *EntryLog) Append(e Entry) {
	e.Seq = l.nextSeq
	l.nextSeq++
	l.entries = append(l.entries, e)
}

func (l *EntryLog) RemovePending() {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Pending {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *EntryLog) Clear() {
	l.entries = l.entries[:0]
}

// Entries returns the backing slice; callers must treat it as read-only.
func (l *EntryLog) Entries() []Entry {
	return l.entries
}
