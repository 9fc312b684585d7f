package engine

import "encoding/json"

// HistoryCapacity bounds the undo buffer
const HistoryCapacity = 10

// HistoryEntry is the pre-lock snapshot restored by an undo
type HistoryEntry struct {
	Grid  Grid `json:"grid"`
	Score int  `json:"score"`
	Level int  `json:"level"`
}

// History is a fixed-capacity ring of snapshots. It has value semantics: Push and Pop return
// a new History and leave the receiver untouched, so states that share one stay immutable.
// Entries are never modified once pushed.
type History struct {
	entries [HistoryCapacity]*HistoryEntry
	head    int // index of the oldest entry
	size    int
}

// Len returns the number of stored snapshots
func (h History) Len() int {
	return h.size
}

// Push appends an entry, evicting the oldest when full
func (h History) Push(e HistoryEntry) History {
	entry := e
	if h.size < HistoryCapacity {
		h.entries[(h.head+h.size)%HistoryCapacity] = &entry
		h.size++
		return h
	}
	h.entries[h.head] = &entry
	h.head = (h.head + 1) % HistoryCapacity
	return h
}

// Pop removes the most recent entry. ok is false when the history is empty.
func (h History) Pop() (HistoryEntry, History, bool) {
	if h.size == 0 {
		return HistoryEntry{}, h, false
	}
	idx := (h.head + h.size - 1) % HistoryCapacity
	e := *h.entries[idx]
	h.entries[idx] = nil
	h.size--
	return e, h, true
}

// Peek returns the most recent entry without removing it
func (h History) Peek() (HistoryEntry, bool) {
	if h.size == 0 {
		return HistoryEntry{}, false
	}
	return *h.entries[(h.head+h.size-1)%HistoryCapacity], true
}

// Entries returns the snapshots oldest first
func (h History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, 0, h.size)
	for i := 0; i < h.size; i++ {
		out = append(out, *h.entries[(h.head+i)%HistoryCapacity])
	}
	return out
}

// MarshalJSON encodes the history as an array, oldest first
func (h History) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Entries())
}

// UnmarshalJSON rebuilds the ring, keeping the newest HistoryCapacity entries
func (h *History) UnmarshalJSON(data []byte) error {
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	var rebuilt History
	for _, e := range entries {
		rebuilt = rebuilt.Push(e)
	}
	*h = rebuilt
	return nil
}
