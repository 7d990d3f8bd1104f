package library

import "sort"

// journal records local mutations by id so that a reload which started
// before them cannot undo them. A nil value is a tombstone.
type journal[T any] struct {
	entries map[int64]journalEntry[T]
}

type journalEntry[T any] struct {
	seq   uint64
	value *T
}

func newJournal[T any]() journal[T] {
	return journal[T]{entries: make(map[int64]journalEntry[T])}
}

func (j *journal[T]) put(id int64, seq uint64, v T) {
	j.entries[id] = journalEntry[T]{seq: seq, value: &v}
}

func (j *journal[T]) remove(id int64, seq uint64) {
	j.entries[id] = journalEntry[T]{seq: seq}
}

func (j *journal[T]) clear() {
	j.entries = make(map[int64]journalEntry[T])
}

// reconcile overlays the mutations newer than since onto fetched, a list
// read by a reload that started at since. Updated items keep their
// position, items created locally are appended in mutation order and
// tombstoned items are dropped. Entries at or before since are forgotten:
// fetched already reflects them.
func (j *journal[T]) reconcile(fetched []T, idOf func(T) int64, since uint64) []T {
	out := make([]T, 0, len(fetched))
	seen := make(map[int64]bool, len(fetched))

	for _, item := range fetched {
		id := idOf(item)
		seen[id] = true
		e, ok := j.entries[id]
		switch {
		case !ok || e.seq <= since:
			out = append(out, item)
		case e.value != nil:
			out = append(out, *e.value)
		}
	}

	var created []journalEntry[T]
	for id, e := range j.entries {
		if e.seq <= since {
			delete(j.entries, id)
			continue
		}
		if e.value != nil && !seen[id] {
			created = append(created, e)
		}
	}
	sort.Slice(created, func(a, b int) bool { return created[a].seq < created[b].seq })
	for _, e := range created {
		out = append(out, *e.value)
	}
	return out
}
