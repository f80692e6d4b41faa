package editor

import "github.com/google/uuid"

// defaultHistoryDepth bounds the undo stack when NewScene is handed a non
// positive depth.
const defaultHistoryDepth = 50

// snapshot is one undo record: the model list and selection after a
// committed mutation. Models are copied by value; the meshes they point at
// are immutable and shared.
type snapshot struct {
	action    string
	models    []Model
	selection []uuid.UUID
}

// history holds the undo records. idx is the record the scene currently
// shows; undo steps back from it, redo forward. Saving mid-stack truncates
// the redo tail, and the oldest record is evicted past depth.
type history struct {
	idx   int
	recs  []snapshot
	depth int
}

func newHistory(depth int) *history {
	if depth <= 0 {
		depth = defaultHistoryDepth
	}
	return &history{idx: -1, depth: depth}
}

func (h *history) save(rec snapshot) {
	h.recs = append(h.recs[:h.idx+1], rec)
	if len(h.recs) > h.depth {
		h.recs = h.recs[1:]
	}
	h.idx = len(h.recs) - 1
}

func (h *history) canUndo() bool { return h.idx > 0 }

func (h *history) canRedo() bool { return h.idx < len(h.recs)-1 }

func (h *history) undo() (snapshot, bool) {
	if !h.canUndo() {
		return snapshot{}, false
	}
	h.idx--
	return h.recs[h.idx], true
}

func (h *history) redo() (snapshot, bool) {
	if !h.canRedo() {
		return snapshot{}, false
	}
	h.idx++
	return h.recs[h.idx], true
}
