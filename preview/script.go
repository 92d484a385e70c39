package preview

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a preview script.
type scriptStep struct {
	Action string `json:"action"`
	// Name is the editing action for "press", e.g. "blur+".
	Name   string `json:"name,omitempty"`
	Repeat int    `json:"repeat,omitempty"`
	Label  string `json:"label,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// scriptTarget is what a Script drives, one step per tick.
type scriptTarget interface {
	dispatch(a Action)
	save(label string)
	// busy reports whether the target is still settling, e.g. animating.
	busy() bool
}

// Script replays editing actions and saves across ticks, for reproducing
// a session without a keyboard. Attach one with Config.Script.
type Script struct {
	steps     []scriptStep
	actions   []Action
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script:
//
//	{"steps": [
//	  {"action": "press", "name": "blur+", "repeat": 4},
//	  {"action": "wait", "frames": 10},
//	  {"action": "save", "label": "soft"}
//	]}
func LoadScript(jsonData []byte) (*Script, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("shadowgen: parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("shadowgen: parse script: no steps")
	}
	r := &Script{steps: sc.Steps, actions: make([]Action, len(sc.Steps))}
	for i, st := range sc.Steps {
		switch st.Action {
		case "press":
			a, err := ParseAction(st.Name)
			if err != nil {
				return nil, fmt.Errorf("shadowgen: parse script: step %d: %w", i, err)
			}
			r.actions[i] = a
		case "wait", "save":
		default:
			return nil, fmt.Errorf("shadowgen: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return r, nil
}

// Done reports whether all steps have run.
func (r *Script) Done() bool {
	return r.done
}

func (r *Script) step(t scriptTarget) {
	if r.done || t.busy() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	a := r.actions[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		for range max(st.Repeat, 1) {
			t.dispatch(a)
		}
	case "save":
		t.save(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
