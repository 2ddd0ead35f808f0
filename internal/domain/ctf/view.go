package ctf

// EventView is a read-only copy of an event and its chats.
type EventView struct {
	Name       string          `json:"name"`
	MainChat   string          `json:"mainChat,omitempty"`
	Doc        string          `json:"doc,omitempty"`
	Challenges []ChallengeView `json:"challenges"`
}

// ChallengeView is a read-only copy of a challenge.
type ChallengeView struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	State      State    `json:"state"`
	Chat       string   `json:"chat,omitempty"`
	Workers    []Worker `json:"workers"`
}

// Snapshot copies every event so it can be read outside the caller's lock.
func (d *Directory) Snapshot() []EventView {
	events := d.Events()
	out := make([]EventView, 0, len(events))
	for _, ev := range events {
		ec := d.chats[ev.Name]
		view := EventView{
			Name:       ev.Name,
			MainChat:   ec.mainChat,
			Doc:        ec.doc,
			Challenges: make([]ChallengeView, 0, len(ev.order)),
		}
		for _, c := range ev.Challenges() {
			view.Challenges = append(view.Challenges, ChallengeView{
				Name:       c.Name,
				Categories: c.Categories(),
				State:      c.State(),
				Chat:       ec.challenges[c.Name],
				Workers:    c.Workers(),
			})
		}
		out = append(out, view)
	}
	return out
}
