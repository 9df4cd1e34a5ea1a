package progress

import (
	"fmt"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
)

// Topic is the syllabus position of a student in a class.
type Topic struct {
	Name           string `json:"name"`
	SessionInTopic int    `json:"session_in_topic"`
	TopicSessions  int    `json:"topic_sessions"`
	Finished       bool   `json:"finished"`
}

// Label renders the topic as shown to users. Multi-session topics carry the
// session number, a finished syllabus carries " (Selesai)".
func (t Topic) Label() string {
	switch {
	case t.Name == "":
		return ""
	case t.Finished:
		return t.Name + " (Selesai)"
	case t.TopicSessions > 1:
		return fmt.Sprintf("%s - %d", t.Name, t.SessionInTopic)
	default:
		return t.Name
	}
}

// CurrentTopic walks the ordered syllabus with a cumulative session count and
// returns the first item not yet covered by completed sessions.
func CurrentTopic(items []catalog.SyllabusItem, completed int) Topic {
	if len(items) == 0 {
		return Topic{}
	}

	cumulative := 0
	for _, it := range items {
		previous := cumulative
		cumulative += it.Sessions
		if completed < cumulative {
			return Topic{
				Name:           it.Topic,
				SessionInTopic: completed - previous + 1,
				TopicSessions:  it.Sessions,
			}
		}
	}

	last := items[len(items)-1]
	return Topic{Name: last.Topic, SessionInTopic: last.Sessions, TopicSessions: last.Sessions, Finished: true}
}

// Percentage returns completed/total as a whole percentage.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return completed * 100 / total
}
