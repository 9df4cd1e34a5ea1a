package progress

import (
	"testing"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
)

func TestCurrentTopic(t *testing.T) {
	items := []catalog.SyllabusItem{
		{Topic: "Pengenalan Alat", Sessions: 1},
		{Topic: "Pola Dasar", Sessions: 3},
		{Topic: "Menjahit", Sessions: 2},
	}

	tests := []struct {
		completed int
		label     string
		session   int
	}{
		{0, "Pengenalan Alat", 1},
		{1, "Pola Dasar - 1", 1},
		{2, "Pola Dasar - 2", 2},
		{3, "Pola Dasar - 3", 3},
		{4, "Menjahit - 1", 1},
		{5, "Menjahit - 2", 2},
		{6, "Menjahit (Selesai)", 2},
		{9, "Menjahit (Selesai)", 2},
	}

	for _, tt := range tests {
		topic := CurrentTopic(items, tt.completed)
		assert.Equal(t, tt.label, topic.Label(), "completed=%d", tt.completed)
		assert.Equal(t, tt.session, topic.SessionInTopic, "completed=%d", tt.completed)
	}
}

func TestCurrentTopic_NoSyllabus(t *testing.T) {
	topic := CurrentTopic(nil, 3)
	assert.Equal(t, "", topic.Label())
	assert.False(t, topic.Finished)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 50, Percentage(4, 8))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 100, Percentage(8, 8))
}
