package sqlite

import (
	"fmt"
	"time"

	"github.com/pdxmph/tasks-tui/internal/storage"
	"github.com/pdxmph/tasks-tui/internal/task"
)

// CreateFixturesDatabase creates a database with realistic sample tasks
// stored under key
func CreateFixturesDatabase(dbPath, key string) error {
	// Initialize empty database
	if err := Initialize(dbPath); err != nil {
		return fmt.Errorf("initializing fixtures database: %w", err)
	}

	database, err := Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening fixtures database: %w", err)
	}
	defer database.Close()

	list := storage.NewTaskList(database, key, nil)
	if err := list.Save(Fixtures(time.Now())); err != nil {
		return fmt.Errorf("saving fixture tasks: %w", err)
	}

	return nil
}

// Fixtures returns sample tasks with due dates relative to now
func Fixtures(now time.Time) []task.Task {
	base := now.UnixMilli()
	due := func(days int) string {
		return now.AddDate(0, 0, days).Format(task.DateLayout)
	}

	return []task.Task{
		// Overdue and still open
		{ID: base - 9000, Name: "Renew passport", DueDate: due(-3), Priority: task.PriorityHigh},
		{ID: base - 8000, Name: "Reply to landlord about lease", DueDate: due(-1), Priority: task.PriorityMedium},

		// This week
		{ID: base - 7000, Name: "Book dentist appointment", DueDate: due(2), Priority: task.PriorityLow},
		{ID: base - 6000, Name: "Prepare quarterly report", DueDate: due(4), Priority: task.PriorityHigh},
		{ID: base - 5000, Name: "Buy birthday gift for Sam", DueDate: due(5), Priority: task.PriorityMedium},

		// Later
		{ID: base - 4000, Name: "Clean out garage", DueDate: due(21), Priority: task.PriorityLow},
		{ID: base - 3000, Name: "Plan summer trip", DueDate: due(45), Priority: task.PriorityMedium},

		// Already done
		{ID: base - 2000, Name: "File tax return", DueDate: due(-10), Priority: task.PriorityHigh, Completed: true},
		{ID: base - 1000, Name: "Return library books", DueDate: due(-2), Priority: task.PriorityLow, Completed: true},
	}
}
