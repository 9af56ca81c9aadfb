package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hearthward/grocer/internal/service"
)

// Browse loads the shopping list and runs the read-only browser until the
// user quits.
func Browse(ctx context.Context, storage service.Storage) error {
	items, err := storage.LoadList(ctx)
	if err != nil {
		return fmt.Errorf("failed to load list: %w", err)
	}

	program := tea.NewProgram(NewModel(items), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("list browser failed: %w", err)
	}
	return nil
}
