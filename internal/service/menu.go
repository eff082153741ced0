package service

import (
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
)

type MenuItem struct {
	Choice int               `json:"choice"`
	Tool   domain.Tool       `json:"tool"`
	Label  string            `json:"label"`
	Status domain.ToolStatus `json:"status"`
}

// Menu lists every tool in menu order, numbered from 1.
func Menu() []MenuItem {
	tools := domain.Tools()
	items := make([]MenuItem, 0, len(tools))
	for i, t := range tools {
		items = append(items, MenuItem{
			Choice: i + 1,
			Tool:   t,
			Label:  t.Label(),
			Status: t.Status(),
		})
	}
	return items
}

// ToolForChoice resolves a menu number as printed by Menu.
func ToolForChoice(choice int) (domain.Tool, error) {
	tools := domain.Tools()
	if choice < 1 || choice > len(tools) {
		return "", fmt.Errorf("%w: menu choice %d", ErrUnknownTool, choice)
	}
	return tools[choice-1], nil
}
