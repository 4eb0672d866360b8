package application

import (
	"fmt"

	"github.com/JonMunkholm/racechart/internal/core"
	tea "github.com/charmbracelet/bubbletea"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func() tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

func buildMenuTree(m *Model) *Menu {
	root := &Menu{
		Title: "Menu",
		Items: []MenuItem{
			{Label: "Samples ->", Submenu: loadSamplesMenu(m)},
			{Label: "Import CSV file", Action: openPrompt(promptImport)},
			{Label: "Write CSV file", Action: openPrompt(promptTemplate)},
			{Label: "Set metric", Action: openPrompt(promptMetric)},
			{Label: "Add row", Action: openPrompt(promptLabel)},
			{Label: "Back"},
		},
	}

	linkParents(root, nil)

	return root
}

/* ----------------------------------------
	LOAD MENUS
---------------------------------------- */

func loadSamplesMenu(m *Model) *Menu {
	infos := core.Samples()
	if len(infos) == 0 {
		return &Menu{
			Title: "Samples",
			Items: []MenuItem{
				{Label: "No samples registered"},
				{Label: "Back"},
			},
		}
	}

	items := make([]MenuItem, 0, len(infos)+1)
	for _, info := range infos {
		key := info.Key
		items = append(items, MenuItem{
			Label: fmt.Sprintf("%s (%d rows, %d steps)", info.Label, info.Rows, info.StepCount),
			Action: func() tea.Cmd {
				return loadSample(m.sess, key)
			},
		})
	}
	items = append(items, MenuItem{Label: "Back"})

	return &Menu{Title: "Samples", Items: items}
}

func openPrompt(kind promptKind) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return openPromptMsg(kind) }
	}
}
