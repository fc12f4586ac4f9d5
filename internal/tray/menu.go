package tray

// Action identifies what a menu item does when clicked.
type Action int

const (
	ActionNone Action = iota
	ActionRestart
	ActionExit
)

func (a Action) String() string {
	switch a {
	case ActionRestart:
		return "restart"
	case ActionExit:
		return "exit"
	default:
		return "none"
	}
}

// MenuItem is one entry of the tray menu.
type MenuItem struct {
	Label     string
	Separator bool
	Disabled  bool
	ShowIcon  bool
	Action    Action
}

// MenuModel is the fixed tray menu: a disabled title carrying the icon, a separator,
// Restart and Exit.
func MenuModel(title string) []MenuItem {
	return []MenuItem{
		{Label: title, Disabled: true, ShowIcon: true},
		{Separator: true},
		{Label: "Restart", Action: ActionRestart},
		{Label: "Exit", Action: ActionExit},
	}
}
