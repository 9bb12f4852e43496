package statusbar

import "github.com/riordanpawley/vantage/internal/types"

// HoldingHints replace the board hints while a card is picked up
const HoldingHints = "h/l: column  j/k: position  M/Enter: drop  Esc: cancel"

// GetHints returns the keybinding hints for the given screen
func GetHints(screen types.Screen) string {
	switch screen {
	case types.ScreenLogin:
		return "Tab: next field  Enter: sign in  ctrl+r: register  ctrl+f: forgot password"
	case types.ScreenRegister, types.ScreenPasswordReset:
		return "Tab: next field  Enter: submit  Esc: back"
	case types.ScreenBoard:
		return "h/l: columns  j/k: tasks  m: move  n: new  d: delete  Enter: details  ?: help"
	case types.ScreenAssessments:
		return "j/k: select  Enter: report  s: start  b: board  Esc: back"
	case types.ScreenWizard:
		return "j/k: question  1-9: answer  c: comment  a: attach  n/p: step  Esc: exit"
	case types.ScreenSettings:
		return "Tab: next tab  Enter: edit  Esc: back"
	case types.ScreenPortal:
		return "j/k: tasks  r: refresh  q: quit"
	default:
		return ""
	}
}
