package poker

import (
	"fmt"
	"strings"
)

func playerName(players []PlayerPublic, id PlayerID) string {
	for _, p := range players {
		if p.ID == id {
			return p.Name
		}
	}
	return fmt.Sprintf("P%d", id)
}

// FormatEvent renders one log entry as a single line of human-readable
// text, for Debug-level server logging of hand progress.
func FormatEvent(ev ActionEvent, players []PlayerPublic) string {
	switch ev.Kind {
	case "StageChanged":
		return fmt.Sprintf("== %s ==", strings.ToUpper(ev.Stage.String()))
	case "DealtHole":
		return fmt.Sprintf("dealt hole to %s", playerName(players, ev.DealtTo))
	case "DealtCommunity":
		return fmt.Sprintf("board +%s", formatCards(ev.Cards))
	case "Showdown":
		return "showdown"
	case "PotAwarded":
		names := make([]string, len(ev.Winners))
		for i, w := range ev.Winners {
			names[i] = playerName(players, w)
		}
		return fmt.Sprintf("pot awarded %d -> [%s]", ev.Amount, strings.Join(names, ", "))
	case "PlayerAction":
		return formatPlayerAction(ev, players)
	default:
		return fmt.Sprintf("event(%s)", ev.Kind)
	}
}

func formatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatPlayerAction(ev ActionEvent, players []PlayerPublic) string {
	who := playerName(players, ev.PlayerID)
	switch ev.Action.Kind {
	case "Fold":
		return fmt.Sprintf("FOLD %s", who)
	case "Check":
		return fmt.Sprintf("CHECK %s", who)
	case "Call":
		return fmt.Sprintf("CALL %s %d", who, ev.Action.Amount)
	case "Bet":
		return fmt.Sprintf("BET %s %d", who, ev.Action.Amount)
	case "Raise":
		return fmt.Sprintf("RAISE %s to %d (+%d)", who, ev.Action.RaiseTo, ev.Action.RaiseBy)
	case "PostBlind":
		return fmt.Sprintf("%s %s %d", strings.ToUpper(ev.Action.BlindKind), who, ev.Action.BlindPaid)
	default:
		return fmt.Sprintf("action(%s) %s", ev.Action.Kind, who)
	}
}
