package connectfour

import (
	"encoding/json"
	"fmt"

	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
)

// Type is the registered GameType tag for connect four.
const Type models.GameType = "connectfour"

// View is the client-facing shape, column-major to match Move.Column.
type View struct {
	Board         [Cols][Rows]string `json:"board"`
	CurrentPlayer string             `json:"currentPlayer"`
	Winner        string             `json:"winner,omitempty"`
	Draw          bool               `json:"draw"`
}

func decodeMove(raw []byte) (any, error) {
	var mv Move
	if err := json.Unmarshal(raw, &mv); err != nil {
		return nil, fmt.Errorf("decode connectfour move: %w", err)
	}
	return mv, nil
}

func toCommand(op module.GameOperation, replyTo chan<- module.Reply) (module.Command, error) {
	switch op.Kind {
	case module.OpMakeMove:
		mv, ok := op.Payload.(Move)
		if !ok {
			return nil, module.ErrUnknown("expected a connectfour move payload")
		}
		return module.MakeMoveCommand{PlayerId: op.PlayerId, Move: mv, ReplyTo: replyTo}, nil
	case module.OpGetState:
		return module.GetStateCommand{ReplyTo: replyTo}, nil
	default:
		return nil, module.ErrUnknown("unsupported operation")
	}
}

func create(gameId models.GameId, players []models.Player) (module.GameModel, error) {
	ids := make([]models.PlayerId, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return New(ids), nil
}

func emptyState() module.GameModel {
	return &State{}
}

func stateView(state module.GameModel) any {
	s := state.(*State)
	v := View{Draw: s.Draw}
	for c := 0; c < Cols; c++ {
		for r := 0; r < Rows; r++ {
			v.Board[c][r] = string(s.Board[c][r])
		}
	}
	v.CurrentPlayer = string(s.CurrentDsc)
	if s.Winner != DiscEmpty {
		v.Winner = string(s.Winner)
	}
	return v
}

// Register adds the connect-four bundle to registry. Call once at startup.
func Register(registry *module.Registry) {
	registry.Register(module.Bundle{
		Type:       Type,
		Bounds:     models.PlayerBounds{Min: 2, Max: 2},
		DecodeMove: decodeMove,
		ToCommand:  toCommand,
		Create:     create,
		EmptyState: emptyState,
		StateView:  stateView,
	})
}
