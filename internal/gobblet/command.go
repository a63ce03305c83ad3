package gobblet

import (
	"fmt"

	"github.com/rocketscienceinc/gobblet-backend/internal/entity"
)

// Command is one player action, decoded from whatever gesture produced it.
type Command interface {
	Actor() entity.Player
	command()
}

// PlaceCommand - put a piece of the given size from the hand onto Dest.
type PlaceCommand struct {
	Player entity.Player
	Size   entity.Size
	Dest   int
}

// MoveCommand - move the top piece of Src onto Dest.
type MoveCommand struct {
	Player entity.Player
	Src    int
	Dest   int
}

func (that PlaceCommand) Actor() entity.Player { return that.Player }
func (that MoveCommand) Actor() entity.Player  { return that.Player }

func (PlaceCommand) command() {}
func (MoveCommand) command()  {}

func (that PlaceCommand) String() string {
	return fmt.Sprintf("%s places %s on %d", that.Player, that.Size, that.Dest)
}

func (that MoveCommand) String() string {
	return fmt.Sprintf("%s moves %d to %d", that.Player, that.Src, that.Dest)
}

type originKind int

const (
	originNone originKind = iota
	originHand
	originCell
)

// Origin is where a piece would come from: the hand (by size) or a board cell.
// The zero value is no origin at all and builds no command.
type Origin struct {
	kind originKind
	size entity.Size
	cell int
}

func FromHand(size entity.Size) Origin {
	return Origin{kind: originHand, size: size}
}

func FromCell(index int) Origin {
	return Origin{kind: originCell, cell: index}
}

func (that Origin) IsValid() bool { return that.kind != originNone }

func (that Origin) InHand() bool { return that.kind == originHand }

func (that Origin) Size() entity.Size { return that.size }

func (that Origin) Cell() int { return that.cell }

// Command - builds the command that would carry a piece from this origin to dest.
func (that Origin) Command(player entity.Player, dest int) (Command, bool) {
	switch that.kind {
	case originHand:
		return PlaceCommand{Player: player, Size: that.size, Dest: dest}, true
	case originCell:
		return MoveCommand{Player: player, Src: that.cell, Dest: dest}, true
	default:
		return nil, false
	}
}
