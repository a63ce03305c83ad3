package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/gobblet-backend/internal/entity"
	"github.com/rocketscienceinc/gobblet-backend/internal/gobblet"
)

var errUsage = errors.New("usage")

const help = `commands:
  place <S|M|L> <cell>   put a piece from your hand on a cell (0-8)
  move <from> <to>       move your top piece to another cell
  legal <S|M|L|cell>     list the cells a piece could go to
  reset                  start over
  score                  show finished rounds
  help                   show this text
  quit                   leave`

var marks = map[entity.Player]string{
	entity.PlayerA: "×",
	entity.PlayerB: "○",
}

// Session is a hot-seat game on a pair of streams: both players share the same input.
type Session struct {
	logger *slog.Logger
	engine *gobblet.Engine
	score  entity.Score

	in  *bufio.Scanner
	out io.Writer
}

func New(logger *slog.Logger, in io.Reader, out io.Writer) *Session {
	return &Session{
		logger: logger.With("component", "terminal"),
		engine: gobblet.NewEngine(),

		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run - reads commands until quit, end of input or ctx is canceled.
// Cancellation returns at once, even while a line is still being typed.
func (that *Session) Run(ctx context.Context) error {
	that.printf("%s\n\n", help)
	that.render(that.engine.Snapshot())

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()

	lines, readErr := that.readLines(readCtx)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		that.prompt()

		var line string
		select {
		case <-ctx.Done():
			return nil
		case text, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				return nil
			}
			line = text
		}

		quit, err := that.dispatch(strings.Fields(line))
		if err != nil {
			that.printf("! %v\n", err)
		}
		if quit {
			that.printf("bye\n")
			return nil
		}
	}
}

// readLines - scans input on its own goroutine, which ends at end of input or once ctx is done.
func (that *Session) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		for that.in.Scan() {
			select {
			case lines <- that.in.Text():
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}

		readErr <- that.in.Err()
	}()

	return lines, readErr
}

func (that *Session) dispatch(args []string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}

	switch strings.ToLower(args[0]) {
	case "place", "p":
		return false, that.place(args[1:])
	case "move", "m":
		return false, that.move(args[1:])
	case "legal", "l":
		return false, that.legal(args[1:])
	case "reset":
		that.render(that.engine.Reset())
		return false, nil
	case "score":
		that.printf("%s %d  %s %d  draws %d\n", marks[entity.PlayerA], that.score.A, marks[entity.PlayerB], that.score.B, that.score.Draws)
		return false, nil
	case "help", "?":
		that.printf("%s\n", help)
		return false, nil
	case "quit", "exit", "q":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q, type help", args[0])
	}
}

func (that *Session) place(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: place <S|M|L> <cell>", errUsage)
	}

	size, err := entity.ParseSize(args[0])
	if err != nil {
		return err
	}

	cell, err := parseCell(args[1])
	if err != nil {
		return err
	}

	return that.apply(gobblet.PlaceCommand{Player: that.engine.Snapshot().Turn, Size: size, Dest: cell})
}

func (that *Session) move(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: move <from> <to>", errUsage)
	}

	from, err := parseCell(args[0])
	if err != nil {
		return err
	}

	to, err := parseCell(args[1])
	if err != nil {
		return err
	}

	return that.apply(gobblet.MoveCommand{Player: that.engine.Snapshot().Turn, Src: from, Dest: to})
}

func (that *Session) apply(cmd gobblet.Command) error {
	state, err := that.engine.Apply(cmd)
	if err != nil {
		return err
	}

	that.logger.Debug("command applied", "command", cmd)
	that.render(state)

	if state.IsFinished() {
		that.score.Record(state)
	}

	return nil
}

func (that *Session) legal(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: legal <S|M|L|cell>", errUsage)
	}

	var origin gobblet.Origin
	if size, err := entity.ParseSize(args[0]); err == nil {
		origin = gobblet.FromHand(size)
	} else {
		cell, cellErr := parseCell(args[0])
		if cellErr != nil {
			return fmt.Errorf("%w: legal <S|M|L|cell>", errUsage)
		}
		origin = gobblet.FromCell(cell)
	}

	cells := that.engine.LegalDestinations(that.engine.Snapshot().Turn, origin)
	if len(cells) == 0 {
		that.printf("no legal destinations\n")
		return nil
	}

	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = strconv.Itoa(cell)
	}
	that.printf("legal: %s\n", strings.Join(parts, " "))

	return nil
}

func (that *Session) prompt() {
	state := that.engine.Snapshot()
	if state.IsFinished() {
		that.printf("(game over, type reset) > ")
		return
	}
	that.printf("%s %s > ", state.Turn, marks[state.Turn])
}

func (that *Session) render(state entity.GameState) {
	var b strings.Builder

	b.WriteString("\n")
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			index := row*3 + col
			cells[col] = renderCell(state.Board[index], index)
		}
		b.WriteString(strings.Join(cells, "|"))
		b.WriteString("\n")
		if row < 2 {
			b.WriteString("----+----+----\n")
		}
	}
	b.WriteString("\n")

	for _, player := range entity.Players {
		fmt.Fprintf(&b, "%s %s hand:", player, marks[player])
		for _, size := range entity.Sizes {
			fmt.Fprintf(&b, " %s%d", size, state.Inventory[player].Remaining(size))
		}
		b.WriteString("\n")
	}

	switch state.Status {
	case entity.StatusWon:
		fmt.Fprintf(&b, "%s %s wins\n", state.Winner, marks[state.Winner])
	case entity.StatusDraw:
		b.WriteString("draw\n")
	default:
		fmt.Fprintf(&b, "%s %s to move\n", state.Turn, marks[state.Turn])
	}

	that.printf("%s", b.String())
}

// renderCell - top piece as mark and size letter, the cell index when empty.
func renderCell(cell entity.Cell, index int) string {
	top, ok := cell.Top()
	if !ok {
		return fmt.Sprintf("  %d ", index)
	}

	depth := " "
	if cell.Height() > 1 {
		depth = strconv.Itoa(cell.Height())
	}

	return fmt.Sprintf(" %s%s%s", marks[top.Owner], top.Size, depth)
}

func parseCell(raw string) (int, error) {
	cell, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", entity.ErrInvalidCell, raw)
	}

	if err = entity.ValidCell(cell); err != nil {
		return 0, err
	}

	return cell, nil
}

func (that *Session) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Warn("failed to write output", "error", err)
	}
}
