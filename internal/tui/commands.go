package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

// ActionKind says what a typed line asks the UI to do.
type ActionKind int

const (
	ActionCommand ActionKind = iota
	ActionChoice
	ActionDone
	ActionUndo
	ActionSave
	ActionQuit
	ActionHelp
)

// Action is one parsed input line.
type Action struct {
	Kind    ActionKind
	Command sengoku.Command
	Choice  sengoku.EventAnswer
	Path    string
}

var errUsage = errors.New("usage")

// verbs maps the short names typed at the prompt to command kinds.
var verbs = map[string]string{
	"cultivate":     sengoku.KindCultivate,
	"town":          sengoku.KindDevelopTown,
	"develop_town":  sengoku.KindDevelopTown,
	"flood":         sengoku.KindFloodControl,
	"flood_control": sengoku.KindFloodControl,
	"give_rice":     sengoku.KindGiveRice,
	"give":          sengoku.KindGiveRice,
	"train":         sengoku.KindTrain,
	"tax":           sengoku.KindSetTax,
	"set_tax":       sengoku.KindSetTax,
	"transfer":      sengoku.KindTransfer,
	"assign":        sengoku.KindAssignGeneral,
	"hire":          sengoku.KindHireGeneral,
	"sell":          sengoku.KindSellRice,
	"buy":           sengoku.KindBuyRice,
	"ally":          sengoku.KindProposeAlliance,
	"pact":          sengoku.KindProposeNonAggress,
	"war":           sengoku.KindDeclareWar,
	"gift":          sengoku.KindSendGift,
	"marry":         sengoku.KindArrangeMarriage,
	"recruit":       sengoku.KindRecruit,
	"attack":        sengoku.KindAttack,
}

// usage lists the argument shape per command kind, shown on errors and by
// the help screen.
var usage = map[string]string{
	sengoku.KindCultivate:         "cultivate <province>",
	sengoku.KindDevelopTown:       "town <province>",
	sengoku.KindFloodControl:      "flood <province>",
	sengoku.KindGiveRice:          "give_rice <province>",
	sengoku.KindTrain:             "train <province>",
	sengoku.KindSetTax:            "tax <province> <rate>",
	sengoku.KindTransfer:          "transfer <soldiers|gold|rice> <from> <to> <amount>",
	sengoku.KindAssignGeneral:     "assign <province> <general>",
	sengoku.KindHireGeneral:       "hire <province> <general>",
	sengoku.KindSellRice:          "sell <province> <amount>",
	sengoku.KindBuyRice:           "buy <province> <amount>",
	sengoku.KindProposeAlliance:   "ally <lord>",
	sengoku.KindProposeNonAggress: "pact <lord>",
	sengoku.KindDeclareWar:        "war <lord>",
	sengoku.KindSendGift:          "gift <lord>",
	sengoku.KindArrangeMarriage:   "marry <lord>",
	sengoku.KindRecruit:           "recruit <province> <amount>",
	sengoku.KindAttack:            "attack <from> <to> <amount|ratio> [general]",
}

// HelpText is the command reference shown by "help".
func HelpText() string {
	order := []string{
		sengoku.KindCultivate, sengoku.KindDevelopTown, sengoku.KindFloodControl,
		sengoku.KindGiveRice, sengoku.KindTrain, sengoku.KindSetTax, sengoku.KindTransfer,
		sengoku.KindAssignGeneral, sengoku.KindHireGeneral, sengoku.KindSellRice,
		sengoku.KindBuyRice, sengoku.KindProposeAlliance, sengoku.KindProposeNonAggress,
		sengoku.KindDeclareWar, sengoku.KindSendGift, sengoku.KindArrangeMarriage,
		sengoku.KindRecruit, sengoku.KindAttack,
	}
	var b strings.Builder
	for _, k := range order {
		b.WriteString("  " + usage[k] + "\n")
	}
	b.WriteString("  choose <province> <choice>\n")
	b.WriteString("  undo | done | /save <file> | /quit")
	return b.String()
}

// ParseLine turns one prompt line into an Action. Command lines are fully
// validated so mistakes surface before the turn is submitted.
func ParseLine(line string) (Action, error) {
	f := strings.Fields(strings.TrimSpace(line))
	if len(f) == 0 {
		return Action{}, errors.New("empty command")
	}
	verb := strings.ToLower(f[0])
	args := f[1:]

	switch verb {
	case "done", "end":
		return Action{Kind: ActionDone}, nil
	case "undo":
		return Action{Kind: ActionUndo}, nil
	case "help", "?":
		return Action{Kind: ActionHelp}, nil
	case "/quit", "quit":
		return Action{Kind: ActionQuit}, nil
	case "/save":
		if len(args) != 1 {
			return Action{}, errors.New("usage: /save <file>")
		}
		return Action{Kind: ActionSave, Path: args[0]}, nil
	case "choose":
		if len(args) != 2 {
			return Action{}, errors.New("usage: choose <province> <choice>")
		}
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return Action{}, fmt.Errorf("bad province %q", args[0])
		}
		return Action{Kind: ActionChoice, Choice: sengoku.EventAnswer{ProvinceID: p, ChoiceID: args[1]}}, nil
	}

	kind, ok := verbs[verb]
	if !ok {
		return Action{}, fmt.Errorf("unknown command %q (try help)", verb)
	}
	in, err := envelope(kind, args)
	if err != nil {
		if errors.Is(err, errUsage) {
			return Action{}, fmt.Errorf("usage: %s", usage[kind])
		}
		return Action{}, err
	}
	cmd, err := sengoku.ParseCommand(in)
	if err != nil {
		return Action{}, err
	}
	return Action{Kind: ActionCommand, Command: cmd}, nil
}

func envelope(kind string, args []string) (sengoku.CommandInput, error) {
	in := sengoku.CommandInput{Type: kind}
	ints := func(want int) ([]int, error) {
		if len(args) != want {
			return nil, errUsage
		}
		out := make([]int, want)
		for i, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return nil, fmt.Errorf("%q is not a number", a)
			}
			out[i] = n
		}
		return out, nil
	}

	switch kind {
	case sengoku.KindCultivate, sengoku.KindDevelopTown, sengoku.KindFloodControl,
		sengoku.KindGiveRice, sengoku.KindTrain:
		n, err := ints(1)
		if err != nil {
			return in, err
		}
		in.ProvinceID = n[0]

	case sengoku.KindSetTax:
		n, err := ints(2)
		if err != nil {
			return in, err
		}
		in.ProvinceID, in.Rate = n[0], n[1]

	case sengoku.KindTransfer:
		if len(args) != 4 {
			return in, errUsage
		}
		in.Resource = strings.ToLower(args[0])
		args = args[1:]
		n, err := ints(3)
		if err != nil {
			return in, err
		}
		in.ProvinceID, in.TargetID, in.Amount = n[0], n[1], n[2]

	case sengoku.KindAssignGeneral, sengoku.KindHireGeneral:
		n, err := ints(2)
		if err != nil {
			return in, err
		}
		in.ProvinceID, in.GeneralID = n[0], n[1]

	case sengoku.KindSellRice, sengoku.KindBuyRice, sengoku.KindRecruit:
		n, err := ints(2)
		if err != nil {
			return in, err
		}
		in.ProvinceID, in.Amount = n[0], n[1]

	case sengoku.KindProposeAlliance, sengoku.KindProposeNonAggress, sengoku.KindDeclareWar,
		sengoku.KindSendGift, sengoku.KindArrangeMarriage:
		n, err := ints(1)
		if err != nil {
			return in, err
		}
		in.LordID = n[0]

	case sengoku.KindAttack:
		if len(args) != 3 && len(args) != 4 {
			return in, errUsage
		}
		force := args[2]
		general := args[3:]
		args = args[:2]
		n, err := ints(2)
		if err != nil {
			return in, err
		}
		in.ProvinceID, in.TargetID = n[0], n[1]
		// A value of at most 1 is a share of the garrison, anything larger
		// is a head count.
		x, err := strconv.ParseFloat(force, 64)
		if err != nil {
			return in, fmt.Errorf("%q is not a number", force)
		}
		if x <= 1 {
			in.Ratio = x
		} else {
			in.Amount = int(x)
		}
		if len(general) == 1 {
			g, err := strconv.Atoi(general[0])
			if err != nil {
				return in, fmt.Errorf("%q is not a general", general[0])
			}
			in.GeneralID = g
		}
	}
	return in, nil
}

// Orders accumulates one turn's commands from the prompt.
type Orders struct {
	queued []Action
}

// Add queues a parsed command or event choice.
func (o *Orders) Add(a Action) error {
	switch a.Kind {
	case ActionChoice:
	case ActionCommand:
		switch a.Command.(type) {
		case sengoku.InternalCommand, sengoku.MilitaryCommand:
		default:
			return fmt.Errorf("cannot queue %s", a.Command.Kind())
		}
	default:
		return errors.New("not an order")
	}
	o.queued = append(o.queued, a)
	return nil
}

// Undo drops the most recently queued order. It reports false when nothing
// was queued.
func (o *Orders) Undo() bool {
	if len(o.queued) == 0 {
		return false
	}
	o.queued = o.queued[:len(o.queued)-1]
	return true
}

// Len is the number of queued orders.
func (o *Orders) Len() int { return len(o.queued) }

// Lines describes the queued orders in submission order.
func (o *Orders) Lines() []string {
	out := make([]string, 0, len(o.queued))
	for _, a := range o.queued {
		if a.Kind == ActionChoice {
			out = append(out, fmt.Sprintf("choose %s in province %d", a.Choice.ChoiceID, a.Choice.ProvinceID))
			continue
		}
		out = append(out, describe(a.Command))
	}
	return out
}

// Commands returns the queued orders as a resume value and clears the queue.
func (o *Orders) Commands() *sengoku.PlayerCommands {
	cmds := &sengoku.PlayerCommands{}
	for _, a := range o.queued {
		switch {
		case a.Kind == ActionChoice:
			cmds.EventChoices = append(cmds.EventChoices, a.Choice)
		default:
			switch c := a.Command.(type) {
			case sengoku.InternalCommand:
				cmds.Internal = append(cmds.Internal, c)
			case sengoku.MilitaryCommand:
				cmds.Military = append(cmds.Military, c)
			}
		}
	}
	o.queued = nil
	return cmds
}

func describe(c sengoku.Command) string {
	in := sengoku.EncodeCommand(c)
	var b strings.Builder
	b.WriteString(in.Type)
	if in.ProvinceID != 0 {
		fmt.Fprintf(&b, " province=%d", in.ProvinceID)
	}
	if in.TargetID != 0 {
		fmt.Fprintf(&b, " target=%d", in.TargetID)
	}
	if in.LordID != 0 {
		fmt.Fprintf(&b, " lord=%d", in.LordID)
	}
	if in.GeneralID != 0 {
		fmt.Fprintf(&b, " general=%d", in.GeneralID)
	}
	if in.Amount != 0 {
		fmt.Fprintf(&b, " amount=%d", in.Amount)
	}
	if in.Ratio != 0 {
		fmt.Fprintf(&b, " ratio=%.2f", in.Ratio)
	}
	if in.Rate != 0 {
		fmt.Fprintf(&b, " rate=%d%%", in.Rate)
	}
	return b.String()
}
