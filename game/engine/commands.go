package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCommand is returned when parsing a command name that is not in the command set
var ErrUnknownCommand = errors.New("unknown command")

// CommandType names one of the discrete inputs the engine understands
type CommandType string

const (
	CmdMoveLeft      CommandType = "MOVE_LEFT"
	CmdMoveRight     CommandType = "MOVE_RIGHT"
	CmdMoveDown      CommandType = "MOVE_DOWN"
	CmdSoftDrop      CommandType = "SOFT_DROP"
	CmdHardDrop      CommandType = "HARD_DROP"
	CmdRotate        CommandType = "ROTATE"
	CmdRotateCounter CommandType = "ROTATE_COUNTER"
	CmdHold          CommandType = "HOLD"
	CmdPause         CommandType = "PAUSE"
	CmdResume        CommandType = "RESUME"
	CmdTickTime      CommandType = "TICK_TIME"
	CmdNewGame       CommandType = "NEW_GAME"
	CmdRestartGame   CommandType = "RESTART_GAME"
	CmdUndoMove      CommandType = "UNDO_MOVE"
	CmdUpdateColors  CommandType = "UPDATE_COLORS"
)

var commandTypes = []CommandType{
	CmdMoveLeft, CmdMoveRight, CmdMoveDown, CmdSoftDrop, CmdHardDrop,
	CmdRotate, CmdRotateCounter, CmdHold, CmdPause, CmdResume, CmdTickTime,
	CmdNewGame, CmdRestartGame, CmdUndoMove, CmdUpdateColors,
}

// CommandTypes lists the full command set
func CommandTypes() []CommandType {
	return append([]CommandType(nil), commandTypes...)
}

// Command is one input. Mode is read by NEW_GAME (empty keeps the current mode) and Colors
// by UPDATE_COLORS.
type Command struct {
	Type   CommandType `json:"type"`
	Mode   GameMode    `json:"mode,omitempty"`
	Colors []Color     `json:"colors,omitempty"`
}

// Cmd builds a parameterless command
func Cmd(t CommandType) Command {
	return Command{Type: t}
}

// NewGame builds a NEW_GAME command for a mode
func NewGame(mode GameMode) Command {
	return Command{Type: CmdNewGame, Mode: mode}
}

// UpdateColors builds an UPDATE_COLORS command
func UpdateColors(colors []Color) Command {
	return Command{Type: CmdUpdateColors, Colors: copyColors(colors)}
}

// ParseCommandType accepts names case-insensitively, with '-' or ' ' in place of '_'
func ParseCommandType(s string) (CommandType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	for _, t := range commandTypes {
		if string(t) == normalized {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// ParseCommand parses a textual command such as "new_game marathon" or
// "update_colors #FF0000 #00FF00"
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}
	t, err := ParseCommandType(fields[0])
	if err != nil {
		return Command{}, err
	}
	cmd := Command{Type: t}
	args := fields[1:]
	switch t {
	case CmdNewGame:
		if len(args) > 0 {
			mode, err := ParseGameMode(args[0])
			if err != nil {
				return Command{}, err
			}
			cmd.Mode = mode
		}
	case CmdUpdateColors:
		for _, a := range args {
			cmd.Colors = append(cmd.Colors, Color(a))
		}
	}
	return cmd, nil
}
