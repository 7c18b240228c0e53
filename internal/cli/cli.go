package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"feature-inspector/internal/container"
	"feature-inspector/internal/domain/entity"
)

// ErrInspectionRejected деталь не прошла проверку при --fail-on-reject
var ErrInspectionRejected = errors.New("inspection rejected")

// BotRunner запускает Telegram-бота до отмены контекста
type BotRunner func(ctx context.Context) error

// Root общее состояние подкоманд
type Root struct {
	c   *container.Container
	bot BotRunner
}

// NewRootCmd creates the root Cobra command
func NewRootCmd(c *container.Container, bot BotRunner) *cobra.Command {
	root := &Root{c: c, bot: bot}

	rootCmd := &cobra.Command{
		Use:   "inspector",
		Short: "Feature inspector checks manufactured parts against four-corner templates",
		Long: `Feature inspector compares detected objects with a stored part template and
reports every feature as PASSED, DEVIATION_EXCEEDED, MISSING or EXTRA.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInspectCmd(root))
	rootCmd.AddCommand(newTemplateCmd(root))
	rootCmd.AddCommand(newRecordsCmd(root))
	rootCmd.AddCommand(newBotCmd(root))

	return rootCmd
}

func newBotCmd(root *Root) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root.bot == nil {
				return errors.New("telegram bot is not configured (TELEGRAM_TOKEN is empty)")
			}
			return root.bot(cmd.Context())
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseCorners разбирает "x1,y1,x2,y2,x3,y3,x4,y4" в порядке TL, TR, BR, BL
func parseCorners(s string) ([]entity.Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' || r == ' ' })
	if len(fields) != 8 {
		return nil, fmt.Errorf("expected 8 numbers for 4 corners, got %d", len(fields))
	}
	points := make([]entity.Point, 0, 4)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("corner %d x: %w", i/2, err)
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("corner %d y: %w", i/2, err)
		}
		points = append(points, entity.Pt(x, y))
	}
	return points, nil
}
