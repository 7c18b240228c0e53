package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	app "feature-inspector/internal/application"
	"feature-inspector/internal/domain/entity"
)

func newInspectCmd(root *Root) *cobra.Command {
	var (
		strategy     string
		corners      string
		imagePath    string
		annotated    string
		asJSON       bool
		failOnReject bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <template_id> <detections.json>",
		Short: "Inspect one part from a detections file",
		Long: `Reads a JSON file with "detections" (and optionally "corners" and "strategy"),
matches it against the stored template and prints the verdict.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			req, err := app.ParseInspectionRequest(data)
			if err != nil {
				return err
			}
			req.TemplateID = args[0]

			if strategy != "" {
				s, ok := entity.ParseMatchStrategy(strategy)
				if !ok {
					return fmt.Errorf("unknown strategy %q (TOPOLOGY, COORDINATE, CROP_AREA)", strategy)
				}
				req.Strategy = s
			}
			if corners != "" {
				if req.Corners, err = parseCorners(corners); err != nil {
					return err
				}
			}

			record, err := root.c.InspectionService.Inspect(cmd.Context(), req)
			if err != nil {
				return err
			}

			if imagePath != "" && annotated != "" {
				img, err := os.ReadFile(imagePath)
				if err != nil {
					return err
				}
				out, err := root.c.InspectionService.Annotate(cmd.Context(), img, record.Result)
				if err != nil {
					return fmt.Errorf("annotate: %w", err)
				}
				if err := os.WriteFile(annotated, out, 0o644); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(w, record); err != nil {
					return err
				}
			} else {
				printResult(w, record)
			}

			if failOnReject && !record.Passed {
				return ErrInspectionRejected
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Match strategy: TOPOLOGY, COORDINATE or CROP_AREA (default from MATCH_STRATEGY)")
	cmd.Flags().StringVar(&corners, "corners", "", "Detected corners x1,y1,...,x4,y4 (TL, TR, BR, BL); overrides the file")
	cmd.Flags().StringVar(&imagePath, "image", "", "Part image to annotate")
	cmd.Flags().StringVar(&annotated, "annotated", "", "Where to write the annotated JPEG (requires --image)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full inspection record as JSON")
	cmd.Flags().BoolVar(&failOnReject, "fail-on-reject", false, "Exit with an error when the part is rejected")

	return cmd
}

func printResult(w io.Writer, record *entity.InspectionRecord) {
	r := record.Result
	fmt.Fprintf(w, "%s\n", r.Message)
	fmt.Fprintf(w, "record=%s template=%s strategy=%s time=%dms\n", record.ID, r.TemplateID, r.MatchStrategy, r.ProcessingTimeMs)
	for _, c := range r.Comparisons {
		switch c.Status {
		case entity.StatusExtra:
			fmt.Fprintf(w, "  %-18s class=%d", c.Status, c.ClassID)
			if c.DetectedPosition != nil {
				fmt.Fprintf(w, " at (%.1f, %.1f)", c.DetectedPosition.X, c.DetectedPosition.Y)
			}
			if c.ExpectedFeatureName != "" {
				fmt.Fprintf(w, " nearest=%s", c.ExpectedFeatureName)
			}
		case entity.StatusMissing:
			fmt.Fprintf(w, "  %-18s %s", c.Status, c.FeatureID)
			if c.ExpectedPosition != nil {
				fmt.Fprintf(w, " expected (%.1f, %.1f)", c.ExpectedPosition.X, c.ExpectedPosition.Y)
			}
		default:
			fmt.Fprintf(w, "  %-18s %s dx=%.2f dy=%.2f tol=%.2f/%.2f", c.Status, c.FeatureID, c.XError, c.YError, c.ToleranceX, c.ToleranceY)
		}
		fmt.Fprintln(w)
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
