package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
	"github.com/couchcryptid/rainwater-harvest-service/internal/estimator"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var errIncompleteForm = errors.New("estimate form is incomplete")

func formFlags(cmd *cobra.Command, form *domain.PropertyForm) {
	cmd.Flags().StringVarP(&form.RooftopArea, "rooftop-area", "r", "", "Rooftop area in m²")
	cmd.Flags().StringVarP(&form.Dwellers, "dwellers", "d", "", "Number of dwellers")
	cmd.Flags().StringVarP(&form.OpenSpace, "open-space", "o", "", "Open space area in m²")
	cmd.Flags().StringVarP(&form.Location, "location", "l", "", "Location code (see `rainwater regions`)")
}

// checkForm applies the rules the estimate form enforces before it allows
// submission: every field filled and a location from the selector.
func checkForm(form domain.PropertyForm) error {
	if !form.Complete() {
		return errIncompleteForm
	}
	if code := domain.ParseLocationCode(form.Location); !code.Known() {
		return fmt.Errorf("unknown location %q", form.Location)
	}
	return nil
}

func estimateCmd(a *app) *cobra.Command {
	var (
		form   domain.PropertyForm
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:         "estimate",
		Short:       "Estimate rainwater harvesting potential for a property",
		Annotations: page("/estimate"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkForm(form); err != nil {
				return err
			}
			if a.cfg.EstimateDelay > 0 && !asJSON {
				fmt.Fprintln(cmd.ErrOrStderr(), "Calculating...")
			}

			res, err := estimator.New(a.clock, a.cfg.EstimateDelay).Estimate(cmd.Context(), form)
			if err != nil {
				return err
			}
			a.logger.Debug("estimate computed",
				"rooftop_area", res.Input.RooftopArea,
				"structure", res.Estimate.RechargeStructure,
			)

			if asJSON {
				data, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), data)
			}
			writeResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	formFlags(cmd, &form)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func writeResult(w io.Writer, res estimator.Result) {
	est := res.Estimate
	writeCard(w, "Estimate Results",
		field{"Annual Runoff Volume:", fmt.Sprintf("%.0f liters/year", est.AnnualRunoffVolume)},
		field{"Recommended Structure:", est.RechargeStructure.DisplayName()},
		field{"Dimensions:", est.RecommendedDimensions},
		field{"Cost-Benefit:", res.CostBenefit},
	)
}

func submitCmd(a *app) *cobra.Command {
	var (
		form domain.PropertyForm
		file string
	)

	cmd := &cobra.Command{
		Use:         "submit",
		Short:       "Queue property submissions for the estimator pipeline",
		Annotations: page("/estimate"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var records []domain.SubmissionRecord
			if file != "" {
				var err error
				if records, err = readSubmissions(file); err != nil {
					return err
				}
			} else {
				if err := checkForm(form); err != nil {
					return err
				}
				records = []domain.SubmissionRecord{{PropertyForm: form}}
			}

			user, _ := a.session.User()
			for i := range records {
				if records[i].SubmissionID == "" {
					records[i].SubmissionID = uuid.NewString()
				}
				records[i].UserID = user.ID
			}

			if err := a.submitter.Submit(cmd.Context(), records...); err != nil {
				return err
			}
			a.logger.Info("submissions queued", "count", len(records), "topic", a.cfg.KafkaSourceTopic)
			for _, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s\n", rec.SubmissionID)
			}
			return nil
		},
	}

	formFlags(cmd, &form)
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file holding an array of submissions")
	return cmd
}

func readSubmissions(path string) ([]domain.SubmissionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read submissions: %w", err)
	}
	var records []domain.SubmissionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse submissions: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no submissions in %s", path)
	}
	return records, nil
}
