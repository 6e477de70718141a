package cmd

import (
	"fmt"
	"net/url"

	"github.com/jon4hz/loanwise/internal/config"
	"github.com/jon4hz/loanwise/internal/features"
	"github.com/jon4hz/loanwise/internal/model"
	"github.com/jon4hz/loanwise/internal/predict"
	"github.com/spf13/cobra"
)

var predictCmdFlags = map[string]*string{}

var predictCmdExplain bool

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict loan eligibility from the command line",
	Long:  `Run a single prediction with the configured model, without starting the web server.`,
	Example: `loanwise predict --gender male --married yes --dependents 2 --education graduate \
  --self_employed no --applicant_income 5000 --coapplicant_income 0 --loan_amount 128 \
  --loan_amount_term 360 --credit_history 1 --property_area urban`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
		if err != nil {
			return err
		}
		artifacts, err := model.LoadArtifacts(cfg.Model.Path, cfg.Model.ColumnsPath)
		if err != nil {
			return err
		}

		form := url.Values{}
		for _, field := range features.FormFields {
			if cmd.Flags().Changed(field) {
				form.Set(field, *predictCmdFlags[field])
			}
		}
		app, err := features.ParseForm(form)
		if err != nil {
			return err
		}

		result, err := predict.New(artifacts).Predict(cmd.Context(), app)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		if predictCmdExplain {
			fmt.Println("\nEncoded features:")
			for i, column := range result.Vector.Columns {
				fmt.Printf("  %s: %v\n", column, result.Vector.Values[i])
			}
		}
		return nil
	},
}

func init() {
	allowed := features.AllowedValues()
	for _, field := range features.FormFields {
		usage := "Loan application field " + field
		if values, ok := allowed[field]; ok {
			usage += fmt.Sprintf(" %v", values)
		}
		predictCmdFlags[field] = predictCmd.Flags().String(field, "", usage)
	}
	predictCmd.Flags().BoolVar(&predictCmdExplain, "explain", false, "Also print the encoded feature vector")
	rootCmd.AddCommand(predictCmd)
}
