package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medassist/config"
	"medassist/diagnosis"
	"medassist/medinfo"
	"medassist/pdftext"
)

func extractCmd() *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "extract <file.pdf>",
		Short: "Print the text and summarized sections of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := pdftext.New().ExtractText(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			sections := medinfo.Summarize(text)

			fmt.Println(text)
			fmt.Println("\nExtracted information:")
			for _, rec := range sections.Records() {
				fmt.Printf("%s: %s\n", rec.Label, rec.Value)
			}

			if csvPath == "" {
				return nil
			}
			f, err := os.Create(csvPath)
			if err != nil {
				return err
			}
			if err := medinfo.WriteCSV(f, sections); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("\nSections written to %s\n", csvPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the sections to this CSV file")
	return cmd
}

func diagnoseCmd() *cobra.Command {
	var symptoms string

	cmd := &cobra.Command{
		Use:   "diagnose <file.pdf>",
		Short: "Run the full diagnosis pipeline on a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			ctx := logger.WithContext(cmd.Context())

			if err := pdftext.CheckExtension(args[0]); err != nil {
				return err
			}
			out, err := newDiagnoser(cfg).Diagnose(ctx, diagnosis.Request{DocumentPath: args[0], Symptoms: symptoms})
			if err != nil {
				return err
			}

			fmt.Println("Generated output:")
			fmt.Println(out.Raw)
			fmt.Println("\nExtracted information:")
			fmt.Printf("Disease: %s\n", out.Result.Disease)
			fmt.Printf("Medicine: %s\n", out.Result.Medicine)
			fmt.Printf("Directions: %s\n", out.Result.Directions)
			if out.Fallback {
				fmt.Println("\n(model output could not be interpreted; showing the default recommendation)")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&symptoms, "symptoms", "", "current symptoms, e.g. \"fever, cough\"")
	cmd.MarkFlagRequired("symptoms")
	return cmd
}
