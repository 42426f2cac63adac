package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stake-plus/govtool/src/metadata"
	"github.com/stake-plus/govtool/src/registration"
)

func newMetadataCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Generate and validate DRep metadata",
	}
	cmd.AddCommand(newMetadataGenerateCommand())
	cmd.AddCommand(newMetadataValidateCommand())
	return cmd
}

func newMetadataGenerateCommand() *cobra.Command {
	var (
		values = registration.DefaultRegisterAsDRepValues()
		links  []string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a DRep metadata document and print its hash",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			for _, l := range links {
				values.Links = append(values.Links, registration.Link{Link: l})
			}
			if err := values.Validate(); err != nil {
				return err
			}
			canon, err := metadata.NewCanonicalizer(cfg.Registration.Canonicalization, nil)
			if err != nil {
				return err
			}
			doc, err := metadata.NewGenerator(canon).Generate(values.Profile())
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, metadata.FileName(values.DRepName))
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := metadata.Download(f, doc.JSONLD); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "file: %s\nhash: %s\ncanonicalization: %s\n", path, doc.Hash, canon.Name())
			return nil
		},
	}
	cmd.Flags().StringVar(&values.DRepName, "name", "", "DRep name (required)")
	cmd.Flags().StringVar(&values.Bio, "bio", "", "short biography")
	cmd.Flags().StringVar(&values.Email, "email", "", "contact email")
	cmd.Flags().StringSliceVar(&links, "link", nil, "reference link, repeatable")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newMetadataValidateCommand() *cobra.Command {
	var url, hash string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a hosted metadata document matches a hash",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			canon, err := metadata.NewCanonicalizer(cfg.Registration.Canonicalization, nil)
			if err != nil {
				return err
			}
			v := metadata.NewValidator(canon, cfg.Registration.HTTPTimeout, cfg.Registration.FetchAttempts, logger)
			if err := v.Validate(cmd.Context(), url, hash); err != nil {
				if kind, ok := metadata.KindOf(err); ok {
					if m, ok := registration.ErrorModal(kind); ok {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s\n%s\n", m.Title, m.Message)
					}
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "metadata matches")
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "URL of the hosted document")
	cmd.Flags().StringVar(&hash, "hash", "", "expected blake2b-256 hash")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
