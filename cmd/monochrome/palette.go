package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"monochrome/internal/config"
	"monochrome/internal/palette"
	"monochrome/internal/service"
	"monochrome/internal/store"
	"monochrome/internal/stylesheet"
	"monochrome/internal/ui"
)

// openService builds a service over the configured store. The caller
// closes the returned repository.
func openService(cfg *config.Config) (*service.Service, store.Repository, error) {
	repo, err := store.Open(cfg.StoreDriver, cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	renderer, err := stylesheet.NewRenderer(stylesheet.Scheme{Slug: cfg.SchemeSlug, Name: cfg.SchemeName})
	if err != nil {
		repo.Close()
		return nil, nil, err
	}
	return service.New(repo, renderer, nil), repo, nil
}

// paletteFor assembles from base, or picks a random base when it is empty
func paletteFor(base string) (palette.Palette, error) {
	if base == "" {
		return palette.Random(), nil
	}
	c, err := palette.Parse(strings.TrimSpace(base))
	if err != nil {
		return palette.Palette{}, fmt.Errorf("--base %q: %w", base, err)
	}
	return palette.Assemble(c), nil
}

func generateCmd() *cobra.Command {
	var base string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a palette for a random or given base color",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := paletteFor(base)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}

			ui.SetOutput(cmd.OutOrStdout())
			ui.PrintPalette("Palette", p)
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "base color as #rrggbb (random when empty)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the palette as JSON")
	return cmd
}

func cssCmd() *cobra.Command {
	var base, user string

	cmd := &cobra.Command{
		Use:   "css",
		Short: "Print the admin stylesheet for a base color or a stored user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			if user == "" {
				p, err := paletteFor(base)
				if err != nil {
					return err
				}
				renderer, err := stylesheet.NewRenderer(stylesheet.Scheme{Slug: cfg.SchemeSlug, Name: cfg.SchemeName})
				if err != nil {
					return err
				}
				css, err := renderer.Render(p)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), css)
				return nil
			}

			svc, repo, err := openService(cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			css, err := svc.Stylesheet(cmd.Context(), strings.ToLower(user))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), css)
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "base color as #rrggbb")
	cmd.Flags().StringVar(&user, "user", "", "render the stored palette of this user")
	cmd.MarkFlagsMutuallyExclusive("base", "user")
	return cmd
}

func resetCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget a user's palette so the next request generates a new one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, repo, err := openService(loadConfig())
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := svc.Reset(cmd.Context(), strings.ToLower(user)); err != nil {
				return err
			}
			ui.LogStatus("success", "Palette reset for "+user)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user whose palette to reset")
	cmd.MarkFlagRequired("user")
	return cmd
}
