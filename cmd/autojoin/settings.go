package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/entrhq/autojoin/pkg/config"
)

const redacted = "<redacted>"

func newSettingsCmd(root *rootOptions, deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Open the settings window",
		Long: "Settings opens an interactive window to edit the meeting, toggle the " +
			"appearance and start a join with the stored settings.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := root.manager()
			if err != nil {
				return err
			}
			joinRequested, err := deps.Settings(manager)
			if err != nil || !joinRequested {
				return err
			}
			return runJoin(cmd.Context(), cmd.OutOrStdout(), manager, &joinOptions{}, config.Overrides{}, deps)
		},
	}
}

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect stored settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored settings with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := root.manager()
			if err != nil {
				return err
			}
			out, err := renderSettings(manager)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configPath
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	})

	return cmd
}

// renderSettings renders every section as YAML, in registration order.
func renderSettings(manager *config.Manager) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, section := range manager.GetSections() {
		data := section.Data()
		if v, ok := data["user_password"].(string); ok && v != "" {
			data["user_password"] = redacted
		}

		var value yaml.Node
		if err := value.Encode(data); err != nil {
			return "", fmt.Errorf("failed to render %s settings: %w", section.ID(), err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: section.ID()},
			&value,
		)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to render settings: %w", err)
	}
	return string(out), nil
}
